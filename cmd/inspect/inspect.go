/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package inspect

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/index"
	"github.com/murmurlab/go-murmur/pkg/mux"
	"github.com/murmurlab/go-murmur/pkg/store"
)

const (
	SessionOptionName = "session"
	StoreOptionName   = "store"
	AtOptionName      = "at"
)

// NewCommand creates a cobra command object for inspecting a recorded
// session
func NewCommand() *cobra.Command {
	var session, storePath string
	var at float64
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a recorded session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if storePath != "" {
				cfg.StorePath = storePath
			}
			if session == "" {
				session = cfg.Session
			}

			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.ReadAll(session)
			if err != nil {
				return err
			}

			audio, adc, warnings := index.Process(records)
			audioBounds, adcBounds := index.Boundaries(records)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session: %s\n", session)
			fmt.Fprintf(out, "Records: %d\n", len(records))
			fmt.Fprintf(out, "Audio samples: %d\n", len(audio))
			for _, ch := range sortedSampleChannels(adc) {
				fmt.Fprintf(out, "ADC channel %d samples: %d\n", ch, len(adc[ch]))
			}
			if len(warnings) > 0 {
				fmt.Fprintf(out, "Skipped records: %d\n", len(warnings))
			}

			if cmd.Flags().Changed(AtOptionName) {
				if b, ok := index.Nearest(audioBounds, at); ok {
					fmt.Fprintf(out, "Nearest audio record: offset %d data_ts %.6f local_ts %.6f\n",
						b.Start, b.DataTS, b.LocalTS)
				}
				for _, ch := range sortedBoundChannels(adcBounds) {
					if b, ok := index.Nearest(adcBounds[ch], at); ok {
						fmt.Fprintf(out, "Nearest ADC channel %d record: offset %d data_ts %.6f local_ts %.6f\n",
							ch, b.Start, b.DataTS, b.LocalTS)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&session, SessionOptionName, "", "Session to inspect")
	cmd.Flags().StringVar(&storePath, StoreOptionName, "", "Path to the recordings database")
	cmd.Flags().Float64Var(&at, AtOptionName, 0, "Find the record nearest to this data timestamp, seconds")

	return cmd
}

func sortedSampleChannels(adc map[mux.ChannelNum][]int16) []mux.ChannelNum {
	channels := make([]mux.ChannelNum, 0, len(adc))
	for ch := range adc {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}

func sortedBoundChannels(adc map[mux.ChannelNum][]index.Boundary) []mux.ChannelNum {
	channels := make([]mux.ChannelNum, 0, len(adc))
	for ch := range adc {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}
