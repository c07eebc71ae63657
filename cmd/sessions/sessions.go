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

package sessions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/store"
)

const (
	StoreOptionName = "store"
)

// NewCommand creates a cobra command object for listing recorded
// sessions
func NewCommand() *cobra.Command {
	var storePath string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if storePath != "" {
				cfg.StorePath = storePath
			}
			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.Sessions()
			if err != nil {
				return err
			}
			for _, session := range sessions {
				fmt.Fprintln(cmd.OutOrStdout(), session)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, StoreOptionName, "", "Path to the recordings database")

	return cmd
}
