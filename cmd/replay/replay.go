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

package replay

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/replay"
	"github.com/murmurlab/go-murmur/pkg/store"
)

const (
	ListenOptionName  = "listen"
	PortOptionName    = "port"
	SessionOptionName = "session"
	StoreOptionName   = "store"
)

// NewCommand creates a cobra command object for replaying a recorded
// session over the wire protocol
func NewCommand() *cobra.Command {
	var listen, session, storePath string
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded session at the original cadence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				cfg.ReplayAddress = listen
			}
			if port != 0 {
				cfg.ReplayPort = port
			}
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

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := replay.NewEngine(cfg)
			return engine.Serve(ctx, records)
		},
	}
	cmd.Flags().StringVar(&listen, ListenOptionName, "", fmt.Sprintf("Address to listen on. E.g. %s", config.DefaultReplayAddress))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Port to listen on. E.g. %d", config.DefaultReplayPort))
	cmd.Flags().StringVar(&session, SessionOptionName, "", "Session to replay")
	cmd.Flags().StringVar(&storePath, StoreOptionName, "", "Path to the recordings database")

	return cmd
}
