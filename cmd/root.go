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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/murmurlab/go-murmur/cmd/completion"
	"github.com/murmurlab/go-murmur/cmd/config"
	"github.com/murmurlab/go-murmur/cmd/inspect"
	"github.com/murmurlab/go-murmur/cmd/receive"
	"github.com/murmurlab/go-murmur/cmd/record"
	"github.com/murmurlab/go-murmur/cmd/replay"
	"github.com/murmurlab/go-murmur/cmd/sessions"
	pkgconfig "github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-murmur",
		Short: "Tool to record and replay MURMURATOR telemetry streams",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(receive.NewCommand())
	cmd.AddCommand(record.NewCommand())
	cmd.AddCommand(replay.NewCommand())
	cmd.AddCommand(inspect.NewCommand())
	cmd.AddCommand(sessions.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
