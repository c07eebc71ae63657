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

package record

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/murmurlab/go-murmur/pkg/command"
	"github.com/murmurlab/go-murmur/pkg/config"
)

func NewStatusCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recording service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			status, err := apiClient.Status()
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recording: %t\n", status.Recording)
			if status.Recording {
				fmt.Fprintf(out, "Session: %s\n", status.Session)
				fmt.Fprintf(out, "Records: %d\n", status.Records)
			}
			fmt.Fprintf(out, "Throughput: %.1f B/s\n", status.BytesPerSecond)
			return nil
		},
	}
	return cmd
}
