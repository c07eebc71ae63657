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

package receive

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/murmurlab/go-murmur/pkg/command"
	"github.com/murmurlab/go-murmur/pkg/config"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
	StoreOptionName   = "store"
)

// NewCommand creates a cobra command object for running the recording
// service
func NewCommand() *cobra.Command {
	var address, store string
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Connect to the device and run the recording service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.DeviceAddress = address
			}
			if port != 0 {
				cfg.DevicePort = port
			}
			if store != "" {
				cfg.StorePath = store
			}
			return command.StartService(cfg)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("Device address. E.g. %s", config.DefaultDeviceAddress))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Device port. E.g. %d", config.DefaultDevicePort))
	cmd.Flags().StringVar(&store, StoreOptionName, "", "Path to the recordings database")

	return cmd
}
