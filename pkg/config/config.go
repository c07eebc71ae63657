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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sigs.k8s.io/yaml"
)

type Config struct {
	// DeviceAddress/DevicePort is where the sensing device serves its
	// telemetry stream.
	DeviceAddress string `json:"device_address,omitempty"`
	DevicePort    int    `json:"device_port,omitempty"`
	// ApiAddress/ApiPort is where the recording service exposes its
	// control API.
	ApiAddress string `json:"api_address,omitempty"`
	ApiPort    int    `json:"api_port,omitempty"`
	// ReplayAddress/ReplayPort is where the replay engine listens,
	// playing the device role.
	ReplayAddress string `json:"replay_address,omitempty"`
	ReplayPort    int    `json:"replay_port,omitempty"`

	StorePath string `json:"store_path,omitempty"`
	Session   string `json:"session,omitempty"`

	AudioRate      int `json:"audio_rate,omitempty"`
	ADCRate        int `json:"adc_rate,omitempty"`
	ReadTimeoutSec int `json:"read_timeout_sec,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = os.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the config file if it exists. A missing file is not an
// error, the defaults stay in effect.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) DeviceAddr() string {
	return fmt.Sprintf("%s:%d", c.DeviceAddress, c.DevicePort)
}

func (c *Config) ApiAddr() string {
	return fmt.Sprintf("%s:%d", c.ApiAddress, c.ApiPort)
}

func (c *Config) ReplayAddr() string {
	return fmt.Sprintf("%s:%d", c.ReplayAddress, c.ReplayPort)
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, StoreFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		DeviceAddress:  DefaultDeviceAddress,
		DevicePort:     DefaultDevicePort,
		ApiAddress:     DefaultApiAddress,
		ApiPort:        DefaultApiPort,
		ReplayAddress:  DefaultReplayAddress,
		ReplayPort:     DefaultReplayPort,
		StorePath:      DefaultStorePath(),
		Session:        DefaultSession,
		AudioRate:      DefaultAudioRate,
		ADCRate:        DefaultADCRate,
		ReadTimeoutSec: DefaultReadTimeoutSec,
		LogLevel:       DefaultLogLevel,
		filepath:       DefaultConfigPath(),
	}
}
