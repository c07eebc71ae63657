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

const (
	ConfigDir  = ".go-murmur"
	ConfigFile = "config"
	StoreFile  = "recordings.db"

	DefaultDeviceAddress = "192.168.4.1"
	DefaultDevicePort    = 5000
	DefaultApiAddress    = "127.0.0.1"
	DefaultApiPort       = 8001
	DefaultReplayAddress = "0.0.0.0"
	DefaultReplayPort    = 5000
	DefaultSession       = "records"
	// Nominal sampling rates of the device, samples per second.
	// The microphone runs at 48 kS/s, the ADC scan at 16 kS/s.
	DefaultAudioRate      = 48000
	DefaultADCRate        = 16000
	DefaultReadTimeoutSec = 5
	DefaultLogLevel       = "info"
)
