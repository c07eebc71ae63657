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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistLoadRoundTrip(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), "config")
	cfg.DeviceAddress = "10.0.0.7"
	cfg.Session = "morning"
	require.NoError(t, cfg.Persist(false))

	loaded := NewDefaultConfig()
	loaded.filepath = cfg.filepath
	require.NoError(t, loaded.Load())
	assert.Equal(t, "10.0.0.7", loaded.DeviceAddress)
	assert.Equal(t, "morning", loaded.Session)
}

func TestPersistRefusesOverwrite(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), "config")
	require.NoError(t, cfg.Persist(false))

	err := cfg.Persist(false)
	require.Error(t, err)
	assert.IsType(t, ErrConfigFileExists{}, err)

	require.NoError(t, cfg.Persist(true))
}

func TestLoadMissingFile(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), "config")
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultDeviceAddress, cfg.DeviceAddress)
}

func TestAddrHelpers(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.DeviceAddress = "192.168.4.1"
	cfg.DevicePort = 5000
	assert.Equal(t, "192.168.4.1:5000", cfg.DeviceAddr())

	cfg.ReadTimeoutSec = 5
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout())
}
