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

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/mux"
)

func TestRecordCodecRoundTrip(t *testing.T) {
	r := &Record{
		LocalTS:  1693400000.25,
		DataTS:   1693400000.5,
		Source:   layers.SourceADC,
		Channels: "ch0:2, ch1:1",
		Data:     []int16{10, 3, 5},
	}
	decoded, err := decodeRecord(encodeRecord(r))
	require.NoError(t, err)
	assert.Equal(t, r, decoded)
}

func TestRecordCodecNegativeData(t *testing.T) {
	r := &Record{
		Source: layers.SourceAudio,
		Data:   []int16{-32768, -1, 0, 1, 32767},
	}
	decoded, err := decodeRecord(encodeRecord(r))
	require.NoError(t, err)
	assert.Equal(t, r.Data, decoded.Data)
}

func TestRecordCodecTruncated(t *testing.T) {
	r := &Record{
		Source:   layers.SourceADC,
		Channels: "ch0:1",
		Data:     []int16{1},
	}
	buf := encodeRecord(r)

	_, err := decodeRecord(buf[:10])
	require.Error(t, err)
	assert.IsType(t, ErrRecordCodec{}, err)

	_, err = decodeRecord(buf[:len(buf)-1])
	require.Error(t, err)
	assert.IsType(t, ErrRecordCodec{}, err)
}

func TestNewADCRecord(t *testing.T) {
	r := NewADCRecord(1.5, map[mux.ChannelNum][]uint16{
		1: {5},
		0: {10, 3},
	})
	assert.Equal(t, layers.SourceADC, r.Source)
	assert.Equal(t, "ch0:2, ch1:1", r.Channels)
	assert.Equal(t, []int16{10, 3, 5}, r.Data)
	assert.Equal(t, 1.5, r.DataTS)
	assert.Zero(t, r.LocalTS)
}

func TestNewAudioRecord(t *testing.T) {
	r := NewAudioRecord(2.5, []int16{-1, 0, 1})
	assert.Equal(t, layers.SourceAudio, r.Source)
	assert.Empty(t, r.Channels)
	assert.Equal(t, []int16{-1, 0, 1}, r.Data)
}
