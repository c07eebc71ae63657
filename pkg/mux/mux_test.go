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

package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordClipsValue(t *testing.T) {
	assert.Equal(t, uint16(0x1FFF), Word(1, 0x2000))
	assert.Equal(t, uint16(0x1FFF), Word(1, 0xFFFF))
	assert.Equal(t, uint16(0x1ABC), Word(1, 0x0ABC))
}

func TestDemux(t *testing.T) {
	words := []uint16{0x000A, 0x1005, 0x0003}
	samples := Demux(words)
	require.Len(t, samples, 2)
	assert.Equal(t, []uint16{10, 3}, samples[0])
	assert.Equal(t, []uint16{5}, samples[1])
}

func TestDemuxEmpty(t *testing.T) {
	assert.Empty(t, Demux(nil))
}

func TestMuxDemuxRoundTrip(t *testing.T) {
	samples := map[ChannelNum][]uint16{
		0:  {10, 20, 30},
		3:  {4095},
		15: {0, 1},
	}
	words, layout := Mux(samples)
	require.Len(t, words, 6)
	assert.Equal(t, "ch0:3, ch3:1, ch15:2", layout.String())
	assert.Equal(t, samples, Demux(words))
}

func TestPack(t *testing.T) {
	layout := Layout{
		{Channel: 0, Count: 2},
		{Channel: 1, Count: 1},
	}
	words, err := Pack(layout, []int16{10, 3, 5})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x000A, 0x0003, 0x1005}, words)
}

func TestPackCountMismatch(t *testing.T) {
	layout := Layout{{Channel: 0, Count: 2}}
	_, err := Pack(layout, []int16{1})
	require.Error(t, err)
	assert.IsType(t, ErrLayoutParse{}, err)
}

func TestPackClipsNegative(t *testing.T) {
	layout := Layout{{Channel: 2, Count: 1}}
	words, err := Pack(layout, []int16{-5})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x2000}, words)
}
