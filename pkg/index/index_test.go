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

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/store"
)

func adcRecord(dataTS float64, channels string, data []int16) store.Record {
	return store.Record{
		DataTS:   dataTS,
		Source:   layers.SourceADC,
		Channels: channels,
		Data:     data,
	}
}

func TestProcessSplitsChannels(t *testing.T) {
	records := []store.Record{
		adcRecord(1.0, "ch0:2, ch1:1", []int16{10, 3, 5}),
	}
	audio, adc, warnings := Process(records)
	assert.Empty(t, audio)
	assert.Empty(t, warnings)
	require.Len(t, adc, 2)
	assert.Equal(t, []int16{10, 3}, adc[0])
	assert.Equal(t, []int16{5}, adc[1])
}

func TestProcessConcatenatesAudio(t *testing.T) {
	records := []store.Record{
		store.NewAudioRecord(1.0, []int16{1, 2}),
		adcRecord(1.5, "ch0:1", []int16{7}),
		store.NewAudioRecord(2.0, []int16{3}),
	}
	audio, adc, warnings := Process(records)
	assert.Equal(t, []int16{1, 2, 3}, audio)
	assert.Equal(t, []int16{7}, adc[0])
	assert.Empty(t, warnings)
}

func TestProcessSkipsMalformedRecord(t *testing.T) {
	records := []store.Record{
		adcRecord(1.0, "ch0:2", []int16{10, 3}),
		adcRecord(2.0, "garbage", []int16{99}),
		adcRecord(3.0, "ch0:1", []int16{5}),
	}
	_, adc, warnings := Process(records)
	assert.Equal(t, []int16{10, 3, 5}, adc[0])
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Record)
	assert.Error(t, warnings[0].Err)
}

func TestProcessSkipsCountMismatch(t *testing.T) {
	records := []store.Record{
		// descriptor claims more samples than the record carries
		adcRecord(1.0, "ch0:5", []int16{1, 2}),
	}
	_, adc, warnings := Process(records)
	assert.Empty(t, adc)
	require.Len(t, warnings, 1)
}

func TestBoundaries(t *testing.T) {
	records := []store.Record{
		store.NewAudioRecord(1.0, []int16{1, 2, 3}),
		adcRecord(1.5, "ch0:2, ch1:1", []int16{10, 3, 5}),
		store.NewAudioRecord(2.0, []int16{4}),
		adcRecord(2.5, "ch0:1", []int16{7}),
	}
	audio, adc := Boundaries(records)

	require.Len(t, audio, 2)
	assert.Equal(t, 0, audio[0].Start)
	assert.Equal(t, 1.0, audio[0].DataTS)
	assert.Equal(t, 3, audio[1].Start)

	require.Len(t, adc[0], 2)
	assert.Equal(t, 0, adc[0][0].Start)
	assert.Equal(t, 2, adc[0][1].Start)
	require.Len(t, adc[1], 1)
	assert.Equal(t, 0, adc[1][0].Start)
}

func TestBoundariesSkipConsistentWithProcess(t *testing.T) {
	records := []store.Record{
		adcRecord(1.0, "ch0:2", []int16{10, 3}),
		adcRecord(2.0, "garbage", []int16{99}),
		adcRecord(3.0, "ch0:1", []int16{5}),
	}
	_, adcData, _ := Process(records)
	_, adcBounds := Boundaries(records)

	require.Len(t, adcBounds[0], 2)
	last := adcBounds[0][1]
	assert.Equal(t, 2, last.Start)
	// offsets derived from boundaries index into the processed array
	assert.Equal(t, int16(5), adcData[0][last.Start])
}

func TestNearest(t *testing.T) {
	boundaries := []Boundary{
		{Start: 0, DataTS: 1.0},
		{Start: 10, DataTS: 2.0},
		{Start: 20, DataTS: 3.0},
	}
	b, ok := Nearest(boundaries, 2.2)
	require.True(t, ok)
	assert.Equal(t, 10, b.Start)

	// ties resolve to the first occurrence
	b, ok = Nearest(boundaries, 1.5)
	require.True(t, ok)
	assert.Equal(t, 0, b.Start)
}

func TestNearestEmpty(t *testing.T) {
	_, ok := Nearest(nil, 1.0)
	assert.False(t, ok)
}
