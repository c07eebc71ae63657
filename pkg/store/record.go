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
	"encoding/binary"
	"math"

	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/mux"
)

// Record is one persisted unit: a batch of samples from one source.
// For audio the data is the raw sample sequence. For ADC the data is
// the per-channel samples concatenated in the order listed by the
// Channels descriptor, already demultiplexed to 12-bit magnitudes.
// Records are immutable once appended.
type Record struct {
	// LocalTS is assigned at persistence time, seconds since epoch.
	LocalTS float64
	// DataTS is the producer timestamp carried from the frame,
	// microseconds since epoch.
	DataTS   float64
	Source   layers.Source
	Channels string
	Data     []int16
}

// NewAudioRecord builds an audio record. LocalTS is left zero, the
// store writer fills it in when the record is persisted.
func NewAudioRecord(dataTS float64, samples []int16) Record {
	return Record{
		DataTS: dataTS,
		Source: layers.SourceAudio,
		Data:   samples,
	}
}

// NewADCRecord builds an ADC record from demultiplexed per-channel
// samples, concatenating them in ascending channel order.
func NewADCRecord(dataTS float64, channels map[mux.ChannelNum][]uint16) Record {
	var layout mux.Layout
	var data []int16
	for _, ch := range mux.SortedChannels(channels) {
		layout = append(layout, mux.ChannelCount{Channel: ch, Count: len(channels[ch])})
		for _, v := range channels[ch] {
			data = append(data, int16(v))
		}
	}
	return Record{
		DataTS:   dataTS,
		Source:   layers.SourceADC,
		Channels: layout.String(),
		Data:     data,
	}
}

// The value codec is little-endian throughout:
// localTS (8B) dataTS (8B) source (1B)
// channels length (2B) channels bytes
// data count (4B) data words (2B each)

func encodeRecord(r *Record) []byte {
	buf := make([]byte, 8+8+1+2+len(r.Channels)+4+2*len(r.Data))
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(r.LocalTS))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.DataTS))
	buf[16] = uint8(r.Source)
	binary.LittleEndian.PutUint16(buf[17:19], uint16(len(r.Channels)))
	offset := 19 + copy(buf[19:], r.Channels)
	binary.LittleEndian.PutUint32(buf[offset:offset+4], uint32(len(r.Data)))
	offset += 4
	for i, v := range r.Data {
		binary.LittleEndian.PutUint16(buf[offset+2*i:offset+2*i+2], uint16(v))
	}
	return buf
}

func decodeRecord(buf []byte) (*Record, error) {
	if len(buf) < 23 {
		return nil, ErrRecordCodec{What: "value shorter than the fixed record prefix"}
	}
	r := &Record{
		LocalTS: math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])),
		DataTS:  math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		Source:  layers.Source(buf[16]),
	}
	channelsLen := int(binary.LittleEndian.Uint16(buf[17:19]))
	if len(buf) < 19+channelsLen+4 {
		return nil, ErrRecordCodec{What: "value truncated inside channels descriptor"}
	}
	r.Channels = string(buf[19 : 19+channelsLen])
	offset := 19 + channelsLen
	count := int(binary.LittleEndian.Uint32(buf[offset : offset+4]))
	offset += 4
	if len(buf) < offset+2*count {
		return nil, ErrRecordCodec{What: "value truncated inside sample data"}
	}
	r.Data = make([]int16, count)
	for i := range r.Data {
		r.Data[i] = int16(binary.LittleEndian.Uint16(buf[offset+2*i : offset+2*i+2]))
	}
	return r, nil
}
