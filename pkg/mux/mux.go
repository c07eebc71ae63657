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

// Package mux packs per-channel ADC samples into tagged 16-bit words
// and unpacks them back. One word carries the channel in the top
// nibble and a 12-bit sample value in the low bits, the format the
// device firmware emits on the wire.
package mux

import (
	"sort"
)

type ChannelNum uint8

const (
	MaxChannel ChannelNum = 15
	MaxValue   uint16     = 0x0FFF
)

// Word encodes one sample as (channel<<12)|(value&0xFFF). Values above
// the 12-bit ADC range are clipped, never wrapped.
func Word(ch ChannelNum, value uint16) uint16 {
	if value > MaxValue {
		value = MaxValue
	}
	return uint16(ch&0xF)<<12 | value
}

// SortedChannels returns the channel numbers of the mapping in
// ascending order.
func SortedChannels(samples map[ChannelNum][]uint16) []ChannelNum {
	channels := make([]ChannelNum, 0, len(samples))
	for ch := range samples {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}

// Mux packs the per-channel samples channel-major in ascending channel
// order and returns the words together with the matching layout
// descriptor.
func Mux(samples map[ChannelNum][]uint16) ([]uint16, Layout) {
	var words []uint16
	var layout Layout
	for _, ch := range SortedChannels(samples) {
		for _, v := range samples[ch] {
			words = append(words, Word(ch, v))
		}
		layout = append(layout, ChannelCount{Channel: ch, Count: len(samples[ch])})
	}
	return words, layout
}

// Demux splits tagged words back into per-channel sample sequences,
// preserving arrival order within a channel. An empty input yields an
// empty mapping.
func Demux(words []uint16) map[ChannelNum][]uint16 {
	samples := make(map[ChannelNum][]uint16)
	for _, w := range words {
		ch := ChannelNum(w>>12) & 0xF
		samples[ch] = append(samples[ch], w&MaxValue)
	}
	return samples
}

// Pack rebuilds the tagged words from a stored record, where the data
// is grouped into channel-contiguous runs described by the layout.
// This is the mux-like inverse used by the replay engine.
func Pack(layout Layout, data []int16) ([]uint16, error) {
	if layout.Total() != len(data) {
		return nil, ErrLayoutParse{Descriptor: layout.String(),
			What: "sample count does not match data length"}
	}
	words := make([]uint16, 0, len(data))
	idx := 0
	for _, cc := range layout {
		for _, v := range data[idx : idx+cc.Count] {
			if v < 0 {
				v = 0
			}
			words = append(words, Word(cc.Channel, uint16(v)))
		}
		idx += cc.Count
	}
	return words, nil
}
