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

// Package index derives per-channel contiguous sample arrays and
// timestamp-indexed record boundaries from a stored record sequence.
// Everything here is recomputed from scratch on each load, a pure
// function of the record sequence.
package index

import (
	"math"

	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/log"
	"github.com/murmurlab/go-murmur/pkg/mux"
	"github.com/murmurlab/go-murmur/pkg/store"
)

// Warning reports a record whose ADC contribution was skipped because
// its channel layout descriptor could not be applied.
type Warning struct {
	Record int
	Err    error
}

// recordLayout validates a record's descriptor against its data and
// returns the layout, or the error that disqualifies the record.
func recordLayout(r *store.Record) (mux.Layout, error) {
	layout, err := mux.ParseLayout(r.Channels)
	if err != nil {
		return nil, err
	}
	if layout.Total() != len(r.Data) {
		return nil, mux.ErrLayoutParse{Descriptor: r.Channels,
			What: "sample count does not match data length"}
	}
	return layout, nil
}

// Process concatenates the record sequence into one audio array and
// one array per ADC channel, in record order. A record with a
// malformed descriptor contributes nothing at all, it is reported as a
// warning and skipped, never partially applied.
func Process(records []store.Record) ([]int16, map[mux.ChannelNum][]int16, []Warning) {
	var audio []int16
	adc := make(map[mux.ChannelNum][]int16)
	var warnings []Warning
	for i := range records {
		r := &records[i]
		switch r.Source {
		case layers.SourceAudio:
			audio = append(audio, r.Data...)
		case layers.SourceADC:
			layout, err := recordLayout(r)
			if err != nil {
				log.Warning("Skipping ADC record %d: %s", i, err)
				warnings = append(warnings, Warning{Record: i, Err: err})
				continue
			}
			idx := 0
			for _, cc := range layout {
				adc[cc.Channel] = append(adc[cc.Channel], r.Data[idx:idx+cc.Count]...)
				idx += cc.Count
			}
		}
	}
	return audio, adc, warnings
}

// Boundary maps a record to the offset in the concatenated array at
// which its contribution begins, paired with the record timestamps.
type Boundary struct {
	Start   int
	LocalTS float64
	DataTS  float64
}

// Boundaries walks the record sequence and captures, per source type
// and per ADC channel, the running start offset of every record.
// Per-channel offsets advance independently, a channel absent from a
// record does not move. Records skipped by Process are skipped here
// too so offsets stay consistent with the concatenated arrays.
func Boundaries(records []store.Record) ([]Boundary, map[mux.ChannelNum][]Boundary) {
	var audio []Boundary
	adc := make(map[mux.ChannelNum][]Boundary)
	audioOffset := 0
	adcOffsets := make(map[mux.ChannelNum]int)
	for i := range records {
		r := &records[i]
		switch r.Source {
		case layers.SourceAudio:
			audio = append(audio, Boundary{Start: audioOffset, LocalTS: r.LocalTS, DataTS: r.DataTS})
			audioOffset += len(r.Data)
		case layers.SourceADC:
			layout, err := recordLayout(r)
			if err != nil {
				continue
			}
			for _, cc := range layout {
				start := adcOffsets[cc.Channel]
				adc[cc.Channel] = append(adc[cc.Channel],
					Boundary{Start: start, LocalTS: r.LocalTS, DataTS: r.DataTS})
				adcOffsets[cc.Channel] = start + cc.Count
			}
		}
	}
	return audio, adc
}

// Nearest returns the boundary whose data timestamp is closest to the
// target, by linear scan. Ties resolve to the first occurrence. The
// second return value is false for an empty list.
func Nearest(boundaries []Boundary, targetTS float64) (Boundary, bool) {
	if len(boundaries) == 0 {
		return Boundary{}, false
	}
	best := boundaries[0]
	bestDiff := math.Abs(best.DataTS - targetTS)
	for _, b := range boundaries[1:] {
		diff := math.Abs(b.DataTS - targetTS)
		if diff < bestDiff {
			best = b
			bestDiff = diff
		}
	}
	return best, true
}
