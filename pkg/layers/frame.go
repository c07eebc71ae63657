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

package layers

import (
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// FrameLayerNum identifies the layer
	FrameLayerNum = 2001

	// HeaderSize is the fixed frame header length:
	// source (1B), reserved (1B), sample count (2B), timestamp (8B)
	HeaderSize = 12

	// MaxChunkSamples is the maximum number of 16-bit samples carried
	// by a single frame. Larger batches are split into several frames,
	// each self-contained with its own timestamp.
	MaxChunkSamples = 16000
)

type Source uint8

const (
	SourceAudio Source = 0
	SourceADC   Source = 1
)

// Header is the wire-level frame header. All fields are little-endian.
type Header struct {
	Source      Source
	Reserved    uint8
	SampleCount uint16
	// Timestamp is assigned by the producer at send time,
	// microseconds since epoch.
	Timestamp uint64
}

// FrameLayer is one header+payload unit of the telemetry stream.
type FrameLayer struct {
	layers.BaseLayer
	Header
	Samples []uint16
}

var FrameLayerType = gopacket.RegisterLayerType(FrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "FrameLayerType", Decoder: gopacket.DecodeFunc(DecodeFrameLayer)})

// LayerType returns the type of the frame layer in the layer catalog
func (f *FrameLayer) LayerType() gopacket.LayerType {
	return FrameLayerType
}

// DecodeHeader decodes the fixed 12-byte frame header. The caller must
// keep reading the transport until at least HeaderSize bytes are
// buffered, a shorter slice means the connection ended mid-header.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrMalformedHeader{Have: len(data)}
	}
	return &Header{
		Source:      Source(data[0]),
		Reserved:    data[1],
		SampleCount: binary.LittleEndian.Uint16(data[2:4]),
		Timestamp:   binary.LittleEndian.Uint64(data[4:12]),
	}, nil
}

// DecodePayload decodes sampleCount little-endian 16-bit words.
func DecodePayload(sampleCount uint16, data []byte) ([]uint16, error) {
	want := int(sampleCount) * 2
	if len(data) < want {
		return nil, ErrTruncatedPayload{Want: want, Have: len(data)}
	}
	samples := make([]uint16, sampleCount)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(data[2*i : 2*i+2])
	}
	return samples, nil
}

// Serialize encodes the header into buf which must be at least
// HeaderSize bytes long.
func (h *Header) Serialize(buf []byte) {
	buf[0] = uint8(h.Source)
	buf[1] = h.Reserved
	binary.LittleEndian.PutUint16(buf[2:4], h.SampleCount)
	binary.LittleEndian.PutUint64(buf[4:12], h.Timestamp)
}

// SerializeTo serializes the frame into bytes and writes the bytes to
// the SerializeBuffer
func (f *FrameLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	f.SampleCount = uint16(len(f.Samples))
	buf, err := b.AppendBytes(HeaderSize + 2*len(f.Samples))
	if err != nil {
		return err
	}
	f.Header.Serialize(buf[0:HeaderSize])
	for i, s := range f.Samples {
		binary.LittleEndian.PutUint16(buf[HeaderSize+2*i:HeaderSize+2*i+2], s)
	}
	return nil
}

func (f *FrameLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	header, err := DecodeHeader(data)
	if err != nil {
		df.SetTruncated()
		return err
	}
	samples, err := DecodePayload(header.SampleCount, data[HeaderSize:])
	if err != nil {
		df.SetTruncated()
		return err
	}
	f.BaseLayer = layers.BaseLayer{
		Contents: data[0:HeaderSize],
		Payload:  data[HeaderSize:],
	}
	f.Header = *header
	f.Samples = samples
	return nil
}

func DecodeFrameLayer(data []byte, p gopacket.PacketBuilder) error {
	f := &FrameLayer{}
	err := f.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(f)
	return nil
}

// Chunks splits a sample batch into successive chunks of at most
// MaxChunkSamples samples. The slices alias the input.
func Chunks(samples []uint16) [][]uint16 {
	var chunks [][]uint16
	for len(samples) > MaxChunkSamples {
		chunks = append(chunks, samples[:MaxChunkSamples])
		samples = samples[MaxChunkSamples:]
	}
	if len(samples) > 0 {
		chunks = append(chunks, samples)
	}
	return chunks
}
