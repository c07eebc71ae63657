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

package receiver

import (
	"context"
	"io"
	"math"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/log"
	"github.com/murmurlab/go-murmur/pkg/mux"
)

const (
	InChSize    = 100
	BatchChSize = 100
)

type State int

const (
	AwaitingHeader State = iota
	AwaitingPayload
	Delivered
)

// Batch is one decoded frame delivered to consumers. For audio the
// payload is the flat sample sequence, for ADC the demultiplexed
// channel mapping. Exactly one of Audio/ADC is set.
type Batch struct {
	Source layers.Source
	// Timestamp is the producer timestamp, microseconds since epoch.
	Timestamp uint64
	Audio     []int16
	ADC       map[mux.ChannelNum][]uint16
}

type InFrame struct {
	Data []byte
	gopacket.CaptureInfo
}

// PacketSource feeds complete frames read off the transport into the
// gopacket decode path.
type PacketSource struct {
	ChIn chan InFrame
}

func NewPacketSource() *PacketSource {
	return &PacketSource{
		ChIn: make(chan InFrame, InChSize),
	}
}

// ReadPacketData reads the input queue and returns frame data and
// metadata. This method is from the PacketDataSource interface.
func (ps *PacketSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	p, ok := <-ps.ChIn
	if !ok {
		return nil, gopacket.CaptureInfo{}, io.EOF
	}
	return p.Data, p.CaptureInfo, nil
}

// Receiver reads the device byte stream, decodes frames and emits
// batches on ChBatch. The socket read loop and the decode loop are
// separate goroutines joined by the packet source queue, so a slow
// consumer never stalls the transport read directly.
type Receiver struct {
	addr    string
	timeout time.Duration

	ChBatch chan Batch

	state State
	// bytes per second over the last accounting window, float64 bits
	bps uint64
}

func NewReceiver(cfg *config.Config) *Receiver {
	return &Receiver{
		addr:    cfg.DeviceAddr(),
		timeout: cfg.ReadTimeout(),
		ChBatch: make(chan Batch, BatchChSize),
	}
}

// BytesPerSecond reports the receive rate over the last accounting
// window.
func (r *Receiver) BytesPerSecond() float64 {
	return math.Float64frombits(atomic.LoadUint64(&r.bps))
}

// Run connects to the device and pumps batches until the context is
// cancelled or the connection fails. A closed or stalled transport is
// terminal, the caller owns reconnect policy.
func (r *Receiver) Run(ctx context.Context) error {
	log.Info("Connecting to device: %s", r.addr)
	dialer := &net.Dialer{Timeout: r.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	errChan := make(chan error, 2)
	source := NewPacketSource()

	// Read frames from wire and put them to input queue
	go func() {
		errChan <- r.readFrames(conn, source)
	}()

	// Read frames from input queue and decode them
	go func() {
		errChan <- r.decodeFrames(source)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err = <-errChan:
		return err
	}
}

// readFrames drives the wire state machine:
// AwaitingHeader -> AwaitingPayload -> Delivered -> AwaitingHeader.
func (r *Receiver) readFrames(conn net.Conn, source *PacketSource) error {
	defer close(source.ChIn)

	var bytesReceived int
	windowStart := time.Now()

	header := make([]byte, layers.HeaderSize)
	for {
		r.state = AwaitingHeader
		if err := r.readFull(conn, header); err != nil {
			return err
		}
		h, err := layers.DecodeHeader(header)
		if err != nil {
			return err
		}

		r.state = AwaitingPayload
		frame := make([]byte, layers.HeaderSize+2*int(h.SampleCount))
		copy(frame, header)
		if err := r.readFull(conn, frame[layers.HeaderSize:]); err != nil {
			return err
		}

		r.state = Delivered
		source.ChIn <- InFrame{
			Data: frame,
			CaptureInfo: gopacket.CaptureInfo{
				Length:        len(frame),
				CaptureLength: len(frame),
				Timestamp:     time.Now(),
			},
		}

		bytesReceived += len(frame)
		if elapsed := time.Since(windowStart); elapsed >= time.Second {
			bps := float64(bytesReceived) / elapsed.Seconds()
			atomic.StoreUint64(&r.bps, math.Float64bits(bps))
			log.Debug("Receive rate: %.0f bytes/sec", bps)
			windowStart = time.Now()
			bytesReceived = 0
		}
	}
}

// readFull reads exactly len(buf) bytes, refreshing the read deadline
// before each read so a stalled transport surfaces as an error instead
// of a silent hang.
func (r *Receiver) readFull(conn net.Conn, buf []byte) error {
	read := 0
	for read < len(buf) {
		if err := conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
			return err
		}
		n, err := conn.Read(buf[read:])
		if n > 0 {
			read += n
			continue
		}
		if err == io.EOF {
			return ErrConnectionClosed{}
		}
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				return ErrReadStall{Timeout: r.timeout}
			}
			return err
		}
	}
	return nil
}

func (r *Receiver) decodeFrames(ps *PacketSource) error {
	source := gopacket.NewPacketSource(ps, layers.FrameLayerType)
	for packet := range source.Packets() {
		frameLayer := packet.Layer(layers.FrameLayerType)
		if frameLayer == nil {
			log.Error("Error while decoding frame from input queue")
			continue
		}
		f := frameLayer.(*layers.FrameLayer)

		switch f.Source {
		case layers.SourceAudio:
			r.ChBatch <- Batch{
				Source:    f.Source,
				Timestamp: f.Timestamp,
				Audio:     AudioSamples(f.Samples),
			}
		case layers.SourceADC:
			r.ChBatch <- Batch{
				Source:    f.Source,
				Timestamp: f.Timestamp,
				ADC:       mux.Demux(f.Samples),
			}
		default:
			log.Debug("Drop frame. Unknown source: %d", f.Source)
		}
	}
	return nil
}

// AudioSamples demodulates the device's unsigned audio encoding into
// signed samples. Values at or above 16384 are shifted down by 32768,
// mirroring the inverse applied by the replay engine.
func AudioSamples(samples []uint16) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		if v >= 16384 {
			out[i] = int16(int32(v) - 32768)
		} else {
			out[i] = int16(v)
		}
	}
	return out
}
