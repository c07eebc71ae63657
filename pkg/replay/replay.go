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

// Package replay re-emits a stored recording over the wire protocol at
// the original sampling cadence, playing the device role: it listens,
// accepts a client and streams frames to it.
package replay

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/google/gopacket"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/log"
	"github.com/murmurlab/go-murmur/pkg/mux"
	"github.com/murmurlab/go-murmur/pkg/store"
)

// lagWarnThreshold is how far behind the nominal rate replay may fall
// before a warning is logged.
const lagWarnThreshold = 250 * time.Millisecond

type Engine struct {
	listenAddr string
	audioRate  int
	adcRate    int
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		listenAddr: cfg.ReplayAddr(),
		audioRate:  cfg.AudioRate,
		adcRate:    cfg.ADCRate,
	}
}

// Serve listens on the replay address, accepts one client and replays
// the record sequence to it, then returns.
func (e *Engine) Serve(ctx context.Context, records []store.Record) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", e.listenAddr)
	if err != nil {
		return err
	}
	defer ln.Close()

	// unblock Accept on cancellation
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Info("Replay listening on %s, waiting for a client", e.listenAddr)
	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer conn.Close()
	log.Info("Client connected: %s", conn.RemoteAddr())

	return e.Replay(ctx, conn, records)
}

// Replay iterates the records in sequence order and writes their
// frames to the transport, pacing each stream at its nominal rate.
// Audio and ADC keep independent pacing clocks. A record with a
// malformed channel layout is skipped with a warning, replay
// continues.
func (e *Engine) Replay(ctx context.Context, w io.Writer, records []store.Record) error {
	audioPacer := newPacer(e.audioRate)
	adcPacer := newPacer(e.adcRate)

	for i := range records {
		r := &records[i]
		var samples []uint16
		var p *pacer

		switch r.Source {
		case layers.SourceAudio:
			samples = audioWire(r.Data)
			p = audioPacer
		case layers.SourceADC:
			layout, err := mux.ParseLayout(r.Channels)
			if err == nil {
				samples, err = mux.Pack(layout, r.Data)
			}
			if err != nil {
				log.Warning("Skipping record %d during replay: %s", i, err)
				continue
			}
			p = adcPacer
		default:
			continue
		}

		for _, chunk := range layers.Chunks(samples) {
			if err := writeFrame(w, r.Source, chunk); err != nil {
				return err
			}
			if err := p.pace(ctx, len(chunk)); err != nil {
				return err
			}
		}
	}
	log.Info("Replay finished: %d records", len(records))
	return nil
}

func writeFrame(w io.Writer, source layers.Source, chunk []uint16) error {
	frame := &layers.FrameLayer{
		Header: layers.Header{
			Source: source,
			// timestamp captured at send time, not inherited
			Timestamp: uint64(time.Now().UnixMicro()),
		},
		Samples: chunk,
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	if err := gopacket.SerializeLayers(buf, opts, frame); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// audioWire applies the inverse of the receiver's audio transform:
// negative samples are shifted up by 32768 into the unsigned range.
func audioWire(data []int16) []uint16 {
	out := make([]uint16, len(data))
	for i, v := range data {
		if v < 0 {
			out[i] = uint16(int32(v) + 32768)
		} else {
			out[i] = uint16(v)
		}
	}
	return out
}

// pacer keeps one stream at its nominal sample rate. After each chunk
// it compares wall-clock elapsed time against the time the sent sample
// count should have taken and sleeps for the difference. Soft real
// time only: nothing is done about scheduler jitter beyond the
// per-chunk recomputation.
type pacer struct {
	rate   float64
	start  time.Time
	sent   int
	warned bool
}

func newPacer(rate int) *pacer {
	return &pacer{rate: float64(rate)}
}

func (p *pacer) pace(ctx context.Context, samples int) error {
	if p.start.IsZero() {
		p.start = time.Now()
	}
	p.sent += samples
	expected := time.Duration(float64(p.sent) / p.rate * float64(time.Second))
	elapsed := time.Since(p.start)
	if elapsed < expected {
		p.warned = false
		timer := time.NewTimer(expected - elapsed)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	} else if elapsed-expected > lagWarnThreshold && !p.warned {
		log.Warning("Replay falling behind nominal rate %.0f S/s by %s", p.rate, elapsed-expected)
		p.warned = true
	}
	return ctx.Err()
}
