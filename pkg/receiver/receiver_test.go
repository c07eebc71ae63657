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
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/mux"
)

func TestAudioSamples(t *testing.T) {
	in := []uint16{0, 1, 16383, 16384, 32768, 65535}
	out := AudioSamples(in)
	assert.Equal(t, []int16{0, 1, 16383, -16384, 0, 32767}, out)
}

func TestPacketSourceEOF(t *testing.T) {
	ps := NewPacketSource()
	close(ps.ChIn)
	_, _, err := ps.ReadPacketData()
	assert.Error(t, err)
}

func frameBytes(t *testing.T, source layers.Source, timestamp uint64, samples []uint16) []byte {
	t.Helper()
	frame := &layers.FrameLayer{
		Header:  layers.Header{Source: source, Timestamp: timestamp},
		Samples: samples,
	}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, frame))
	return buf.Bytes()
}

// serveFrames listens on a loopback port and writes the given frame
// byte sequences to the first client, then closes the connection.
func serveFrames(t *testing.T, frames ...[]byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if _, err := conn.Write(f); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func testConfig(t *testing.T, addr string) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)
	cfg.DeviceAddress = host
	cfg.DevicePort = portNum
	cfg.ReadTimeoutSec = 1
	return cfg
}

func TestReceiverDeliversBatches(t *testing.T) {
	addr := serveFrames(t,
		frameBytes(t, layers.SourceAudio, 100, []uint16{1, 32768, 40000}),
		frameBytes(t, layers.SourceADC, 200, []uint16{0x000A, 0x1005, 0x0003}),
	)
	r := NewReceiver(testConfig(t, addr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	audio := <-r.ChBatch
	assert.Equal(t, layers.SourceAudio, audio.Source)
	assert.Equal(t, uint64(100), audio.Timestamp)
	assert.Equal(t, []int16{1, 0, 40000 - 32768}, audio.Audio)
	assert.Nil(t, audio.ADC)

	adc := <-r.ChBatch
	assert.Equal(t, layers.SourceADC, adc.Source)
	assert.Equal(t, uint64(200), adc.Timestamp)
	assert.Equal(t, []uint16{10, 3}, adc.ADC[mux.ChannelNum(0)])
	assert.Equal(t, []uint16{5}, adc.ADC[mux.ChannelNum(1)])

	// the server closed the connection after the second frame
	err := <-done
	assert.IsType(t, ErrConnectionClosed{}, err)
}

func TestReceiverStallSurfaces(t *testing.T) {
	// a server that accepts and then goes silent
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	hold := make(chan struct{})
	defer close(hold)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		<-hold
	}()

	r := NewReceiver(testConfig(t, ln.Addr().String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = r.Run(ctx)
	require.Error(t, err)
	assert.IsType(t, ErrReadStall{}, err)
}
