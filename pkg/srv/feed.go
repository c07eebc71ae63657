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

package srv

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/murmurlab/go-murmur/pkg/log"
	"github.com/murmurlab/go-murmur/pkg/mux"
	"github.com/murmurlab/go-murmur/pkg/receiver"
)

// FeedFrame is the live feed wire format, one message per decoded
// batch.
type FeedFrame struct {
	Source    uint8                       `json:"source"`
	Timestamp uint64                      `json:"timestamp"`
	Audio     []int16                     `json:"audio,omitempty"`
	ADC       map[mux.ChannelNum][]uint16 `json:"adc,omitempty"`
}

// LiveFeed fans decoded batches out to websocket subscribers. A slow
// subscriber is dropped rather than allowed to stall ingestion.
type LiveFeed struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]chan FeedFrame
}

func NewLiveFeed() *LiveFeed {
	return &LiveFeed{
		subs: make(map[*websocket.Conn]chan FeedFrame),
	}
}

func (f *LiveFeed) Subscribe(conn *websocket.Conn) {
	ch := make(chan FeedFrame, 16)
	f.mu.Lock()
	f.subs[conn] = ch
	f.mu.Unlock()
	log.Info("Live feed subscriber connected: %s", conn.RemoteAddr())

	go func() {
		defer f.Unsubscribe(conn)
		for frame := range ch {
			if err := conn.WriteJSON(frame); err != nil {
				log.Debug("Live feed write failed: %s: %s", conn.RemoteAddr(), err)
				return
			}
		}
	}()
}

func (f *LiveFeed) Unsubscribe(conn *websocket.Conn) {
	f.mu.Lock()
	ch, ok := f.subs[conn]
	if ok {
		delete(f.subs, conn)
	}
	f.mu.Unlock()
	if ok {
		close(ch)
		conn.Close()
		log.Info("Live feed subscriber gone: %s", conn.RemoteAddr())
	}
}

func (f *LiveFeed) Broadcast(batch *receiver.Batch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) == 0 {
		return
	}
	frame := FeedFrame{
		Source:    uint8(batch.Source),
		Timestamp: batch.Timestamp,
		Audio:     batch.Audio,
		ADC:       batch.ADC,
	}
	for conn, ch := range f.subs {
		select {
		case ch <- frame:
		default:
			log.Debug("Live feed subscriber too slow, dropping frame: %s", conn.RemoteAddr())
		}
	}
}
