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
	"context"
	"time"

	"github.com/murmurlab/go-murmur/pkg/log"
)

const (
	WriterChSize  = 256
	FlushInterval = 100 * time.Millisecond
)

// Writer is the dedicated persistence task. The ingestion task hands
// records over a bounded channel so a transport read is never blocked
// behind a disk flush; the writer batches pending records and flushes
// them in one transaction per interval. Records still buffered when
// the process dies are lost, that window is the documented cost of
// batching.
type Writer struct {
	store   *Store
	session string
	ch      chan Record
	pending []Record
}

func NewWriter(store *Store, session string) *Writer {
	return &Writer{
		store:   store,
		session: session,
		ch:      make(chan Record, WriterChSize),
	}
}

// Add hands one record to the writer task. It blocks only when the
// writer is more than WriterChSize records behind.
func (w *Writer) Add(r Record) {
	w.ch <- r
}

// Run drains the channel and flushes batches until the context is
// cancelled, then performs a final flush.
func (w *Writer) Run(ctx context.Context) error {
	log.Info("Run record writer: session: %s", w.session)
	ticker := time.NewTicker(FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case r := <-w.ch:
			// local timestamp is assigned at persistence time
			r.LocalTS = unixSeconds()
			w.pending = append(w.pending, r)
		case <-ticker.C:
			if err := w.flush(); err != nil {
				return err
			}
		case <-ctx.Done():
			w.drain()
			if err := w.flush(); err != nil {
				return err
			}
			log.Info("Stop record writer: session: %s", w.session)
			return ctx.Err()
		}
	}
}

func (w *Writer) drain() {
	for {
		select {
		case r := <-w.ch:
			r.LocalTS = unixSeconds()
			w.pending = append(w.pending, r)
		default:
			return
		}
	}
}

func (w *Writer) flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.store.Append(w.session, w.pending...); err != nil {
		log.Error("Error while flushing records: session: %s: %s", w.session, err)
		return err
	}
	log.Debug("Wrote %d records: session: %s", len(w.pending), w.session)
	w.pending = w.pending[:0]
	return nil
}

func unixSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
