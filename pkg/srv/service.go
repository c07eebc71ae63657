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

// Package srv wires the stream receiver, the record store writer and
// the control API into one long-running recording service.
package srv

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/layers"
	"github.com/murmurlab/go-murmur/pkg/log"
	"github.com/murmurlab/go-murmur/pkg/receiver"
	"github.com/murmurlab/go-murmur/pkg/store"
)

type Status struct {
	Recording      bool    `json:"recording"`
	Session        string  `json:"session,omitempty"`
	Records        uint64  `json:"records"`
	BytesPerSecond float64 `json:"bytes_per_second"`
}

type Service struct {
	cfg      *config.Config
	store    *store.Store
	receiver *receiver.Receiver
	api      *ApiServer
	feed     *LiveFeed

	mu           sync.Mutex
	recording    bool
	session      string
	writer       *store.Writer
	writerCancel context.CancelFunc
	writerDone   chan error

	records uint64
}

func NewService(cfg *config.Config) (*Service, error) {
	log.Info("Initializing recording service: device: %s store: %s", cfg.DeviceAddr(), cfg.StorePath)
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:      cfg,
		store:    st,
		receiver: receiver.NewReceiver(cfg),
		feed:     NewLiveFeed(),
	}
	s.api = NewApiServer(cfg, s)
	return s, nil
}

// Run starts the receiver, the batch dispatcher and the control API
// and blocks until one of them fails or the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	defer s.store.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.receiver.Run(ctx)
	})
	g.Go(func() error {
		return s.dispatch(ctx)
	})
	g.Go(func() error {
		return s.api.Run(ctx)
	})
	err := g.Wait()
	s.StopRecording()
	return err
}

// dispatch consumes decoded batches, forwards them to the live feed
// and, while a recording is active, to the store writer.
func (s *Service) dispatch(ctx context.Context) error {
	for {
		select {
		case batch := <-s.receiver.ChBatch:
			s.feed.Broadcast(&batch)
			s.mu.Lock()
			w := s.writer
			s.mu.Unlock()
			if w != nil {
				w.Add(batchRecord(&batch))
				atomic.AddUint64(&s.records, 1)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func batchRecord(b *receiver.Batch) store.Record {
	dataTS := float64(b.Timestamp) / 1e6
	if b.Source == layers.SourceADC {
		return store.NewADCRecord(dataTS, b.ADC)
	}
	return store.NewAudioRecord(dataTS, b.Audio)
}

// StartRecording opens a writer for the session. Incoming batches are
// persisted until StopRecording.
func (s *Service) StartRecording(session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return ErrAlreadyRecording{Session: s.session}
	}
	if session == "" {
		session = s.cfg.Session
	}
	log.Info("Start recording: session: %s", session)

	ctx, cancel := context.WithCancel(context.Background())
	w := store.NewWriter(s.store, session)
	done := make(chan error, 1)
	go func() {
		err := w.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			// storage failure is fatal to the session
			log.Error("Recording session failed: %s: %s", session, err)
		}
		done <- err
	}()

	s.recording = true
	s.session = session
	s.writer = w
	s.writerCancel = cancel
	s.writerDone = done
	atomic.StoreUint64(&s.records, 0)
	return nil
}

// StopRecording flushes pending records and closes the session.
func (s *Service) StopRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return
	}
	log.Info("Stop recording: session: %s", s.session)
	s.writerCancel()
	<-s.writerDone
	s.recording = false
	s.writer = nil
	s.writerCancel = nil
	s.writerDone = nil
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Recording:      s.recording,
		Session:        s.session,
		Records:        atomic.LoadUint64(&s.records),
		BytesPerSecond: s.receiver.BytesPerSecond(),
	}
}
