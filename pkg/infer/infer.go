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

// Package infer schedules an opaque classifier over windows of ADC
// data. The model itself lives outside this repository, here is only
// the window assembly, the normalization and the asynchronous worker
// that keeps a possibly slow classifier off the ingestion path.
package infer

import (
	"context"
	"sort"
	"time"

	"github.com/murmurlab/go-murmur/pkg/log"
	"github.com/murmurlab/go-murmur/pkg/mux"
)

// Classifier is the opaque inference collaborator. The window is
// normalized per-channel samples stacked in ascending channel order,
// logical shape [1, channels, length]. It returns one class index per
// timestep. Calls may be slow and are always made from the worker
// goroutine, never from the ingestion task.
type Classifier interface {
	Classify(ctx context.Context, window [][]float32) ([]int, error)
}

// Normalizer applies the training-time normalization to raw samples.
type Normalizer struct {
	Mean float64
	Std  float64
}

func (n Normalizer) Apply(samples []int16) []float32 {
	out := make([]float32, len(samples))
	div := n.Std * 10
	for i, v := range samples {
		out[i] = float32((float64(v) - n.Mean) / div)
	}
	return out
}

// Window stacks the most recent length samples of every channel in
// ascending channel order, normalized. All channels must have at least
// length samples accumulated.
func Window(channels map[mux.ChannelNum][]int16, length int, norm Normalizer) ([][]float32, error) {
	if len(channels) == 0 {
		return nil, ErrWindowShape{What: "no channels accumulated"}
	}
	window := make([][]float32, 0, len(channels))
	for _, ch := range sortedChannels(channels) {
		samples := channels[ch]
		if len(samples) < length {
			return nil, ErrWindowShape{Channel: int(ch),
				What: "not enough samples accumulated"}
		}
		window = append(window, norm.Apply(samples[len(samples)-length:]))
	}
	return window, nil
}

func sortedChannels(channels map[mux.ChannelNum][]int16) []mux.ChannelNum {
	keys := make([]mux.ChannelNum, 0, len(channels))
	for ch := range channels {
		keys = append(keys, ch)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Majority returns the most frequent class index, the per-window vote
// applied to per-timestep predictions.
func Majority(classes []int) int {
	counts := make(map[int]int)
	best, bestCount := 0, 0
	for _, c := range classes {
		counts[c]++
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

type Request struct {
	Window [][]float32
}

type Result struct {
	Classes []int
	Elapsed time.Duration
	Err     error
}

// Worker runs the classifier in its own goroutine and delivers results
// asynchronously. The request slot holds a single pending window;
// TrySubmit drops the window when the worker is still busy, which is
// the right behavior for a live stream, inference always runs on the
// freshest data.
type Worker struct {
	classifier Classifier
	chReq      chan Request
	ChRes      chan Result
}

func NewWorker(classifier Classifier) *Worker {
	return &Worker{
		classifier: classifier,
		chReq:      make(chan Request, 1),
		ChRes:      make(chan Result, 1),
	}
}

// TrySubmit offers a window to the worker without blocking. Returns
// false when the worker is busy.
func (w *Worker) TrySubmit(window [][]float32) bool {
	select {
	case w.chReq <- Request{Window: window}:
		return true
	default:
		return false
	}
}

func (w *Worker) Run(ctx context.Context) error {
	log.Info("Run inference worker")
	for {
		select {
		case req := <-w.chReq:
			start := time.Now()
			classes, err := w.classifier.Classify(ctx, req.Window)
			result := Result{Classes: classes, Elapsed: time.Since(start), Err: err}
			if err != nil {
				log.Error("Error while running inference: %s", err)
			}
			select {
			case w.ChRes <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
