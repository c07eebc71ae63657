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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPersistsOnCancel(t *testing.T) {
	s := openTestStore(t)
	w := NewWriter(s, "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	for i := 0; i < 10; i++ {
		w.Add(NewAudioRecord(float64(i), []int16{int16(i)}))
	}
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	got, err := s.ReadAll("test")
	require.NoError(t, err)
	require.Len(t, got, 10)
	for i, r := range got {
		assert.Equal(t, float64(i), r.DataTS)
	}
}

func TestWriterAssignsLocalTS(t *testing.T) {
	s := openTestStore(t)
	w := NewWriter(s, "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	before := float64(time.Now().UnixNano()) / float64(time.Second)
	w.Add(NewAudioRecord(1.0, []int16{1}))

	// let the periodic flush pick it up
	time.Sleep(3 * FlushInterval)
	after := float64(time.Now().UnixNano()) / float64(time.Second)
	cancel()
	<-done

	got, err := s.ReadAll("test")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0].LocalTS, before)
	assert.LessOrEqual(t, got[0].LocalTS, after)
}
