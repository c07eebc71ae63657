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

package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout("ch0:10, ch1:15")
	require.NoError(t, err)
	require.Len(t, layout, 2)
	assert.Equal(t, ChannelNum(0), layout[0].Channel)
	assert.Equal(t, 10, layout[0].Count)
	assert.Equal(t, ChannelNum(1), layout[1].Channel)
	assert.Equal(t, 15, layout[1].Count)
	assert.Equal(t, 25, layout.Total())
}

func TestParseLayoutEmpty(t *testing.T) {
	layout, err := ParseLayout("")
	require.NoError(t, err)
	assert.Nil(t, layout)

	layout, err = ParseLayout("   ")
	require.NoError(t, err)
	assert.Nil(t, layout)
}

func TestParseLayoutErrors(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
	}{
		{"missing colon", "ch0 10"},
		{"missing prefix", "0:10"},
		{"channel not integer", "chx:10"},
		{"channel out of range", "ch16:10"},
		{"count not integer", "ch0:abc"},
		{"count negative", "ch0:-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout(tt.descriptor)
			require.Error(t, err)
			assert.IsType(t, ErrLayoutParse{}, err)
		})
	}
}

func TestLayoutStringRoundTrip(t *testing.T) {
	layout := Layout{
		{Channel: 0, Count: 2},
		{Channel: 15, Count: 0},
	}
	parsed, err := ParseLayout(layout.String())
	require.NoError(t, err)
	assert.Equal(t, layout, parsed)
}
