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
	"fmt"
	"strconv"
	"strings"
)

// ChannelCount is one token of a channel layout descriptor: the
// channel number and how many samples that channel contributed.
type ChannelCount struct {
	Channel ChannelNum
	Count   int
}

// Layout is the ordered channel layout of a stored record. Stored
// records group samples into channel-contiguous runs, so the tag bits
// are gone and the descriptor is the only way to recover channel
// boundaries.
type Layout []ChannelCount

// String renders the canonical descriptor form, e.g. "ch0:10, ch1:15".
func (l Layout) String() string {
	tokens := make([]string, len(l))
	for i, cc := range l {
		tokens[i] = fmt.Sprintf("ch%d:%d", cc.Channel, cc.Count)
	}
	return strings.Join(tokens, ", ")
}

// Total returns the sum of the per-channel sample counts.
func (l Layout) Total() int {
	total := 0
	for _, cc := range l {
		total += cc.Count
	}
	return total
}

// ParseLayout parses a channel layout descriptor. The grammar is a
// comma-separated list of "ch<int>:<int>" tokens. This is the single
// parsing point for descriptors, call sites must not split the string
// themselves.
func ParseLayout(descriptor string) (Layout, error) {
	if strings.TrimSpace(descriptor) == "" {
		return nil, nil
	}
	var layout Layout
	for _, part := range strings.Split(descriptor, ",") {
		token := strings.TrimSpace(part)
		chStr, countStr, found := strings.Cut(token, ":")
		if !found {
			return nil, ErrLayoutParse{Descriptor: descriptor, Token: token,
				What: "token must have the form ch<int>:<int>"}
		}
		if !strings.HasPrefix(chStr, "ch") {
			return nil, ErrLayoutParse{Descriptor: descriptor, Token: token,
				What: "channel must have the ch prefix"}
		}
		ch, err := strconv.Atoi(strings.TrimPrefix(chStr, "ch"))
		if err != nil {
			return nil, ErrLayoutParse{Descriptor: descriptor, Token: token,
				What: "channel is not an integer"}
		}
		if ch < 0 || ch > int(MaxChannel) {
			return nil, ErrLayoutParse{Descriptor: descriptor, Token: token,
				What: fmt.Sprintf("channel must be in [0,%d]", MaxChannel)}
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, ErrLayoutParse{Descriptor: descriptor, Token: token,
				What: "count is not an integer"}
		}
		if count < 0 {
			return nil, ErrLayoutParse{Descriptor: descriptor, Token: token,
				What: "count must not be negative"}
		}
		layout = append(layout, ChannelCount{Channel: ChannelNum(ch), Count: count})
	}
	return layout, nil
}
