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
)

// ErrLayoutParse returned when a channel layout descriptor does not
// match the ch<int>:<int> grammar or disagrees with the record data
type ErrLayoutParse struct {
	Descriptor string
	Token      string
	What       string
}

func (e ErrLayoutParse) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("Error while parsing channel layout %q: token %q: %s", e.Descriptor, e.Token, e.What)
	}
	return fmt.Sprintf("Error while parsing channel layout %q: %s", e.Descriptor, e.What)
}
