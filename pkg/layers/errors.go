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

package layers

import (
	"fmt"
)

// ErrMalformedHeader returned when fewer than HeaderSize bytes are
// available for a frame header
type ErrMalformedHeader struct {
	Have int
}

func (e ErrMalformedHeader) Error() string {
	return fmt.Sprintf("Malformed frame header: need %d bytes, have %d", HeaderSize, e.Have)
}

// ErrTruncatedPayload returned when the payload is shorter than the
// sample count announced by the header
type ErrTruncatedPayload struct {
	Want int
	Have int
}

func (e ErrTruncatedPayload) Error() string {
	return fmt.Sprintf("Truncated frame payload: need %d bytes, have %d", e.Want, e.Have)
}
