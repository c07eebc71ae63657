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
	"fmt"
	"time"
)

// ErrConnectionClosed returned when the device closes the transport,
// cleanly or not. Terminal for the connection, the caller must
// reconnect to resume.
type ErrConnectionClosed struct {
}

func (e ErrConnectionClosed) Error() string {
	return "Connection closed by device"
}

// ErrReadStall returned when no bytes arrive within the read timeout
type ErrReadStall struct {
	Timeout time.Duration
}

func (e ErrReadStall) Error() string {
	return fmt.Sprintf("No data from device within %s", e.Timeout)
}
