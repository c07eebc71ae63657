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
	"fmt"
)

// ErrStorageIO wraps an open/append/flush failure. It is fatal to the
// current recording session, records flushed before the failure remain
// intact.
type ErrStorageIO struct {
	Op  string
	Err error
}

func (e ErrStorageIO) Error() string {
	return fmt.Sprintf("Storage error during %s: %s", e.Op, e.Err)
}

func (e ErrStorageIO) Unwrap() error {
	return e.Err
}

type ErrSessionNotFound struct {
	Session string
}

func (e ErrSessionNotFound) Error() string {
	return fmt.Sprintf("Session not found: %s", e.Session)
}

type ErrRecordCodec struct {
	What string
}

func (e ErrRecordCodec) Error() string {
	return fmt.Sprintf("Error while decoding stored record: %s", e.What)
}
