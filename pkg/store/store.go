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
	"encoding/binary"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/murmurlab/go-murmur/pkg/log"
)

const (
	BucketPrefix = "records_"
)

// Store is an append-only sequence of records per recording session,
// backed by a bbolt database. One bucket per session, keys are
// big-endian sequence numbers so a bulk read comes back in append
// order. Appends are transactional, a reader never observes a partial
// record.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, ErrStorageIO{Op: "open", Err: err}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func BucketName(session string) string {
	return fmt.Sprintf("%s%s", BucketPrefix, session)
}

// Append adds the records to the end of the session sequence in one
// transaction. Callers batch several pending records per call to
// amortize the transaction cost.
func (s *Store) Append(session string, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketName(session)))
		if err != nil {
			return err
		}
		for i := range records {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err := b.Put(key, encodeRecord(&records[i])); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return ErrStorageIO{Op: "append", Err: err}
	}
	return nil
}

// ReadAll returns the full record sequence of a session in append
// order.
func (s *Store) ReadAll(session string) ([]Record, error) {
	var records []Record
	if err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(session)))
		if b == nil {
			return ErrSessionNotFound{Session: session}
		}
		return b.ForEach(func(k, v []byte) error {
			r, err := decodeRecord(v)
			if err != nil {
				return err
			}
			records = append(records, *r)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	log.Debug("Read session: %s records: %d", session, len(records))
	return records, nil
}

// Sessions lists the recording sessions present in the store.
func (s *Store) Sessions() ([]string, error) {
	var sessions []string
	if err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if strings.HasPrefix(string(name), BucketPrefix) {
				sessions = append(sessions, strings.TrimPrefix(string(name), BucketPrefix))
			}
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return sessions, nil
}
