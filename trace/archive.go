package trace

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const connectTimeout = 5 * time.Second

var tracesBucket = []byte("traces")

// ErrNotFound is returned by Archive.Load for an unknown session.
var ErrNotFound = errors.New("trace not found")

// Archive keeps traces in a single file bbolt database.
type Archive struct {
	db *bolt.DB
}

// OpenArchive opens or creates the archive at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: connectTimeout})
	if err != nil {
		return nil, fmt.Errorf("open trace archive %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tracesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init trace archive %s: %w", path, err)
	}

	return &Archive{db: db}, nil
}

// Close releases the database file.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Save stores t under its session id, replacing any earlier copy.
func (a *Archive) Save(t *Trace) error {
	if t.Session == "" {
		return errors.New("trace has no session id")
	}
	data, err := t.Marshal()
	if err != nil {
		return err
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tracesBucket).Put([]byte(t.Session), data)
	})
}

// Load returns the trace stored under session.
func (a *Archive) Load(session string) (*Trace, error) {
	var data []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(tracesBucket).Get([]byte(session))
		if v == nil {
			return fmt.Errorf("session %s: %w", session, ErrNotFound)
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Sessions returns the stored session ids in key order.
func (a *Archive) Sessions() ([]string, error) {
	var ids []string
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tracesBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Delete removes the trace stored under session. Deleting an unknown
// session is not an error.
func (a *Archive) Delete(session string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tracesBucket).Delete([]byte(session))
	})
}
