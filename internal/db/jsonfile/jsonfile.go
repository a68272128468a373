// Package jsonfile implements the persistent collection backing the users and
// journals stores: an in-memory ordered slice of records mirrored to a single
// JSON array file. The file is loaded once at startup and rewritten in full
// after every mutation, before the mutation is reported back to the caller.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jurnalku/jurnalku/internal/models"
)

// Record is implemented by every type held in a Collection. The methods use
// pointer receivers: the collection stores and hands out pointers, and Clone
// must produce an instance sharing no mutable state with the receiver.
type Record[T any] interface {
	RecordID() string
	Touch(now time.Time)
	Clone() T
}

// Collection is an insertion-ordered record set mirrored to a backing file.
// One mutex guards the whole scan-mutate-persist sequence because handlers
// run on separate goroutines. The stored instances never leave the mutex:
// every accessor hands out clones, so callers can read or serialize results
// without racing concurrent mutations.
type Collection[T Record[T]] struct {
	mu       sync.Mutex
	fileName string
	records  []T
}

// New loads the collection from fileName. A missing file bootstraps an empty
// collection and writes it immediately; an unparsable file is returned as an
// error so the caller can treat it as fatal instead of silently starting empty.
func New[T Record[T]](fileName string) (*Collection[T], error) {
	collection := &Collection[T]{
		fileName: fileName,
		records:  []T{},
	}

	err := parseJSONFile(fileName, &collection.records)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading collection file %s: %w", fileName, err)
		}
		if err := collection.persist(); err != nil {
			return nil, err
		}
	}

	return collection, nil
}

// All returns clones of the records in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]T, 0, len(c.records))
	for _, record := range c.records {
		result = append(result, record.Clone())
	}

	return result
}

// Find locates a record by identifier and returns a clone of it.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range c.records {
		if record.RecordID() == id {
			return record.Clone(), true
		}
	}

	var zero T

	return zero, false
}

// Insert appends a clone of the record (the caller has already assigned it a
// unique id) and rewrites the backing file.
func (c *Collection[T]) Insert(record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, record.Clone())

	return c.persist()
}

// InsertIf runs the check against the current records and appends a clone of
// the record only when the check passes, all under the collection mutex, so a
// scan-then-insert invariant (such as email uniqueness) cannot be broken by a
// concurrent insert. The check must treat the slice as read-only.
func (c *Collection[T]) InsertIf(record T, check func(records []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := check(c.records); err != nil {
		return err
	}

	c.records = append(c.records, record.Clone())

	return c.persist()
}

// Update locates a record by identifier, applies the mutator to a clone of it,
// stamps the update timestamp and rewrites the backing file; the clone then
// replaces the stored record. A mutator error aborts the update with the
// collection untouched, which lets callers run read-verify-write sequences
// (password checks and the like) atomically. Returns models.ErrNotFound when
// no record matches.
func (c *Collection[T]) Update(id string, mutate func(record T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	for i, record := range c.records {
		if record.RecordID() != id {
			continue
		}

		updated := record.Clone()
		if err := mutate(updated); err != nil {
			return zero, err
		}
		updated.Touch(time.Now())
		c.records[i] = updated

		return updated.Clone(), c.persist()
	}

	return zero, fmt.Errorf("%w: no record with id %q", models.ErrNotFound, id)
}

// Remove deletes a record by identifier, rewrites the backing file and returns
// the removed record, or models.ErrNotFound.
func (c *Collection[T]) Remove(id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	for i, record := range c.records {
		if record.RecordID() != id {
			continue
		}
		c.records = append(c.records[:i], c.records[i+1:]...)

		return record, c.persist()
	}

	return zero, fmt.Errorf("%w: no record with id %q", models.ErrNotFound, id)
}

// Len reports the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.records)
}

// IDs returns every identifier currently held, for seeding the id generator.
func (c *Collection[T]) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.records))
	for _, record := range c.records {
		ids = append(ids, record.RecordID())
	}

	return ids
}

// Close rewrites the backing file a final time.
func (c *Collection[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.persist()
}

// persist mirrors the in-memory state to the backing file via a temp file and
// rename, so a crash mid-write never leaves a truncated array behind. The
// caller holds the mutex. On write failure the in-memory state stays mutated;
// the error is propagated so the request reports the divergence.
func (c *Collection[T]) persist() error {
	return writeToJSONFile(c.fileName, c.records)
}

func writeToJSONFile(fileName string, records interface{}) error {
	jsonData, err := json.MarshalIndent(records, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	tmpName := fileName + ".tmp"
	if err := os.WriteFile(tmpName, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	if err := os.Rename(tmpName, fileName); err != nil {
		return fmt.Errorf("error replacing file: %w", err)
	}

	return nil
}

func parseJSONFile[T Record[T]](fileName string, records *[]T) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(records)
	if err != nil {
		return err
	}

	return nil
}

// EnsureDir creates the data directory holding the collection files.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(filepath.Clean(dir), 0755); err != nil {
		return fmt.Errorf("error creating data directory %s: %w", dir, err)
	}

	return nil
}
