package storage

import (
	"errors"
	"sort"

	"github.com/coschain/cosvault/common"
)

var (
	ErrNotFound        = errors.New("not found")
	errInvalidIterator = errors.New("invalid iterator")
	errNoTransaction   = errors.New("unexpected EndTransaction")
)

// a pending put or delete
type writeOp struct {
	Key, Value []byte
	Del        bool
}

// PrefixRange returns the [start, limit) range holding every key with prefix.
// limit is nil if no key is greater than all prefixed keys.
func PrefixRange(prefix []byte) (start, limit []byte) {
	start = common.CopyBytes(prefix)
	limit = common.CopyBytes(prefix)
	for i := len(limit) - 1; i >= 0; i-- {
		if limit[i] < 0xff {
			limit[i]++
			return start, limit[:i+1]
		}
	}
	return start, nil
}

// Scan calls fn for every pair in [start, limit) in ascending key order, stopping at the first error.
func Scan(db Scanner, start, limit []byte, fn func(key, value []byte) error) error {
	it := db.NewIterator(start, limit)
	defer db.DeleteIterator(it)
	for it.Next() {
		k, err := it.Key()
		if err != nil {
			return err
		}
		v, err := it.Value()
		if err != nil {
			return err
		}
		if err = fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// snapshotIterator walks a sorted copy of key-value pairs
type snapshotIterator struct {
	keys  []string
	data  map[string][]byte
	index int
}

func newSnapshotIterator(data map[string][]byte) *snapshotIterator {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &snapshotIterator{keys: keys, data: data, index: -1}
}

func (it *snapshotIterator) Valid() bool {
	return it.index >= 0 && it.index < len(it.keys)
}

func (it *snapshotIterator) Key() ([]byte, error) {
	if !it.Valid() {
		return nil, errInvalidIterator
	}
	return []byte(it.keys[it.index]), nil
}

func (it *snapshotIterator) Value() ([]byte, error) {
	if !it.Valid() {
		return nil, errInvalidIterator
	}
	return common.CopyBytes(it.data[it.keys[it.index]]), nil
}

func (it *snapshotIterator) Next() bool {
	if it.index+1 >= len(it.keys) {
		it.index = len(it.keys)
		return false
	}
	it.index++
	return true
}

// inRange reports whether key k lies in [start, limit)
func inRange(k string, start, limit []byte) bool {
	if start != nil && k < string(start) {
		return false
	}
	return limit == nil || k < string(limit)
}
