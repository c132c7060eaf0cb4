package storage

import (
	"sync"

	"github.com/coschain/cosvault/common"
)

// dbSession buffers the writes of one transaction on top of its parent.
// A pending entry shadows the parent's value; a pending delete hides it.
type dbSession struct {
	lock    sync.RWMutex
	parent  Database
	pending map[string]writeOp
}

func newDbSession(parent Database) *dbSession {
	return &dbSession{parent: parent, pending: make(map[string]writeOp)}
}

func (s *dbSession) Close() {}

func (s *dbSession) Has(key []byte) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if op, ok := s.pending[string(key)]; ok {
		return !op.Del, nil
	}
	return s.parent.Has(key)
}

func (s *dbSession) Get(key []byte) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if op, ok := s.pending[string(key)]; ok {
		if op.Del {
			return nil, ErrNotFound
		}
		return common.CopyBytes(op.Value), nil
	}
	return s.parent.Get(key)
}

func (s *dbSession) Put(key []byte, value []byte) error {
	return s.apply(writeOp{Key: key, Value: common.CopyBytes(value)})
}

func (s *dbSession) Delete(key []byte) error {
	return s.apply(writeOp{Key: key, Del: true})
}

func (s *dbSession) apply(ops ...writeOp) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, op := range ops {
		s.pending[string(op.Key)] = op
	}
	return nil
}

// NewIterator returns a snapshot of the parent's range patched with the pending writes.
func (s *dbSession) NewIterator(start []byte, limit []byte) Iterator {
	s.lock.RLock()
	defer s.lock.RUnlock()

	data := make(map[string][]byte)
	_ = Scan(s.parent, start, limit, func(k, v []byte) error {
		data[string(k)] = v
		return nil
	})
	for k, op := range s.pending {
		if !inRange(k, start, limit) {
			continue
		}
		if op.Del {
			delete(data, k)
		} else {
			data[k] = common.CopyBytes(op.Value)
		}
	}
	return newSnapshotIterator(data)
}

func (s *dbSession) DeleteIterator(it Iterator) {}

func (s *dbSession) NewBatch() Batch {
	return &opBatch{write: s.apply}
}

func (s *dbSession) DeleteBatch(b Batch) {}

// commit writes the pending changes into the parent in one batch.
func (s *dbSession) commit() error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	b := s.parent.NewBatch()
	defer s.parent.DeleteBatch(b)
	for k, op := range s.pending {
		var err error
		if op.Del {
			err = b.Delete([]byte(k))
		} else {
			err = b.Put([]byte(k), op.Value)
		}
		if err != nil {
			return err
		}
	}
	return b.Write()
}
