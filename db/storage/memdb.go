package storage

import (
	"sync"

	"github.com/coschain/cosvault/common"
)

// MemoryDatabase keeps everything in a map. Iterators work on a copy of the range.
type MemoryDatabase struct {
	lock sync.RWMutex
	kv   map[string][]byte
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{kv: make(map[string][]byte)}
}

func (db *MemoryDatabase) Close() {}

func (db *MemoryDatabase) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	_, ok := db.kv[string(key)]
	return ok, nil
}

func (db *MemoryDatabase) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	value, ok := db.kv[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return common.CopyBytes(value), nil
}

func (db *MemoryDatabase) Put(key []byte, value []byte) error {
	return db.apply(writeOp{Key: key, Value: common.CopyBytes(value)})
}

func (db *MemoryDatabase) Delete(key []byte) error {
	return db.apply(writeOp{Key: key, Del: true})
}

// apply executes ops under one lock.
func (db *MemoryDatabase) apply(ops ...writeOp) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	for _, op := range ops {
		if op.Del {
			delete(db.kv, string(op.Key))
		} else {
			db.kv[string(op.Key)] = op.Value
		}
	}
	return nil
}

// snapshot copies the pairs in [start, limit) into dst.
func (db *MemoryDatabase) snapshot(dst map[string][]byte, start, limit []byte) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	for k, v := range db.kv {
		if inRange(k, start, limit) {
			dst[k] = common.CopyBytes(v)
		}
	}
}

func (db *MemoryDatabase) NewIterator(start []byte, limit []byte) Iterator {
	data := make(map[string][]byte)
	db.snapshot(data, start, limit)
	return newSnapshotIterator(data)
}

func (db *MemoryDatabase) DeleteIterator(it Iterator) {}

func (db *MemoryDatabase) NewBatch() Batch {
	return &opBatch{write: db.apply}
}

func (db *MemoryDatabase) DeleteBatch(b Batch) {}

// opBatch queues writes and hands them to write in one call.
type opBatch struct {
	write func(ops ...writeOp) error
	ops   []writeOp
}

func (b *opBatch) Write() error {
	return b.write(b.ops...)
}

func (b *opBatch) Reset() {
	b.ops = b.ops[:0]
}

func (b *opBatch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, writeOp{Key: common.CopyBytes(key), Value: common.CopyBytes(value)})
	return nil
}

func (b *opBatch) Delete(key []byte) error {
	b.ops = append(b.ops, writeOp{Key: common.CopyBytes(key), Del: true})
	return nil
}
