package storage

import (
	"github.com/coschain/cosvault/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDatabase is a Database stored in a leveldb directory.
// Batches are written with fsync, single puts and deletes are not.
type LevelDatabase struct {
	file string
	db   *leveldb.DB
}

var sSyncWrite = &opt.WriteOptions{Sync: true}

// NewLevelDatabase opens the database at file, creating it if needed.
// A corrupted database is recovered before use.
func NewLevelDatabase(file string) (*LevelDatabase, error) {
	db, err := leveldb.OpenFile(file, &opt.Options{
		Filter: filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LevelDatabase{file: file, db: db}, nil
}

func (db *LevelDatabase) Close() {
	_ = db.db.Close()
}

func (db *LevelDatabase) FileName() string {
	return db.file
}

func (db *LevelDatabase) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

func (db *LevelDatabase) Get(key []byte) ([]byte, error) {
	data, err := db.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return data, err
}

func (db *LevelDatabase) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, nil)
}

func (db *LevelDatabase) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

func (db *LevelDatabase) NewIterator(start []byte, limit []byte) Iterator {
	return &levelIterator{it: db.db.NewIterator(&util.Range{Start: start, Limit: limit}, nil)}
}

// DeleteIterator releases an iterator of this database. Every iterator must be released.
func (db *LevelDatabase) DeleteIterator(it Iterator) {
	if lit, ok := it.(*levelIterator); ok {
		lit.it.Release()
	}
}

type levelIterator struct {
	it    iterator.Iterator
	valid bool
}

func (it *levelIterator) Valid() bool {
	return it.valid
}

func (it *levelIterator) Key() ([]byte, error) {
	if !it.valid {
		return nil, errInvalidIterator
	}
	return common.CopyBytes(it.it.Key()), nil
}

func (it *levelIterator) Value() ([]byte, error) {
	if !it.valid {
		return nil, errInvalidIterator
	}
	return common.CopyBytes(it.it.Value()), nil
}

func (it *levelIterator) Next() bool {
	it.valid = it.it.Next()
	return it.valid
}

func (db *LevelDatabase) NewBatch() Batch {
	return &levelBatch{db: db.db, b: new(leveldb.Batch)}
}

func (db *LevelDatabase) DeleteBatch(b Batch) {}

type levelBatch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *levelBatch) Write() error {
	return b.db.Write(b.b, sSyncWrite)
}

func (b *levelBatch) Reset() {
	b.b.Reset()
}

func (b *levelBatch) Put(key []byte, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}
