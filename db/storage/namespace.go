package storage

import "github.com/coschain/cosvault/common"

// namespace stores its keys as name ++ 0x00 ++ key in the wrapped database,
// so components sharing one database cannot see each other's keys.
type namespace struct {
	db     Database
	prefix []byte
	limit  []byte
}

func NewNamespace(db Database, name string) Database {
	prefix := append([]byte(name), 0)
	_, limit := PrefixRange(prefix)
	return &namespace{db: db, prefix: prefix, limit: limit}
}

func (ns *namespace) key(k []byte) []byte {
	return append(common.CopyBytes(ns.prefix), k...)
}

func (ns *namespace) Close() {}

func (ns *namespace) Has(key []byte) (bool, error) {
	return ns.db.Has(ns.key(key))
}

func (ns *namespace) Get(key []byte) ([]byte, error) {
	return ns.db.Get(ns.key(key))
}

func (ns *namespace) Put(key []byte, value []byte) error {
	return ns.db.Put(ns.key(key), value)
}

func (ns *namespace) Delete(key []byte) error {
	return ns.db.Delete(ns.key(key))
}

// NewIterator scans [start, limit) of the namespace; a nil limit stops at its end.
func (ns *namespace) NewIterator(start []byte, limit []byte) Iterator {
	l := ns.limit
	if limit != nil {
		l = ns.key(limit)
	}
	return &nsIterator{Iterator: ns.db.NewIterator(ns.key(start), l), strip: len(ns.prefix)}
}

func (ns *namespace) DeleteIterator(it Iterator) {
	if nsIt, ok := it.(*nsIterator); ok {
		it = nsIt.Iterator
	}
	ns.db.DeleteIterator(it)
}

// nsIterator strips the namespace prefix from keys.
type nsIterator struct {
	Iterator
	strip int
}

func (it *nsIterator) Key() ([]byte, error) {
	k, err := it.Iterator.Key()
	if err != nil {
		return nil, err
	}
	return k[it.strip:], nil
}

func (ns *namespace) NewBatch() Batch {
	return &nsBatch{Batch: ns.db.NewBatch(), ns: ns}
}

func (ns *namespace) DeleteBatch(b Batch) {
	if nb, ok := b.(*nsBatch); ok {
		b = nb.Batch
	}
	ns.db.DeleteBatch(b)
}

type nsBatch struct {
	Batch
	ns *namespace
}

func (b *nsBatch) Put(key []byte, value []byte) error {
	return b.Batch.Put(b.ns.key(key), value)
}

func (b *nsBatch) Delete(key []byte) error {
	return b.Batch.Delete(b.ns.key(key))
}
