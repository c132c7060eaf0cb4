package storage

// Reader looks up single keys. Get fails with ErrNotFound for a missing key.
type Reader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// Writer stores and removes single keys.
type Writer interface {
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// Scanner iterates ordered key ranges.
type Scanner interface {
	// NewIterator covers [start, limit) and starts before the first key; nil bounds are open.
	NewIterator(start []byte, limit []byte) Iterator
	DeleteIterator(it Iterator)
}

type Iterator interface {
	Valid() bool
	Key() ([]byte, error)
	Value() ([]byte, error)
	// Next advances and reports whether the iterator still points at a key.
	Next() bool
}

// Batch collects writes and applies them together on Write.
type Batch interface {
	Writer
	Write() error
	Reset()
}

type Database interface {
	Reader
	Writer
	Scanner
	NewBatch() Batch
	DeleteBatch(b Batch)
	Close()
}

// TrxDatabase stacks transaction sessions. Writes made in a session reach the
// base database only when every enclosing session commits.
type TrxDatabase interface {
	Database

	BeginTransaction()
	// EndTransaction closes the innermost session, merging it into its parent or dropping it.
	EndTransaction(commit bool) error
	TransactionHeight() uint

	// Committed is the base database, blind to open sessions.
	Committed() Database
}
