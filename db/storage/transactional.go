package storage

import "sync"

// TransactionalDatabase stacks transaction sessions on top of a Database.
// Writes go to the innermost open session, or straight to the base when none is open.
// With dirtyRead, reads see the innermost session too; otherwise only committed data.
type TransactionalDatabase struct {
	base      Database
	dirtyRead bool

	lock     sync.RWMutex
	sessions []*dbSession
}

func NewTransactionalDatabase(base Database, dirtyRead bool) *TransactionalDatabase {
	return &TransactionalDatabase{base: base, dirtyRead: dirtyRead}
}

func (db *TransactionalDatabase) target(useSession bool) Database {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if n := len(db.sessions); useSession && n > 0 {
		return db.sessions[n-1]
	}
	return db.base
}

func (db *TransactionalDatabase) reader() Database {
	return db.target(db.dirtyRead)
}

func (db *TransactionalDatabase) writer() Database {
	return db.target(true)
}

// BeginTransaction opens a session nested in the current one.
func (db *TransactionalDatabase) BeginTransaction() {
	db.lock.Lock()
	defer db.lock.Unlock()

	var parent Database = db.base
	if n := len(db.sessions); n > 0 {
		parent = db.sessions[n-1]
	}
	db.sessions = append(db.sessions, newDbSession(parent))
}

// EndTransaction closes the innermost session, merging it into its parent if commit is set.
func (db *TransactionalDatabase) EndTransaction(commit bool) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	n := len(db.sessions)
	if n == 0 {
		return errNoTransaction
	}
	top := db.sessions[n-1]
	db.sessions = db.sessions[:n-1]
	if commit {
		return top.commit()
	}
	return nil
}

// Committed returns the base database. Reads from it ignore every open session.
func (db *TransactionalDatabase) Committed() Database {
	return db.base
}

func (db *TransactionalDatabase) TransactionHeight() uint {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return uint(len(db.sessions))
}

func (db *TransactionalDatabase) Has(key []byte) (bool, error) {
	return db.reader().Has(key)
}

func (db *TransactionalDatabase) Get(key []byte) ([]byte, error) {
	return db.reader().Get(key)
}

func (db *TransactionalDatabase) Put(key []byte, value []byte) error {
	return db.writer().Put(key, value)
}

func (db *TransactionalDatabase) Delete(key []byte) error {
	return db.writer().Delete(key)
}

func (db *TransactionalDatabase) NewIterator(start []byte, limit []byte) Iterator {
	return db.reader().NewIterator(start, limit)
}

func (db *TransactionalDatabase) DeleteIterator(it Iterator) {
	db.reader().DeleteIterator(it)
}

func (db *TransactionalDatabase) NewBatch() Batch {
	return db.writer().NewBatch()
}

func (db *TransactionalDatabase) DeleteBatch(b Batch) {
	db.writer().DeleteBatch(b)
}

// Close does nothing, the base database is owned by the caller.
func (db *TransactionalDatabase) Close() {}

// RunInTransaction runs fn in a new session of db and commits it only if fn returns nil.
// If fn panics the session is discarded and the panic continues.
func RunInTransaction(db TrxDatabase, fn func() error) error {
	db.BeginTransaction()
	defer func() {
		if r := recover(); r != nil {
			_ = db.EndTransaction(false)
			panic(r)
		}
	}()
	if err := fn(); err != nil {
		_ = db.EndTransaction(false)
		return err
	}
	return db.EndTransaction(true)
}
