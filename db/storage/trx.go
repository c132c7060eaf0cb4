package storage

// TrxMemoryDatabase is a TrxDatabase kept in memory.
type TrxMemoryDatabase struct {
	*TransactionalDatabase
	mem *MemoryDatabase
}

func NewTrxMemoryDatabase(dirtyRead bool) *TrxMemoryDatabase {
	mem := NewMemoryDatabase()
	return &TrxMemoryDatabase{TransactionalDatabase: NewTransactionalDatabase(mem, dirtyRead), mem: mem}
}

func (db *TrxMemoryDatabase) Close() {
	db.mem.Close()
}

// TrxLevelDatabase is a TrxDatabase stored in a leveldb directory.
type TrxLevelDatabase struct {
	*TransactionalDatabase
	level *LevelDatabase
}

func NewTrxLevelDatabase(file string, dirtyRead bool) (*TrxLevelDatabase, error) {
	level, err := NewLevelDatabase(file)
	if err != nil {
		return nil, err
	}
	return &TrxLevelDatabase{TransactionalDatabase: NewTransactionalDatabase(level, dirtyRead), level: level}, nil
}

func (db *TrxLevelDatabase) Close() {
	db.level.Close()
}

// FileName returns the leveldb directory.
func (db *TrxLevelDatabase) FileName() string {
	return db.level.FileName()
}
