package storage

import (
	"fmt"

	"github.com/coschain/cosvault/node"
	"github.com/pkg/errors"
)

const (
	KindLevelDB = "leveldb"
	KindMemory  = "memory"
)

// DatabaseService is the node service owning the transactional database every
// component shares. kind selects leveldb or an in-memory map.
type DatabaseService struct {
	path string
	kind string
	db   TrxDatabase
}

// New resolves dbPath in the node's instance directory.
func New(ctx *node.ServiceContext, dbPath string, kind string) (*DatabaseService, error) {
	if ctx == nil || len(dbPath) == 0 {
		return nil, errors.New("invalid parameter")
	}
	path := ctx.ResolvePath(dbPath)
	if len(path) == 0 {
		return nil, errors.New("cannot resolve database path")
	}
	return NewDatabase(path, kind)
}

func NewDatabase(dbPath string, kind string) (*DatabaseService, error) {
	if len(dbPath) == 0 {
		return nil, errors.New("invalid parameter")
	}
	switch kind {
	case "", KindLevelDB:
		kind = KindLevelDB
	case KindMemory:
	default:
		return nil, fmt.Errorf("unknown database kind %q", kind)
	}
	return &DatabaseService{path: dbPath, kind: kind}, nil
}

//
// implementation of Service interface
//

func (s *DatabaseService) Start(node *node.Node) error {
	return s.open()
}

func (s *DatabaseService) open() error {
	if s.db != nil {
		return nil
	}
	if s.kind == KindMemory {
		s.db = NewTrxMemoryDatabase(true)
		return nil
	}
	db, err := NewTrxLevelDatabase(s.path, true)
	if err != nil {
		return errors.Wrapf(err, "failed to open or create leveldb at %s", s.path)
	}
	s.db = db
	return nil
}

func (s *DatabaseService) Stop() error {
	s.Close()
	return nil
}

// Database returns the underlying transactional database, opening it if needed.
func (s *DatabaseService) Database() (TrxDatabase, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return s.db, nil
}

func (s *DatabaseService) Kind() string {
	return s.kind
}

func (s *DatabaseService) Path() string {
	return s.path
}

func (s *DatabaseService) Close() {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
}
