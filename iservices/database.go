package iservices

//
// This file defines interfaces of Database service.
//

import "github.com/coschain/cosvault/db/storage"

var DbServerName = "db"

// IDatabaseService hands out the node's transactional key-value store.
// Writes made between BeginTransaction and EndTransaction land together or not at all.
type IDatabaseService interface {
	Database() (storage.TrxDatabase, error)
}
