package vault

import (
	"encoding/json"

	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var sGlobalPrefix = []byte("global/")

// GlobalState is the persisted global vault record.
type GlobalState struct {
	Admin       solana.PublicKey `json:"admin"`
	Mint        solana.PublicKey `json:"mint"`
	Custody     solana.PublicKey `json:"custody"`
	TotalTokens uint64           `json:"total_tokens"`
	Bump        uint8            `json:"bump"`
	CreatedAt   int64            `json:"created_at"`
}

func globalStateKey(address solana.PublicKey) []byte {
	return append(append([]byte{}, sGlobalPrefix...), address.Bytes()...)
}

// createGlobalState stores the record at address. It is the only way a record
// comes to exist, and it refuses to run twice for the same address.
func createGlobalState(db storage.Database, address solana.PublicKey, state *GlobalState) error {
	key := globalStateKey(address)
	exists, err := db.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrap(prototype.ErrAlreadyInitialized, address.String())
	}
	return putGlobalState(db, key, state)
}

func updateGlobalState(db storage.Database, address solana.PublicKey, state *GlobalState) error {
	return putGlobalState(db, globalStateKey(address), state)
}

func putGlobalState(db storage.Database, key []byte, state *GlobalState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encode global state")
	}
	return db.Put(key, data)
}

// loadGlobalState returns the record at address, or ErrNotInitialized.
func loadGlobalState(db storage.Database, address solana.PublicKey) (*GlobalState, error) {
	data, err := db.Get(globalStateKey(address))
	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			return nil, prototype.ErrNotInitialized
		}
		return nil, err
	}
	state := new(GlobalState)
	if err = json.Unmarshal(data, state); err != nil {
		return nil, errors.Wrap(err, "corrupted global state")
	}
	return state, nil
}

func (s *GlobalState) view(address solana.PublicKey) *iservices.VaultState {
	return &iservices.VaultState{
		Address:     address,
		Admin:       s.Admin,
		Mint:        s.Mint,
		Custody:     s.Custody,
		TotalTokens: s.TotalTokens,
		Bump:        s.Bump,
		CreatedAt:   s.CreatedAt,
	}
}
