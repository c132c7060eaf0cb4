package vault

import (
	"encoding/binary"
	"time"

	"github.com/coschain/cosvault/common"
	"github.com/coschain/cosvault/db/storage"
	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var sSignaturePrefix = []byte("sig/")

// replayGuard remembers the signatures of applied operations.
// The database is authoritative, the lru cache only saves lookups of recent signatures.
type replayGuard struct {
	db    storage.Database
	cache *lru.Cache
}

func newReplayGuard(db storage.Database, size int) (*replayGuard, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "create signature cache")
	}
	return &replayGuard{db: db, cache: cache}, nil
}

func signatureKey(sig solana.Signature) []byte {
	return append(append([]byte{}, sSignaturePrefix...), sig[:]...)
}

func (g *replayGuard) seen(sig solana.Signature) (bool, error) {
	if g.cache.Contains(sig) {
		return true, nil
	}
	return g.db.Has(signatureKey(sig))
}

// record persists sig with its operation expiration. It goes through the caller's
// open transaction, so a discarded operation leaves no trace.
func (g *replayGuard) record(sig solana.Signature, expiration int64) error {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], uint64(expiration))
	return g.db.Put(signatureKey(sig), v[:])
}

// remember adds sig to the cache once its operation is committed.
func (g *replayGuard) remember(sig solana.Signature) {
	g.cache.Add(sig, struct{}{})
}

// prune deletes signatures whose operations expired before now.
// Expired operations are rejected before the replay check, so their signatures are no longer needed.
func (g *replayGuard) prune(now time.Time) (int, error) {
	var expired [][]byte
	start, limit := storage.PrefixRange(sSignaturePrefix)
	err := storage.Scan(g.db, start, limit, func(k, v []byte) error {
		if len(v) == 8 && int64(binary.BigEndian.Uint64(v)) < now.Unix() {
			expired = append(expired, common.CopyBytes(k))
		}
		return nil
	})
	if err != nil || len(expired) == 0 {
		return 0, err
	}

	b := g.db.NewBatch()
	defer g.db.DeleteBatch(b)
	for _, k := range expired {
		if err = b.Delete(k); err != nil {
			return 0, err
		}
	}
	if err = b.Write(); err != nil {
		return 0, err
	}
	for _, k := range expired {
		var sig solana.Signature
		copy(sig[:], k[len(sSignaturePrefix):])
		g.cache.Remove(sig)
	}
	return len(expired), nil
}
