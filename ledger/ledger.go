package ledger

import (
	"encoding/json"
	"math/big"
	"sync/atomic"

	"github.com/coocood/freecache"
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// maximum cache size (in bytes) for {account, owner+mint} pairs.
	// each entry is a 32-byte key and a 64-byte value, so 4MB holds roughly 40,000 accounts.
	sMetaCacheMaxSize = 4 * 1024 * 1024

	sNamespace = "ledger"
)

var (
	sMintPrefix    = []byte("mint/")
	sAccountPrefix = []byte("acct/")
	sOwnerPrefix   = []byte("own/")
)

// Ledger is a minimal SPL-token-like ledger: mints, token accounts and transfers.
// All state lives in a namespace of the node database, so ledger writes join
// whatever storage transaction the caller has open.
type Ledger struct {
	trx       storage.TrxDatabase
	db        storage.Database
	committed storage.Database
	log   *logrus.Logger
	cache *freecache.Cache // account -> owner ++ mint

	totalQueries, totalHit int64
}

var _ iservices.ITokenLedger = (*Ledger)(nil)

// NewLedger creates a ledger on top of db.
func NewLedger(db storage.TrxDatabase, logger *logrus.Logger) *Ledger {
	if logger == nil {
		logger = logrus.New()
	}
	return &Ledger{
		trx:       db,
		db:        storage.NewNamespace(db, sNamespace),
		committed: storage.NewNamespace(db.Committed(), sNamespace),
		log:       logger,
		cache:     freecache.NewCache(sMetaCacheMaxSize),
	}
}

func prefixedKey(prefix []byte, parts ...solana.PublicKey) []byte {
	key := make([]byte, 0, len(prefix)+len(parts)*solana.PublicKeyLength)
	key = append(key, prefix...)
	for _, p := range parts {
		key = append(key, p.Bytes()...)
	}
	return key
}

func (l *Ledger) load(key []byte, v interface{}) (bool, error) {
	data, err := l.db.Get(key)
	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return false, errors.Wrap(err, "corrupted ledger record")
	}
	return true, nil
}

func encode(w storage.Writer, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func (l *Ledger) Mint(address solana.PublicKey) (*iservices.TokenMint, error) {
	m := new(iservices.TokenMint)
	found, err := l.load(prefixedKey(sMintPrefix, address), m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrap(iservices.ErrMintNotFound, address.String())
	}
	return m, nil
}

func (l *Ledger) Account(address solana.PublicKey) (*iservices.TokenAccount, error) {
	acc := new(iservices.TokenAccount)
	found, err := l.load(prefixedKey(sAccountPrefix, address), acc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrap(iservices.ErrAccountNotFound, address.String())
	}
	return acc, nil
}

func (l *Ledger) BalanceOf(account solana.PublicKey) (uint64, error) {
	acc, err := l.Account(account)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// AccountMeta returns owner and mint of an account, served from a memory cache when possible.
// Only committed accounts are cached: both fields never change after creation,
// but an account created in an open transaction may still be discarded.
func (l *Ledger) AccountMeta(address solana.PublicKey) (owner solana.PublicKey, mint solana.PublicKey, err error) {
	atomic.AddInt64(&l.totalQueries, 1)
	data, cacheErr := l.cache.Get(address.Bytes())
	if cacheErr == nil && len(data) == 2*solana.PublicKeyLength {
		atomic.AddInt64(&l.totalHit, 1)
		copy(owner[:], data[:solana.PublicKeyLength])
		copy(mint[:], data[solana.PublicKeyLength:])
		return owner, mint, nil
	}
	acc, err := l.Account(address)
	if err != nil {
		return owner, mint, err
	}
	if l.isCommitted(address) {
		_ = l.cache.Set(address.Bytes(), append(acc.Owner.Bytes(), acc.Mint.Bytes()...), 0)
	}
	return acc.Owner, acc.Mint, nil
}

func (l *Ledger) isCommitted(address solana.PublicKey) bool {
	if l.trx.TransactionHeight() == 0 {
		return true
	}
	ok, err := l.committed.Has(prefixedKey(sAccountPrefix, address))
	return err == nil && ok
}

// HitRate returns the account meta cache hit rate, in range [0, 1].
func (l *Ledger) HitRate() (rate float64) {
	a, b := atomic.LoadInt64(&l.totalHit), atomic.LoadInt64(&l.totalQueries)
	if a > 0 && b > 0 && a <= b {
		rate, _ = big.NewRat(a, b).Float64()
	}
	return
}

// CreateMint registers a new mint with zero supply.
func (l *Ledger) CreateMint(address, mintAuthority solana.PublicKey, decimals uint8) (*iservices.TokenMint, error) {
	key := prefixedKey(sMintPrefix, address)
	if exists, err := l.db.Has(key); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.Wrapf(iservices.ErrAccountExists, "mint %s", address)
	}
	m := &iservices.TokenMint{
		Address:       address,
		MintAuthority: mintAuthority,
		Decimals:      decimals,
	}
	if err := encode(l.db, key, m); err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{"mint": address, "authority": mintAuthority}).Info("mint created")
	return m, nil
}

func (l *Ledger) CreateAssociatedAccount(wallet, mint solana.PublicKey) (*iservices.TokenAccount, error) {
	if _, err := l.Mint(mint); err != nil {
		return nil, err
	}
	address, err := auth.AssociatedTokenAddress(wallet, mint)
	if err != nil {
		return nil, errors.Wrap(err, "derive associated token address")
	}
	if acc, err := l.Account(address); err == nil {
		return acc, nil
	} else if errors.Cause(err) != iservices.ErrAccountNotFound {
		return nil, err
	}
	acc := &iservices.TokenAccount{
		Address: address,
		Mint:    mint,
		Owner:   wallet,
	}
	b := l.db.NewBatch()
	defer l.db.DeleteBatch(b)
	if err = encode(b, prefixedKey(sAccountPrefix, address), acc); err != nil {
		return nil, err
	}
	if err = b.Put(prefixedKey(sOwnerPrefix, wallet, address), []byte{1}); err != nil {
		return nil, err
	}
	if err = b.Write(); err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{"account": address, "owner": wallet, "mint": mint}).Debug("token account created")
	return acc, nil
}

// AccountsOf lists the token accounts owned by wallet.
func (l *Ledger) AccountsOf(wallet solana.PublicKey) ([]*iservices.TokenAccount, error) {
	prefix := prefixedKey(sOwnerPrefix, wallet)
	start, limit := storage.PrefixRange(prefix)

	var result []*iservices.TokenAccount
	err := storage.Scan(l.db, start, limit, func(k, _ []byte) error {
		if len(k) != len(prefix)+solana.PublicKeyLength {
			return nil
		}
		acc, err := l.Account(solana.PublicKeyFromBytes(k[len(prefix):]))
		if err != nil {
			return err
		}
		result = append(result, acc)
		return nil
	})
	return result, err
}

// Transfer moves amount between two accounts of the same mint.
func (l *Ledger) Transfer(from, to solana.PublicKey, authority auth.Authority, amount uint64) error {
	if authority == nil {
		return iservices.ErrInvalidAuthority
	}
	if err := authority.Verify(); err != nil {
		return errors.Wrap(iservices.ErrInvalidAuthority, err.Error())
	}
	src, err := l.Account(from)
	if err != nil {
		return err
	}
	dst, err := l.Account(to)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(iservices.ErrLedgerMintMismatch, "%s -> %s", src.Mint, dst.Mint)
	}
	if !authority.Key().Equals(src.Owner) {
		return errors.Wrapf(iservices.ErrOwnerMismatch, "%s is owned by %s", from, src.Owner)
	}
	if src.Amount < amount {
		return errors.Wrapf(iservices.ErrInsufficientFunds, "balance %d, need %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	received, err := prototype.SafeAdd(dst.Amount, amount)
	if err != nil {
		return errors.Wrap(iservices.ErrLedgerMathOverflow, to.String())
	}
	src.Amount -= amount
	dst.Amount = received

	b := l.db.NewBatch()
	defer l.db.DeleteBatch(b)
	if err = encode(b, prefixedKey(sAccountPrefix, from), src); err != nil {
		return err
	}
	if err = encode(b, prefixedKey(sAccountPrefix, to), dst); err != nil {
		return err
	}
	if err = b.Write(); err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{"from": from, "to": to, "amount": amount}).Debug("transfer")
	return nil
}

// mintTo increases supply of mint and credits account with amount.
func (l *Ledger) mintTo(mint, account solana.PublicKey, amount uint64) error {
	m, err := l.Mint(mint)
	if err != nil {
		return err
	}
	acc, err := l.Account(account)
	if err != nil {
		return err
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(iservices.ErrLedgerMintMismatch, "account %s", account)
	}
	if m.Supply, err = prototype.SafeAdd(m.Supply, amount); err != nil {
		return iservices.ErrLedgerMathOverflow
	}
	if acc.Amount, err = prototype.SafeAdd(acc.Amount, amount); err != nil {
		return iservices.ErrLedgerMathOverflow
	}
	b := l.db.NewBatch()
	defer l.db.DeleteBatch(b)
	if err = encode(b, prefixedKey(sMintPrefix, mint), m); err != nil {
		return err
	}
	if err = encode(b, prefixedKey(sAccountPrefix, account), acc); err != nil {
		return err
	}
	return b.Write()
}

// MintTo mints new tokens into account. authority must be the mint authority.
func (l *Ledger) MintTo(mint, account solana.PublicKey, authority auth.Authority, amount uint64) error {
	if authority == nil {
		return iservices.ErrInvalidAuthority
	}
	if err := authority.Verify(); err != nil {
		return errors.Wrap(iservices.ErrInvalidAuthority, err.Error())
	}
	m, err := l.Mint(mint)
	if err != nil {
		return err
	}
	if !m.MintAuthority.Equals(authority.Key()) {
		return errors.Wrap(iservices.ErrNotMintAuthority, authority.Key().String())
	}
	return l.mintTo(mint, account, amount)
}
