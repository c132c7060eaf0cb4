package ledger

import (
	"testing"
	"time"

	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/mylog"
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signerOf returns a verified signer capability for key.
func signerOf(t *testing.T, key solana.PrivateKey) *auth.Signer {
	op := &prototype.InitializeOperation{Admin: key.PublicKey(), Mint: key.PublicKey()}
	sop, err := prototype.NewSignedOperation(op, time.Now().Add(time.Minute), 0)
	require.NoError(t, err)
	require.NoError(t, sop.Sign(key))
	signer, err := auth.VerifyOperation(sop)
	require.NoError(t, err)
	return signer
}

type LedgerTester struct {
	db           *storage.TrxMemoryDatabase
	ledger       *Ledger
	admin        solana.PrivateKey
	mint         *iservices.TokenMint
	adminAccount solana.PublicKey
}

func newLedgerTester(t *testing.T) *LedgerTester {
	tester := &LedgerTester{
		db:    storage.NewTrxMemoryDatabase(true),
		admin: solana.NewWallet().PrivateKey,
	}
	tester.ledger = NewLedger(tester.db, mylog.Discard())
	mint, err := tester.ledger.Bootstrap(tester.admin.PublicKey(), 1000)
	require.NoError(t, err)
	tester.mint = mint
	tester.adminAccount, err = auth.AssociatedTokenAddress(tester.admin.PublicKey(), mint.Address)
	require.NoError(t, err)
	return tester
}

func TestLedger(t *testing.T) {
	t.Run("bootstrap", func(t *testing.T) {
		newLedgerTester(t).bootstrap(t)
	})
	t.Run("transfer", func(t *testing.T) {
		newLedgerTester(t).transfer(t)
	})
	t.Run("transfer rules", func(t *testing.T) {
		newLedgerTester(t).transferRules(t)
	})
	t.Run("transactions", func(t *testing.T) {
		newLedgerTester(t).transactions(t)
	})
	t.Run("program signer", func(t *testing.T) {
		newLedgerTester(t).programSigner(t)
	})
	t.Run("meta cache", func(t *testing.T) {
		newLedgerTester(t).metaCache(t)
	})
	t.Run("mint to", func(t *testing.T) {
		newLedgerTester(t).mintTo(t)
	})
}

func (tester *LedgerTester) bootstrap(t *testing.T) {
	a := assert.New(t)
	a.Equal(uint8(constants.Decimals), tester.mint.Decimals)
	a.Equal(uint64(1000), tester.mint.Supply)
	a.True(tester.mint.MintAuthority.Equals(tester.admin.PublicKey()))

	balance, err := tester.ledger.BalanceOf(tester.adminAccount)
	a.NoError(err)
	a.Equal(uint64(1000), balance)

	// bootstrapping twice is a no-op
	again, err := tester.ledger.Bootstrap(tester.admin.PublicKey(), 5)
	a.NoError(err)
	a.Equal(uint64(1000), again.Supply)
	a.Equal(uint(0), tester.db.TransactionHeight())

	accounts, err := tester.ledger.AccountsOf(tester.admin.PublicKey())
	a.NoError(err)
	a.Len(accounts, 1)
	a.True(accounts[0].Address.Equals(tester.adminAccount))
}

func (tester *LedgerTester) transfer(t *testing.T) {
	a := assert.New(t)
	user := solana.NewWallet().PublicKey()
	userAccount, err := tester.ledger.CreateAssociatedAccount(user, tester.mint.Address)
	a.NoError(err)
	a.Equal(uint64(0), userAccount.Amount)

	// creating it again returns the same account
	again, err := tester.ledger.CreateAssociatedAccount(user, tester.mint.Address)
	a.NoError(err)
	a.True(again.Address.Equals(userAccount.Address))

	a.NoError(tester.ledger.Transfer(tester.adminAccount, userAccount.Address, signerOf(t, tester.admin), 300))
	balance, _ := tester.ledger.BalanceOf(tester.adminAccount)
	a.Equal(uint64(700), balance)
	balance, _ = tester.ledger.BalanceOf(userAccount.Address)
	a.Equal(uint64(300), balance)

	// zero and self transfers change nothing
	a.NoError(tester.ledger.Transfer(tester.adminAccount, userAccount.Address, signerOf(t, tester.admin), 0))
	a.NoError(tester.ledger.Transfer(tester.adminAccount, tester.adminAccount, signerOf(t, tester.admin), 700))
	balance, _ = tester.ledger.BalanceOf(tester.adminAccount)
	a.Equal(uint64(700), balance)
}

func (tester *LedgerTester) transferRules(t *testing.T) {
	a := assert.New(t)
	userKey := solana.NewWallet().PrivateKey
	userAccount, err := tester.ledger.CreateAssociatedAccount(userKey.PublicKey(), tester.mint.Address)
	a.NoError(err)

	// not the owner
	err = tester.ledger.Transfer(tester.adminAccount, userAccount.Address, signerOf(t, userKey), 1)
	a.Equal(iservices.ErrOwnerMismatch, errors.Cause(err))

	// more than the balance
	err = tester.ledger.Transfer(tester.adminAccount, userAccount.Address, signerOf(t, tester.admin), 1001)
	a.Equal(iservices.ErrInsufficientFunds, errors.Cause(err))

	// no authority
	err = tester.ledger.Transfer(tester.adminAccount, userAccount.Address, nil, 1)
	a.Equal(iservices.ErrInvalidAuthority, errors.Cause(err))

	// unknown destination
	err = tester.ledger.Transfer(tester.adminAccount, solana.NewWallet().PublicKey(), signerOf(t, tester.admin), 1)
	a.Equal(iservices.ErrAccountNotFound, errors.Cause(err))

	// another mint
	otherMint := solana.NewWallet().PublicKey()
	_, err = tester.ledger.CreateMint(otherMint, tester.admin.PublicKey(), constants.Decimals)
	a.NoError(err)
	otherAccount, err := tester.ledger.CreateAssociatedAccount(tester.admin.PublicKey(), otherMint)
	a.NoError(err)
	err = tester.ledger.Transfer(tester.adminAccount, otherAccount.Address, signerOf(t, tester.admin), 1)
	a.Equal(iservices.ErrLedgerMintMismatch, errors.Cause(err))

	_, err = tester.ledger.CreateMint(otherMint, tester.admin.PublicKey(), constants.Decimals)
	a.Equal(iservices.ErrAccountExists, errors.Cause(err))
	_, err = tester.ledger.CreateAssociatedAccount(tester.admin.PublicKey(), solana.NewWallet().PublicKey())
	a.Equal(iservices.ErrMintNotFound, errors.Cause(err))

	// nothing moved
	balance, _ := tester.ledger.BalanceOf(tester.adminAccount)
	a.Equal(uint64(1000), balance)
}

func (tester *LedgerTester) transactions(t *testing.T) {
	a := assert.New(t)
	user := solana.NewWallet().PublicKey()
	userAccount, err := tester.ledger.CreateAssociatedAccount(user, tester.mint.Address)
	a.NoError(err)

	tester.db.BeginTransaction()
	a.NoError(tester.ledger.Transfer(tester.adminAccount, userAccount.Address, signerOf(t, tester.admin), 400))
	balance, _ := tester.ledger.BalanceOf(userAccount.Address)
	a.Equal(uint64(400), balance)
	a.NoError(tester.db.EndTransaction(false))

	balance, _ = tester.ledger.BalanceOf(userAccount.Address)
	a.Equal(uint64(0), balance)

	tester.db.BeginTransaction()
	a.NoError(tester.ledger.Transfer(tester.adminAccount, userAccount.Address, signerOf(t, tester.admin), 400))
	a.NoError(tester.db.EndTransaction(true))

	balance, _ = tester.ledger.BalanceOf(userAccount.Address)
	a.Equal(uint64(400), balance)
}

func (tester *LedgerTester) programSigner(t *testing.T) {
	a := assert.New(t)
	pda, bump, err := auth.DeriveGlobalState(auth.DefaultProgramID)
	a.NoError(err)
	custody, err := tester.ledger.CreateAssociatedAccount(pda, tester.mint.Address)
	a.NoError(err)
	a.NoError(tester.ledger.Transfer(tester.adminAccount, custody.Address, signerOf(t, tester.admin), 100))

	signer, err := auth.GlobalStateSigner(auth.DefaultProgramID, bump)
	a.NoError(err)
	a.NoError(tester.ledger.Transfer(custody.Address, tester.adminAccount, signer, 40))

	balance, _ := tester.ledger.BalanceOf(custody.Address)
	a.Equal(uint64(60), balance)

	// a signer derived under another program owns nothing here
	otherProgram := solana.NewWallet().PublicKey()
	_, otherBump, err := auth.DeriveGlobalState(otherProgram)
	a.NoError(err)
	other, err := auth.GlobalStateSigner(otherProgram, otherBump)
	a.NoError(err)
	err = tester.ledger.Transfer(custody.Address, tester.adminAccount, other, 1)
	a.Equal(iservices.ErrOwnerMismatch, errors.Cause(err))
}

func (tester *LedgerTester) metaCache(t *testing.T) {
	a := assert.New(t)
	owner, mint, err := tester.ledger.AccountMeta(tester.adminAccount)
	a.NoError(err)
	a.True(owner.Equals(tester.admin.PublicKey()))
	a.True(mint.Equals(tester.mint.Address))

	owner, mint, err = tester.ledger.AccountMeta(tester.adminAccount)
	a.NoError(err)
	a.True(owner.Equals(tester.admin.PublicKey()))
	a.True(mint.Equals(tester.mint.Address))
	a.Equal(0.5, tester.ledger.HitRate())

	// accounts created in an open transaction are not cached
	tester.db.BeginTransaction()
	user := solana.NewWallet().PublicKey()
	acc, err := tester.ledger.CreateAssociatedAccount(user, tester.mint.Address)
	a.NoError(err)
	_, _, err = tester.ledger.AccountMeta(acc.Address)
	a.NoError(err)
	a.NoError(tester.db.EndTransaction(false))
	_, _, err = tester.ledger.AccountMeta(acc.Address)
	a.Equal(iservices.ErrAccountNotFound, errors.Cause(err))
}

func TestAccountMetaCachedInTransaction(t *testing.T) {
	a := assert.New(t)
	tester := newLedgerTester(t)
	user := solana.NewWallet().PublicKey()
	acc, err := tester.ledger.CreateAssociatedAccount(user, tester.mint.Address)
	a.NoError(err)

	// committed accounts are cached even when looked up inside a transaction
	tester.db.BeginTransaction()
	owner, _, err := tester.ledger.AccountMeta(acc.Address)
	a.NoError(err)
	a.True(owner.Equals(user))
	owner, mint, err := tester.ledger.AccountMeta(acc.Address)
	a.NoError(err)
	a.True(owner.Equals(user))
	a.True(mint.Equals(tester.mint.Address))
	a.NoError(tester.db.EndTransaction(false))
	a.Equal(0.5, tester.ledger.HitRate())

	// the account survives the discarded session, so the cached entry stays valid
	owner, _, err = tester.ledger.AccountMeta(acc.Address)
	a.NoError(err)
	a.True(owner.Equals(user))
}

func (tester *LedgerTester) mintTo(t *testing.T) {
	a := assert.New(t)
	a.NoError(tester.ledger.MintTo(tester.mint.Address, tester.adminAccount, signerOf(t, tester.admin), 10))
	balance, _ := tester.ledger.BalanceOf(tester.adminAccount)
	a.Equal(uint64(1010), balance)

	err := tester.ledger.MintTo(tester.mint.Address, tester.adminAccount, signerOf(t, solana.NewWallet().PrivateKey), 10)
	a.Equal(iservices.ErrNotMintAuthority, errors.Cause(err))

	m, err := tester.ledger.Mint(tester.mint.Address)
	a.NoError(err)
	a.Equal(uint64(1010), m.Supply)
}
