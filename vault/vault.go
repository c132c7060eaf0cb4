package vault

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

const sNamespace = "vault"

// Config holds the deployment parameters of a vault.
type Config struct {
	// ProgramID is the program every vault address is derived under, auth.DefaultProgramID if zero.
	ProgramID solana.PublicKey
	// ClaimPolicy defaults to ClaimPolicyAdmin.
	ClaimPolicy ClaimPolicy
	// Bus receives a notice for every applied or failed operation. Optional.
	Bus EventBus.Bus
}

// Vault executes signed operations against the global vault record.
// Operations are serialized; each one runs in its own storage transaction
// together with the ledger transfers it makes.
type Vault struct {
	db      storage.TrxDatabase
	store   storage.Database
	ledger  iservices.ITokenLedger
	log     *logrus.Logger
	policy  ClaimPolicy
	noticer EventBus.Bus
	addrs   iservices.VaultAddresses
	replay  *replayGuard
	lock    deadlock.RWMutex
	now     func() time.Time
}

var _ iservices.IVault = (*Vault)(nil)

func NewVault(db storage.TrxDatabase, ledger iservices.ITokenLedger, cfg *Config, logger *logrus.Logger) (*Vault, error) {
	if db == nil || ledger == nil {
		return nil, prototype.ErrNpe
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	program := cfg.ProgramID
	if program.IsZero() {
		program = auth.DefaultProgramID
	}
	policy, err := ParseClaimPolicy(string(cfg.ClaimPolicy))
	if err != nil {
		return nil, err
	}
	global, bump, err := auth.DeriveGlobalState(program)
	if err != nil {
		return nil, errors.Wrap(err, "derive global state address")
	}
	vaultAddr, _, err := auth.DeriveVaultAddress(program)
	if err != nil {
		return nil, errors.Wrap(err, "derive vault address")
	}
	store := storage.NewNamespace(db, sNamespace)
	replay, err := newReplayGuard(store, constants.OpSignatureCacheSize)
	if err != nil {
		return nil, err
	}
	return &Vault{
		db:      db,
		store:   store,
		ledger:  ledger,
		log:     logger,
		policy:  policy,
		noticer: cfg.Bus,
		addrs: iservices.VaultAddresses{
			Program:     program,
			GlobalState: global,
			GlobalBump:  bump,
			Vault:       vaultAddr,
		},
		replay: replay,
		now:    time.Now,
	}, nil
}

// Apply verifies the envelope of sop and executes its operation.
// Envelope failures (signature, expiration, replay) return a nil receipt.
// Once the operation runs, a receipt is always returned; on failure it carries the error too.
func (v *Vault) Apply(sop *prototype.SignedOperation) (*prototype.Receipt, error) {
	signer, err := auth.VerifyOperation(sop)
	if err != nil {
		return nil, err
	}
	op, err := sop.Operation()
	if err != nil {
		return nil, err
	}
	now := v.now()
	if err = checkExpiration(sop, now); err != nil {
		return nil, err
	}

	receipt, err := v.applyLocked(sop, signer, op, now)
	if receipt == nil {
		return nil, err
	}
	if err != nil {
		v.notify(constants.NoticeOpFailed, receipt)
		return receipt, err
	}
	v.notify(constants.NoticeOpApplied, receipt)
	return receipt, nil
}

func checkExpiration(sop *prototype.SignedOperation, now time.Time) error {
	exp := sop.Expiration
	if exp <= now.Unix() {
		return errors.Wrapf(prototype.ErrOperationExpired, "expired at %d", exp)
	}
	if exp > now.Unix()+constants.OpMaxExpirationTime {
		return errors.Wrapf(prototype.ErrOperationExpired, "expiration %d too far in the future", exp)
	}
	return nil
}

func (v *Vault) applyLocked(sop *prototype.SignedOperation, signer *auth.Signer, op prototype.Operation, now time.Time) (*prototype.Receipt, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	sig := signer.Signature()
	seen, err := v.replay.seen(sig)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, errors.Wrap(prototype.ErrDuplicateOperation, sig.String())
	}

	receipt := &prototype.Receipt{
		ID:        uuid.New().String(),
		Type:      op.Type(),
		Signer:    signer.Key().String(),
		Signature: sig.String(),
		Amount:    prototype.AmountOf(op),
		AppliedAt: now,
	}
	err = v.applyOperation(&ApplyContext{
		db:      v.store,
		ledger:  v.ledger,
		signer:  signer,
		program: v.addrs.Program,
		address: v.addrs.GlobalState,
		bump:    v.addrs.GlobalBump,
		policy:  v.policy,
		now:     now,
		log:     v.log,
	}, op, sop.Expiration)

	if state, stateErr := loadGlobalState(v.store, v.addrs.GlobalState); stateErr == nil {
		receipt.TotalTokens = state.TotalTokens
	}
	fields := logrus.Fields{
		"op":      receipt.Type,
		"signer":  receipt.Signer,
		"amount":  receipt.Amount,
		"total":   receipt.TotalTokens,
		"receipt": receipt.ID,
	}
	if err != nil {
		receipt.Status = prototype.StatusError
		receipt.ErrorCode = prototype.ErrorCode(err)
		receipt.ErrorInfo = err.Error()
		v.log.WithFields(fields).WithError(err).Warn("operation failed")
		return receipt, err
	}
	receipt.Status = prototype.StatusSuccess
	v.replay.remember(sig)
	v.log.WithFields(fields).Info("operation applied")
	return receipt, nil
}

// applyOperation runs one evaluator inside a storage transaction.
// Evaluators abort by panicking; the panic is turned into the returned error
// and every write of the operation, ledger transfers included, is discarded.
func (v *Vault) applyOperation(ctx *ApplyContext, op prototype.Operation, expiration int64) (err error) {
	v.db.BeginTransaction()
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
		if err != nil {
			if endErr := v.db.EndTransaction(false); endErr != nil {
				v.log.WithError(endErr).Error("discard operation session")
			}
			return
		}
		err = v.db.EndTransaction(true)
	}()

	getBaseEvaluator(ctx, op).Apply()
	mustNoError(v.replay.record(ctx.signer.Signature(), expiration), "record operation signature")
	return nil
}

func panicError(r interface{}) error {
	switch e := r.(type) {
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return errors.New(fmt.Sprint(e))
	}
}

func (v *Vault) notify(topic string, receipt *prototype.Receipt) {
	if v.noticer != nil {
		v.noticer.Publish(topic, receipt)
	}
}

// State returns the global vault record, or ErrNotInitialized.
func (v *Vault) State() (*iservices.VaultState, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	state, err := loadGlobalState(v.store, v.addrs.GlobalState)
	if err != nil {
		return nil, err
	}
	return state.view(v.addrs.GlobalState), nil
}

// CustodyBalance returns the real token balance of the custody account.
func (v *Vault) CustodyBalance() (uint64, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	state, err := loadGlobalState(v.store, v.addrs.GlobalState)
	if err != nil {
		return 0, err
	}
	return v.ledger.BalanceOf(state.Custody)
}

// Audit checks that the custody account covers the tracked pool balance.
func (v *Vault) Audit() (*iservices.AuditReport, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	state, err := loadGlobalState(v.store, v.addrs.GlobalState)
	if err != nil {
		return nil, err
	}
	balance, err := v.ledger.BalanceOf(state.Custody)
	if err != nil {
		return nil, err
	}
	report := &iservices.AuditReport{
		TotalTokens:    state.TotalTokens,
		CustodyBalance: balance,
		Consistent:     balance >= state.TotalTokens,
	}
	if !report.Consistent {
		v.log.WithFields(logrus.Fields{"total": state.TotalTokens, "custody": balance}).Error("custody balance below tracked total")
	}
	return report, nil
}

func (v *Vault) Addresses() *iservices.VaultAddresses {
	addrs := v.addrs
	return &addrs
}

// TokenAccount reads a ledger account. Reads are locked out while an operation is running.
func (v *Vault) TokenAccount(address solana.PublicKey) (*iservices.TokenAccount, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.ledger.Account(address)
}

// CreateTokenAccount creates the associated token account of wallet for the vault mint.
func (v *Vault) CreateTokenAccount(wallet solana.PublicKey) (*iservices.TokenAccount, error) {
	if wallet.IsZero() {
		return nil, prototype.ErrEmptyAddress
	}
	v.lock.Lock()
	defer v.lock.Unlock()

	state, err := loadGlobalState(v.store, v.addrs.GlobalState)
	if err != nil {
		return nil, err
	}
	var acc *iservices.TokenAccount
	err = storage.RunInTransaction(v.db, func() (err error) {
		acc, err = v.ledger.CreateAssociatedAccount(wallet, state.Mint)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (v *Vault) Policy() ClaimPolicy {
	return v.policy
}

// PruneSignatures drops remembered signatures of operations that can no longer be submitted.
func (v *Vault) PruneSignatures() (int, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	n, err := v.replay.prune(v.now())
	if err == nil && n > 0 {
		v.log.WithField("count", n).Debug("pruned expired operation signatures")
	}
	return n, err
}
