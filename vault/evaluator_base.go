package vault

import (
	"time"

	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// opAssert aborts the running operation with err unless b holds.
func opAssert(b bool, err error) {
	if !b {
		panic(err)
	}
}

func opAssertE(err error, cause error) {
	if err != nil {
		panic(errors.Wrap(cause, err.Error()))
	}
}

func mustNoError(err error, val string) {
	if err != nil {
		panic(errors.Wrap(err, val))
	}
}

type ApplyContext struct {
	db      storage.Database
	ledger  iservices.ITokenLedger
	signer  *auth.Signer
	program solana.PublicKey
	address solana.PublicKey
	bump    uint8
	policy  ClaimPolicy
	now     time.Time
	log     *logrus.Logger
}

// caller is the verified identity that signed the operation.
func (ctx *ApplyContext) caller() solana.PublicKey {
	return ctx.signer.Key()
}

func (ctx *ApplyContext) mustLoadState() *GlobalState {
	state, err := loadGlobalState(ctx.db, ctx.address)
	if errors.Cause(err) == prototype.ErrNotInitialized {
		panic(prototype.ErrNotInitialized)
	}
	mustNoError(err, "load global state")
	return state
}

// mustSaveState persists state after checking that custody still covers the tracked total.
func (ctx *ApplyContext) mustSaveState(state *GlobalState) {
	balance, err := ctx.ledger.BalanceOf(state.Custody)
	mustNoError(err, "query custody balance")
	opAssert(balance >= state.TotalTokens,
		errors.Errorf("custody balance %d below tracked total %d", balance, state.TotalTokens))
	mustNoError(updateGlobalState(ctx.db, ctx.address, state), "save global state")
}

// mustCheckTokenAccount panics unless account exists and holds mint.
// The owner is returned for callers that require a specific one.
func (ctx *ApplyContext) mustCheckTokenAccount(account, mint solana.PublicKey) solana.PublicKey {
	owner, accountMint, err := ctx.ledger.AccountMeta(account)
	mustNoError(err, "query token account")
	opAssert(accountMint.Equals(mint), errors.Wrapf(prototype.ErrMintMismatch, "account %s holds %s", account, accountMint))
	return owner
}

// mustGlobalSigner rebuilds the signing capability of the record from its stored bump.
func (ctx *ApplyContext) mustGlobalSigner(state *GlobalState) *auth.ProgramSigner {
	signer, err := auth.GlobalStateSigner(ctx.program, state.Bump)
	mustNoError(err, "derive vault signer")
	opAssert(signer.Key().Equals(ctx.address), errors.Errorf("vault signer %s does not match record %s", signer.Key(), ctx.address))
	return signer
}

type BaseEvaluator interface {
	Apply()
}

func getBaseEvaluator(ctx *ApplyContext, op prototype.Operation) BaseEvaluator {
	switch o := op.(type) {
	case *prototype.InitializeOperation:
		return &InitializeEvaluator{ctx: ctx, op: o}
	case *prototype.DepositOperation:
		return &DepositEvaluator{ctx: ctx, op: o}
	case *prototype.ClaimToUserOperation:
		return &ClaimToUserEvaluator{ctx: ctx, op: o}
	case *prototype.WithdrawOperation:
		return &WithdrawEvaluator{ctx: ctx, op: o}
	default:
		panic(prototype.ErrUnknownOp)
	}
}
