package vault

import (
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type InitializeEvaluator struct {
	BaseEvaluator
	ctx *ApplyContext
	op  *prototype.InitializeOperation
}

type DepositEvaluator struct {
	BaseEvaluator
	ctx *ApplyContext
	op  *prototype.DepositOperation
}

type ClaimToUserEvaluator struct {
	BaseEvaluator
	ctx *ApplyContext
	op  *prototype.ClaimToUserOperation
}

type WithdrawEvaluator struct {
	BaseEvaluator
	ctx *ApplyContext
	op  *prototype.WithdrawOperation
}

func (ev *InitializeEvaluator) Apply() {
	op := ev.op
	ctx := ev.ctx

	_, err := ctx.ledger.Mint(op.Mint)
	if errors.Cause(err) == iservices.ErrMintNotFound {
		panic(errors.Wrapf(prototype.ErrMintMismatch, "mint %s does not exist", op.Mint))
	}
	mustNoError(err, "query mint")

	custody, err := auth.AssociatedTokenAddress(ctx.address, op.Mint)
	mustNoError(err, "derive custody account")

	state := &GlobalState{
		Admin:       ctx.caller(),
		Mint:        op.Mint,
		Custody:     custody,
		TotalTokens: 0,
		Bump:        ctx.bump,
		CreatedAt:   ctx.now.Unix(),
	}
	err = createGlobalState(ctx.db, ctx.address, state)
	if errors.Cause(err) == prototype.ErrAlreadyInitialized {
		panic(err)
	}
	mustNoError(err, "create global state")

	acc, err := ctx.ledger.CreateAssociatedAccount(ctx.address, op.Mint)
	mustNoError(err, "create custody account")
	opAssert(acc.Address.Equals(custody), errors.Errorf("custody account %s, expected %s", acc.Address, custody))
	opAssert(acc.Owner.Equals(ctx.address), errors.Wrap(prototype.ErrTokenAccountOwnerMismatch, "custody account"))

	ctx.log.WithFields(logrus.Fields{"admin": state.Admin, "mint": state.Mint, "custody": custody}).Info("vault initialized")
}

func (ev *DepositEvaluator) Apply() {
	op := ev.op
	ctx := ev.ctx

	state := ctx.mustLoadState()
	opAssert(ctx.caller().Equals(state.Admin), prototype.ErrPoolAdminMismatch)

	owner := ctx.mustCheckTokenAccount(op.AdminTokenAccount, state.Mint)
	opAssert(owner.Equals(ctx.caller()), prototype.ErrTokenAccountOwnerMismatch)

	balance, err := ctx.ledger.BalanceOf(op.AdminTokenAccount)
	mustNoError(err, "query admin balance")
	opAssert(balance >= op.Amount, errors.Wrapf(prototype.ErrInsufficientFundsInAdminAccount, "balance %d, deposit %d", balance, op.Amount))

	total, err := prototype.SafeAdd(state.TotalTokens, op.Amount)
	opAssertE(err, prototype.ErrMathOverflow)

	mustNoError(ctx.ledger.Transfer(op.AdminTokenAccount, state.Custody, ctx.signer, op.Amount), "transfer into custody")
	state.TotalTokens = total
	ctx.mustSaveState(state)
}

func (ev *ClaimToUserEvaluator) Apply() {
	op := ev.op
	ctx := ev.ctx

	state := ctx.mustLoadState()
	if ctx.policy != ClaimPolicyOpen {
		opAssert(ctx.caller().Equals(state.Admin), prototype.ErrPoolAdminMismatch)
	}
	opAssert(state.TotalTokens >= op.Amount, errors.Wrapf(prototype.ErrInsufficientTokensInPool, "pool %d, claim %d", state.TotalTokens, op.Amount))
	ctx.mustCheckTokenAccount(op.UserTokenAccount, state.Mint)

	signer := ctx.mustGlobalSigner(state)
	mustNoError(ctx.ledger.Transfer(state.Custody, op.UserTokenAccount, signer, op.Amount), "transfer to recipient")
	state.TotalTokens -= op.Amount
	ctx.mustSaveState(state)
}

func (ev *WithdrawEvaluator) Apply() {
	op := ev.op
	ctx := ev.ctx

	state := ctx.mustLoadState()
	opAssert(ctx.caller().Equals(state.Admin), prototype.ErrPoolAdminMismatch)
	opAssert(state.TotalTokens >= op.Amount, errors.Wrapf(prototype.ErrInsufficientTokensInPool, "pool %d, withdraw %d", state.TotalTokens, op.Amount))

	owner := ctx.mustCheckTokenAccount(op.AdminTokenAccount, state.Mint)
	opAssert(owner.Equals(state.Admin), prototype.ErrTokenAccountOwnerMismatch)

	signer := ctx.mustGlobalSigner(state)
	mustNoError(ctx.ledger.Transfer(state.Custody, op.AdminTokenAccount, signer, op.Amount), "transfer out of custody")
	state.TotalTokens -= op.Amount
	ctx.mustSaveState(state)
}
