package prototype

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	OpInitialize  = "initialize"
	OpDeposit     = "deposit"
	OpClaimToUser = "claim_to_user"
	OpWithdraw    = "withdraw"
)

// Operation is a request against the vault. Signer is the identity that must sign it.
type Operation interface {
	Type() string
	Signer() solana.PublicKey
	Validate() error
}

// AmountOf returns the token amount an operation moves, 0 for Initialize.
func AmountOf(op Operation) uint64 {
	switch o := op.(type) {
	case *DepositOperation:
		return o.Amount
	case *ClaimToUserOperation:
		return o.Amount
	case *WithdrawOperation:
		return o.Amount
	}
	return 0
}

func newOperation(opType string) (Operation, error) {
	switch opType {
	case OpInitialize:
		return new(InitializeOperation), nil
	case OpDeposit:
		return new(DepositOperation), nil
	case OpClaimToUser:
		return new(ClaimToUserOperation), nil
	case OpWithdraw:
		return new(WithdrawOperation), nil
	}
	return nil, errors.Wrap(ErrUnknownOp, opType)
}

// DecodeOperation rebuilds a typed operation from its type tag and JSON payload.
func DecodeOperation(opType string, payload []byte) (Operation, error) {
	op, err := newOperation(opType)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(payload, op); err != nil {
		return nil, errors.Wrapf(ErrBadPayload, "decode %s operation: %v", opType, err)
	}
	return op, nil
}

func requireAddress(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return errors.Wrap(ErrEmptyAddress, name)
	}
	return nil
}
