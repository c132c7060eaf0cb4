package prototype

import "github.com/gagliardetto/solana-go"

// ClaimToUserOperation pays Amount out of custody into UserTokenAccount.
// User is the caller; the recipient account may belong to anyone.
type ClaimToUserOperation struct {
	User             solana.PublicKey `json:"user"`
	UserTokenAccount solana.PublicKey `json:"user_token_account"`
	Amount           uint64           `json:"amount"`
}

func (op *ClaimToUserOperation) Type() string {
	return OpClaimToUser
}

func (op *ClaimToUserOperation) Signer() solana.PublicKey {
	return op.User
}

func (op *ClaimToUserOperation) Validate() error {
	if op == nil {
		return ErrNpe
	}
	if err := requireAddress("user", op.User); err != nil {
		return err
	}
	return requireAddress("user_token_account", op.UserTokenAccount)
}
