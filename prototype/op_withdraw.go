package prototype

import "github.com/gagliardetto/solana-go"

// WithdrawOperation returns Amount from custody to the admin's own token account.
type WithdrawOperation struct {
	Admin             solana.PublicKey `json:"admin"`
	AdminTokenAccount solana.PublicKey `json:"admin_token_account"`
	Amount            uint64           `json:"amount"`
}

func (op *WithdrawOperation) Type() string {
	return OpWithdraw
}

func (op *WithdrawOperation) Signer() solana.PublicKey {
	return op.Admin
}

func (op *WithdrawOperation) Validate() error {
	if op == nil {
		return ErrNpe
	}
	if err := requireAddress("admin", op.Admin); err != nil {
		return err
	}
	return requireAddress("admin_token_account", op.AdminTokenAccount)
}
