package prototype

import "github.com/gagliardetto/solana-go"

// DepositOperation moves Amount from the admin's token account into custody.
type DepositOperation struct {
	Admin             solana.PublicKey `json:"admin"`
	AdminTokenAccount solana.PublicKey `json:"admin_token_account"`
	Amount            uint64           `json:"amount"`
}

func (op *DepositOperation) Type() string {
	return OpDeposit
}

func (op *DepositOperation) Signer() solana.PublicKey {
	return op.Admin
}

func (op *DepositOperation) Validate() error {
	if op == nil {
		return ErrNpe
	}
	if err := requireAddress("admin", op.Admin); err != nil {
		return err
	}
	return requireAddress("admin_token_account", op.AdminTokenAccount)
}
