package prototype

import "github.com/gagliardetto/solana-go"

// InitializeOperation creates the global vault record. Admin becomes the pool admin.
type InitializeOperation struct {
	Admin solana.PublicKey `json:"admin"`
	Mint  solana.PublicKey `json:"mint"`
}

func (op *InitializeOperation) Type() string {
	return OpInitialize
}

func (op *InitializeOperation) Signer() solana.PublicKey {
	return op.Admin
}

func (op *InitializeOperation) Validate() error {
	if op == nil {
		return ErrNpe
	}
	if err := requireAddress("admin", op.Admin); err != nil {
		return err
	}
	return requireAddress("mint", op.Mint)
}
