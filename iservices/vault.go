package iservices

import (
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
)

var VaultServerName = "vault"

// VaultState is the public view of the global vault record.
type VaultState struct {
	Address     solana.PublicKey `json:"address"`
	Admin       solana.PublicKey `json:"admin"`
	Mint        solana.PublicKey `json:"mint"`
	Custody     solana.PublicKey `json:"custody"`
	TotalTokens uint64           `json:"total_tokens"`
	Bump        uint8            `json:"bump"`
	CreatedAt   int64            `json:"created_at"`
}

// VaultAddresses lists the deterministic addresses of a deployment.
type VaultAddresses struct {
	Program     solana.PublicKey `json:"program"`
	GlobalState solana.PublicKey `json:"global_state"`
	GlobalBump  uint8            `json:"global_bump"`
	Vault       solana.PublicKey `json:"vault"`
}

// AuditReport compares the tracked pool balance with the custody account.
type AuditReport struct {
	TotalTokens    uint64 `json:"total_tokens"`
	CustodyBalance uint64 `json:"custody_balance"`
	Consistent     bool   `json:"consistent"`
}

type IVault interface {
	// Apply verifies and executes one signed operation.
	// A receipt is returned for every operation that passed envelope checks, failed or not.
	Apply(sop *prototype.SignedOperation) (*prototype.Receipt, error)

	State() (*VaultState, error)
	CustodyBalance() (uint64, error)
	Audit() (*AuditReport, error)
	Addresses() *VaultAddresses

	// TokenAccount reads a ledger account consistently with running operations.
	TokenAccount(address solana.PublicKey) (*TokenAccount, error)
	// CreateTokenAccount opens the associated token account of wallet for the vault mint.
	CreateTokenAccount(wallet solana.PublicKey) (*TokenAccount, error)
}
