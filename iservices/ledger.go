package iservices

import (
	"github.com/coschain/cosvault/auth"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var LedgerServerName = "ledger"

var (
	ErrAccountNotFound    = errors.New("token account not found")
	ErrMintNotFound       = errors.New("mint not found")
	ErrAccountExists      = errors.New("token account already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrOwnerMismatch      = errors.New("authority does not own the source account")
	ErrLedgerMintMismatch = errors.New("source and destination hold different mints")
	ErrInvalidAuthority   = errors.New("invalid transfer authority")
	ErrLedgerMathOverflow = errors.New("token amount overflow")
	ErrNotMintAuthority   = errors.New("authority may not mint this token")
)

// TokenMint describes one fungible token type.
type TokenMint struct {
	Address       solana.PublicKey `json:"address"`
	MintAuthority solana.PublicKey `json:"mint_authority"`
	Decimals      uint8            `json:"decimals"`
	Supply        uint64           `json:"supply"`
}

// TokenAccount holds a balance of one mint on behalf of Owner.
type TokenAccount struct {
	Address solana.PublicKey `json:"address"`
	Mint    solana.PublicKey `json:"mint"`
	Owner   solana.PublicKey `json:"owner"`
	Amount  uint64           `json:"amount"`
}

// ITokenLedger is the token service the vault moves funds through.
// Every method reads and writes the ledger's database, so calls made inside an
// open storage transaction are committed or discarded together with it.
type ITokenLedger interface {
	// Mint returns the mint at address, or ErrMintNotFound.
	Mint(address solana.PublicKey) (*TokenMint, error)

	// Account returns the token account at address, or ErrAccountNotFound.
	Account(address solana.PublicKey) (*TokenAccount, error)

	// BalanceOf returns the amount held by a token account.
	BalanceOf(account solana.PublicKey) (uint64, error)

	// AccountMeta returns the immutable owner and mint of a token account.
	AccountMeta(address solana.PublicKey) (owner solana.PublicKey, mint solana.PublicKey, err error)

	// CreateAssociatedAccount creates the associated token account of (wallet, mint).
	// An existing account is returned unchanged.
	CreateAssociatedAccount(wallet, mint solana.PublicKey) (*TokenAccount, error)

	// Transfer moves amount from one account to another of the same mint.
	// authority must own the source account. Either both balances change or none.
	Transfer(from, to solana.PublicKey, authority auth.Authority, amount uint64) error
}
