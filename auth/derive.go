package auth

import (
	"github.com/coschain/cosvault/common/constants"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// DefaultProgramID is the id the vault addresses are derived from unless configured otherwise.
var DefaultProgramID = solana.MustPublicKeyFromBase58(constants.ProgramID)

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "invalid address %q", s)
	}
	return key, nil
}

// DeriveGlobalState returns the deterministic address of the global vault record and its bump.
func DeriveGlobalState(program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(constants.GlobalSeed)}, program)
}

// DeriveVaultAddress derives the address reserved under VAULT_SEED. No operation uses it yet.
func DeriveVaultAddress(program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(constants.VaultSeed)}, program)
}

// GlobalStateSigner rebuilds the signing capability of the global vault record.
func GlobalStateSigner(program solana.PublicKey, bump uint8) (*ProgramSigner, error) {
	return NewProgramSigner(program, bump, []byte(constants.GlobalSeed))
}

// DeriveMintAddress is the address of the mint created for admin at genesis.
func DeriveMintAddress(admin solana.PublicKey) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress([][]byte{[]byte(constants.MintSeed), admin.Bytes()}, solana.TokenProgramID)
	return key, err
}

// AssociatedTokenAddress is the canonical token account of wallet for mint.
func AssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	key, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	return key, err
}
