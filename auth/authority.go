package auth

import (
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Authority is a capability to move tokens out of accounts owned by Key().
// Only this package can mint authorities: a Signer proves a verified ed25519
// signature, a ProgramSigner proves knowledge of the derivation seeds.
type Authority interface {
	Key() solana.PublicKey
	// Verify re-checks the proof behind the capability.
	Verify() error
	sealed()
}

// Signer is a human signer whose signature over an operation digest was verified.
type Signer struct {
	key    solana.PublicKey
	digest []byte
	sig    solana.Signature
}

// VerifyOperation checks the envelope signature and returns the signer capability.
func VerifyOperation(sop *prototype.SignedOperation) (*Signer, error) {
	if sop == nil {
		return nil, prototype.ErrNpe
	}
	if sop.Signature == "" {
		return nil, errors.Wrap(prototype.ErrInvalidSignature, "missing signature")
	}
	sig, err := solana.SignatureFromBase58(sop.Signature)
	if err != nil {
		return nil, errors.Wrap(prototype.ErrInvalidSignature, err.Error())
	}
	digest, err := sop.Digest()
	if err != nil {
		return nil, err
	}
	s := &Signer{key: sop.Signer, digest: digest, sig: sig}
	if err = s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Signer) Key() solana.PublicKey {
	return s.key
}

func (s *Signer) Verify() error {
	if s == nil || !s.sig.Verify(s.key, s.digest) {
		return prototype.ErrInvalidSignature
	}
	return nil
}

// Signature returns the verified signature, usable as a unique operation id.
func (s *Signer) Signature() solana.Signature {
	return s.sig
}

func (s *Signer) sealed() {}

// ProgramSigner is the signing identity of an address derived from seeds under a program.
// No private key exists; holding the seeds and the bump is the proof.
type ProgramSigner struct {
	program solana.PublicKey
	seeds   [][]byte
	bump    uint8
	key     solana.PublicKey
}

// NewProgramSigner derives the address of seeds+bump under program.
func NewProgramSigner(program solana.PublicKey, bump uint8, seeds ...[]byte) (*ProgramSigner, error) {
	key, err := createProgramAddress(program, bump, seeds)
	if err != nil {
		return nil, err
	}
	return &ProgramSigner{program: program, seeds: seeds, bump: bump, key: key}, nil
}

func createProgramAddress(program solana.PublicKey, bump uint8, seeds [][]byte) (solana.PublicKey, error) {
	full := make([][]byte, 0, len(seeds)+1)
	full = append(full, seeds...)
	full = append(full, []byte{bump})
	key, err := solana.CreateProgramAddress(full, program)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "derive program address")
	}
	return key, nil
}

func (p *ProgramSigner) Key() solana.PublicKey {
	return p.key
}

func (p *ProgramSigner) Verify() error {
	if p == nil {
		return prototype.ErrNpe
	}
	key, err := createProgramAddress(p.program, p.bump, p.seeds)
	if err != nil {
		return err
	}
	if !key.Equals(p.key) {
		return errors.New("program signer seeds do not derive its key")
	}
	return nil
}

func (p *ProgramSigner) Program() solana.PublicKey {
	return p.program
}

func (p *ProgramSigner) Bump() uint8 {
	return p.bump
}

func (p *ProgramSigner) sealed() {}
