package prototype

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// SignedOperation is the envelope submitted to the vault: one operation, its
// expiration, a caller chosen nonce and the ed25519 signature of the signer.
type SignedOperation struct {
	Type       string           `json:"type"`
	Payload    json.RawMessage  `json:"payload"`
	Expiration int64            `json:"expiration"`
	Nonce      uint64           `json:"nonce"`
	Signer     solana.PublicKey `json:"signer"`
	Signature  string           `json:"signature"`
}

func NewSignedOperation(op Operation, expiration time.Time, nonce uint64) (*SignedOperation, error) {
	if op == nil {
		return nil, ErrNpe
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(op)
	if err != nil {
		return nil, errors.Wrap(err, "encode operation")
	}
	return &SignedOperation{
		Type:       op.Type(),
		Payload:    payload,
		Expiration: expiration.Unix(),
		Nonce:      nonce,
		Signer:     op.Signer(),
	}, nil
}

// Operation decodes the payload and checks that it names the envelope's signer.
func (s *SignedOperation) Operation() (Operation, error) {
	if s == nil {
		return nil, ErrNpe
	}
	op, err := DecodeOperation(s.Type, s.Payload)
	if err != nil {
		return nil, err
	}
	if err = op.Validate(); err != nil {
		return nil, err
	}
	if !op.Signer().Equals(s.Signer) {
		return nil, errors.Wrap(ErrInvalidSignature, "envelope signer differs from operation signer")
	}
	return op, nil
}

// Digest is the sha256 hash the signer signs. The payload is re-encoded from the
// decoded operation so formatting of the submitted JSON does not matter.
func (s *SignedOperation) Digest() ([]byte, error) {
	op, err := s.Operation()
	if err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(op)
	if err != nil {
		return nil, errors.Wrap(err, "encode operation")
	}
	var buf bytes.Buffer
	buf.WriteString(s.Type)
	buf.WriteByte(0)
	buf.Write(canonical)
	var tail [16]byte
	binary.BigEndian.PutUint64(tail[:8], uint64(s.Expiration))
	binary.BigEndian.PutUint64(tail[8:], s.Nonce)
	buf.Write(tail[:])
	buf.Write(s.Signer.Bytes())
	sum := sha256.Sum256(buf.Bytes())
	return sum[:], nil
}

// Sign signs the envelope with key, which must belong to the operation signer.
func (s *SignedOperation) Sign(key solana.PrivateKey) error {
	if !key.PublicKey().Equals(s.Signer) {
		return errors.Wrap(ErrInvalidSignature, "key does not belong to the operation signer")
	}
	digest, err := s.Digest()
	if err != nil {
		return err
	}
	sig, err := key.Sign(digest)
	if err != nil {
		return errors.Wrap(err, "sign operation")
	}
	s.Signature = sig.String()
	return nil
}

func (s *SignedOperation) ExpirationTime() time.Time {
	return time.Unix(s.Expiration, 0)
}
