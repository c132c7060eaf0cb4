package prototype

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) solana.PrivateKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

func TestSignedOperationRoundTrip(t *testing.T) {
	a := assert.New(t)
	admin := newKey(t)
	account := newKey(t).PublicKey()

	op := &DepositOperation{Admin: admin.PublicKey(), AdminTokenAccount: account, Amount: 1000}
	sop, err := NewSignedOperation(op, time.Now().Add(time.Minute), 7)
	a.NoError(err)
	a.NoError(sop.Sign(admin))
	a.NotEmpty(sop.Signature)

	data, err := json.Marshal(sop)
	a.NoError(err)

	var decoded SignedOperation
	a.NoError(json.Unmarshal(data, &decoded))
	a.Equal(OpDeposit, decoded.Type)

	got, err := decoded.Operation()
	a.NoError(err)
	a.Equal(op, got)
	a.EqualValues(1000, AmountOf(got))

	d1, err := sop.Digest()
	a.NoError(err)
	d2, err := decoded.Digest()
	a.NoError(err)
	a.Equal(d1, d2)

	sig, err := solana.SignatureFromBase58(decoded.Signature)
	a.NoError(err)
	a.True(sig.Verify(admin.PublicKey(), d2))
}

func TestDigestIgnoresPayloadFormatting(t *testing.T) {
	a := assert.New(t)
	admin := newKey(t)
	op := &WithdrawOperation{Admin: admin.PublicKey(), AdminTokenAccount: newKey(t).PublicKey(), Amount: 5}
	sop, err := NewSignedOperation(op, time.Unix(1700000000, 0), 1)
	a.NoError(err)

	d1, err := sop.Digest()
	a.NoError(err)

	var pretty map[string]interface{}
	a.NoError(json.Unmarshal(sop.Payload, &pretty))
	sop.Payload, err = json.MarshalIndent(pretty, "", "    ")
	a.NoError(err)
	d2, err := sop.Digest()
	a.NoError(err)
	a.Equal(d1, d2)

	// any field change alters the digest
	sop.Nonce++
	d3, err := sop.Digest()
	a.NoError(err)
	a.NotEqual(d1, d3)
}

func TestSignWithWrongKey(t *testing.T) {
	admin, other := newKey(t), newKey(t)
	op := &InitializeOperation{Admin: admin.PublicKey(), Mint: newKey(t).PublicKey()}
	sop, err := NewSignedOperation(op, time.Now(), 0)
	assert.NoError(t, err)
	assert.Equal(t, ErrInvalidSignature, errors.Cause(sop.Sign(other)))
}

func TestEnvelopeSignerMismatch(t *testing.T) {
	user := newKey(t)
	op := &ClaimToUserOperation{User: user.PublicKey(), UserTokenAccount: newKey(t).PublicKey(), Amount: 1}
	sop, err := NewSignedOperation(op, time.Now(), 0)
	assert.NoError(t, err)
	sop.Signer = newKey(t).PublicKey()
	_, err = sop.Operation()
	assert.Equal(t, ErrInvalidSignature, errors.Cause(err))
}

func TestOperationValidate(t *testing.T) {
	a := assert.New(t)
	key := newKey(t).PublicKey()

	a.NoError((&InitializeOperation{Admin: key, Mint: key}).Validate())
	a.Error((&InitializeOperation{Admin: key}).Validate())
	a.Error((&DepositOperation{AdminTokenAccount: key}).Validate())
	a.Error((&WithdrawOperation{Admin: key}).Validate())
	a.Error((&ClaimToUserOperation{User: key}).Validate())
	a.Equal(ErrNpe, (*DepositOperation)(nil).Validate())

	_, err := DecodeOperation("mint_more", []byte("{}"))
	a.Equal(ErrUnknownOp, errors.Cause(err))
	_, err = DecodeOperation(OpDeposit, []byte(`{"amount":-1}`))
	a.Equal(ErrBadPayload, errors.Cause(err))

	_, err = NewSignedOperation(&DepositOperation{}, time.Now(), 0)
	a.Error(err)
}

func TestVaultErrors(t *testing.T) {
	a := assert.New(t)
	err := errors.Wrap(ErrInsufficientTokensInPool, "claim 2000")
	ve, ok := AsVaultError(err)
	a.True(ok)
	a.Equal("InsufficientTokensInPool", ve.Name)
	a.EqualValues(6001, ErrorCode(err))
	a.EqualValues(0, ErrorCode(errors.New("plain")))
	a.Contains(ErrPoolAdminMismatch.Error(), "PoolAdminMismatch(6000)")
}
