package prototype

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNpe          = errors.New("Null Pointer")
	ErrUnknownOp    = errors.New("unknown operation type")
	ErrEmptyAddress = errors.New("address must not be empty")
	ErrBadPayload   = errors.New("malformed operation payload")
)

// VaultError is a typed failure of a vault operation.
// Codes 6000-6003 match the custom error codes of the on-chain program.
type VaultError struct {
	Code uint32
	Name string
	Msg  string
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("%s(%d): %s", e.Name, e.Code, e.Msg)
}

var (
	ErrPoolAdminMismatch               = &VaultError{6000, "PoolAdminMismatch", "The caller is not the pool admin."}
	ErrInsufficientTokensInPool        = &VaultError{6001, "InsufficientTokensInPool", "The pool does not have enough tokens."}
	ErrInsufficientFundsInAdminAccount = &VaultError{6002, "InsufficientFundsInAdminAccount", "The admin does not have enough tokens in their account for this deposit."}
	ErrMintMismatch                    = &VaultError{6003, "MintMismatch", "The mint of the deposited tokens does not match the expected mint."}

	ErrAlreadyInitialized        = &VaultError{6100, "AlreadyInitialized", "The global vault record already exists."}
	ErrNotInitialized            = &VaultError{6101, "NotInitialized", "The global vault record does not exist."}
	ErrTokenAccountOwnerMismatch = &VaultError{6102, "TokenAccountOwnerMismatch", "The token account is not owned by the signer."}
	ErrMathOverflow              = &VaultError{6103, "MathOverflow", "Token arithmetic overflowed."}
	ErrInvalidSignature          = &VaultError{6104, "InvalidSignature", "The operation signature is missing or invalid."}
	ErrOperationExpired          = &VaultError{6105, "OperationExpired", "The operation expiration is outside the accepted window."}
	ErrDuplicateOperation        = &VaultError{6106, "DuplicateOperation", "The operation has already been applied."}
)

// AsVaultError unwraps err down to its cause and reports whether it is a VaultError.
func AsVaultError(err error) (*VaultError, bool) {
	ve, ok := errors.Cause(err).(*VaultError)
	return ve, ok
}

// ErrorCode returns the VaultError code behind err, or 0.
func ErrorCode(err error) uint32 {
	if ve, ok := AsVaultError(err); ok {
		return ve.Code
	}
	return 0
}
