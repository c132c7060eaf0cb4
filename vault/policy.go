package vault

import "github.com/pkg/errors"

// ClaimPolicy decides who may pay tokens out of custody with claim_to_user.
type ClaimPolicy string

const (
	// only the pool admin may claim, to any recipient account
	ClaimPolicyAdmin ClaimPolicy = "admin"
	// any signer may claim, limited only by the pool balance
	ClaimPolicyOpen ClaimPolicy = "open"
)

func ParseClaimPolicy(s string) (ClaimPolicy, error) {
	switch ClaimPolicy(s) {
	case "", ClaimPolicyAdmin:
		return ClaimPolicyAdmin, nil
	case ClaimPolicyOpen:
		return ClaimPolicyOpen, nil
	}
	return "", errors.Errorf("unknown claim policy %q", s)
}
