package prototype

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/coschain/cosvault/common/constants"
	"github.com/pkg/errors"
)

// SafeAdd returns a+b, or ErrMathOverflow.
func SafeAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// SafeSub returns a-b, or ErrMathOverflow if b > a.
func SafeSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

// FormatAmount renders base units as a decimal token amount, e.g. 1500000000 -> "1.500000000".
func FormatAmount(v uint64) string {
	return fmt.Sprintf("%d.%09d", v/constants.DecimalsFactor, v%constants.DecimalsFactor)
}

// ParseAmount parses a decimal token amount into base units.
// "2", "2.5" and "0.000000001" are accepted; more than 9 fractional digits are rejected.
func ParseAmount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty amount")
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > constants.Decimals {
		return 0, errors.Errorf("amount %q has more than %d decimals", s, constants.Decimals)
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", s)
	}
	var f uint64
	if frac != "" {
		frac += strings.Repeat("0", constants.Decimals-len(frac))
		if f, err = strconv.ParseUint(frac, 10, 64); err != nil {
			return 0, errors.Wrapf(err, "invalid amount %q", s)
		}
	}
	if w > (math.MaxUint64-f)/constants.DecimalsFactor {
		return 0, ErrMathOverflow
	}
	return w*constants.DecimalsFactor + f, nil
}
