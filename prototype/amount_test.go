package prototype

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSafeMath(t *testing.T) {
	a := assert.New(t)

	v, err := SafeAdd(math.MaxUint64-10, 10)
	a.NoError(err)
	a.EqualValues(uint64(math.MaxUint64), v)

	_, err = SafeAdd(math.MaxUint64-10, 11)
	a.Equal(ErrMathOverflow, errors.Cause(err))

	v, err = SafeSub(1500, 500)
	a.NoError(err)
	a.EqualValues(1000, v)

	_, err = SafeSub(500, 501)
	a.Equal(ErrMathOverflow, errors.Cause(err))
}

func TestFormatAmount(t *testing.T) {
	a := assert.New(t)
	a.Equal("0.000000000", FormatAmount(0))
	a.Equal("1.500000000", FormatAmount(1500000000))
	a.Equal("0.000000001", FormatAmount(1))
	a.Equal("1000000000.000000000", FormatAmount(1000000000000000000))
}

func TestParseAmount(t *testing.T) {
	a := assert.New(t)

	cases := map[string]uint64{
		"2":           2000000000,
		"2.5":         2500000000,
		".5":          500000000,
		"0.000000001": 1,
		" 10 ":        10000000000,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		a.NoError(err, in)
		a.Equal(want, got, in)
	}

	for _, in := range []string{"", "abc", "1.0000000001", "-1", "1.2.3"} {
		_, err := ParseAmount(in)
		a.Error(err, in)
	}

	_, err := ParseAmount("18446744074")
	a.Equal(ErrMathOverflow, errors.Cause(err))

	v, err := ParseAmount(FormatAmount(123456789012))
	a.NoError(err)
	a.EqualValues(123456789012, v)
}
