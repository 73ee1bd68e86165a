// Package types provides common types used across TokenLedger.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Decimals is the display scale of the token: one whole token is 10^9
// minimal units. Ledger state and all arithmetic use minimal units only.
const Decimals = 9

// Unit is the number of minimal units in one whole token.
const Unit Amount = 1_000_000_000

// Unlimited is the reserved allowance sentinel. An allowance set to this
// value authorizes delegated transfers of any size and is never decremented
// by use. It is not a representable balance: CheckedAdd refuses to produce
// it, so the only way an allowance becomes unlimited is an explicit approval
// of exactly this value.
const Unlimited Amount = math.MaxUint64

// Amount is a non-negative quantity of token minimal units.
// All arithmetic is checked integer arithmetic — no floating point, no
// silent wraparound.
type Amount uint64

// Tokens converts a whole-token count to an Amount in minimal units.
// It panics on overflow (programming error in a constant expression).
func Tokens(n uint64) Amount {
	a, ok := Amount(n).CheckedMul(Unit)
	if !ok {
		panic(fmt.Sprintf("types: %d tokens overflows Amount", n))
	}
	return a
}

// CheckedAdd returns a+b and true, or 0 and false if the sum would wrap or
// land on the reserved Unlimited sentinel.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	sum := a + b
	if sum < a || sum == Unlimited {
		return 0, false
	}
	return sum, true
}

// CheckedSub returns a-b and true, or 0 and false if b exceeds a.
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckedMul returns a*b and true, or 0 and false on overflow.
func (a Amount) CheckedMul(b Amount) (Amount, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	prod := a * b
	if prod/b != a || prod == Unlimited {
		return 0, false
	}
	return prod, true
}

// Comparison and predicate methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsUnlimited returns true if the amount is the reserved allowance sentinel.
func (a Amount) IsUnlimited() bool { return a == Unlimited }

// Min returns the smaller of two amounts.
func (a Amount) Min(b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func (a Amount) Max(b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// Formatting methods

// FormatMajor returns the whole-token string with 9 fractional digits.
// FormatMajor of 1500000000 is "1.500000000".
func (a Amount) FormatMajor() string {
	major := uint64(a) / uint64(Unit)
	minor := uint64(a) % uint64(Unit)
	return fmt.Sprintf("%d.%09d", major, minor)
}

// String returns a human-readable representation. The Unlimited sentinel
// renders as "unlimited" rather than its numeric value.
func (a Amount) String() string {
	if a.IsUnlimited() {
		return "unlimited"
	}
	return a.FormatMajor()
}

// Base10 returns the amount as a base-10 minimal-unit string, suitable for
// lossless storage in text columns.
func (a Amount) Base10() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ParseAmount parses a base-10 minimal-unit string produced by Base10.
func ParseAmount(s string) (Amount, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("types: parse amount %q: %w", s, err)
	}
	return Amount(n), nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Units   string `json:"units"`
		Display string `json:"display"`
	}{
		Units:   a.Base10(),
		Display: a.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v struct {
		Units string `json:"units"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseAmount(v.Units)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sum calculates the sum of multiple amounts. Returns false if any partial
// sum overflows.
func Sum(values ...Amount) (Amount, bool) {
	var total Amount
	for _, v := range values {
		next, ok := total.CheckedAdd(v)
		if !ok {
			return 0, false
		}
		total = next
	}
	return total, true
}
