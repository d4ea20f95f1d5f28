package core

// convert.go turns raw price-file cells into numbers.
//
// Numeric cells go through the same two gates as every other numeric column:
// a strict format check, then a scan into pgtype.Numeric which keeps the exact
// decimal value before it is converted to float64. pgtype does not parse
// exponents, so the mantissa is scanned alone and the exponent is added to
// Numeric.Exp afterwards. Thousands separators are
// not stripped: after delimiter normalization a comma inside a number is
// ambiguous (decimal or grouping), so such cells are reported as invalid.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a plain decimal number.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToNumeric converts a cell to pgtype.Numeric.
// Returns invalid if the cell is empty or not a plain decimal number.
func ToNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	mantissa, exp := s, int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return pgtype.Numeric{Valid: false}
		}
		mantissa, exp = s[:i], e
	}

	var n pgtype.Numeric
	if err := n.Scan(mantissa); err != nil {
		return pgtype.Numeric{Valid: false}
	}

	exp += int64(n.Exp)
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return pgtype.Numeric{Valid: false}
	}
	n.Exp = int32(exp)
	return n
}

// ParseDecimal parses a cell as a finite float64.
// The returned error wraps ErrInvalidNumber.
func ParseDecimal(s string) (float64, error) {
	n := ToNumeric(s)
	if !n.Valid {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	f, err := n.Float64Value()
	if err != nil || !f.Valid || math.IsInf(f.Float64, 0) || math.IsNaN(f.Float64) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidNumber, s)
	}
	return f.Float64, nil
}
