// Package format converts raw node values, base-unit currency amounts and
// Unix timestamps, into display strings. Amounts use arbitrary-precision
// integer arithmetic since supply and balance figures exceed the range
// floating point can represent exactly.
package format

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Scale is the number of decimal places in a base-unit amount.
// 1 XQR = 10^8 base units.
const Scale = 8

var scaleDivisor = new(big.Int).Exp(big.NewInt(10), big.NewInt(Scale), nil)

// split parses a base-unit amount string into whole and fractional parts.
// The input must be a non-negative decimal integer literal.
func split(baseUnits string) (whole *big.Int, frac *big.Int, err error) {
	v, ok := new(big.Int).SetString(baseUnits, 10)
	if !ok || v.Sign() < 0 {
		return nil, nil, fmt.Errorf("invalid base-unit amount %q", baseUnits)
	}

	whole = new(big.Int)
	frac = new(big.Int)
	whole.QuoRem(v, scaleDivisor, frac)

	return whole, frac, nil
}

// Amount renders a base-unit amount as a full-precision XQR string: the
// grouped whole part plus the fractional part with trailing zeros stripped.
// A zero fraction is omitted entirely.
func Amount(baseUnits string) (string, error) {
	whole, frac, err := split(baseUnits)
	if err != nil {
		return "", err
	}

	if frac.Sign() == 0 {
		return group(whole.String()), nil
	}

	fracStr := frac.String()
	if pad := Scale - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")

	return group(whole.String()) + "." + fracStr, nil
}

// AmountWhole renders a base-unit amount as a grouped whole-unit string.
// The fractional part is truncated, not rounded.
func AmountWhole(baseUnits string) (string, error) {
	whole, _, err := split(baseUnits)
	if err != nil {
		return "", err
	}

	return group(whole.String()), nil
}

// AmountAbbrev renders a base-unit amount with its whole part reduced to the
// largest applicable K/M/B magnitude. Intended for aggregate supply figures
// where sub-unit precision is not meaningful.
func AmountAbbrev(baseUnits string) (string, error) {
	whole, _, err := split(baseUnits)
	if err != nil {
		return "", err
	}

	// Whole-unit counts fit comfortably in a float64 once divided down.
	v, _ := new(big.Float).SetInt(whole).Float64()

	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9), nil
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6), nil
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3), nil
	}

	return group(whole.String()), nil
}

// group inserts comma separators into a non-negative integer string.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

// TimeAgo renders the age of a Unix timestamp relative to now. Conversions
// truncate and a value exactly at a unit boundary belongs to the larger unit.
// A timestamp in the future (clock skew) saturates to "0s ago".
func TimeAgo(unix int64, now time.Time) string {
	seconds := now.Unix() - unix
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	if days < 30 {
		return fmt.Sprintf("%dd ago", days)
	}

	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%dmo ago", months)
	}

	years := months / 12
	if rem := months % 12; rem > 0 {
		return fmt.Sprintf("%dy %dmo ago", years, rem)
	}

	return fmt.Sprintf("%dy ago", years)
}

// dateLayout is fixed so rendered dates are stable across environments.
const dateLayout = "Jan 2, 2006 15:04:05"

// Date renders a Unix timestamp as an absolute UTC date-time string.
func Date(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(dateLayout)
}

// TruncateHash shortens a hash or address for display, keeping the first
// start and last end characters.
func TruncateHash(hash string, start, end int) string {
	if len(hash) <= start+end+3 {
		return hash
	}
	return hash[:start] + "..." + hash[len(hash)-end:]
}

// coreTypes are the type-group 1 transaction kinds.
var coreTypes = map[int]string{
	0:  "Transfer",
	1:  "Second Signature",
	2:  "Delegate Registration",
	3:  "Vote",
	4:  "Multi Signature",
	5:  "IPFS",
	6:  "Multi Payment",
	7:  "Delegate Resignation",
	8:  "HTLC Lock",
	9:  "HTLC Claim",
	10: "HTLC Refund",
}

// TxTypeLabel returns the display label for a transaction type/type-group
// pair. Unknown pairs render generically.
func TxTypeLabel(txType int, typeGroup int) string {
	if typeGroup == 1 {
		if label, ok := coreTypes[txType]; ok {
			return label
		}
	}
	return fmt.Sprintf("Type %d", txType)
}
