package bigint

import (
	"strings"

	"github.com/m2osw/prinbee/pkg/perrors"
)

// ParseUint parses an unsigned integer literal per spec.md §4.1/§6: an
// optional sign, an optional 0b/0o/0x/x'...' prefix (or plain decimal),
// optional whitespace, then an optional unit suffix (KiB, MB, ...). The
// result must fit in `bits` bits or perrors.OutOfRange is raised.
func ParseUint(text string, bits int) (Uint512, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Uint512{}, perrors.New(perrors.InvalidNumber, "empty numeric literal")
	}

	negative := false
	if s[0] == '+' {
		s = s[1:]
	} else if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	digits, base, rest, err := splitPrefix(s)
	if err != nil {
		return Uint512{}, err
	}

	mag, ok := ParseDigits(digits, base)
	if !ok {
		return Uint512{}, perrors.New(perrors.InvalidNumber, "%q is not a valid base-%d number", digits, base)
	}

	rest = strings.TrimSpace(rest)
	if rest != "" {
		unit, ok := lookupUnit(rest)
		if !ok {
			return Uint512{}, perrors.New(perrors.InvalidNumber, "%q is not a recognized size unit", rest)
		}
		var overflow bool
		mag, overflow = mag.Mul(unit)
		if overflow {
			return Uint512{}, perrors.New(perrors.OutOfRange, "%q overflows even a 512-bit integer", text)
		}
	}

	if negative {
		if mag.IsZero() {
			return mag, nil
		}
		return Uint512{}, perrors.New(perrors.InvalidNumber, "negative value %q is not accepted here", text)
	}

	if !mag.FitsUnsigned(bits) {
		return Uint512{}, perrors.New(perrors.OutOfRange, "%q does not fit in %d unsigned bits", text, bits)
	}

	return mag, nil
}

// ParseInt parses a signed integer literal with the same grammar as
// ParseUint, honoring the documented boundary allowance for the exact
// minimum of a signed N-bit range.
func ParseInt(text string, bits int) (Int512, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Int512{}, perrors.New(perrors.InvalidNumber, "empty numeric literal")
	}

	negative := false
	rest := s
	if rest[0] == '+' {
		rest = rest[1:]
	} else if rest[0] == '-' {
		negative = true
		rest = rest[1:]
	}

	digits, base, tail, err := splitPrefix(rest)
	if err != nil {
		return Int512{}, err
	}

	mag, ok := ParseDigits(digits, base)
	if !ok {
		return Int512{}, perrors.New(perrors.InvalidNumber, "%q is not a valid base-%d number", digits, base)
	}

	tail = strings.TrimSpace(tail)
	if tail != "" {
		unit, ok := lookupUnit(tail)
		if !ok {
			return Int512{}, perrors.New(perrors.InvalidNumber, "%q is not a recognized size unit", tail)
		}
		var overflow bool
		mag, overflow = mag.Mul(unit)
		if overflow {
			return Int512{}, perrors.New(perrors.OutOfRange, "%q overflows even a 512-bit integer", text)
		}
	}

	value := Int512{mag: mag}
	if negative {
		value = value.Neg()
	}

	if !value.FitsSigned(bits) {
		return Int512{}, perrors.New(perrors.OutOfRange, "%q does not fit in %d signed bits", text, bits)
	}

	return value, nil
}

// splitPrefix recognizes the 0b/0B, 0o/0O, 0x/0X/x'...', or plain-decimal
// prefix and returns the digit run, its base, and whatever text follows
// the digits (which may be a unit suffix).
func splitPrefix(s string) (digits string, base int, rest string, err error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B') {
		return takeDigits(s[2:], "01", 2)
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'o' || s[1] == 'O') {
		return takeDigits(s[2:], "01234567", 8)
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return takeDigits(s[2:], "0123456789abcdefABCDEF", 16)
	}
	if len(s) >= 3 && (s[0] == 'x' || s[0] == 'X') && s[1] == '\'' {
		end := strings.IndexByte(s[2:], '\'')
		if end < 0 {
			return "", 0, "", perrors.New(perrors.InvalidToken, "unterminated x'...' literal")
		}
		return s[2 : 2+end], 16, s[2+end+1:], nil
	}
	return takeDigits(s, "0123456789", 10)
}

func takeDigits(s string, alphabet string, base int) (digits string, b int, rest string, err error) {
	i := 0
	for i < len(s) && strings.IndexByte(alphabet, s[i]) >= 0 {
		i++
	}
	if i == 0 {
		return "", 0, "", perrors.New(perrors.InvalidToken, "expected at least one digit, got %q", s)
	}
	return s[:i], base, s[i:], nil
}
