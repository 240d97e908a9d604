package cfront

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// IntegerText is the decoded form of an integer literal token.
type IntegerText struct {
	Value  uint64
	Radix  int    // 8, 10 or 16
	Suffix string // normalised suffix: "", "u", "l", "ul", "ll", "ull"
}

// Unsigned reports whether the literal carries a u suffix.
func (it IntegerText) Unsigned() bool { return strings.HasPrefix(it.Suffix, "u") }

// LongCount is the number of l's in the suffix.
func (it IntegerText) LongCount() int { return strings.Count(it.Suffix, "l") }

// parseIntegerLiteral decodes a lexeme such as 0x1Fu, 017, 42ULL.
func parseIntegerLiteral(lexeme string) (IntegerText, error) {
	digits := lexeme
	end := len(digits)
	for end > 0 && strings.ContainsRune("uUlL", rune(digits[end-1])) {
		end--
	}
	suffix := normaliseSuffix(digits[end:])
	digits = digits[:end]

	radix := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		radix = 16
		digits = digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		radix = 8
		digits = digits[1:]
	}
	v, err := strconv.ParseUint(digits, radix, 64)
	if err != nil {
		return IntegerText{}, errors.Wrapf(err, "invalid integer literal %q", lexeme)
	}
	return IntegerText{Value: v, Radix: radix, Suffix: suffix}, nil
}

func normaliseSuffix(s string) string {
	s = strings.ToLower(s)
	u := strings.Count(s, "u") > 0
	l := strings.Count(s, "l")
	out := ""
	if u {
		out = "u"
	}
	return out + strings.Repeat("l", l)
}

// decodeEscape decodes one escape sequence starting after the backslash at
// s[i]. It returns the byte value and the index after the sequence.
func decodeEscape(s string, i int) (int64, int, error) {
	if i >= len(s) {
		return 0, i, errors.New("dangling backslash")
	}
	switch c := s[i]; c {
	case 'n':
		return '\n', i + 1, nil
	case 't':
		return '\t', i + 1, nil
	case 'r':
		return '\r', i + 1, nil
	case 'a':
		return 7, i + 1, nil
	case 'b':
		return 8, i + 1, nil
	case 'f':
		return 12, i + 1, nil
	case 'v':
		return 11, i + 1, nil
	case '\\', '\'', '"', '?':
		return int64(c), i + 1, nil
	case 'x':
		j := i + 1
		for j < len(s) && isHexDigit(rune(s[j])) {
			j++
		}
		if j == i+1 {
			return 0, j, errors.New(`\x used with no following hex digits`)
		}
		v, err := strconv.ParseInt(s[i+1:j], 16, 64)
		return v & 0xFF, j, err
	default:
		if c >= '0' && c <= '7' {
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, err := strconv.ParseInt(s[i:j], 8, 64)
			return v & 0xFF, j, err
		}
		return 0, i + 1, errors.Newf(`unknown escape sequence \%c`, c)
	}
}

// decodeCharLiteral returns the numeric value of a lexeme such as 'a' or '\n'.
func decodeCharLiteral(lexeme string) (int64, error) {
	body := strings.TrimPrefix(lexeme, "L")
	if len(body) < 3 {
		return 0, errors.Newf("invalid character literal %s", lexeme)
	}
	body = body[1 : len(body)-1]
	if body[0] == '\\' {
		v, _, err := decodeEscape(body, 1)
		return v, errors.Wrapf(err, "character literal %s", lexeme)
	}
	r := []rune(body)
	return int64(r[0]), nil
}

// decodeStringLiteral returns the bytes denoted by a quoted lexeme.
func decodeStringLiteral(lexeme string) (string, error) {
	body := strings.TrimPrefix(lexeme, "L")
	if len(body) < 2 {
		return "", errors.Newf("invalid string literal %s", lexeme)
	}
	body = body[1 : len(body)-1]
	var sb strings.Builder
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			sb.WriteByte(body[i])
			i++
			continue
		}
		v, next, err := decodeEscape(body, i+1)
		if err != nil {
			return "", errors.Wrapf(err, "string literal %s", lexeme)
		}
		sb.WriteByte(byte(v))
		i = next
	}
	return sb.String(), nil
}
