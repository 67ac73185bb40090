package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIntLiteral parses a register literal such as "5", "-3", "0x7fffffff"
// or a single-quoted character constant "'A'" into an int64. This is a
// restricted literal parser in place of the original's full expression
// evaluator: it recognizes exactly the shapes Smali operand syntax uses
// and nothing else.
func parseIntLiteral(tok string) (int64, error) {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(tok, "'") && strings.HasSuffix(tok, "'") && len(tok) >= 3 {
		runes := []rune(tok[1 : len(tok)-1])
		if len(runes) != 1 {
			return 0, fmt.Errorf("%w: malformed character literal %q", ErrMalformedOperand, tok)
		}
		return int64(runes[0]), nil
	}

	neg := false
	rest := tok
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	}

	base := 10
	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") {
		base = 16
		rest = rest[2:]
	}

	v, err := strconv.ParseUint(rest, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer literal", ErrMalformedOperand, tok)
	}
	if neg {
		return -int64(v), nil
	}
	return int64(v), nil
}

// splitOperands splits an instruction's operand text on commas, trimming
// whitespace around each field. Smali operand lists are always comma
// separated regardless of opcode family.
func splitOperands(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// registerIndexWidth reports how many logical registers a type descriptor
// occupies. This VM treats wides as a single logical slot rather than
// Dalvik's vN/v(N+1) pair, so this always returns 1; it exists as a named
// hook for that documented deviation.
func registerIndexWidth(_ string) int { return 1 }
