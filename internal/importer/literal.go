package importer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrListLiteral = errors.New("malformed list literal")

// ParseList reads a list literal of quoted strings such as
// ['Drama', "Crime"]. Both quote kinds and backslash escapes are accepted;
// items are trimmed and empty ones dropped.
func ParseList(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: %q", ErrListLiteral, raw)
	}

	var (
		items     []string
		body      = s[1 : len(s)-1]
		expectSep bool
	)
	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == ',':
			if !expectSep {
				return nil, fmt.Errorf("%w: unexpected ',' at %d", ErrListLiteral, i+1)
			}
			expectSep = false
			i++
		case c == '\'' || c == '"':
			if expectSep {
				return nil, fmt.Errorf("%w: missing ',' at %d", ErrListLiteral, i+1)
			}
			item, next, err := readQuoted(body, i)
			if err != nil {
				return nil, err
			}
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
			expectSep = true
			i = next
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrListLiteral, c, i+1)
		}
	}
	return items, nil
}

// readQuoted returns the unescaped string starting at body[start] and the
// index just past its closing quote.
func readQuoted(body string, start int) (string, int, error) {
	quote := body[start]
	var b strings.Builder
	for i := start + 1; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(body[i])
			}
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated string at %d", ErrListLiteral, start+1)
}

// uniqueNames keeps the first occurrence of every name
func uniqueNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
