package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits a line into arguments the way redis-cli does.
// Double-quoted arguments understand \n, \r, \t, \b, \a, \\, \" and \xHH;
// single-quoted arguments only understand \'. A closing quote must be
// followed by whitespace or the end of the line.
func SplitArgs(line string) ([]string, error) {
	var (
		args []string
		i    int
	)
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			return args, nil
		}

		var cur strings.Builder
		switch line[i] {
		case '"':
			i++
			for {
				if i >= len(line) {
					return nil, ErrUnbalancedQuotes
				}
				c := line[i]
				if c == '"' {
					i++
					break
				}
				if c == '\\' && i+1 < len(line) {
					n, ok := unescape(line[i+1:], &cur)
					if ok {
						i += 1 + n
						continue
					}
				}
				cur.WriteByte(c)
				i++
			}
		case '\'':
			i++
			for {
				if i >= len(line) {
					return nil, ErrUnbalancedQuotes
				}
				c := line[i]
				if c == '\'' {
					i++
					break
				}
				if c == '\\' && i+1 < len(line) && line[i+1] == '\'' {
					cur.WriteByte('\'')
					i += 2
					continue
				}
				cur.WriteByte(c)
				i++
			}
		default:
			for i < len(line) && !isSpace(line[i]) {
				cur.WriteByte(line[i])
				i++
			}
			args = append(args, cur.String())
			continue
		}

		if i < len(line) && !isSpace(line[i]) {
			return nil, ErrUnbalancedQuotes
		}
		args = append(args, cur.String())
	}
}

// unescape decodes the escape sequence at the start of s (after the
// backslash) into cur and reports how many bytes of s it consumed.
func unescape(s string, cur *strings.Builder) (int, bool) {
	switch s[0] {
	case 'n':
		cur.WriteByte('\n')
	case 'r':
		cur.WriteByte('\r')
	case 't':
		cur.WriteByte('\t')
	case 'b':
		cur.WriteByte('\b')
	case 'a':
		cur.WriteByte('\a')
	case '\\', '"':
		cur.WriteByte(s[0])
	case 'x':
		if len(s) < 3 {
			return 0, false
		}
		v, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return 0, false
		}
		cur.WriteByte(byte(v))
		return 3, true
	default:
		return 0, false
	}
	return 1, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
