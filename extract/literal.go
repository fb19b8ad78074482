package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax"
)

// literalValue evaluates a Java literal. The null literal has no value.
func literalValue(kind syntax.LiteralKind, text string) (model.Value, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case syntax.LiteralInt:
		n, err := parseInteger(text, 32)
		if err != nil {
			return model.Value{}, err
		}
		return model.IntValue(int32(n)), nil
	case syntax.LiteralLong:
		n, err := parseInteger(strings.TrimRight(text, "lL"), 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.LongValue(n), nil
	case syntax.LiteralFloat:
		f, err := strconv.ParseFloat(cleanNumber(strings.TrimRight(text, "fF")), 32)
		if err != nil {
			return model.Value{}, err
		}
		return model.FloatValue(float32(f)), nil
	case syntax.LiteralDouble:
		f, err := strconv.ParseFloat(cleanNumber(strings.TrimRight(text, "dD")), 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.DoubleValue(f), nil
	case syntax.LiteralBoolean:
		switch text {
		case "true":
			return model.BoolValue(true), nil
		case "false":
			return model.BoolValue(false), nil
		}
		return model.Value{}, fmt.Errorf("invalid boolean literal %q", text)
	case syntax.LiteralChar:
		s, err := unquoteJava(text, '\'')
		if err != nil {
			return model.Value{}, err
		}
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return model.Value{}, fmt.Errorf("invalid char literal %q", text)
		}
		return model.CharValue(r), nil
	case syntax.LiteralString:
		if strings.HasPrefix(text, `"""`) {
			return model.StringValue(textBlock(text)), nil
		}
		s, err := unquoteJava(text, '"')
		if err != nil {
			return model.Value{}, err
		}
		return model.StringValue(s), nil
	}
	return model.Value{}, fmt.Errorf("literal %q has no value", text)
}

func cleanNumber(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

// parseInteger parses a decimal, hex, octal or binary Java integer literal.
// Non-decimal literals may use the full unsigned range of the type.
func parseInteger(text string, bits int) (int64, error) {
	s := cleanNumber(text)
	if rest, ok := strings.CutPrefix(s, "-"); ok && rest != "" && rest[0] == '0' && len(rest) > 1 {
		n, err := parseInteger(rest, bits)
		return -n, err
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	if base == 10 {
		return strconv.ParseInt(s, 10, bits)
	}
	u, err := strconv.ParseUint(s, base, bits)
	if err != nil {
		return 0, err
	}
	if bits == 32 {
		return int64(int32(uint32(u))), nil
	}
	return int64(u), nil
}

func unquoteJava(text string, quote byte) (string, error) {
	if len(text) < 2 || text[0] != quote || text[len(text)-1] != quote {
		return "", fmt.Errorf("invalid quoted literal %q", text)
	}
	return unescapeJava(text[1 : len(text)-1])
}

func unescapeJava(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash in %q", s)
		}
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case 's':
			sb.WriteByte(' ')
		case '\'', '"', '\\':
			sb.WriteByte(e)
		case 'u':
			for i+1 < len(s) && s[i+1] == 'u' {
				i++
			}
			if i+5 > len(s) {
				return "", fmt.Errorf("short unicode escape in %q", s)
			}
			n, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", err
			}
			sb.WriteRune(rune(n))
			i += 4
		default:
			if e < '0' || e > '7' {
				return "", fmt.Errorf("invalid escape \\%c in %q", e, s)
			}
			limit := 2
			if e > '3' {
				limit = 1
			}
			j := i + 1
			for j < len(s) && j-i <= limit && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(s[i:j], 8, 8)
			sb.WriteRune(rune(n))
			i = j - 1
		}
	}
	return sb.String(), nil
}

// textBlock returns the content of a """ text block with the incidental
// indentation removed.
func textBlock(text string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(text, `"""`), `"""`)
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	lines := strings.Split(body, "\n")
	indent := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" && i != len(lines)-1 {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	out := strings.Join(lines, "\n")
	if s, err := unescapeJava(out); err == nil {
		return s
	}
	return out
}
