package hwpx

import (
	"fmt"
	"strings"
)

// Symbol commands that map one escaped LaTeX command onto one equation
// script token. Anything else degrades to its bareword form with the
// backslash stripped, which already covers Greek letters.
var mathSymbols = map[string]string{
	"geq":   ">=",
	"leq":   "<=",
	"times": "times",
	"cdot":  "cdot",
	"infty": "inf",
	"pm":    "+-",
}

// TranslateMath converts a constrained LaTeX subset into the native
// equation-script grammar. The transform is total: unrecognized commands
// pass through as barewords rather than failing. Sub-expressions inside
// braces are translated recursively, so nested fractions and nested
// sub/superscripts compose.
func TranslateMath(latex string) string {
	s := strings.TrimSpace(latex)
	s = strings.Trim(s, "$")
	return translateMathExpr(s)
}

func translateMathExpr(s string) string {
	var b strings.Builder
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		if runes[i] != '\\' {
			b.WriteRune(runes[i])
			i++
			continue
		}

		cmd, next := scanCommand(runes, i+1)
		if cmd == "" {
			// Escaped punctuation: drop the backslash, keep the character.
			if next < len(runes) {
				b.WriteRune(runes[next])
				next++
			}
			i = next
			continue
		}
		i = next

		switch cmd {
		case "frac":
			num, afterNum, ok := braceGroup(runes, i)
			if !ok {
				b.WriteString(cmd)
				continue
			}
			den, afterDen, ok := braceGroup(runes, afterNum)
			if !ok {
				b.WriteString(cmd)
				continue
			}
			fmt.Fprintf(&b, "{%s} over {%s}", translateMathExpr(num), translateMathExpr(den))
			i = afterDen

		case "sum", "int":
			lower, upper, after, ok := subSupGroups(runes, i)
			if !ok {
				b.WriteString(cmd)
				continue
			}
			fmt.Fprintf(&b, "%s from{%s} to{%s}", cmd, translateMathExpr(lower), translateMathExpr(upper))
			i = after

		case "sqrt":
			arg, after, ok := braceGroup(runes, i)
			if !ok {
				b.WriteString(cmd)
				continue
			}
			fmt.Fprintf(&b, "sqrt{%s}", translateMathExpr(arg))
			i = after

		case "left", "right":
			// The delimiter character that follows is copied as-is.
			b.WriteString(cmd)

		default:
			if repl, ok := mathSymbols[cmd]; ok {
				b.WriteString(repl)
			} else {
				GetLogger().WithField("component", "math").Debug("passing unknown command through as bareword: \\%s", cmd)
				b.WriteString(cmd)
			}
		}
	}
	return b.String()
}

// scanCommand reads the letters of a \command starting at pos. It returns
// the empty string when the escape is not followed by a letter.
func scanCommand(runes []rune, pos int) (string, int) {
	j := pos
	for j < len(runes) && isAsciiLetter(runes[j]) {
		j++
	}
	return string(runes[pos:j]), j
}

func isAsciiLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// braceGroup parses a balanced {...} group starting at pos and returns its
// inner content plus the index just past the closing brace.
func braceGroup(runes []rune, pos int) (string, int, bool) {
	if pos >= len(runes) || runes[pos] != '{' {
		return "", pos, false
	}
	depth := 0
	for j := pos; j < len(runes); j++ {
		switch runes[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(runes[pos+1 : j]), j + 1, true
			}
		}
	}
	return "", pos, false
}

// subSupGroups parses the _{lower}^{upper} suffix of an indexed operator.
func subSupGroups(runes []rune, pos int) (lower, upper string, after int, ok bool) {
	if pos >= len(runes) || runes[pos] != '_' {
		return "", "", pos, false
	}
	lower, afterLower, ok := braceGroup(runes, pos+1)
	if !ok {
		return "", "", pos, false
	}
	if afterLower >= len(runes) || runes[afterLower] != '^' {
		return "", "", pos, false
	}
	upper, afterUpper, ok := braceGroup(runes, afterLower+1)
	if !ok {
		return "", "", pos, false
	}
	return lower, upper, afterUpper, true
}
