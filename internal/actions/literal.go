package actions

import "strings"

// NormalizeLiterals rewrites Python-literal text into strict JSON without
// touching the contents of quoted strings. Vision models served through
// different stacks emit the same dict schema in two dialects: strict JSON, or
// a Python repr with single-quoted strings, tuples and None/True/False
// barewords. The rewriter tracks quote state character by character so a
// string payload containing "null" or "true" is never corrupted.
func NormalizeLiterals(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSingle := false
	inDouble := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inSingle {
			switch c {
			case '\\':
				if i+1 < len(text) {
					// \' needs no escape once the string is double-quoted,
					// but a literal " inside it now does.
					switch text[i+1] {
					case '\'':
						b.WriteByte('\'')
					case '"':
						b.WriteString(`\"`)
					default:
						b.WriteByte('\\')
						b.WriteByte(text[i+1])
					}
					i++
				} else {
					b.WriteByte('\\')
				}
			case '\'':
				inSingle = false
				b.WriteByte('"')
			case '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(c)
			}
			continue
		}

		if inDouble {
			switch c {
			case '\\':
				b.WriteByte('\\')
				if i+1 < len(text) {
					b.WriteByte(text[i+1])
					i++
				}
			case '"':
				inDouble = false
				b.WriteByte('"')
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '\'':
			inSingle = true
			b.WriteByte('"')
		case c == '"':
			inDouble = true
			b.WriteByte('"')
		case c == '(':
			// Tuples become arrays.
			b.WriteByte('[')
		case c == ')':
			b.WriteByte(']')
		case strings.HasPrefix(text[i:], "None"):
			b.WriteString("null")
			i += 3
		case strings.HasPrefix(text[i:], "True"):
			b.WriteString("true")
			i += 3
		case strings.HasPrefix(text[i:], "False"):
			b.WriteString("false")
			i += 4
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
