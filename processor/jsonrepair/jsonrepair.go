// Package jsonrepair rewrites JSON text whose string literals contain raw
// control characters so that a strict decoder accepts it.
//
// Some export tools write multi-line notification bodies straight into JSON
// without escaping them:
//
//	{"Message":"Estimado,<CR><LF>informo<TAB>que..."}
//
// Sanitize turns that into
//
//	{"Message":"Estimado,\ninformo\tque..."}
//
// Only bytes inside string literals are touched. Escaped single quotes, which
// JSON does not allow, become bare quotes. Sanitize never fails and its output
// is a fixed point: sanitizing it again returns it unchanged.
package jsonrepair

import "strings"

// Sanitize repairs raw in one left-to-right pass.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 16)

	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		if escaped {
			escaped = false
			if c == '\'' {
				b.WriteByte('\'')
				continue
			}
			b.WriteByte('\\')
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '\\':
			// Held back until the next byte decides whether it survives.
			escaped = true
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			b.WriteString(`\n`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			// dropped
		default:
			b.WriteByte(c)
		}
	}

	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// SanitizeBytes is Sanitize for byte slices.
func SanitizeBytes(raw []byte) []byte {
	return []byte(Sanitize(string(raw)))
}

// NeedsRepair reports whether Sanitize would change raw.
func NeedsRepair(raw string) bool {
	return Sanitize(raw) != raw
}
