// Package csvcodec reads and writes the quoted comma-delimited format used for
// student and course files. It is deliberately permissive on input and
// strict on output: unquoted empty fields and unbalanced quotes are accepted,
// while empty values are always written as "".
package csvcodec

import (
	"strconv"
	"strings"
)

const (
	quote     = '"'
	separator = ','
	listSep   = ";"

	// DateLayout is the timestamp layout of the EnrollmentDate column.
	DateLayout = "2006-01-02 15:04:05"
)

// ParseLine splits one line into fields. A doubled quote inside a quoted
// section yields one literal quote, any other quote toggles quoting, and a
// comma outside quotes ends the field. The last field is always emitted, even
// when a quote was left open. Bytes other than quote and comma are copied
// unchanged.
func ParseLine(line string) []string {
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			if inQuotes && i+1 < len(line) && line[i+1] == quote {
				current.WriteByte(quote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == separator && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, current.String())
}

// EscapeField renders one value. Values containing a comma, quote or newline
// are quoted with inner quotes doubled; the empty string becomes "".
func EscapeField(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	if value == "" {
		return `""`
	}
	return value
}

// JoinList renders a list as one quoted field with ';' between items.
func JoinList(items []string) string {
	return `"` + strings.Join(items, listSep) + `"`
}

// SplitList is the inverse of JoinList applied to an already unquoted field.
func SplitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, listSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatDecimal prints a float in its shortest round-trippable form, always
// keeping a fractional part ("8.5", "9.0", "0.0").
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func splitLines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func field(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}
