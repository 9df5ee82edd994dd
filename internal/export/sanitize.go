package export

import "strings"

// Sanitize returns s with every character the xlsx format rejects in cell
// text removed: all code points below U+0020 (this covers the platform's
// explicit \x00-\x03 block list). Remaining characters keep their order.
// Idempotent; returns s unchanged when nothing needs stripping.
func Sanitize(s string) string {
	if strings.IndexFunc(s, isForbidden) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isForbidden(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isForbidden(r rune) bool {
	return r < 0x20
}

// SanitizeValue applies Sanitize to text values and returns all others unchanged.
func SanitizeValue(v Value) Value {
	if v.Kind != KindString {
		return v
	}
	return StringValue(Sanitize(v.Str))
}
