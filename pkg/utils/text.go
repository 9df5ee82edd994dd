package utils

// TruncateRunes returns s truncated to at most maxRunes runes, with no marker
// appended. Used for workbook sheet names, where the format's limit counts
// characters and a partial multi-byte rune would corrupt the name.
// If maxRunes is 0 or negative, returns s unchanged.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
