package ir

import "golang.org/x/text/unicode/norm"

// normalizeName returns the NFC form of name and reports whether it is an
// ASCII identifier usable in every target language.
func normalizeName(name string) (string, bool) {
	n := norm.NFC.String(name)
	if n == "" {
		return "", false
	}
	for i := 0; i < len(n); i++ {
		c := n[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return "", false
		}
	}
	return n, true
}

// ValidName reports whether name, after NFC normalization, can name a uniform.
func ValidName(name string) bool {
	_, ok := normalizeName(name)
	return ok
}
