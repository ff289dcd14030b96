package source

import "golang.org/x/text/unicode/norm"

// CanonicalName returns the key under which an identifier is stored in symbol
// tables. Identifiers are compared in NFC so that visually identical names
// coming from differently normalized files bind the same declaration.
func CanonicalName(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
