package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// WordKey is the comparison key for duplicate detection: NFC-normalized,
// trimmed and Unicode case-folded, so "Straße", "STRASSE" and "strasse"
// collide just like "Haus" and "haus".
func WordKey(word string) string {
	// Casers are stateful; build one per call.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(word)))
}
