// Package isbn holds the ISBN cleanup used before querying the metadata provider.
package isbn

import "strings"

// Normalize uppercases raw and drops every character that is not a decimal
// digit or the letter X, so "978-0-13-011302-4" becomes "9780130113024" and
// "0-306-40615-x" becomes "030640615X".
// No checksum validation is performed.
func Normalize(raw string) string {
	upper := strings.ToUpper(raw)
	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
