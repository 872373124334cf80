// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Slug canonicalizes a profile slug for comparison and reservation keys:
// trimmed and lower-cased. The slug stored on the member document keeps the
// member's original casing; only lookups and the slugs collection use this
// form.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
