// internal/app/system/sanitize/sanitize.go
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Profiles are member-authored and rendered on public pages, so everything
// free-text is scrubbed before it is persisted. Plain fields (names, company,
// job title) allow no markup at all; the bio allows the usual UGC subset
// (paragraphs, emphasis, safe links).

var (
	strict = bluemonday.StrictPolicy()
	rich   = bluemonday.UGCPolicy()
)

// Text strips all markup from a plain profile field and trims whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Bio sanitizes the long-form bio, keeping safe formatting markup.
func Bio(s string) string {
	return strings.TrimSpace(rich.Sanitize(s))
}
