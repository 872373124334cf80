// internal/app/system/cursor/cursor.go
package cursor

// Listing cursors are a wire contract with existing clients: base64 over
// either a one-key JSON object (created-order listing) or a "||"-delimited
// pair (name-order listing). The two encodings predate this service and must
// stay byte-compatible, which is why this package hand-rolls them instead of
// using the shared keyset cursor helpers.

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 20
	// MaxLimit caps any requested page size.
	MaxLimit = 100

	compositeSep = "||"
)

// ErrInvalid is returned when a cursor fails to decode or is missing a
// required field.
var ErrInvalid = errors.New("invalid pagination cursor")

// ClampLimit resolves a requested page size: DefaultLimit when zero or
// negative, never more than MaxLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

type createdCursor struct {
	CurStartAfter string `json:"curStartAfter"`
}

// EncodeCreated builds a created-order cursor from the createdAt of the last
// record on a page.
func EncodeCreated(createdAt time.Time) string {
	b, _ := json.Marshal(createdCursor{
		CurStartAfter: createdAt.UTC().Truncate(time.Millisecond).Format(time.RFC3339Nano),
	})
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCreated recovers the resume timestamp from a created-order cursor.
// A cursor that fails to decode, parses to no curStartAfter value, or carries
// an unparseable date yields ErrInvalid.
func DecodeCreated(cur string) (time.Time, error) {
	raw, err := base64.StdEncoding.DecodeString(cur)
	if err != nil {
		return time.Time{}, ErrInvalid
	}
	var c createdCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return time.Time{}, ErrInvalid
	}
	if c.CurStartAfter == "" {
		return time.Time{}, ErrInvalid
	}
	t, err := time.Parse(time.RFC3339Nano, c.CurStartAfter)
	if err != nil {
		return time.Time{}, ErrInvalid
	}
	return t, nil
}

// EncodeName builds a name-order cursor from the firstName and createdAt of
// the last record on a page. The two values are joined raw with "||"; the
// createdAt component uses the same canonical form the created-order cursor
// does.
func EncodeName(firstName string, createdAt time.Time) string {
	pieces := firstName + compositeSep +
		createdAt.UTC().Truncate(time.Millisecond).Format(time.RFC3339Nano)
	return base64.StdEncoding.EncodeToString([]byte(pieces))
}

// DecodeName splits a name-order cursor into its firstName and createdAt
// components. Unlike the created-order codec this one reports a missing or
// empty second component with ok=false rather than an error; the listing
// treats that as "no results". Existing clients rely on that shape.
func DecodeName(cur string) (firstName string, createdAt time.Time, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(cur)
	if err != nil {
		return "", time.Time{}, false
	}
	parts := strings.SplitN(string(raw), compositeSep, 2)
	if len(parts) < 2 || parts[1] == "" {
		return "", time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return "", time.Time{}, false
	}
	return parts[0], t, true
}
