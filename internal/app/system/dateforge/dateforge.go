// internal/app/system/dateforge/dateforge.go
package dateforge

// Timestamp fields come back from the driver in whatever precision and zone
// the stored BSON datetime carries. Every record handed out of a store passes
// through here first so callers always see the same shape: UTC, millisecond
// precision (BSON datetimes hold no finer), RFC 3339 when serialized.

import (
	"time"

	"github.com/dalemusser/memberhub/internal/domain/models"
)

// Forge normalizes a timestamp to UTC at millisecond precision.
// Idempotent: forging a forged time yields an identical value.
func Forge(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ForgeString renders a timestamp in the canonical wire form used by cursors:
// RFC 3339 UTC, fractional seconds only when nonzero.
func ForgeString(t time.Time) string {
	return Forge(t).Format(time.RFC3339Nano)
}

// Member normalizes the timestamp fields of a member record.
func Member(m models.Member) models.Member {
	m.CreatedAt = Forge(m.CreatedAt)
	m.LastUpdatedAt = Forge(m.LastUpdatedAt)
	return m
}

// Reservation normalizes the timestamp fields of a slug reservation.
func Reservation(r models.SlugReservation) models.SlugReservation {
	r.CreatedAt = Forge(r.CreatedAt)
	return r
}
