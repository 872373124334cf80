package cursor

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -5, DefaultLimit},
		{"in range passes through", 37, 37},
		{"max allowed", 100, 100},
		{"over max clamps", 500, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampLimit(tt.limit)
			if got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestCreatedCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2021, 6, 15, 10, 30, 45, 123_000_000, time.UTC)

	cur := EncodeCreated(createdAt)
	got, err := DecodeCreated(cur)
	if err != nil {
		t.Fatalf("DecodeCreated failed: %v", err)
	}

	if !got.Equal(createdAt) {
		t.Errorf("round trip: got %v, want %v", got, createdAt)
	}
}

func TestCreatedCursor_MillisecondPrecision(t *testing.T) {
	// Sub-millisecond precision is dropped on encode; the recovered value
	// must equal the original to the millisecond.
	createdAt := time.Date(2021, 1, 1, 0, 0, 0, 123_456_789, time.UTC)

	cur := EncodeCreated(createdAt)
	got, err := DecodeCreated(cur)
	if err != nil {
		t.Fatalf("DecodeCreated failed: %v", err)
	}

	want := createdAt.Truncate(time.Millisecond)
	if !got.Equal(want) {
		t.Errorf("round trip: got %v, want %v", got, want)
	}
}

func TestDecodeCreated_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cur  string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.StdEncoding.EncodeToString([]byte("plain text"))},
		{"missing curStartAfter", base64.StdEncoding.EncodeToString([]byte(`{"other":"x"}`))},
		{"empty curStartAfter", base64.StdEncoding.EncodeToString([]byte(`{"curStartAfter":""}`))},
		{"unparseable date", base64.StdEncoding.EncodeToString([]byte(`{"curStartAfter":"yesterday"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCreated(tt.cur)
			if err != ErrInvalid {
				t.Errorf("DecodeCreated(%q) error = %v, want ErrInvalid", tt.cur, err)
			}
		})
	}
}

func TestNameCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	cur := EncodeName("Ada", createdAt)
	name, got, ok := DecodeName(cur)
	if !ok {
		t.Fatal("DecodeName reported invalid cursor")
	}

	if name != "Ada" {
		t.Errorf("firstName: got %q, want %q", name, "Ada")
	}
	if !got.Equal(createdAt) {
		t.Errorf("createdAt: got %v, want %v", got, createdAt)
	}

	// The createdAt component is the canonical RFC 3339 form.
	raw, err := base64.StdEncoding.DecodeString(cur)
	if err != nil {
		t.Fatalf("cursor is not base64: %v", err)
	}
	if string(raw) != "Ada||2021-01-01T00:00:00Z" {
		t.Errorf("raw cursor = %q, want %q", raw, "Ada||2021-01-01T00:00:00Z")
	}
}

func TestNameCursor_NameContainingSeparator(t *testing.T) {
	// A first name containing "||" splits at the first separator; the rest
	// lands in the date component and fails to parse. Degenerate input, but
	// it must come back as invalid rather than panic or mis-split.
	cur := EncodeName("A||B", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	_, _, ok := DecodeName(cur)
	if ok {
		t.Error("expected cursor with separator in name to be invalid")
	}
}

func TestDecodeName_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cur  string
	}{
		{"not base64", "%%%"},
		{"no separator", base64.StdEncoding.EncodeToString([]byte("Ada"))},
		{"empty second component", base64.StdEncoding.EncodeToString([]byte("Ada||"))},
		{"unparseable date", base64.StdEncoding.EncodeToString([]byte("Ada||not-a-date"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := DecodeName(tt.cur)
			if ok {
				t.Errorf("DecodeName(%q) ok = true, want false", tt.cur)
			}
		})
	}
}
