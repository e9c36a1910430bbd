package models

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is the persisted timestamp form. It is zero-padded and
// fixed-width so documents written by older deployments stay comparable.
const timeLayout = "2006-01-02T15:04:05.000000"

var parseLayouts = []string{
	timeLayout,
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Time wraps time.Time with the document's ISO-8601 wire format. Ordering and
// expiry math are done on the underlying time.Time; the string form exists
// only in the persisted document and API payloads.
type Time struct {
	time.Time
}

// Now returns the current time truncated to microseconds, matching the
// precision of the wire format.
func Now() Time {
	return At(time.Now())
}

// At wraps a time.Time.
func At(t time.Time) Time {
	return Time{t.Truncate(time.Microsecond)}
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range parseLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// String returns the wire representation.
func (t Time) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
