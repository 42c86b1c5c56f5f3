package facebook

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// TimeLayout is the timestamp layout Graph returns, e.g. 2011-03-14T17:02:54+0000.
const TimeLayout = "2006-01-02T15:04:05-0700"

// Time is a Graph timestamp. null and "" decode to the zero time.
type Time struct {
	time.Time
}

// UnmarshalJSON accepts TimeLayout, RFC 3339, null and "".
func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "facebook: time")
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return errors.Errorf("facebook: cannot parse time %q", s)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON writes TimeLayout, or null for the zero time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(TimeLayout))
}
