package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Timestamp is an API timestamp that may be absent or malformed. Decoding
// never fails on a bad value; the raw text is kept and Valid reports false.
type Timestamp struct {
	Time    time.Time
	Raw     string
	present bool
	valid   bool
}

// NewTimestamp returns a present, valid timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339), present: true, valid: true}
}

// ParseTimestamp builds a Timestamp from its text form. Empty text yields an
// absent timestamp.
func ParseTimestamp(s string) Timestamp {
	if s == "" {
		return Timestamp{}
	}
	ts := Timestamp{Raw: s, present: true}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		ts.Time = t
		ts.valid = true
	}
	return ts
}

// Present reports whether the API supplied a value at all.
func (t Timestamp) Present() bool {
	return t.present
}

// Valid reports whether the value was present and parsed.
func (t Timestamp) Valid() bool {
	return t.valid
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = Timestamp{Raw: string(data), present: true}
		return nil
	}
	*t = ParseTimestamp(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}
