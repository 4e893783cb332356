package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// FetchTimeField is injected into every stored response.
	FetchTimeField = "fetch_date_time"
	// TimestampLayout is ISO-8601 with milliseconds and a numeric offset.
	TimestampLayout = "2006-01-02T15:04:05.000-07:00"
)

// Snapshot is the complete JSON object of an API response plus the time it
// was fetched. Unknown fields are kept as they came.
type Snapshot map[string]json.RawMessage

func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: not a json object", ErrDecode)
	}
	return s, nil
}

// Stamp sets the fetch time.
func (s Snapshot) Stamp(t time.Time) {
	b, _ := json.Marshal(t.Format(TimestampLayout))
	s[FetchTimeField] = b
}

func (s Snapshot) FetchedAt() (time.Time, error) {
	raw, ok := s[FetchTimeField]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingField, FetchTimeField)
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrDecode, FetchTimeField, err)
	}
	t, err := time.Parse(TimestampLayout, v)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, v)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrDecode, FetchTimeField, err)
	}
	return t, nil
}

func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(map[string]json.RawMessage(s))
}

// field decodes the top-level field name into v.
func (s Snapshot) field(name string, v any) error {
	raw, ok := s[name]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	return nil
}

func (s Snapshot) optional(name string, v any) {
	if raw, ok := s[name]; ok {
		_ = json.Unmarshal(raw, v)
	}
}
