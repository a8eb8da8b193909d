package validator

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format accepted alongside RFC 3339.
const DateLayout = "2006-01-02"

var null = []byte("null")

// Number accepts a JSON number or a string holding one. Empty strings and
// null leave it unset. Anything else is recorded as invalid so the request
// can report it against its field name instead of failing the whole decode.
type Number struct {
	Value   float64
	Set     bool
	Null    bool
	Invalid bool
	Raw     string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{Set: true}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		n.Null = true
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			n.Invalid = true
			return nil
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			n.Null = true
			return nil
		}
	} else {
		raw = string(data)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		n.Invalid, n.Raw = true, raw
		return nil
	}
	n.Value = f
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present() {
		return null, nil
	}
	return json.Marshal(n.Value)
}

// Present reports whether a usable value was supplied.
func (n Number) Present() bool {
	return n.Set && !n.Null && !n.Invalid
}

// Ptr returns the value, or nil when absent or null.
func (n Number) Ptr() *float64 {
	if !n.Present() {
		return nil
	}
	v := n.Value
	return &v
}

// Int returns the value truncated to an int, for integer-valued fields.
func (n Number) Int() int {
	return int(n.Value)
}

// IntPtr is Ptr for integer-valued fields.
func (n Number) IntPtr() *int {
	if !n.Present() {
		return nil
	}
	v := int(n.Value)
	return &v
}

// Date accepts "YYYY-MM-DD" or an RFC 3339 timestamp. Same unset/null/invalid
// semantics as Number.
type Date struct {
	Value   time.Time
	Set     bool
	Null    bool
	Invalid bool
	Raw     string
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = Date{Set: true}
	if bytes.Equal(bytes.TrimSpace(data), null) {
		d.Null = true
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.Invalid, d.Raw = true, string(data)
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Null = true
		return nil
	}

	t, err := ParseDate(raw)
	if err != nil {
		d.Invalid, d.Raw = true, raw
		return nil
	}
	d.Value = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Present() {
		return null, nil
	}
	return json.Marshal(d.Value)
}

// Present reports whether a usable value was supplied.
func (d Date) Present() bool {
	return d.Set && !d.Null && !d.Invalid
}

// Ptr returns the value, or nil when absent or null.
func (d Date) Ptr() *time.Time {
	if !d.Present() {
		return nil
	}
	v := d.Value
	return &v
}

// ParseDate parses a calendar date (UTC midnight) or an RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Optional distinguishes an absent field from an explicit null in partial
// updates. Set is false when the key was missing; Null is true for null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	*o = Optional[T]{Set: true}
	if bytes.Equal(bytes.TrimSpace(data), null) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// NullableString trims s and turns blank strings into nil.
func NullableString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
