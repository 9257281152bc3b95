package internal

import (
	"fmt"
	"strconv"
	"time"
)

// Date wraps time.Time so request payloads may carry either a full
// RFC 3339 timestamp or a date-only value such as "2024-01-10".
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Format(time.DateOnly))), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, parseErr := time.Parse(layout, raw); parseErr == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", raw)
}

// Ptr returns the wrapped time, or nil for a nil receiver.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
