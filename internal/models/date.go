package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar date without time zone. The zero value encodes as an empty string
// so drafts with unset dates survive JSON and YAML round trips.
type Date struct {
	civil.Date
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{civil.Date{Year: year, Month: month, Day: day}}
}

// ParseDate parses a YYYY-MM-DD string; the empty string yields the zero Date.
func ParseDate(raw string) (Date, error) {
	if raw == "" {
		return Date{}, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return Date{d}, nil
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Date.Before(o.Date)
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.Date.After(o.Date)
}

// String renders YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Date.String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the zero Date as NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Date.String(), nil
}

// Scan reads DATE columns returned as time.Time, string or []byte.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Date{civil.DateOf(v)}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	default:
		return fmt.Errorf("unsupported type %T for Date", value)
	}
}
