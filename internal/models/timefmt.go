package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// parseTime accepts the two layouts this package writes and falls back to
// dateparse for files edited by hand or exported from spreadsheets.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// Date is a calendar day in local time.
type Date struct{ time.Time }

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

func ParseDate(s string) (Date, error) {
	t, err := parseTime(s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date { return NewDate(d.AddDate(0, 0, n)) }

func (d Date) MarshalCSV() (string, error) { return d.String(), nil }

func (d *Date) UnmarshalCSV(s string) error {
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalCSV(s)
}

func (d Date) Value() (driver.Value, error) { return d.String(), nil }

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.UnmarshalCSV(v)
	case []byte:
		return d.UnmarshalCSV(string(v))
	}
	return fmt.Errorf("cannot scan %T into Date", value)
}

func (Date) GormDataType() string { return "date" }

// Timestamp is a local wall-clock instant with second precision.
type Timestamp struct{ time.Time }

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Local().Truncate(time.Second)}
}

func ParseTimestamp(s string) (Timestamp, error) {
	t, err := parseTime(s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

func (ts Timestamp) String() string { return ts.Format(TimestampLayout) }

func (ts Timestamp) MarshalCSV() (string, error) { return ts.String(), nil }

func (ts *Timestamp) UnmarshalCSV(s string) error {
	v, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = v
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) { return json.Marshal(ts.String()) }

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return ts.UnmarshalCSV(s)
}

func (ts Timestamp) Value() (driver.Value, error) { return ts.Time, nil }

func (ts *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*ts = Timestamp{}
		return nil
	case time.Time:
		*ts = NewTimestamp(v)
		return nil
	case string:
		return ts.UnmarshalCSV(v)
	case []byte:
		return ts.UnmarshalCSV(string(v))
	}
	return fmt.Errorf("cannot scan %T into Timestamp", value)
}

func (Timestamp) GormDataType() string { return "time" }
