package config

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual form of Date in YAML and environment values.
const DateLayout = "2006-01-02"

// Date is a calendar date at UTC midnight.
type Date struct {
	time.Time
}

// NewDate returns the date y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a 2006-01-02 string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want %s): %w", s, DateLayout, err)
	}
	return Date{t}, nil
}

// Decode implements envconfig.Decoder.
func (d *Date) Decode(value string) error {
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.Decode(s)
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}
