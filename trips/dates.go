package trips

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
)

// ============================================================================
// DATE NORMALIZER — all-or-nothing validation and parsing of ride timestamps
// ============================================================================

// ErrInvalidDateFormat is returned when any start or stop value falls
// outside the configured ride window pattern. No rows are returned with it.
var ErrInvalidDateFormat = errors.New("start and end dates are not all in the correct format")

// Layouts applied after zero-padding.
const (
	TimestampLayout = "01/02/2006 15:04:05"
	DateOnlyLayout  = "01/02/2006"
)

// DateNormalizer checks start values against "<month>/<day>/<year>" and stop
// values against the same or the following month, then parses both.
type DateNormalizer struct {
	startColumn string
	stopColumn  string
	startRe     *regexp.Regexp
	stopRe      *regexp.Regexp
}

// NewDateNormalizer builds the patterns for the window month and year.
// In December the stop pattern also accepts January of the next year.
func NewDateNormalizer(cols config.Columns, w config.RideWindow) *DateNormalizer {
	nextMonth, nextYear := w.NextMonth()
	start := monthPattern(w.Month, w.Year)
	stop := start + "|" + monthPattern(nextMonth, nextYear)

	return &DateNormalizer{
		startColumn: cols.StartTime,
		stopColumn:  cols.StopTime,
		startRe:     regexp.MustCompile(`^(?:` + start + `)(?:\s|$)`),
		stopRe:      regexp.MustCompile(`^(?:` + stop + `)(?:\s|$)`),
	}
}

func monthPattern(month, year int) string {
	return fmt.Sprintf(`0?%d/[0-9]{1,2}/%d`, month, year)
}

// Normalize validates every start and stop value and returns the rows with
// both columns parsed. Any mismatch fails the whole call with
// ErrInvalidDateFormat.
func (n *DateNormalizer) Normalize(rows []RawTrip) ([]DatedTrip, error) {
	var bad []string
	if c := countMismatches(rows, n.startRe, func(r RawTrip) string { return r.StartTime }); c > 0 {
		bad = append(bad, fmt.Sprintf("%d of %d in %q", c, len(rows), n.startColumn))
	}
	if c := countMismatches(rows, n.stopRe, func(r RawTrip) string { return r.StopTime }); c > 0 {
		bad = append(bad, fmt.Sprintf("%d of %d in %q", c, len(rows), n.stopColumn))
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDateFormat, strings.Join(bad, ", "))
	}

	out := make([]DatedTrip, len(rows))
	for i, r := range rows {
		start, err := ParseTimestamp(r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDateFormat, n.startColumn, err)
		}
		stop, err := ParseTimestamp(r.StopTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDateFormat, n.stopColumn, err)
		}
		out[i] = DatedTrip{StartTime: start, StopTime: stop, TripFields: r.TripFields}
	}
	return out, nil
}

func countMismatches(rows []RawTrip, re *regexp.Regexp, value func(RawTrip) string) int {
	n := 0
	for _, r := range rows {
		if !re.MatchString(strings.TrimSpace(value(r))) {
			n++
		}
	}
	return n
}

// PadDate zero-pads the month and day of "M/D/YYYY[ time]" to two digits.
// Text that is not in that shape is returned trimmed but otherwise unchanged.
func PadDate(s string) string {
	s = strings.TrimSpace(s)
	date, clock, hasClock := strings.Cut(s, " ")

	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return s
	}
	for i := 0; i < 2; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}

	padded := strings.Join(parts, "/")
	if hasClock {
		padded += " " + strings.TrimSpace(clock)
	}
	return padded
}

// ParseTimestamp pads s and parses it in UTC with TimestampLayout, or
// DateOnlyLayout when s carries no time of day.
func ParseTimestamp(s string) (time.Time, error) {
	padded := PadDate(s)
	layout := TimestampLayout
	if !strings.Contains(padded, " ") {
		layout = DateOnlyLayout
	}
	return time.ParseInLocation(layout, padded, time.UTC)
}
