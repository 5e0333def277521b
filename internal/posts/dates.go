package posts

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the DD-MM-YYYY format accepted by the date-range endpoint.
	DateLayout = "02-01-2006"
	// DisplayLayout renders a publication time as DD-MM-YYYY, HH:MM.
	DisplayLayout = "02-01-2006, 15:04"

	endOfDay = 23*time.Hour + 59*time.Minute + 59*time.Second
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrTimestampOutOfRange = errors.New("timestamp out of range")
)

// DateRange holds the raw start and end query parameters.
type DateRange struct {
	Start string
	End   string
}

// DateError names the bound that failed to parse.
type DateError struct {
	Bound string
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("parse %s date %q: %v", e.Bound, e.Value, e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// ParseDate parses a DD-MM-YYYY calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return t, nil
}

// Bounds expands the range to Unix timestamps: start at 00:00:00 UTC and end
// at 23:59:59 UTC of their respective days. An inverted range is not an error.
func (r DateRange) Bounds() (int64, int64, error) {
	start, err := ParseDate(r.Start)
	if err != nil {
		return 0, 0, &DateError{Bound: "start", Value: r.Start, Err: err}
	}
	end, err := ParseDate(r.End)
	if err != nil {
		return 0, 0, &DateError{Bound: "end", Value: r.End, Err: err}
	}
	return start.Unix(), end.Add(endOfDay).Unix(), nil
}

var (
	minDisplayable = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxDisplayable = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// FormatDate renders a Unix timestamp in UTC. Timestamps whose year does not
// fit in four digits are rejected.
func FormatDate(ts int64) (string, error) {
	if ts < minDisplayable || ts > maxDisplayable {
		return "", fmt.Errorf("%w: %d", ErrTimestampOutOfRange, ts)
	}
	return time.Unix(ts, 0).UTC().Format(DisplayLayout), nil
}
