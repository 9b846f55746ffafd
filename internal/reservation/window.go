package reservation

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	TimestampLayout = "2006-01-02T15:04:05"

	day = 24 * time.Hour
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Combine joins a calendar date and a time of day into a local timestamp.
// Both parts are taken as already being in the same wall-clock frame.
func Combine(date, clock string) string {
	return fmt.Sprintf("%sT%s:00", date, clock)
}

// Split is the inverse of Combine.
func Split(timestamp string) (string, string, error) {
	date, rest, ok := strings.Cut(timestamp, "T")
	if !ok || len(rest) < len("15:04") {
		return "", "", fmt.Errorf("split %q: %w", timestamp, ErrMalformedTimestamp)
	}

	return date, rest[:len("15:04")], nil
}

// ParseTimestamp reads a combined timestamp. UTC serves as a floating wall
// clock, so every day in the result is exactly 24h long.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, ErrMalformedTimestamp)
	}

	return t, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, ErrMalformedTimestamp)
	}

	return t, nil
}

func parseClock(s string) error {
	if _, err := time.Parse(ClockLayout, s); err != nil {
		return fmt.Errorf("parse time of day %q: %w", s, ErrMalformedTimestamp)
	}

	return nil
}

// IsValidRange reports whether checkOut is strictly later than checkIn.
func IsValidRange(checkIn, checkOut time.Time) bool {
	return checkOut.After(checkIn)
}

// NightsBetween rounds the stay up to whole days. An empty or inverted
// window is rejected with ErrInvalidRange.
func NightsBetween(checkIn, checkOut time.Time) (int, error) {
	if !IsValidRange(checkIn, checkOut) {
		return 0, fmt.Errorf("check-in %s, check-out %s: %w",
			checkIn.Format(TimestampLayout), checkOut.Format(TimestampLayout), ErrInvalidRange)
	}

	d := checkOut.Sub(checkIn)

	nights := int(d / day)
	if d%day != 0 {
		nights++
	}

	return nights, nil
}

func MinCheckInDate(c Clock) string {
	return c.Now().Format(DateLayout)
}

// MinCheckOutDate returns the day after checkInDate, or tomorrow when
// checkInDate is empty.
func MinCheckOutDate(c Clock, checkInDate string) (string, error) {
	if checkInDate == "" {
		now := c.Now()

		return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location()).Format(DateLayout), nil
	}

	base, err := parseDate(checkInDate)
	if err != nil {
		return "", err
	}

	return base.AddDate(0, 0, 1).Format(DateLayout), nil
}

// Window is a check-in/check-out instant pair.
type Window struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewWindow combines the form dates and times. An empty time of day means
// midnight.
func NewWindow(f Form) (Window, error) {
	checkIn, err := combineAndParse(f.CheckInDate, f.CheckInTime)
	if err != nil {
		return Window{}, fmt.Errorf("check-in: %w", err)
	}

	checkOut, err := combineAndParse(f.CheckOutDate, f.CheckOutTime)
	if err != nil {
		return Window{}, fmt.Errorf("check-out: %w", err)
	}

	return Window{CheckIn: checkIn, CheckOut: checkOut}, nil
}

func combineAndParse(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}

	return ParseTimestamp(Combine(date, clock))
}

func (w Window) Valid() bool {
	return IsValidRange(w.CheckIn, w.CheckOut)
}

func (w Window) Nights() (int, error) {
	return NightsBetween(w.CheckIn, w.CheckOut)
}

func (w Window) CheckInTimestamp() string {
	return w.CheckIn.Format(TimestampLayout)
}

func (w Window) CheckOutTimestamp() string {
	return w.CheckOut.Format(TimestampLayout)
}
