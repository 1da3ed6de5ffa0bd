package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate the input is not a real dd.MM day of the current year
var ErrInvalidDate = errors.New("invalid date format, allowed: dd.MM")

const dateLayout = "02.01.2006"

// DateSpec a day and month without a year
type DateSpec struct {
	Day   int
	Month time.Month
}

// DefaultDateSpec 30 July
var DefaultDateSpec = DateSpec{Day: 30, Month: time.July}

// ParseDateSpec parses "dd.MM", optionally quoted and padded with spaces.
// The year of now is appended before parsing, so "29.02" only passes in leap years.
func ParseDateSpec(raw string, now time.Time) (DateSpec, error) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if s == "" {
		return DateSpec{}, fmt.Errorf("%w: empty input", ErrInvalidDate)
	}

	t, err := time.Parse(dateLayout, s+"."+strconv.Itoa(now.Year()))
	if err != nil {
		return DateSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return DateSpec{Day: t.Day(), Month: t.Month()}, nil
}

// CronExpression six-field expression firing at midnight on the date every year
func (d DateSpec) CronExpression() string {
	return fmt.Sprintf("0 0 0 %d %d *", d.Day, int(d.Month))
}

// String dd.MM
func (d DateSpec) String() string {
	return fmt.Sprintf("%02d.%02d", d.Day, int(d.Month))
}
