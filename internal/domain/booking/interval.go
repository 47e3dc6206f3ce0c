package booking

import (
	"fmt"
	"time"

	"rental-booking/internal/pkg/errs"
)

const (
	DateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// Interval is a half-open range of calendar days [start, end).
// Bookings that share a boundary day (check-out == next check-in) do not overlap.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	s, e := ToDate(start), ToDate(end)
	if !e.After(s) {
		return Interval{}, errs.Wrapf(ErrInvalidInterval, "end %s is not after start %s", e.Format(DateLayout), s.Format(DateLayout))
	}
	return Interval{start: s, end: e}, nil
}

func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errs.Wrapf(ErrInvalidInterval, "%q is not a YYYY-MM-DD date", s)
	}
	return t, nil
}

// ToDate drops the clock part, keeping the calendar day as seen in t's location.
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (i Interval) Start() time.Time { return i.start }
func (i Interval) End() time.Time   { return i.end }

func (i Interval) Overlaps(other Interval) bool {
	return i.start.Before(other.end) && other.start.Before(i.end)
}

func (i Interval) Contains(date time.Time) bool {
	d := ToDate(date)
	return !d.Before(i.start) && d.Before(i.end)
}

// Nights counts calendar days in whole seconds; time.Duration saturates
// after roughly 292 years.
func (i Interval) Nights() int {
	return int((i.end.Unix() - i.start.Unix()) / secondsPerDay)
}

func (i Interval) Equal(other Interval) bool {
	return i.start.Equal(other.start) && i.end.Equal(other.end)
}

func (i Interval) IsZero() bool {
	return i.start.IsZero() && i.end.IsZero()
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s,%s)", i.start.Format(DateLayout), i.end.Format(DateLayout))
}

// Overlaps reports whether a and b share at least one night.
func Overlaps(a, b Interval) bool {
	return a.Overlaps(b)
}
