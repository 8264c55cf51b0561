package models

import (
	"fmt"
	"time"
)

// DayLayout is the date format used everywhere in the patient database,
// zero padded day/month/year.
const DayLayout = "02/01/2006"

// Day is a single calendar date with no time-of-day component. It is the
// unit of the per-exercise completion history.
type Day struct {
	Year       int
	Month      time.Month
	DayOfMonth int
}

func NewDay(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), DayOfMonth: t.Day()}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return NewDay(t), nil
}

func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.DayOfMonth, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return d.Time().Format(DayLayout)
}

func (d Day) AddDays(n int) Day {
	return NewDay(d.Time().AddDate(0, 0, n))
}

func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// DaysUntil returns the number of whole calendar days from d to other.
// Negative when other is earlier.
func (d Day) DaysUntil(other Day) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", string(text), err)
	}
	*d = parsed
	return nil
}
