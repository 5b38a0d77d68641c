package sim

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on every external surface.
const DateLayout = "2006-01-02"

// NonWorkingDay is the weekly day without sales. Orders and deliveries still happen on it.
const NonWorkingDay = time.Sunday

// IsWorkingDay reports whether date is a selling day.
func IsWorkingDay(date time.Time) bool {
	return date.Weekday() != NonWorkingDay
}

// AddWorkingDays returns the date n working days after start.
// n <= 0 yields the next working day, since an order placed today cannot arrive today.
func AddWorkingDays(start time.Time, n int) time.Time {
	if n <= 0 {
		n = 1
	}
	current := start
	for added := 0; added < n; {
		current = current.AddDate(0, 0, 1)
		if IsWorkingDay(current) {
			added++
		}
	}
	return current
}

// DayOfWeek returns the English weekday name of date.
func DayOfWeek(date time.Time) string {
	return date.Weekday().String()
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Date is a calendar day that marshals as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate wraps t, dropping its time of day.
func NewDate(t time.Time) Date {
	return Date{truncateDay(t)}
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return FormatDate(d.Time)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a quoted YYYY-MM-DD string, got %s", s)
	}
	t, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
