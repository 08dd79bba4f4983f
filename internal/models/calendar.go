package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	minutesPerDay  = 24 * 60
	firstSlotHour  = 8
	hourlySlotSize = 15
)

// ErrTimeOutOfRange is matched by every RangeError.
var ErrTimeOutOfRange = errors.New("time of day out of range")

// RangeError reports time-of-day arithmetic that left [00:00, 24:00).
type RangeError struct {
	Base   TimeOfDay
	Delta  int
	Result int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %+d minutes leaves the day (%d minutes)", e.Base, e.Delta, e.Result)
}

// Is lets errors.Is(err, ErrTimeOutOfRange) match.
func (e *RangeError) Is(target error) bool {
	return target == ErrTimeOutOfRange
}

// CalendarDate is a date without a time of day. The zero value is not a valid date.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewCalendarDate normalises the given parts (e.g. June 31 becomes July 1).
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf strips the clock from t, keeping its wall date in t's location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{year: y, month: m, day: d}
}

// ParseCalendarDate parses YYYY-MM-DD.
func ParseCalendarDate(raw string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return DateOf(t), nil
}

// MustParseCalendarDate panics on malformed input. Intended for tests and fixtures.
func MustParseCalendarDate(raw string) CalendarDate {
	d, err := ParseCalendarDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) Weekday() time.Weekday { return d.Time().Weekday() }

func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

func (d CalendarDate) Equal(other CalendarDate) bool  { return d == other }
func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }
func (d CalendarDate) After(other CalendarDate) bool  { return d.Compare(other) > 0 }

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(text []byte) error {
	parsed, err := ParseCalendarDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as a DATE literal.
func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan accepts time.Time (lib/pq DATE) and textual forms.
func (d *CalendarDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(firstN(v, len(dateLayout))))
	case []byte:
		return d.UnmarshalText([]byte(firstN(string(v), len(dateLayout))))
	case nil:
		*d = CalendarDate{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CalendarDate", src)
	}
}

// DaysOfWeek returns seven consecutive dates with anchor as day zero. No week-start alignment is applied.
func DaysOfWeek(anchor CalendarDate) [7]CalendarDate {
	var days [7]CalendarDate
	for i := range days {
		days[i] = anchor.AddDays(i)
	}
	return days
}

// TimeOfDay is a wall-clock time in minutes since midnight, valid in [00:00, 24:00).
type TimeOfDay int

// NewTimeOfDay validates hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay accepts HH:MM and HH:MM:SS (seconds must be zero-padded and are dropped).
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q: expected HH:MM", raw)
}

// MustParseTimeOfDay panics on malformed input. Intended for tests and fixtures.
func MustParseTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Valid() bool { return t >= 0 && t < minutesPerDay }

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Sub returns t - other in minutes.
func (t TimeOfDay) Sub(other TimeOfDay) int { return int(t) - int(other) }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t > other }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalText serves YAML and query-string decoding.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time as a TIME literal.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

// Scan accepts the textual TIME form lib/pq returns and time.Time.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t *TimeOfDay) scanText(raw string) error {
	parsed, err := ParseTimeOfDay(firstN(raw, len("15:04:05")))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AddMinutes shifts t by delta minutes. Results outside [00:00, 24:00) are a *RangeError, never wrapped.
func AddMinutes(t TimeOfDay, delta int) (TimeOfDay, error) {
	result := int(t) + delta
	if result < 0 || result >= minutesPerDay {
		return 0, &RangeError{Base: t, Delta: delta, Result: result}
	}
	return TimeOfDay(result), nil
}

// HourlySlots lists the drop targets of the planning grid, 08:00 through 22:00.
func HourlySlots() []TimeOfDay {
	slots := make([]TimeOfDay, 0, hourlySlotSize)
	for i := 0; i < hourlySlotSize; i++ {
		slots = append(slots, TimeOfDay((firstSlotHour+i)*60))
	}
	return slots
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
