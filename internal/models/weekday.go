package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday follows the Monday=1..Sunday=7 convention everywhere,
// including in storage.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

var weekdayAbbrevs = map[Weekday]string{
	Monday:    "Mon",
	Tuesday:   "Tue",
	Wednesday: "Wed",
	Thursday:  "Thu",
	Friday:    "Fri",
	Saturday:  "Sat",
	Sunday:    "Sun",
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(w))
}

// WeekdayOf maps a date to its weekday under the Monday=1..Sunday=7
// convention. Go reports Sunday as 0, which becomes 7.
func WeekdayOf(date time.Time) Weekday {
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7
	}
	return Weekday(wd)
}

// Schedule is the set of weekdays a tracker is due on. It persists as a
// JSON array of ints (1..7); values outside that range are dropped when
// read back.
type Schedule []Weekday

func (s Schedule) Contains(w Weekday) bool {
	for _, d := range s {
		if d == w {
			return true
		}
	}
	return false
}

// Normalized returns the schedule deduplicated and sorted Monday→Sunday,
// with invalid values removed.
func (s Schedule) Normalized() Schedule {
	seen := [8]bool{}
	for _, d := range s {
		if d.Valid() {
			seen[d] = true
		}
	}
	out := make(Schedule, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}

// Summarize renders a schedule for display: the full week becomes
// "every day", a single day its full name, anything else a comma list of
// abbreviations in Monday→Sunday order. An empty schedule summarizes to
// "" and the caller treats that as unset.
func (s Schedule) Summarize() string {
	norm := s.Normalized()
	switch len(norm) {
	case 0:
		return ""
	case 7:
		return "every day"
	case 1:
		return norm[0].String()
	}
	parts := make([]string, len(norm))
	for i, d := range norm {
		parts[i] = weekdayAbbrevs[d]
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer so GORM stores the schedule as a JSON
// int array.
func (s Schedule) Value() (driver.Value, error) {
	raw := make([]int, 0, len(s))
	for _, d := range s.Normalized() {
		raw = append(raw, int(d))
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Out-of-range integers are dropped rather
// than rejected, matching the read contract of the stored format.
func (s *Schedule) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported schedule column type %T", value)
	}

	var raw []int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode schedule: %w", err)
	}

	out := make(Schedule, 0, len(raw))
	for _, v := range raw {
		d := Weekday(v)
		if d.Valid() {
			out = append(out, d)
		}
	}
	*s = out.Normalized()
	return nil
}
