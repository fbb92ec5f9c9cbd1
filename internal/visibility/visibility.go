// Package visibility computes which trackers the main list shows for a
// given date, filter and search text. It is a pure function over the
// grouped sections; section order is inherited from the input and never
// changed here.
package visibility

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
)

// Filter enumerates the user-selectable filters. Today is also a
// command at the call site: selecting it resets the date to now and
// clears the all-days override before this package ever runs.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterToday       Filter = "today"
	FilterCompleted   Filter = "completed"
	FilterUncompleted Filter = "uncompleted"
)

// ParseFilter maps the wire value to a Filter, defaulting to All.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterToday:
		return FilterToday
	case FilterCompleted:
		return FilterCompleted
	case FilterUncompleted:
		return FilterUncompleted
	default:
		return FilterAll
	}
}

// CompletionCheck answers whether a tracker is completed on a date.
type CompletionCheck func(trackerID uuid.UUID, date time.Time) bool

// Params carries everything the visible-list computation depends on.
type Params struct {
	Sections     []models.TrackerSection
	SelectedDate time.Time
	ShowAllDays  bool
	Filter       Filter
	SearchText   string
	IsCompleted  CompletionCheck
}

// VisibleSections applies, per section: the schedule match for the
// selected date (unless overridden), the active filter, then the search
// text. Sections emptied along the way are dropped.
func VisibleSections(p Params) []models.TrackerSection {
	weekday := models.WeekdayOf(p.SelectedDate)
	search := strings.ToLower(strings.TrimSpace(p.SearchText))

	out := make([]models.TrackerSection, 0, len(p.Sections))
	for _, section := range p.Sections {
		var kept []models.Tracker
		for _, tracker := range section.Trackers {
			if !p.ShowAllDays && !tracker.Schedule.Contains(weekday) {
				continue
			}

			switch p.Filter {
			case FilterCompleted:
				if p.IsCompleted == nil || !p.IsCompleted(tracker.ID, p.SelectedDate) {
					continue
				}
			case FilterUncompleted:
				if p.IsCompleted != nil && p.IsCompleted(tracker.ID, p.SelectedDate) {
					continue
				}
			}

			if search != "" && !strings.Contains(strings.ToLower(tracker.Name), search) {
				continue
			}

			kept = append(kept, tracker)
		}

		if len(kept) > 0 {
			out = append(out, models.TrackerSection{
				Title:    section.Title,
				Pinned:   section.Pinned,
				Trackers: kept,
			})
		}
	}
	return out
}

// FilterAvailable reports whether the filter affordance should show:
// true iff the schedule/override step alone leaves any tracker due,
// independent of the active filter and search.
func FilterAvailable(sections []models.TrackerSection, selectedDate time.Time, showAllDays bool) bool {
	if showAllDays {
		for _, section := range sections {
			if len(section.Trackers) > 0 {
				return true
			}
		}
		return false
	}

	weekday := models.WeekdayOf(selectedDate)
	for _, section := range sections {
		for _, tracker := range section.Trackers {
			if tracker.Schedule.Contains(weekday) {
				return true
			}
		}
	}
	return false
}
