// Package stats aggregates completion history into the four summary
// metrics. It holds no state and recomputes from full snapshots.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
)

// Summary is the statistics screen's view model.
type Summary struct {
	CompletedTrackers int  `json:"completedTrackers"`
	BestPeriod        int  `json:"bestPeriod"`
	IdealDays         int  `json:"idealDays"`
	AverageValue      int  `json:"averageValue"`
	HasStatistics     bool `json:"hasStatistics"`
}

// Compute derives the summary from every tracker (all categories,
// pinned included) and every completion record.
func Compute(trackers []models.Tracker, records []models.TrackerRecord) Summary {
	summary := Summary{CompletedTrackers: len(records)}
	if len(records) == 0 {
		return summary
	}
	summary.HasStatistics = true

	// Distinct active days, and who completed what on each.
	completedOn := map[time.Time]map[uuid.UUID]bool{}
	for _, r := range records {
		day := models.DayOf(r.Date)
		if completedOn[day] == nil {
			completedOn[day] = map[uuid.UUID]bool{}
		}
		completedOn[day][r.TrackerID] = true
	}

	days := make([]time.Time, 0, len(completedOn))
	for day := range completedOn {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	summary.BestPeriod = longestStreak(days)
	summary.IdealDays = countIdealDays(trackers, days, completedOn)
	summary.AverageValue = roundHalfUp(float64(len(records)) / float64(len(days)))
	return summary
}

// longestStreak scans the ascending distinct days for the longest run
// where each day is exactly one calendar day after the previous.
func longestStreak(days []time.Time) int {
	best, run := 0, 0
	for i, day := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// countIdealDays counts days where the set of trackers due that weekday
// is non-empty and every one of them was completed.
func countIdealDays(trackers []models.Tracker, days []time.Time, completedOn map[time.Time]map[uuid.UUID]bool) int {
	ideal := 0
	for _, day := range days {
		weekday := models.WeekdayOf(day)
		due := 0
		allDone := true
		for _, t := range trackers {
			if !t.Schedule.Contains(weekday) {
				continue
			}
			due++
			if !completedOn[day][t.ID] {
				allDone = false
				break
			}
		}
		if due > 0 && allDone {
			ideal++
		}
	}
	return ideal
}

// roundHalfUp is the adopted rounding rule for the average: .5 always
// rounds away from zero (the ratio is never negative here).
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
