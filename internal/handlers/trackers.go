package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
	"github.com/mytracker/trackers-api/internal/visibility"
)

// GetTrackers returns the full grouped section list, unfiltered.
func GetTrackers(c *fiber.Ctx) error {
	sections, err := stores.Trackers.GroupedByCategory()
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(sections)
}

func CreateTracker(c *fiber.Ctx) error {
	var req models.CreateTrackerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Palette membership is a creation-screen rule, enforced here at
	// the edge rather than inside the store.
	if !models.InEmojiPalette(req.Emoji) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Emoji must be one of the palette glyphs",
		})
	}
	if !models.InColorPalette(req.Color) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Color must be one of the palette colors",
		})
	}

	tracker, err := stores.Trackers.Create(req)
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tracker)
}

func UpdateTracker(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tracker ID",
		})
	}

	var req models.UpdateTrackerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tracker, err := stores.Trackers.Update(id, req)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(tracker)
}

func SetTrackerPinned(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tracker ID",
		})
	}

	var req models.SetPinnedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tracker, err := stores.Trackers.SetPinned(id, req.IsPinned)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(tracker)
}

func DeleteTracker(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tracker ID",
		})
	}

	if err := stores.Trackers.Delete(id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// ToggleCompletion flips the completion state for one day. Days after
// today are rejected: future completions cannot be recorded.
func ToggleCompletion(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tracker ID",
		})
	}

	var req models.ToggleCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	date, err := parseDay(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, want YYYY-MM-DD",
		})
	}
	if models.DayOf(date).After(models.DayOf(time.Now())) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot mark future completions",
		})
	}

	exists, err := stores.Trackers.ExistsByID(id)
	if err != nil {
		return storeError(c, err)
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tracker not found",
		})
	}

	done, err := stores.Records.IsCompleted(id, date)
	if err != nil {
		return storeError(c, err)
	}
	if done {
		err = stores.Records.Remove(id, date)
	} else {
		err = stores.Records.Add(id, date)
	}
	if err != nil {
		return storeError(c, err)
	}

	count, err := stores.Records.NumberOfCompletions(id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{
		"completed":   !done,
		"completions": count,
	})
}

// VisibleTracker decorates a tracker with its completion state for the
// selected date and its all-time completion count.
type VisibleTracker struct {
	models.Tracker
	ScheduleSummary string `json:"scheduleSummary"`
	Completed       bool   `json:"completed"`
	Completions     int    `json:"completions"`
}

type VisibleSection struct {
	Title    string           `json:"title"`
	Pinned   bool             `json:"pinned"`
	Trackers []VisibleTracker `json:"trackers"`
}

type VisibleResponse struct {
	Date            string           `json:"date"`
	Filter          string           `json:"filter"`
	ShowAllDays     bool             `json:"showAllDays"`
	FilterAvailable bool             `json:"filterAvailable"`
	Sections        []VisibleSection `json:"sections"`
}

// GetVisibleTrackers computes the main list for ?date, ?showAll,
// ?filter and ?search. Selecting the today filter is a command as well
// as a filter: it snaps the date back to the current day and clears the
// all-days override before filtering.
func GetVisibleTrackers(c *fiber.Ctx) error {
	selectedDate := models.DayOf(time.Now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDay(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid date, want YYYY-MM-DD",
			})
		}
		selectedDate = models.DayOf(parsed)
	}
	showAllDays := c.QueryBool("showAll", false)
	filter := visibility.ParseFilter(c.Query("filter"))
	search := c.Query("search")

	if filter == visibility.FilterToday {
		selectedDate = models.DayOf(time.Now())
		showAllDays = false
	}

	sections, err := stores.Trackers.GroupedByCategory()
	if err != nil {
		return storeError(c, err)
	}

	visible := visibility.VisibleSections(visibility.Params{
		Sections:     sections,
		SelectedDate: selectedDate,
		ShowAllDays:  showAllDays,
		Filter:       filter,
		SearchText:   search,
		IsCompleted: func(trackerID uuid.UUID, date time.Time) bool {
			done, err := stores.Records.IsCompleted(trackerID, date)
			return err == nil && done
		},
	})

	resp := VisibleResponse{
		Date:            selectedDate.Format(dateLayout),
		Filter:          string(filter),
		ShowAllDays:     showAllDays,
		FilterAvailable: visibility.FilterAvailable(sections, selectedDate, showAllDays),
		Sections:        make([]VisibleSection, 0, len(visible)),
	}
	for _, section := range visible {
		out := VisibleSection{Title: section.Title, Pinned: section.Pinned}
		for _, tracker := range section.Trackers {
			done, err := stores.Records.IsCompleted(tracker.ID, selectedDate)
			if err != nil {
				return storeError(c, err)
			}
			count, err := stores.Records.NumberOfCompletions(tracker.ID)
			if err != nil {
				return storeError(c, err)
			}
			out.Trackers = append(out.Trackers, VisibleTracker{
				Tracker:         tracker,
				ScheduleSummary: tracker.Schedule.Summarize(),
				Completed:       done,
				Completions:     count,
			})
		}
		resp.Sections = append(resp.Sections, out)
	}
	return c.JSON(resp)
}
