package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mytracker/trackers-api/internal/models"
	"github.com/mytracker/trackers-api/internal/stats"
)

// GetStatistics recomputes the four summary metrics from the full
// tracker and record sets.
func GetStatistics(c *fiber.Ctx) error {
	sections, err := stores.Trackers.GroupedByCategory()
	if err != nil {
		return storeError(c, err)
	}
	var trackers []models.Tracker
	for _, section := range sections {
		trackers = append(trackers, section.Trackers...)
	}

	records, err := stores.Records.FetchAll()
	if err != nil {
		return storeError(c, err)
	}

	return c.JSON(stats.Compute(trackers, records))
}
