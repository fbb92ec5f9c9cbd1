package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mytracker/trackers-api/internal/store"
)

var stores *store.Stores

// Init hands the handlers their repositories. Called once at startup
// before routes are registered.
func Init(s *store.Stores) {
	stores = s
}

const dateLayout = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// storeError maps repository failures onto HTTP responses.
func storeError(c *fiber.Ctx, err error) error {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Error(),
		})
	}
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong",
	})
}
