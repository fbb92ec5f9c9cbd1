package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
)

func GetCategories(c *fiber.Ctx) error {
	categories, err := stores.Categories.FetchAll()
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory resolves the title to an existing category when one
// matches (trimmed, case-insensitive), otherwise creates it.
func CreateCategory(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	category, err := stores.Categories.CreateIfNeeded(req.Title)
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func RenameCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var req models.RenameCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	category, err := stores.Categories.Rename(id, req.Title)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory cascades: member trackers go first, each taking its
// completion records with it, then the category row.
func DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	if err := stores.Categories.Delete(id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
