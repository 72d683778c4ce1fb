package resources

import (
	"log"

	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/resources/depots
// The dropdowns only need the names.
func ListDepotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := branchdb.FromCtx(c)

		noms := []string{}
		if err := db.Model(&models.Depot{}).Order("nom ASC").Pluck("nom", &noms).Error; err != nil {
			log.Println("list depots failed:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Server Error",
			})
		}

		return c.JSON(noms)
	}
}

// GET /api/resources/groups
func ListGroupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := branchdb.FromCtx(c)

		noms := []string{}
		if err := db.Model(&models.Groupe{}).Order(`"Nom" ASC`).Pluck("Nom", &noms).Error; err != nil {
			log.Println("list groups failed:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Server Error",
			})
		}

		return c.JSON(noms)
	}
}
