package diagnostics

import (
	"controlstock-backend/internal/branchdb"

	"github.com/gofiber/fiber/v2"
)

type tableRow struct {
	TableName string `json:"TABLE_NAME" gorm:"column:table_name"`
}

type columnRow struct {
	ColumnName string `json:"COLUMN_NAME" gorm:"column:column_name"`
}

// GET /api/diagnostics/tables
// Operator aid for checking what a branch database actually contains.
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := branchdb.FromCtx(c)

		var tables []tableRow
		err := db.Raw(
			`SELECT table_name FROM information_schema.tables
			 WHERE table_type = 'BASE TABLE' AND table_schema = 'public'`,
		).Scan(&tables).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Server Error",
				"error":   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(tables),
			"tables":  tables,
		})
	}
}

// GET /api/diagnostics/article-schema
func ArticleSchemaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := branchdb.FromCtx(c)

		var columns []columnRow
		err := db.Raw(
			`SELECT column_name FROM information_schema.columns
			 WHERE table_name = 'Article'`,
		).Scan(&columns).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Server Error",
				"error":   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(columns),
			"columns": columns,
		})
	}
}
