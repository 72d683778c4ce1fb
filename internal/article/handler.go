package article

import (
	"controlstock-backend/internal/branchdb"

	"github.com/gofiber/fiber/v2"
)

// Row joins the master catalog with the quantities of one session. Quantities
// default to 0 when the session has no line for the article yet.
type Row struct {
	CodeArticle      string  `json:"code_article" gorm:"column:code_article"`
	Article          string  `json:"article" gorm:"column:article"`
	Prix             float64 `json:"Prix" gorm:"column:prix"`
	QuantityPhysical float64 `json:"quantity_physical" gorm:"column:quantity_physical"`
	QuantitySystem   float64 `json:"quantity_system" gorm:"column:quantity_system"`
}

// GET /api/articles?page&limit&search&groupID&category
func ListArticlesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 20)
		if limit < 1 {
			limit = 20
		}
		search := c.Query("search")
		groupID := c.QueryInt("groupID", 0)
		category := c.Query("category")
		offset := (page - 1) * limit

		db := branchdb.FromCtx(c)

		q := db.Table(`"Article" A`).
			Select(`A.code_article, A.article, A."Prix" AS prix, ` +
				`COALESCE(S.qte_physique, 0) AS quantity_physical, ` +
				`COALESCE(S.qte_globale, 0) AS quantity_system`).
			Joins(`LEFT JOIN "Stock_item" S ON A.code_article = S.id_article AND S.id_group_stock = ?`, groupID)

		if search != "" {
			pattern := "%" + search + "%"
			q = q.Where("A.article LIKE ? OR A.code_article LIKE ?", pattern, pattern)
		}
		if category != "" {
			q = q.Where("A.groupe = ?", category)
		}

		rows := []Row{}
		if err := q.Order("A.article ASC").Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    rows,
		})
	}
}
