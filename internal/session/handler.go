package session

import (
	"errors"
	"math"
	"time"

	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

// GET /api/sessions
// Open inventories the tablet can pick from. Unbounded on purpose: a branch
// has a handful of open sessions at most.
func ListActiveSessionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := branchdb.FromCtx(c)

		sessions := []models.Session{}
		err := db.
			Where("valide = ?", models.SessionOpen).
			Order("date DESC").
			Find(&sessions).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(sessions),
			"rows":    sessions,
		})
	}
}

// GET /api/sessions/history?page&limit&search
func SessionHistoryHandler() fiber.Handler {
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

		db := branchdb.FromCtx(c)

		q := db.Model(&models.Session{})
		if search != "" {
			pattern := "%" + search + "%"
			q = q.Where("group_article LIKE ? OR depot LIKE ? OR id_chef LIKE ?", pattern, pattern, pattern)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		sessions := []models.Session{}
		err := q.
			Order("date DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&sessions).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    sessions,
			"pagination": fiber.Map{
				"page":       page,
				"limit":      limit,
				"totalItems": total,
				"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}

// GET /api/sessions/:id
func GetSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
		}

		db := branchdb.FromCtx(c)

		var session models.Session
		if err := db.First(&session, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"message": "Session not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		return c.JSON(session)
	}
}

// ItemRow carries one counted line plus catalog data. The article name falls
// back to the line's own description, then "Article Inconnu", for codes that
// no longer exist in the catalog.
type ItemRow struct {
	ID          uint      `json:"id" gorm:"column:id"`
	IDArticle   string    `json:"id_article" gorm:"column:id_article"`
	Article     string    `json:"article" gorm:"column:article"`
	Prix        float64   `json:"Prix" gorm:"column:prix"`
	QteGlobale  float64   `json:"qte_globale" gorm:"column:qte_globale"`
	QtePhysique float64   `json:"qte_physique" gorm:"column:qte_physique"`
	QtePerimePh float64   `json:"qte_perime_ph" gorm:"column:qte_perime_ph"`
	QtePerimeNr float64   `json:"qte_perime_nr" gorm:"column:qte_perime_nr"`
	IDControl   string    `json:"id_control" gorm:"column:id_control"`
	Date        time.Time `json:"date" gorm:"column:date"`
}

// GET /api/sessions/:id/items
func ListSessionItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
		}

		db := branchdb.FromCtx(c)

		items := []ItemRow{}
		err = db.Table(`"Stock_item" S`).
			Select(`S.id, S.id_article, `+
				`COALESCE(A.article, S.description, 'Article Inconnu') AS article, `+
				`COALESCE(A."Prix", 0) AS prix, `+
				`S.qte_globale, S.qte_physique, `+
				`COALESCE(S.qte_perime_ph, 0) AS qte_perime_ph, `+
				`COALESCE(S.qte_perime_nr, 0) AS qte_perime_nr, `+
				`COALESCE(S.id_control, '') AS id_control, S.date`).
			Joins(`LEFT JOIN "Article" A ON A.code_article = S.id_article`).
			Where("S.id_group_stock = ?", id).
			Order("S.ordre ASC").
			Scan(&items).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(items),
			"items":   items,
		})
	}
}

// UpdateItemRequest accepts the counted quantity under either field name: the
// web client sends quantity, the legacy tablet app sends qte_physique.
type UpdateItemRequest struct {
	Quantity    *float64 `json:"quantity"`
	QtePhysique *float64 `json:"qte_physique"`
}

func (r UpdateItemRequest) value() *float64 {
	if r.Quantity != nil {
		return r.Quantity
	}
	return r.QtePhysique
}

// PUT /api/sessions/items/:id
func UpdateItemCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		qty := body.value()
		if qty == nil {
			return fiber.NewError(fiber.StatusBadRequest, "quantity is required")
		}
		if *qty < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
		}

		db := branchdb.FromCtx(c)

		res := db.Model(&models.StockItem{}).
			Where("id = ?", id).
			Update("qte_physique", *qty)
		if res.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   res.Error.Error(),
			})
		}
		if res.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Item not found",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Quantity updated",
		})
	}
}

type ValidateSessionRequest struct {
	Username string `json:"username" validate:"required"`
}

// PUT /api/sessions/:id/validate
// The WHERE valide = 0 condition is the whole exactly-once guard: two
// concurrent calls race at the database and the loser sees zero rows.
func ValidateSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
		}

		var body ValidateSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "username is required")
		}

		db := branchdb.FromCtx(c)

		res := db.Model(&models.Session{}).
			Where("id = ? AND valide = ?", id, models.SessionOpen).
			Updates(map[string]interface{}{
				"valide":     models.SessionValidated,
				"id_control": body.Username,
			})
		if res.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   res.Error.Error(),
			})
		}
		if res.RowsAffected == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Session already validated or not found",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Session validated",
		})
	}
}
