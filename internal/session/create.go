package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ItemInput is one imported count line. The display name arrives as
// article_name from the web importer and as article from the legacy one;
// both are accepted and normalized here.
type ItemInput struct {
	CodeArticle string  `json:"code_article" validate:"required"`
	ArticleName string  `json:"article_name"`
	Article     string  `json:"article"`
	QteGlobale  float64 `json:"qte_globale" validate:"gte=0"`
}

func (it ItemInput) displayName() string {
	if name := strings.TrimSpace(it.ArticleName); name != "" {
		return name
	}
	if name := strings.TrimSpace(it.Article); name != "" {
		return name
	}
	return "Article Inconnu"
}

type CreateSessionRequest struct {
	Depot        string      `json:"depot" validate:"required"`
	GroupArticle string      `json:"group_article" validate:"required"`
	IDChef       string      `json:"id_chef" validate:"required"`
	Items        []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// POST /api/sessions
// One atomic transaction: session header, then one Stock_item per imported
// line in submitted order. Codes missing from the master catalog are
// registered on the fly with the imported name and no classification.
// Any failure rolls everything back; no partial session survives.
func CreateSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "depot, group_article, id_chef and a non-empty items list are required")
		}

		db := branchdb.FromCtx(c)

		tx := db.Begin()
		if tx.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   tx.Error.Error(),
			})
		}
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()

		now := time.Now()

		sess := models.Session{
			Depot:        body.Depot,
			GroupArticle: body.GroupArticle,
			IDChef:       body.IDChef,
			Date:         now,
			Valide:       models.SessionOpen,
		}
		if err := tx.Create(&sess).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		newArticles := 0
		for i, it := range body.Items {
			code := strings.TrimSpace(it.CodeArticle)
			if code == "" {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: code_article is empty", i))
			}

			var art models.Article
			err := tx.Where("code_article = ?", code).First(&art).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				art = models.Article{
					CodeArticle: code,
					Article:     it.displayName(),
				}
				if err := tx.Create(&art).Error; err != nil {
					tx.Rollback()
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"success": false,
						"message": "Database Error",
						"error":   err.Error(),
					})
				}
				newArticles++
			case err != nil:
				tx.Rollback()
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Database Error",
					"error":   err.Error(),
				})
			}

			item := models.StockItem{
				IDGroupStock: sess.ID,
				IDArticle:    code,
				QteGlobale:   it.QteGlobale,
				QtePhysique:  0,
				Ordre:        i + 1,
				Date:         now,
			}
			if err := tx.Create(&item).Error; err != nil {
				tx.Rollback()
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Database Error",
					"error":   err.Error(),
				})
			}
		}

		if err := tx.Commit().Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Database Error",
				"error":   err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":          true,
			"id":               sess.ID,
			"message":          fmt.Sprintf("Session %d created with %d items", sess.ID, len(body.Items)),
			"newArticlesCount": newArticles,
		})
	}
}
