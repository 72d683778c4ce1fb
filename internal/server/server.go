package server

import (
	"log"
	"strings"

	"controlstock-backend/internal/article"
	"controlstock-backend/internal/auth"
	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/config"
	"controlstock-backend/internal/diagnostics"
	"controlstock-backend/internal/resources"
	"controlstock-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// New wires the whole application: middleware chain, branch routing and
// routes. The registry is injected so tests can run against fake branch
// databases.
func New(cfg *config.Config, reg *branchdb.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"message": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Unexpected server error",
			})
		},
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-branch",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Multi-city traffic controller: every route below talks to the
	// database of the branch named in the x-branch header.
	app.Use(branchdb.Middleware(reg, cfg.DefaultBranch))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.Protect(cfg))

	protected.Post("/auth/register", auth.RequireRole("admin"), auth.RegisterHandler())

	protected.Get("/resources/depots", resources.ListDepotsHandler())
	protected.Get("/resources/groups", resources.ListGroupsHandler())

	protected.Get("/articles", article.ListArticlesHandler())

	// /history before /:id so the literal segment wins.
	protected.Get("/sessions", session.ListActiveSessionsHandler())
	protected.Get("/sessions/history", session.SessionHistoryHandler())
	protected.Post("/sessions", session.CreateSessionHandler())
	protected.Get("/sessions/:id", session.GetSessionHandler())
	protected.Get("/sessions/:id/items", session.ListSessionItemsHandler())
	protected.Put("/sessions/items/:id", session.UpdateItemCountHandler())
	protected.Put("/sessions/:id/validate", session.ValidateSessionHandler())

	protected.Get("/diagnostics/tables", diagnostics.ListTablesHandler())
	protected.Get("/diagnostics/article-schema", diagnostics.ArticleSchemaHandler())

	return app
}
