package branchdb

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	CtxDBKey     = "branch_db"
	CtxBranchKey = "branch"
)

// Middleware resolves the x-branch header to a database pool and attaches it
// to the request. Tablets that don't send the header get the default branch.
func Middleware(reg *Registry, defaultBranch string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch := c.Get("x-branch")
		if branch == "" {
			branch = defaultBranch
		}

		db, err := reg.Get(branch)
		if err != nil {
			log.Printf("branch middleware [%s]: %v", branch, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Database Connection Error",
			})
		}

		c.Locals(CtxDBKey, db)
		c.Locals(CtxBranchKey, Normalize(branch))
		return c.Next()
	}
}

// FromCtx returns the pool the middleware attached for this request.
func FromCtx(c *fiber.Ctx) *gorm.DB {
	db, _ := c.Locals(CtxDBKey).(*gorm.DB)
	return db
}
