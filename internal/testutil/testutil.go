// Package testutil builds a fully wired application over an in-memory
// database so handler tests exercise the real middleware chain and SQL.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"controlstock-backend/internal/auth"
	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/config"
	"controlstock-backend/internal/models"
	"controlstock-backend/internal/server"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JWTSecret satisfies the 32-character minimum enforced by config.Load.
const JWTSecret = "unit-test-secret-0123456789abcdef"

// NewDB opens an in-memory SQLite database with the legacy schema. A single
// connection keeps the :memory: database alive and consistent across queries.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Article{},
		&models.Session{},
		&models.StockItem{},
		&models.User{},
		&models.Depot{},
		&models.Groupe{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func NewConfig() *config.Config {
	return &config.Config{
		HTTPPort:      "0",
		JWTSecret:     JWTSecret,
		CORSOrigins:   "http://localhost:5173",
		DefaultBranch: "agadir",
	}
}

// NewApp wires the full application against a fresh in-memory database. The
// registry hands the same database to every branch name.
func NewApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db := NewDB(t)
	reg := branchdb.NewRegistryWithOpener(func(dbName string) (*gorm.DB, error) {
		return db, nil
	})
	cfg := NewConfig()
	return server.New(cfg, reg), db, cfg
}

// Token mints a bearer token for the given identity.
func Token(t *testing.T, cfg *config.Config, username, role string) string {
	t.Helper()

	token, err := auth.GenerateToken(cfg.JWTSecret, &models.User{Username: username, Role: role})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// Request performs one JSON request against the app under test.
func Request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("x-branch", "agadir")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// Decode reads a JSON response body into out.
func Decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
