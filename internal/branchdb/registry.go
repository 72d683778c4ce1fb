// Package branchdb routes each request to the database of its city branch.
// Every branch (agadir, marrakech, rabat) has an isolated database named
// controll_stock_<branch>; the registry opens one pool per branch on first
// use and keeps it for the lifetime of the process.
package branchdb

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"controlstock-backend/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenFunc opens a pool for the given database name. Swappable so tests can
// hand the registry a fake per-branch database.
type OpenFunc func(dbName string) (*gorm.DB, error)

type Registry struct {
	mu    sync.Mutex
	pools map[string]*gorm.DB
	open  OpenFunc
}

func NewRegistry(cfg *config.Config) *Registry {
	return NewRegistryWithOpener(postgresOpener(cfg))
}

func NewRegistryWithOpener(open OpenFunc) *Registry {
	return &Registry{
		pools: make(map[string]*gorm.DB),
		open:  open,
	}
}

// Normalize maps a raw x-branch header value onto the registry key.
func Normalize(branch string) string {
	return strings.ToLower(strings.TrimSpace(branch))
}

// DatabaseName maps a normalized branch onto its database by naming
// convention.
func DatabaseName(branch string) string {
	return "controll_stock_" + branch
}

// Get returns the pool for a branch, opening and caching it on first use.
// The lock is held across the open so two first requests for the same branch
// cannot create duplicate pools. Failed opens are not cached; the next
// request retries.
func (r *Registry) Get(branch string) (*gorm.DB, error) {
	name := Normalize(branch)

	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.pools[name]; ok {
		return db, nil
	}

	dbName := DatabaseName(name)
	log.Printf("branch switch: connecting to %s", dbName)

	db, err := r.open(dbName)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", dbName, err)
	}
	r.pools[name] = db
	return db, nil
}

func postgresOpener(cfg *config.Config) OpenFunc {
	return func(dbName string) (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(buildDSN(cfg, dbName)), &gorm.Config{})
		if err != nil {
			return nil, err
		}

		// Pool bounds from the legacy deployment: max 10, 30s idle, 15s
		// connect timeout (the timeout lives in the DSN).
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxIdleTime(30 * time.Second)

		return db, nil
	}
}

func buildDSN(cfg *config.Config, dbName string) string {
	parts := []string{
		"host=" + cfg.DBServer,
		"port=" + cfg.DBPort,
		"dbname=" + dbName,
		"sslmode=disable",
		"connect_timeout=15",
	}
	// No explicit credentials means ambient auth (peer/ident), the
	// counterpart of the legacy trusted-connection mode.
	if cfg.DBUser != "" && cfg.DBPassword != "" {
		parts = append(parts, "user="+cfg.DBUser, "password="+cfg.DBPassword)
	}
	return strings.Join(parts, " ")
}
