package branchdb_test

import (
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"controlstock-backend/internal/branchdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "controll_stock_rabat", branchdb.DatabaseName("rabat"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "agadir", branchdb.Normalize("  AGADIR "))
	assert.Equal(t, "marrakech", branchdb.Normalize("Marrakech"))
}

func TestRegistryCachesPoolPerBranch(t *testing.T) {
	var calls int32
	reg := branchdb.NewRegistryWithOpener(func(dbName string) (*gorm.DB, error) {
		atomic.AddInt32(&calls, 1)
		return &gorm.DB{}, nil
	})

	first, err := reg.Get("agadir")
	require.NoError(t, err)
	second, err := reg.Get("agadir")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, calls)

	// A differently spelled header still lands on the cached pool.
	third, err := reg.Get("  Agadir ")
	require.NoError(t, err)
	assert.Same(t, first, third)
	assert.EqualValues(t, 1, calls)

	// A different branch gets its own pool.
	other, err := reg.Get("rabat")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.EqualValues(t, 2, calls)
}

func TestRegistryDoesNotCacheFailures(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	reg := branchdb.NewRegistryWithOpener(func(dbName string) (*gorm.DB, error) {
		if fail.Load() {
			return nil, errors.New("server down")
		}
		return &gorm.DB{}, nil
	})

	_, err := reg.Get("marrakech")
	require.Error(t, err)

	// The branch recovers; the registry must retry instead of replaying the
	// cached failure.
	fail.Store(false)
	db, err := reg.Get("marrakech")
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestRegistryFirstAccessIsSingleFlight(t *testing.T) {
	var calls int32
	reg := branchdb.NewRegistryWithOpener(func(dbName string) (*gorm.DB, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return &gorm.DB{}, nil
	})

	const workers = 8
	pools := make([]*gorm.DB, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := reg.Get("marrakech")
			assert.NoError(t, err)
			pools[i] = db
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls)
	for i := 1; i < workers; i++ {
		assert.Same(t, pools[0], pools[i])
	}
}

func TestMiddlewareAttachesPoolAndDefaultsBranch(t *testing.T) {
	shared := &gorm.DB{}
	reg := branchdb.NewRegistryWithOpener(func(dbName string) (*gorm.DB, error) {
		return shared, nil
	})

	app := fiber.New()
	app.Use(branchdb.Middleware(reg, "agadir"))
	app.Get("/x", func(c *fiber.Ctx) error {
		assert.Same(t, shared, branchdb.FromCtx(c))
		return c.JSON(fiber.Map{"branch": c.Locals(branchdb.CtxBranchKey)})
	})

	// Header present, messy casing.
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("x-branch", " Rabat ")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// No header: default branch applies.
	resp, err = app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewareReportsConnectionError(t *testing.T) {
	reg := branchdb.NewRegistryWithOpener(func(dbName string) (*gorm.DB, error) {
		return nil, errors.New("no such host")
	})

	app := fiber.New()
	app.Use(branchdb.Middleware(reg, "agadir"))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("unreachable") })

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
