package auth_test

import (
	"testing"

	"controlstock-backend/internal/models"
	"controlstock-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username, password, role string, deleted bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, Password: string(hash), Role: role}
	if deleted {
		one := 1
		user.Deleted = &one
	}
	require.NoError(t, db.Create(&user).Error)
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
	Message string `json:"message"`
}

func TestLogin(t *testing.T) {
	app, db, _ := testutil.NewApp(t)
	seedUser(t, db, "aziz", "secret123", "chef", false)
	seedUser(t, db, "gone", "secret123", "chef", true)

	t.Run("valid credentials", func(t *testing.T) {
		resp := testutil.Request(t, app, "POST", "/api/auth/login", "",
			map[string]string{"username": "aziz", "password": "secret123"})
		assert.Equal(t, 200, resp.StatusCode)

		var body loginResponse
		testutil.Decode(t, resp, &body)
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "aziz", body.User.Username)
		assert.Equal(t, "chef", body.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := testutil.Request(t, app, "POST", "/api/auth/login", "",
			map[string]string{"username": "aziz", "password": "nope"})
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := testutil.Request(t, app, "POST", "/api/auth/login", "",
			map[string]string{"username": "ghost", "password": "secret123"})
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("soft-deleted user cannot log in", func(t *testing.T) {
		resp := testutil.Request(t, app, "POST", "/api/auth/login", "",
			map[string]string{"username": "gone", "password": "secret123"})
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := testutil.Request(t, app, "POST", "/api/auth/login", "",
			map[string]string{"username": "aziz"})
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestProtectMiddleware(t *testing.T) {
	app, _, cfg := testutil.NewApp(t)

	t.Run("no token", func(t *testing.T) {
		resp := testutil.Request(t, app, "GET", "/api/sessions", "", nil)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := testutil.Request(t, app, "GET", "/api/sessions", "not.a.jwt", nil)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		token := testutil.Token(t, cfg, "aziz", "chef")
		resp := testutil.Request(t, app, "GET", "/api/sessions", token, nil)
		assert.Equal(t, 200, resp.StatusCode)
	})
}

func TestRegister(t *testing.T) {
	app, _, cfg := testutil.NewApp(t)

	t.Run("requires admin role", func(t *testing.T) {
		token := testutil.Token(t, cfg, "aziz", "chef")
		resp := testutil.Request(t, app, "POST", "/api/auth/register", token,
			map[string]string{"username": "new", "password": "secret123", "role": "chef"})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("admin creates a user who can log in", func(t *testing.T) {
		token := testutil.Token(t, cfg, "root", "admin")
		resp := testutil.Request(t, app, "POST", "/api/auth/register", token,
			map[string]string{"username": "fatima", "password": "secret123", "role": "controller"})
		require.Equal(t, 201, resp.StatusCode)

		resp = testutil.Request(t, app, "POST", "/api/auth/login", "",
			map[string]string{"username": "fatima", "password": "secret123"})
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("short password rejected", func(t *testing.T) {
		token := testutil.Token(t, cfg, "root", "admin")
		resp := testutil.Request(t, app, "POST", "/api/auth/register", token,
			map[string]string{"username": "x", "password": "abc", "role": "chef"})
		assert.Equal(t, 400, resp.StatusCode)
	})
}
