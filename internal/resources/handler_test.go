package resources_test

import (
	"testing"

	"controlstock-backend/internal/models"
	"controlstock-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDepots(t *testing.T) {
	app, db, cfg := testutil.NewApp(t)
	token := testutil.Token(t, cfg, "aziz", "chef")

	for _, nom := range []string{"Frigo", "Depot Central", "Reserve"} {
		require.NoError(t, db.Create(&models.Depot{Nom: nom}).Error)
	}

	resp := testutil.Request(t, app, "GET", "/api/resources/depots", token, nil)
	require.Equal(t, 200, resp.StatusCode)

	var depots []string
	testutil.Decode(t, resp, &depots)
	assert.Equal(t, []string{"Depot Central", "Frigo", "Reserve"}, depots)
}

func TestListGroups(t *testing.T) {
	app, db, cfg := testutil.NewApp(t)
	token := testutil.Token(t, cfg, "aziz", "chef")

	for _, nom := range []string{"Epicerie", "Boissons"} {
		require.NoError(t, db.Create(&models.Groupe{Nom: nom}).Error)
	}

	resp := testutil.Request(t, app, "GET", "/api/resources/groups", token, nil)
	require.Equal(t, 200, resp.StatusCode)

	var groups []string
	testutil.Decode(t, resp, &groups)
	assert.Equal(t, []string{"Boissons", "Epicerie"}, groups)
}

func TestEmptyTablesReturnEmptyArrays(t *testing.T) {
	app, _, cfg := testutil.NewApp(t)
	token := testutil.Token(t, cfg, "aziz", "chef")

	resp := testutil.Request(t, app, "GET", "/api/resources/depots", token, nil)
	require.Equal(t, 200, resp.StatusCode)

	var depots []string
	testutil.Decode(t, resp, &depots)
	assert.NotNil(t, depots)
	assert.Empty(t, depots)
}
