package position_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	commonmetrics "github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, router http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPositionHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	repo := position.NewRepository(pgContainer.DB, commonmetrics.NewMock())
	handler := position.NewHandler(position.NewService(repo), slog.New(slog.NewTextHandler(os.Stderr, nil)))
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	newPosition := map[string]interface{}{
		"Title":           "Software Intern",
		"Company":         "Acme",
		"SiteLocation":    "Springfield",
		"SupervisorName":  "Wile E.",
		"SupervisorEmail": "wile@acme.test",
		"StartDate":       "2025-01-15",
		"EndDate":         "2025-05-15",
	}

	t.Run("CreatePosition_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "positions")

		w := doJSON(t, router, http.MethodPost, "/positions", newPosition)
		require.Equal(t, http.StatusCreated, w.Code)

		var created position.Position
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, 1, created.PositionID)
		assert.True(t, created.IsActive)
		require.NotNil(t, created.StartDate)
		assert.Equal(t, "2025-01-15", created.StartDate.String())
	})

	t.Run("CreatePosition_MissingCompany", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/positions", map[string]interface{}{"Title": "Intern"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreatePosition_EndBeforeStart", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/positions", map[string]interface{}{
			"Title":     "Intern",
			"Company":   "Acme",
			"StartDate": "2025-05-01",
			"EndDate":   "2025-01-01",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetPosition_RoundTripsDates", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "positions")

		w := doJSON(t, router, http.MethodPost, "/positions", newPosition)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/positions/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got position.Position
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.NotNil(t, got.EndDate)
		assert.Equal(t, "2025-05-15", got.EndDate.String())
	})

	t.Run("UpdatePosition_Partial", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "positions")

		w := doJSON(t, router, http.MethodPost, "/positions", newPosition)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPut, "/positions/1", map[string]interface{}{"Title": "Backend Intern"})
		require.Equal(t, http.StatusOK, w.Code)

		var got position.Position
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "Backend Intern", got.Title)
		assert.Equal(t, "Acme", got.Company)

		w = doJSON(t, router, http.MethodPut, "/positions/7", map[string]interface{}{"Title": "X"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdatePosition_NullClearsDate", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "positions")

		w := doJSON(t, router, http.MethodPost, "/positions", newPosition)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPut, "/positions/1", map[string]interface{}{"EndDate": nil})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/positions/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got position.Position
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Nil(t, got.EndDate)
		require.NotNil(t, got.StartDate)
		assert.Equal(t, "2025-01-15", got.StartDate.String())
	})

	t.Run("BlankRequiredFields_Rejected", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "positions")

		w := doJSON(t, router, http.MethodPost, "/positions", map[string]interface{}{"Title": "   ", "Company": "Acme"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, http.MethodPost, "/positions", newPosition)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPut, "/positions/1", map[string]interface{}{"Company": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DeletePosition_HidesFromDefaultList", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "positions")

		w := doJSON(t, router, http.MethodPost, "/positions", newPosition)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/positions/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/positions", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var active []position.Position
		require.NoError(t, json.NewDecoder(w.Body).Decode(&active))
		assert.Empty(t, active)

		w = doJSON(t, router, http.MethodGet, "/positions?include_inactive=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var all []position.Position
		require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
		require.Len(t, all, 1)
		assert.False(t, all[0].IsActive)

		w = doJSON(t, router, http.MethodGet, "/positions/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
