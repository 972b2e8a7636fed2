package user_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	commonmetrics "github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/user"
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

func TestUserHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	repo := user.NewRepository(pgContainer.DB, commonmetrics.NewMock())
	handler := user.NewHandler(user.NewService(repo), slog.New(slog.NewTextHandler(os.Stderr, nil)), metrics.NewMock())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	createPayload := map[string]interface{}{
		"FirstName": "Alan",
		"LastName":  "Turing",
		"Email":     "alan@example.com",
		"Role":      "INSTRUCTOR",
	}

	t.Run("CreateUser_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		require.Equal(t, http.StatusCreated, w.Code)

		var created user.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, 1, created.UserID)
		assert.True(t, created.IsActive)
		assert.False(t, created.CreatedAtUtc.IsZero())
	})

	t.Run("CreateUser_DuplicateEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already in use")
	})

	t.Run("CreateUser_InvalidRole", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		payload := map[string]interface{}{
			"FirstName": "X",
			"LastName":  "Y",
			"Email":     "xy@example.com",
			"Role":      "STUDENT",
		}
		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateUser_ValidationError", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", map[string]interface{}{"Email": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "detail")
	})

	t.Run("BlankRequiredFields_Rejected", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		require.Equal(t, http.StatusCreated, w.Code)

		tests := []struct {
			name    string
			method  string
			path    string
			payload map[string]interface{}
		}{
			{"create first name", http.MethodPost, "/admin/users/create_user", map[string]interface{}{
				"FirstName": "   ", "LastName": "Hopper", "Email": "grace@example.com", "Role": "ADMIN",
			}},
			{"create last name", http.MethodPost, "/admin/users/create_user", map[string]interface{}{
				"FirstName": "Grace", "LastName": " ", "Email": "grace@example.com", "Role": "ADMIN",
			}},
			{"update first name", http.MethodPut, "/admin/users/1", map[string]interface{}{"FirstName": "  "}},
			{"update last name", http.MethodPut, "/admin/users/1", map[string]interface{}{"LastName": "\t"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doJSON(t, router, tt.method, tt.path, tt.payload)
				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}

		w = doJSON(t, router, http.MethodGet, "/admin/users/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var stored user.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&stored))
		assert.Equal(t, "Alan", stored.FirstName)
		assert.Equal(t, "Turing", stored.LastName)
	})

	t.Run("GetUser_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodGet, "/admin/users/42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":"User not found"}`, w.Body.String())
	})

	t.Run("UpdateUser_PartialKeepsOtherFields", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPut, "/admin/users/1", map[string]interface{}{"FirstName": "Alonzo"})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/admin/users/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got user.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "Alonzo", got.FirstName)
		assert.Equal(t, "Turing", got.LastName)
		assert.Equal(t, "alan@example.com", got.Email)
		assert.Equal(t, user.RoleInstructor, got.Role)
	})

	t.Run("DeactivateUser_SoftDeletes", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/admin/users/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/admin/users/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got user.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.False(t, got.IsActive)

		w = doJSON(t, router, http.MethodGet, "/admin/users?active=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var active []user.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&active))
		assert.Empty(t, active)
	})

	t.Run("ListUsers_FilterByRole", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "users")

		w := doJSON(t, router, http.MethodPost, "/admin/users/create_user", createPayload)
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(t, router, http.MethodPost, "/admin/users/create_user", map[string]interface{}{
			"FirstName": "Barbara",
			"LastName":  "Liskov",
			"Email":     "barbara@example.com",
			"Role":      "ADMIN",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/admin/users?role=admin", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var admins []user.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&admins))
		require.Len(t, admins, 1)
		assert.Equal(t, "barbara@example.com", admins[0].Email)

		w = doJSON(t, router, http.MethodGet, "/admin/users?active=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
