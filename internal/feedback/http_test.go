package feedback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	commonmetrics "github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/feedback"
	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/student"
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

type savedFeedback struct {
	Message  string            `json:"message"`
	Feedback feedback.Feedback `json:"feedback"`
}

func TestFeedbackHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	db := pgContainer.DB
	m := commonmetrics.NewMock()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := feedback.NewService(feedback.NewRepository(db, m), student.NewRepository(db, m), position.NewRepository(db, m))
	router := chi.NewRouter()
	feedback.NewHandler(svc, logger).RegisterRoutes(router)

	seed := func(t *testing.T) {
		t.Helper()
		ctx := context.Background()
		testdb.CleanupAll(t, db)
		_, err := db.NewInsert().Model(&student.Student{
			UniversityID: "U1", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Status: student.StatusActive,
		}).Exec(ctx)
		require.NoError(t, err)
		_, err = db.NewInsert().Model(&position.Position{Title: "Intern", Company: "Acme", IsActive: true}).Exec(ctx)
		require.NoError(t, err)
	}

	t.Run("Student_QueryParam", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/teacher/feedback/student/1?feedback=Great+week", nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp savedFeedback
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Feedback for student saved successfully.", resp.Message)
		assert.Equal(t, feedback.TargetStudent, resp.Feedback.TargetType)
		assert.Equal(t, "Great week", resp.Feedback.FeedbackText)
	})

	t.Run("Position_Body", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/teacher/feedback/position/1", map[string]string{"FeedbackText": "Good mentor"})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp savedFeedback
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, feedback.TargetPosition, resp.Feedback.TargetType)
		assert.Equal(t, 1, resp.Feedback.TargetID)
	})

	t.Run("MissingTargets", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/teacher/feedback/student/9?feedback=hi", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, router, http.MethodPost, "/teacher/feedback/position/9?feedback=hi", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("EmptyText", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/teacher/feedback/student/1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, http.MethodPost, "/teacher/feedback/student/1", map[string]string{"FeedbackText": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("StudentSeesOnlyOwnFeedback", func(t *testing.T) {
		seed(t)

		for _, path := range []string{
			"/teacher/feedback/student/1?feedback=first",
			"/teacher/feedback/student/1?feedback=second",
			"/teacher/feedback/position/1?feedback=about+the+site",
		} {
			require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, path, nil).Code)
		}

		w := doJSON(t, router, http.MethodGet, "/student/feedback/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []feedback.Feedback
		require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		require.Len(t, items, 2)
		assert.Equal(t, "second", items[0].FeedbackText)

		w = doJSON(t, router, http.MethodGet, "/student/feedback/3", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
