package attendance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	commonmetrics "github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/attendance"
	"github.com/HaroldK3/Student-Tracker/internal/events"
	"github.com/HaroldK3/Student-Tracker/internal/location"
	"github.com/HaroldK3/Student-Tracker/internal/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/student"
	"github.com/HaroldK3/Student-Tracker/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newJSONRequest(t, method, path, payload))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestAttendanceHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	db := pgContainer.DB
	ctx := context.Background()
	m := commonmetrics.NewMock()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := attendance.NewService(attendance.NewRepository(db, m), student.NewRepository(db, m), events.NewNoop(), logger)
	router := chi.NewRouter()
	attendance.NewHandler(svc, logger, metrics.NewMock()).RegisterRoutes(router)

	seed := func(t *testing.T) {
		t.Helper()
		testdb.CleanupAll(t, db)
		students := []student.Student{
			{UniversityID: "U1", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Status: student.StatusActive},
			{UniversityID: "U2", FirstName: "Bo", LastName: "Kim", Email: "bo@example.com", Status: student.StatusActive},
		}
		_, err := db.NewInsert().Model(&students).Exec(ctx)
		require.NoError(t, err)
	}

	countOpen := func(t *testing.T, studentID int) int {
		t.Helper()
		n, err := db.NewSelect().Model((*attendance.Attendance)(nil)).
			Where("student_id = ?", studentID).
			Where("check_out_utc IS NULL").
			Count(ctx)
		require.NoError(t, err)
		return n
	}

	t.Run("CheckIn_MissingStudent", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 42})
		assert.Equal(t, http.StatusNotFound, w.Code)

		n, err := db.NewSelect().Model((*attendance.Attendance)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("CheckIn_OneOpenInterval", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		require.Equal(t, http.StatusCreated, w.Code)
		a := decode[attendance.Attendance](t, w)
		assert.Equal(t, 1, a.StudentID)
		assert.Nil(t, a.CheckOutUtc)
		assert.False(t, a.IsApproved)
		assert.WithinDuration(t, time.Now(), a.CheckInUtc, time.Minute)

		w = doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, countOpen(t, 1))
	})

	t.Run("CheckIn_WithCoordinatesRecordsLocation", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 2, "Lat": 40.71, "Lng": -74.0})
		require.Equal(t, http.StatusCreated, w.Code)
		a := decode[attendance.Attendance](t, w)
		require.NotNil(t, a.Lat)
		assert.InDelta(t, 40.71, *a.Lat, 1e-9)

		var locs []location.StudentLocation
		require.NoError(t, db.NewSelect().Model(&locs).Where("student_id = ?", 2).Scan(ctx))
		require.Len(t, locs, 1)
		assert.InDelta(t, -74.0, locs[0].Lng, 1e-9)
		assert.True(t, a.CheckInUtc.Equal(locs[0].CheckInUtc))
	})

	t.Run("CheckIn_PartialCoordinates", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1, "Lat": 40.71})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, countOpen(t, 1))
	})

	t.Run("CheckIn_ConcurrentRequestsKeepOneOpen", func(t *testing.T) {
		seed(t)

		const workers = 5
		requests := make([]*http.Request, workers)
		for i := range requests {
			requests[i] = newJSONRequest(t, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		}

		codes := make(chan int, workers)
		for _, req := range requests {
			go func(req *http.Request) {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
				codes <- w.Code
			}(req)
		}

		created := 0
		for i := 0; i < workers; i++ {
			if <-codes == http.StatusCreated {
				created++
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, countOpen(t, 1))
	})

	t.Run("CheckOut_Twice", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		require.Equal(t, http.StatusCreated, w.Code)
		a := decode[attendance.Attendance](t, w)

		w = doJSON(t, router, http.MethodPut, "/attendance/checkout/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		closed := decode[attendance.Attendance](t, w)
		require.NotNil(t, closed.CheckOutUtc)
		assert.False(t, closed.CheckOutUtc.Before(a.CheckInUtc))

		w = doJSON(t, router, http.MethodPut, "/attendance/checkout/1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doJSON(t, router, http.MethodPut, "/attendance/checkout/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Approve_AndListNewestFirst", func(t *testing.T) {
		seed(t)

		first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1, "CheckInUtc": first})
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(t, router, http.MethodPut, "/attendance/checkout/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPut, "/attendance/approve/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[attendance.Attendance](t, w).IsApproved)

		w = doJSON(t, router, http.MethodGet, "/attendance/student/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		records := decode[[]attendance.Attendance](t, w)
		require.Len(t, records, 2)
		assert.Equal(t, 2, records[0].AttendanceID)
		assert.True(t, records[1].IsApproved)

		w = doJSON(t, router, http.MethodGet, "/attendance/student/77", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Teacher_TimeClockAndPunches", func(t *testing.T) {
		seed(t)

		for _, id := range []int{1, 2} {
			w := doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": id})
			require.Equal(t, http.StatusCreated, w.Code)
		}
		w := doJSON(t, router, http.MethodPut, "/attendance/checkout/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/teacher/time_clock", nil)
		require.Equal(t, http.StatusOK, w.Code)
		clock := decode[map[string][]attendance.Attendance](t, w)
		require.Len(t, clock["active_punches"], 1)
		assert.Equal(t, 2, clock["active_punches"][0].StudentID)

		w = doJSON(t, router, http.MethodGet, "/teacher/time_punch/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[map[string][]attendance.Attendance](t, w)["punches"], 1)

		w = doJSON(t, router, http.MethodGet, "/teacher/check_in/2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[map[string][]attendance.Attendance](t, w)["checkins"], 1)

		w = doJSON(t, router, http.MethodPut, "/teacher/check_in/2/approve", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var approved struct {
			Message    string                `json:"message"`
			Attendance attendance.Attendance `json:"attendance"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&approved))
		assert.Equal(t, "Check-in 2 approved.", approved.Message)
		assert.True(t, approved.Attendance.IsApproved)
	})

	t.Run("Teacher_Sheet", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/teacher/attendance", map[string]interface{}{
			"Date": "2025-03-03",
			"students": []map[string]interface{}{
				{"StudentId": 1, "Status": "Present"},
				{"StudentId": 2, "Status": "absent"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/teacher/attendance/2025-03-03", nil)
		require.Equal(t, http.StatusOK, w.Code)
		sheet := decode[map[string][]attendance.Attendance](t, w)["attendance"]
		require.Len(t, sheet, 2)
		for _, row := range sheet {
			require.NotNil(t, row.Status)
			require.NotNil(t, row.CheckOutUtc)
		}

		w = doJSON(t, router, http.MethodGet, "/teacher/attendance/2025-03-04", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[map[string][]attendance.Attendance](t, w)["attendance"])

		w = doJSON(t, router, http.MethodPut, "/teacher/attendance/1?status=late", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodPut, "/teacher/attendance/2", map[string]string{"Status": "Excused"})
		require.Equal(t, http.StatusOK, w.Code)

		var marked attendance.Attendance
		require.NoError(t, db.NewSelect().Model(&marked).Where("attendance_id = ?", 1).Scan(ctx))
		require.NotNil(t, marked.Status)
		assert.Equal(t, attendance.MarkLate, *marked.Status)

		w = doJSON(t, router, http.MethodPut, "/teacher/attendance/2?status=asleep", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, http.MethodPost, "/attendance/checkin", map[string]interface{}{"StudentId": 1})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Teacher_SheetRejectsUnknownStudent", func(t *testing.T) {
		seed(t)

		w := doJSON(t, router, http.MethodPost, "/teacher/attendance", map[string]interface{}{
			"Date":     "2025-03-03",
			"students": []map[string]interface{}{{"StudentId": 1, "Status": "Present"}, {"StudentId": 9, "Status": "Present"}},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)

		n, err := db.NewSelect().Model((*attendance.Attendance)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
