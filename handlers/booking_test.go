package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"roombook/models"
	"roombook/services/booking"
	"roombook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingService scripts the service layer so the handler tests exercise
// only status codes and rendering.
type fakeBookingService struct {
	submitResult *booking.SubmitResult
	submitErr    error
	decideResult *booking.DecisionResult
	decideErr    error
	cancelResult *models.Booking
	cancelErr    error
}

func (f *fakeBookingService) Submit(context.Context, models.BookingInput) (*booking.SubmitResult, error) {
	return f.submitResult, f.submitErr
}

func (f *fakeBookingService) Decide(context.Context, string, string) (*booking.DecisionResult, error) {
	return f.decideResult, f.decideErr
}

func (f *fakeBookingService) Cancel(context.Context, string) (*models.Booking, error) {
	return f.cancelResult, f.cancelErr
}

func (f *fakeBookingService) Get(id string) (*models.Booking, error) {
	return nil, &booking.NotFoundError{ID: id}
}

func (f *fakeBookingService) List(string, int, int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}

func (f *fakeBookingService) StatusCounts() (map[string]int64, error) {
	return map[string]int64{models.StatusPending: 2, models.StatusApproved: 5}, nil
}

const linkSecret = "test-link-secret"

func newTestRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc, func(token, bookingID, status string) error {
		return utils.VerifyDecisionToken(linkSecret, token, bookingID, status)
	})

	r := gin.New()
	api := r.Group("/api/bookings")
	api.POST("", h.SubmitHandler)
	api.GET("/stats", h.StatsHandler)
	api.GET("/:id", h.GetHandler)
	api.GET("/:id/decide", h.DecideHandler)
	api.POST("/:id/cancel", h.CancelHandler)
	return r
}

func decideURL(t *testing.T, bookingID, status string) string {
	t.Helper()
	token, err := utils.SignDecisionToken(linkSecret, bookingID, status, time.Hour)
	require.NoError(t, err)
	return "/api/bookings/" + bookingID + "/decide?status=" + status + "&token=" + url.QueryEscape(token)
}

func approvedBooking(id string) *models.Booking {
	return &models.Booking{
		ID: id, RoomName: "A", Activity: "ประชุม", Date: "2025-08-01",
		StartTime: "13:00", EndTime: "14:00", Booker: "สมชาย",
		Status: models.StatusApproved,
	}
}

func TestSubmitHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeBookingService{submitResult: &booking.SubmitResult{
			Booking:        &models.Booking{ID: "bk-1", Status: models.StatusPending},
			UserNotified:   true,
			AdminsNotified: 2,
		}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings",
			strings.NewReader(`{"roomName":"A","activity":"ประชุม","date":"2025-08-01","startTime":"13:00","endTime":"14:00","booker":"สมชาย"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "bk-1", body["id"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, true, body["userNotified"])
		assert.Equal(t, float64(2), body["adminsNotified"])
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &fakeBookingService{submitErr: &booking.ValidationError{Field: "date"}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := newTestRouter(&fakeBookingService{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{nope`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDecideHandler(t *testing.T) {
	t.Run("approved with calendar event", func(t *testing.T) {
		svc := &fakeBookingService{decideResult: &booking.DecisionResult{
			Booking:         approvedBooking("bk-1"),
			CalendarCreated: true,
			CalendarEventID: "ev-1",
		}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, decideURL(t, "bk-1", "approved"), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "อนุมัติเรียบร้อย")
		assert.Contains(t, rec.Body.String(), "สร้างนัดหมายในปฏิทินแล้ว")
	})

	t.Run("approved but calendar failed is still 200", func(t *testing.T) {
		svc := &fakeBookingService{decideResult: &booking.DecisionResult{
			Booking:       approvedBooking("bk-1"),
			CalendarError: "quota exceeded",
		}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, decideURL(t, "bk-1", "approved"), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ปฏิทินล้มเหลว")
	})

	t.Run("invalid or expired token", func(t *testing.T) {
		r := newTestRouter(&fakeBookingService{})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/bookings/bk-1/decide?status=approved&token=garbage", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ลิงก์ไม่ถูกต้อง")
	})

	t.Run("token for one booking cannot decide another", func(t *testing.T) {
		r := newTestRouter(&fakeBookingService{})
		token, err := utils.SignDecisionToken(linkSecret, "bk-other", "approved", time.Hour)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/bookings/bk-1/decide?status=approved&token="+url.QueryEscape(token), nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("already decided", func(t *testing.T) {
		svc := &fakeBookingService{decideErr: &booking.ConflictError{ID: "bk-1", Status: models.StatusRejected}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, decideURL(t, "bk-1", "approved"), nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ถูกตัดสินแล้ว")
		assert.Contains(t, rec.Body.String(), "ไม่อนุมัติ")
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc := &fakeBookingService{decideErr: &booking.NotFoundError{ID: "bk-x"}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, decideURL(t, "bk-x", "rejected"), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCancelHandler(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		svc := &fakeBookingService{cancelResult: &models.Booking{ID: "bk-1", Status: models.StatusCancelled}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/bk-1/cancel", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "cancelled", body["status"])
	})

	t.Run("already decided", func(t *testing.T) {
		svc := &fakeBookingService{cancelErr: &booking.ConflictError{ID: "bk-1", Status: models.StatusApproved}}
		r := newTestRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/bk-1/cancel", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	r := newTestRouter(&fakeBookingService{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var counts map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, int64(2), counts[models.StatusPending])
	assert.Equal(t, int64(5), counts[models.StatusApproved])
}
