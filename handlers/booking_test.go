package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"bookingcore/database/repository/memory"
	"bookingcore/middleware"
	"bookingcore/models"
	"bookingcore/services/booking"
	"bookingcore/services/notification"
	"bookingcore/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type discardQueue struct{}

func (discardQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{ID: "t", Type: task.Type()}, nil
}

type apiEnv struct {
	router *gin.Engine
	store  *memory.Store
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	utils.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	store.PutProvider(&models.Provider{
		ID:                "provider-1",
		Name:              "Jane Provider",
		Address:           "4 Studio Lane",
		Status:            models.ProviderActive,
		AcceptingBookings: true,
	})
	store.PutClient(&models.Client{ID: "client-1", Name: "Carl Client"})

	policy := booking.DefaultPolicy()
	policy.AdminIDs = []string{"admin-1"}
	svc := booking.NewService(booking.Deps{
		Bookings:  store,
		Providers: store,
		Clients:   store,
		Stats:     store,
		Slots:     store,
		Notifier:  notification.NewAsynqNotifier(discardQueue{}, nil),
	}, policy, zap.NewNop())

	r := gin.New()
	r.Use(utils.ErrorHandler())
	hb := NewHandlerBundle(NewBookingHandler(svc), NewProviderHandler(svc))
	r.POST("/api/bookings", middleware.RequireActor(), hb.CreateBooking)
	r.GET("/api/bookings/:id", middleware.RequireActor(), hb.GetBooking)
	r.GET("/api/bookings/:id/history", middleware.RequireActor(), hb.BookingHistory)
	r.POST("/api/bookings/:id/confirm", middleware.RequireActor(), hb.ConfirmBooking)
	r.POST("/api/bookings/:id/cancel", middleware.RequireActor(), hb.CancelBooking)
	r.POST("/api/bookings/:id/start", middleware.RequireActor(), hb.StartBooking)
	r.GET("/api/providers/:id/availability", middleware.RequireActor(), hb.ProviderAvailable)
	r.GET("/api/providers/:id/calendar", middleware.RequireActor(), hb.ProviderCalendar)
	r.POST("/api/providers", middleware.RequireActor(), hb.RegisterProvider)
	r.PUT("/api/providers/:id/preferences", middleware.RequireActor(), hb.ProviderPreferences)
	r.GET("/api/bookings/:id/slots", middleware.RequireActor(), hb.BookingSlots)
	r.DELETE("/api/bookings/:id", middleware.RequireActor(), hb.DeleteBooking)
	return &apiEnv{router: r, store: store}
}

func (e *apiEnv) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func window(hoursAhead int) (time.Time, time.Time) {
	start := time.Now().UTC().Truncate(time.Hour).Add(time.Duration(hoursAhead) * time.Hour)
	return start, start.Add(time.Hour)
}

func (e *apiEnv) createBooking(t *testing.T, hoursAhead int) models.Booking {
	t.Helper()
	start, end := window(hoursAhead)
	w := e.do(t, http.MethodPost, "/api/bookings", "client-1", models.CreateBookingRequest{
		ProviderID: "provider-1",
		StartTime:  start,
		EndTime:    end,
		Price:      50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateAndConfirmBooking(t *testing.T) {
	env := newAPIEnv(t)
	b := env.createBooking(t, 48)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, "client-1", b.ClientID)

	w := env.do(t, http.MethodPost, "/api/bookings/"+b.ID+"/confirm", "provider-1", models.ConfirmationOptions{InternalNotes: "gate code 42"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var confirmed models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirmed))
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, "gate code 42", confirmed.InternalNotes)

	w = env.do(t, http.MethodGet, "/api/bookings/"+b.ID+"/history", "provider-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Entries []models.AuditEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Entries, 2)
	assert.Equal(t, models.ActionConfirmed, history.Entries[1].Action)
}

func TestErrorMapping(t *testing.T) {
	env := newAPIEnv(t)
	b := env.createBooking(t, 48)

	tests := []struct {
		name   string
		method string
		path   string
		actor  string
		status int
		code   string
	}{
		{"unknown booking", http.MethodGet, "/api/bookings/missing", "client-1", http.StatusNotFound, booking.CodeBookingNotFound},
		{"client cannot confirm", http.MethodPost, "/api/bookings/" + b.ID + "/confirm", "client-1", http.StatusForbidden, booking.CodePermissionDenied},
		{"start requires confirmed", http.MethodPost, "/api/bookings/" + b.ID + "/start", "provider-1", http.StatusConflict, booking.CodeInvalidStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.actor, nil)
			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestConfirmConflictReturns409(t *testing.T) {
	env := newAPIEnv(t)
	first := env.createBooking(t, 48)
	second := env.createBooking(t, 48)

	w := env.do(t, http.MethodPost, "/api/bookings/"+first.ID+"/confirm", "provider-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/bookings/"+second.ID+"/confirm", "provider-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, booking.CodeScheduleConflict, decodeError(t, w).Code)
}

func TestCancelBooking(t *testing.T) {
	env := newAPIEnv(t)
	b := env.createBooking(t, 48)

	w := env.do(t, http.MethodPost, "/api/bookings/"+b.ID+"/cancel", "client-1", map[string]string{"reason": "sick"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cancelled models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, models.StatusCancelledByClient, cancelled.Status)
	assert.Equal(t, "sick", cancelled.CancellationReason)
}

func TestCreateRejectsBadInput(t *testing.T) {
	env := newAPIEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{"))
	req.Header.Set(middleware.ActorHeader, "client-1")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	start, end := window(48)
	w = env.do(t, http.MethodPost, "/api/bookings", "client-1", models.CreateBookingRequest{
		ProviderID: "provider-1",
		StartTime:  end,
		EndTime:    start,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissingActorIsUnauthorized(t *testing.T) {
	env := newAPIEnv(t)
	w := env.do(t, http.MethodGet, "/api/bookings/anything", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAvailability(t *testing.T) {
	env := newAPIEnv(t)
	b := env.createBooking(t, 48)
	start, end := window(48)

	query := func() bool {
		q := url.Values{"start": {start.Format(time.RFC3339)}, "end": {end.Format(time.RFC3339)}}
		w := env.do(t, http.MethodGet, "/api/providers/provider-1/availability?"+q.Encode(), "client-1", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Available bool `json:"available"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Available
	}

	assert.True(t, query(), "pending bookings do not block availability")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/bookings/"+b.ID+"/confirm", "provider-1", nil).Code)
	assert.False(t, query())

	w := env.do(t, http.MethodGet, "/api/providers/provider-1/availability?start=bad", "client-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPStatusDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, httpStatus(assert.AnError))
	assert.Equal(t, http.StatusNotFound, httpStatus(booking.ErrBookingNotFound))
}

func TestConfirmIgnoresServiceOnlyOptions(t *testing.T) {
	env := newAPIEnv(t)
	b := env.createBooking(t, 48)

	body := `{"internalNotes":"side door","autoConfirmed":true,"method":"automatic"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/"+b.ID+"/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, "provider-1")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var confirmed models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirmed))
	assert.Equal(t, "side door", confirmed.InternalNotes)
	meta, ok := confirmed.Metadata["confirmation"].(map[string]any)
	require.True(t, ok, "confirmation metadata recorded")
	assert.Equal(t, false, meta["autoConfirmed"])
	assert.Equal(t, models.ConfirmationManual, meta["confirmationMethod"])
}

func TestProviderEndpoints(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/api/providers", "provider-2", map[string]any{
		"name":              "Ann Provider",
		"address":           "7 Market Street",
		"acceptingBookings": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p models.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "provider-2", p.ID)
	assert.Equal(t, models.ProviderActive, p.Status)

	w = env.do(t, http.MethodPost, "/api/providers", "provider-2", map[string]any{"name": "Ann Provider"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, booking.CodeProviderExists, decodeError(t, w).Code)

	w = env.do(t, http.MethodPut, "/api/providers/provider-1/preferences", "client-1", map[string]any{"acceptingBookings": false, "autoConfirm": false})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/providers/provider-1/preferences", "provider-1", map[string]any{"acceptingBookings": true})
	assert.Equal(t, http.StatusBadRequest, w.Code, "both switches are required")

	w = env.do(t, http.MethodPut, "/api/providers/provider-1/preferences", "provider-1", map[string]any{"acceptingBookings": true, "autoConfirm": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := env.createBooking(t, 48)
	assert.Equal(t, models.StatusConfirmed, b.Status, "auto-confirm applies to new bookings")

	w = env.do(t, http.MethodGet, "/api/providers/provider-1/calendar?date="+b.StartTime.Format("2006-01-02"), "client-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var calendar struct {
		Slots []models.ScheduleSlot `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calendar))
	require.Len(t, calendar.Slots, 1)
	assert.Equal(t, b.ID, calendar.Slots[0].BookingID)

	w = env.do(t, http.MethodGet, "/api/providers/provider-1/calendar?date=tomorrow", "client-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingSlotsAndDelete(t *testing.T) {
	env := newAPIEnv(t)
	b := env.createBooking(t, 48)

	w := env.do(t, http.MethodGet, "/api/bookings/"+b.ID+"/slots", "client-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(t, http.MethodGet, "/api/bookings/"+b.ID+"/slots", "client-2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/bookings/"+b.ID, "admin-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "pending bookings cannot be deleted")

	w = env.do(t, http.MethodPost, "/api/bookings/"+b.ID+"/cancel", "client-1", map[string]string{"reason": "moved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/bookings/"+b.ID, "client-1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodDelete, "/api/bookings/"+b.ID, "admin-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/bookings/"+b.ID, "client-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
