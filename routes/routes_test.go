package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"guesthouse-backend/config"
	"guesthouse-backend/controllers"
	"guesthouse-backend/repository"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type noopScheduler struct{ keys []string }

func (s *noopScheduler) ScheduleOnce(key string, _ time.Duration, _ func()) error {
	s.keys = append(s.keys, key)
	return nil
}

func (s *noopScheduler) Cancel(string) {}

type testServer struct {
	router *gin.Engine
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("CORS_ORIGINS", "")

	store := repository.NewMemoryStore()
	dir := t.TempDir()
	settingsStore := config.NewFileSettingsStore(filepath.Join(dir, "settings.json"))
	presetStore := config.NewFilePresetStore(filepath.Join(dir, "presets.json"))

	logger := services.NewActivityLogger(store.Logs())
	notifications := services.NewNotificationService(
		utils.NewWhatsAppClient("", ""),
		utils.NewMailer(utils.MailConfig{}),
		&noopScheduler{},
		logger,
		time.Second,
	)
	auth := services.NewAuthService(store.Users(), logger, "test-secret")
	require.NoError(t, auth.EnsureAdmin(context.Background(), "admin", "admin123"))
	_, err := auth.Register(context.Background(), services.RegisterInput{
		Username: "resepsiyon",
		Password: "secret123",
		Role:     "user",
	}, services.SystemActor, "")
	require.NoError(t, err)

	router := SetupRouter(Controllers{
		Auth: controllers.NewAuthController(auth),
		Reservations: controllers.NewReservationController(
			services.NewReservationService(store.Reservations(), logger, notifications, nil),
			services.NewAvailabilityService(store.Reservations(), settingsStore),
		),
		Rooms: controllers.NewRoomController(
			services.NewRoomService(store.Rooms(), logger),
			services.NewOccupancyService(store.Rooms(), store.Reservations()),
		),
		Logs: controllers.NewLogController(services.NewLogService(store.Logs())),
		Settings: controllers.NewSettingsController(
			services.NewSettingsService(settingsStore, logger),
			services.NewPresetService(presetStore, logger),
		),
	}, auth)

	return &testServer{router: router, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := gjson.Get(w.Body.String(), "data.token").String()
	require.NotEmpty(t, token)
	return token
}

func reservationBody(phone string) gin.H {
	return gin.H{
		"guest": gin.H{
			"firstName": "Ayşe",
			"lastName":  "Yılmaz",
			"phone":     phone,
		},
		"guestCount":   2,
		"checkInDate":  "2024-06-01",
		"checkOutDate": "2024-06-03",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
	}
}

func TestPublicReservationFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/reservations", "", reservationBody("0532 111 22 33"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := w.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, "pending", gjson.Get(body, "data.status").String())
	id := gjson.Get(body, "data.id").String()
	require.NotEmpty(t, id)

	w = s.do(t, http.MethodGet, "/api/reservations/check-availability?checkIn=2024-06-02&checkOut=2024-06-04", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avail := gjson.Get(w.Body.String(), "data")
	assert.EqualValues(t, 2, avail.Get("totalGuests").Int())
	assert.EqualValues(t, 9, avail.Get("maxCapacity").Int())
	assert.EqualValues(t, 7, avail.Get("available").Int())
	assert.True(t, avail.Get("isAvailable").Bool())

	// listing requires a token
	w = s.do(t, http.MethodGet, "/api/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "success").Bool())

	staff := s.login(t, "resepsiyon", "secret123")
	w = s.do(t, http.MethodGet, "/api/reservations", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, gjson.Get(w.Body.String(), "data.#").Int())

	// status changes are admin-only
	w = s.do(t, http.MethodPut, "/api/reservations/"+id, staff, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := s.login(t, "admin", "admin123")
	w = s.do(t, http.MethodPut, "/api/reservations/"+id, admin, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do(t, http.MethodPut, "/api/reservations/"+id, admin, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/logs?action=reservation_confirmed", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, gjson.Get(w.Body.String(), "data.total").Int())
	assert.Equal(t, "Yönetici", gjson.Get(w.Body.String(), "data.logs.0.userName").String())
}

func TestCreateReservation_RejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/reservations", "", reservationBody("12ab"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := reservationBody("0532 111 22 33")
	body["checkOutDate"] = "2024-06-01"
	w = s.do(t, http.MethodPost, "/api/reservations", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = reservationBody("0532 111 22 33")
	body["checkInDate"] = "01/06/2024"
	w = s.do(t, http.MethodPost, "/api/reservations", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomsAndOccupancy(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")

	w := s.do(t, http.MethodPost, "/api/rooms", admin, gin.H{"name": "Oda 1", "capacity": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/rooms", admin, gin.H{"name": "Oda 1", "capacity": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/reservations", "", reservationBody("0532 111 22 33"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "data.id").String()

	w = s.do(t, http.MethodPut, "/api/reservations/"+id, admin, gin.H{
		"status":          "confirmed",
		"roomAssignments": []gin.H{{"roomName": "Oda 1", "guestCount": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/rooms/occupancy?startDate=2024-06-01&endDate=2024-06-02", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := gjson.Get(w.Body.String(), "data")
	assert.EqualValues(t, 2, report.Get("rooms.0.occupiedBeds").Int())
	assert.EqualValues(t, 50, report.Get("rooms.0.occupancyPercent").Int())
	assert.EqualValues(t, 4, report.Get("summary.totalCapacity").Int())

	w = s.do(t, http.MethodGet, "/api/rooms/occupancy?startDate=2024-06-05&endDate=2024-06-04", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsAccess(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 9, gjson.Get(w.Body.String(), "data.maxCapacity").Int())

	w = s.do(t, http.MethodPut, "/api/settings", "", gin.H{"maxCapacity": 12})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin := s.login(t, "admin", "admin123")
	w = s.do(t, http.MethodPut, "/api/settings", admin, gin.H{"maxCapacity": 12})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 12, gjson.Get(w.Body.String(), "data.maxCapacity").Int())
}
