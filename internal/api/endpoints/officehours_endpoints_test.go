package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/officehours"
	"chat-dashboard-backend/internal/queue"
	scheduleservice "chat-dashboard-backend/internal/service/schedule"
)

type scheduleTestRepository struct {
	mu    sync.Mutex
	value string
	set   bool
}

func (m *scheduleTestRepository) GetOfficeHours(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", scheduleservice.ErrNotFound
	}
	return m.value, nil
}

func (m *scheduleTestRepository) PutOfficeHours(ctx context.Context, value, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	m.set = true
	return nil
}

// Monday noon UTC, a workday in the default schedule.
func scheduleFixedTime() time.Time {
	return time.Date(2024, 1, 29, 12, 0, 0, 0, time.UTC)
}

func setupOfficeHoursHandler(t *testing.T, repo scheduleservice.Repository) http.Handler {
	t.Helper()

	service := scheduleservice.NewWithRepository(repo, scheduleFixedTime)
	officeHoursEndpoints := NewOfficeHoursEndpoints(service)

	queueManager := queue.NewRequestQueueManager(10, 1)
	t.Cleanup(queueManager.Shutdown)
	server := api.NewAPIServer(":0", queueManager, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/office-hours", server.MakeHTTPHandleFunc(officeHoursEndpoints.Schedule))
	mux.HandleFunc("/api/v1/office-hours/status", server.MakeHTTPHandleFunc(officeHoursEndpoints.Status))

	return mux
}

func TestOfficeHoursGetDefaultSchedule(t *testing.T) {
	handler := setupOfficeHoursHandler(t, &scheduleTestRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/office-hours", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var sched officehours.Schedule
	if err := json.Unmarshal(res.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if !sched.Enabled {
		t.Fatalf("default schedule should be enabled")
	}
	if sched.Timezone != officehours.DefaultTimezone {
		t.Fatalf("timezone: %s", sched.Timezone)
	}
}

func TestOfficeHoursUpdateSchedule(t *testing.T) {
	repo := &scheduleTestRepository{}
	handler := setupOfficeHoursHandler(t, repo)

	sched := officehours.Default()
	sched.Enabled = false
	body, _ := json.Marshal(sched)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/office-hours", bytes.NewReader(body))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !repo.set {
		t.Fatalf("schedule not persisted")
	}
}

func TestOfficeHoursUpdateRejectsInvalidSchedule(t *testing.T) {
	repo := &scheduleTestRepository{}
	handler := setupOfficeHoursHandler(t, repo)

	sched := officehours.Default()
	sched.Weekdays["monday"] = officehours.DaySchedule{Enabled: true, Start: "25:00", End: "26:00"}
	body, _ := json.Marshal(sched)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/office-hours", bytes.NewReader(body))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if repo.set {
		t.Fatalf("invalid schedule must not persist")
	}
}

func TestOfficeHoursStatus(t *testing.T) {
	handler := setupOfficeHoursHandler(t, &scheduleTestRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/office-hours/status", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var status officehours.Status
	if err := json.Unmarshal(res.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	// Monday noon UTC is 17:30 IST, just outside the default window.
	if status.IsOfficeHours {
		t.Fatalf("expected outside office hours: %+v", status)
	}
	if !status.ShowPrechatForm {
		t.Fatalf("prechat form should show outside office hours")
	}
}
