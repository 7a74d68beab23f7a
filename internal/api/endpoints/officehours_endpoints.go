package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"chat-dashboard-backend/internal/officehours"
	scheduleservice "chat-dashboard-backend/internal/service/schedule"
)

type OfficeHoursEndpoints interface {
	Schedule(http.ResponseWriter, *http.Request) error
	Status(http.ResponseWriter, *http.Request) error
}

type officeHoursEndpoints struct {
	service *scheduleservice.Service
}

func NewOfficeHoursEndpoints(service *scheduleservice.Service) OfficeHoursEndpoints {
	return &officeHoursEndpoints{
		service: service,
	}
}

func (h *officeHoursEndpoints) Schedule(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleGetSchedule,
		http.MethodPut: h.handleUpdateSchedule,
	})
}

// Status is public. The embedded widget calls it to decide whether to show
// the prechat form before opening a chat.
func (h *officeHoursEndpoints) Status(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleStatus,
	})
}

func (h *officeHoursEndpoints) handleGetSchedule(w http.ResponseWriter, r *http.Request) error {
	sched, err := h.service.GetSchedule(r.Context())
	if err != nil {
		return mapScheduleServiceError(err)
	}
	return WriteJSON(w, http.StatusOK, sched)
}

func (h *officeHoursEndpoints) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) error {
	var sched officehours.Schedule
	if err := json.NewDecoder(r.Body).Decode(&sched); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode office hours schedule: %w", err),
		}
	}

	updated, err := h.service.UpdateSchedule(r.Context(), sched)
	if err != nil {
		return mapScheduleServiceError(err)
	}
	return WriteJSON(w, http.StatusOK, updated)
}

func (h *officeHoursEndpoints) handleStatus(w http.ResponseWriter, r *http.Request) error {
	status, err := h.service.Status(r.Context())
	if err != nil {
		return mapScheduleServiceError(err)
	}
	return WriteJSON(w, http.StatusOK, status)
}

func mapScheduleServiceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*scheduleservice.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("schedule service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case scheduleservice.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	default:
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   errorLog,
		}
	}
}
