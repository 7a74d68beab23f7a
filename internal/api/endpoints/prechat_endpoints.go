package endpoints

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chat-dashboard-backend/internal/dto"
	"chat-dashboard-backend/internal/model"
	prechatservice "chat-dashboard-backend/internal/service/prechat"
	"chat-dashboard-backend/internal/websocket"
	"chat-dashboard-backend/utils"
)

type PrechatEndpoints interface {
	PublicSubmissions(http.ResponseWriter, *http.Request) error
	Submissions(http.ResponseWriter, *http.Request) error
	Submission(http.ResponseWriter, *http.Request) error
	SubmissionStats(http.ResponseWriter, *http.Request) error
	SubmissionExport(http.ResponseWriter, *http.Request) error
}

type PrechatPaths struct {
	SubmissionPrefix string
}

type prechatEndpoints struct {
	service *prechatservice.Service
	handler *websocket.Handler
	paths   PrechatPaths
}

func NewPrechatEndpoints(service *prechatservice.Service, handler *websocket.Handler, prefix string) PrechatEndpoints {
	base := strings.TrimRight(prefix, "/")
	return &prechatEndpoints{
		service: service,
		handler: handler,
		paths: PrechatPaths{
			SubmissionPrefix: base + "/prechat/",
		},
	}
}

func (h *prechatEndpoints) PublicSubmissions(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleCreateSubmission,
	})
}

func (h *prechatEndpoints) Submissions(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListSubmissions,
	})
}

func (h *prechatEndpoints) Submission(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet:    h.handleGetSubmission,
		http.MethodPatch:  h.handleUpdateSubmissionStatus,
		http.MethodDelete: h.handleDeleteSubmission,
	})
}

func (h *prechatEndpoints) SubmissionStats(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleSubmissionStats,
	})
}

func (h *prechatEndpoints) SubmissionExport(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleExportSubmissions,
	})
}

func (h *prechatEndpoints) handleCreateSubmission(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreatePrechatSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode prechat submission request: %w", err),
		}
	}

	submission, err := h.service.CreateSubmission(r.Context(), prechatservice.CreateSubmissionParams{
		Name:        req.Name,
		Email:       req.Email,
		Mobile:      req.Mobile,
		CountryCode: req.CountryCode,
		Region:      req.Region,
		Message:     req.Message,
		WorkspaceID: req.WorkspaceID,
		SessionID:   req.SessionID,
		IPAddress:   utils.RealClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		return mapPrechatServiceError(err)
	}

	h.broadcastSubmission(submission)

	return WriteJSON(w, http.StatusCreated, toPrechatSubmissionResponse(submission))
}

func (h *prechatEndpoints) handleListSubmissions(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	page, _ := strconv.Atoi(query.Get("page"))

	result, err := h.service.ListSubmissions(r.Context(), prechatservice.ListParams{
		Status:      query.Get("status"),
		WorkspaceID: query.Get("workspaceId"),
		StartDate:   query.Get("startDate"),
		EndDate:     query.Get("endDate"),
		Limit:       limit,
		Page:        page,
	})
	if err != nil {
		return mapPrechatServiceError(err)
	}

	resp := dto.PrechatSubmissionListResponse{
		Submissions: make([]dto.PrechatSubmissionResponse, 0, len(result.Submissions)),
		Page:        result.Page,
		Limit:       result.Limit,
		Total:       result.Total,
		TotalPages:  result.TotalPages,
	}
	for _, submission := range result.Submissions {
		resp.Submissions = append(resp.Submissions, toPrechatSubmissionResponse(submission))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *prechatEndpoints) handleGetSubmission(w http.ResponseWriter, r *http.Request) error {
	submissionUUID, err := h.extractSubmissionPath(r.URL.Path)
	if err != nil {
		return err
	}

	submission, err := h.service.GetSubmission(r.Context(), submissionUUID)
	if err != nil {
		return mapPrechatServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, toPrechatSubmissionResponse(submission))
}

func (h *prechatEndpoints) handleUpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) error {
	submissionUUID, err := h.extractSubmissionPath(r.URL.Path)
	if err != nil {
		return err
	}

	var req dto.UpdateSubmissionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode status update request: %w", err),
		}
	}

	submission, err := h.service.UpdateStatus(r.Context(), submissionUUID, req.Status)
	if err != nil {
		return mapPrechatServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, toPrechatSubmissionResponse(submission))
}

func (h *prechatEndpoints) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) error {
	submissionUUID, err := h.extractSubmissionPath(r.URL.Path)
	if err != nil {
		return err
	}

	if err := h.service.DeleteSubmission(r.Context(), submissionUUID); err != nil {
		return mapPrechatServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Submission deleted"})
}

func (h *prechatEndpoints) handleSubmissionStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		return mapPrechatServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.PrechatStatsResponse{
		Total:    stats.Total,
		Today:    stats.Today,
		Week:     stats.Week,
		ByStatus: stats.ByStatus,
	})
}

// handleExportSubmissions streams the filtered submissions as a CSV
// download for the dashboard's export button.
func (h *prechatEndpoints) handleExportSubmissions(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	submissions, err := h.service.ExportSubmissions(r.Context(), prechatservice.ListParams{
		Status:    query.Get("status"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	})
	if err != nil {
		return mapPrechatServiceError(err)
	}

	filename := "prechat-submissions-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	writer.Write([]string{"UUID", "Name", "Email", "Mobile", "Region", "Status", "Created At", "IP Address"})
	for _, submission := range submissions {
		ipAddress := submission.IPAddress
		if ipAddress == "" {
			ipAddress = "N/A"
		}
		writer.Write([]string{
			submission.UUID,
			submission.Name,
			submission.Email,
			submission.Mobile,
			submission.Region,
			string(submission.Status),
			submission.CreatedAt,
			ipAddress,
		})
	}
	writer.Flush()

	// The status line is already on the wire; a flush error can only be logged.
	if err := writer.Error(); err != nil {
		fmt.Printf("export prechat submissions: %v\n", err)
	}
	return nil
}

func (h *prechatEndpoints) extractSubmissionPath(path string) (string, error) {
	trimmed := strings.TrimPrefix(path, h.paths.SubmissionPrefix)
	if trimmed == path {
		return "", &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Submission not found",
			ErrorLog:   fmt.Errorf("submission path mismatch: %s", path),
		}
	}
	submissionUUID := strings.Trim(trimmed, "/")
	if submissionUUID == "" || strings.Contains(submissionUUID, "/") {
		return "", &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Submission not found",
			ErrorLog:   fmt.Errorf("invalid submission path: %s", path),
		}
	}
	return submissionUUID, nil
}

// broadcastSubmission notifies connected dashboards about a new lead. A
// publish failure never fails the submission itself.
func (h *prechatEndpoints) broadcastSubmission(submission model.PrechatSubmissionItem) {
	if h.handler == nil {
		return
	}
	event := websocket.Event{
		Type:    websocket.EventNewPrechatSubmission,
		Payload: toPrechatSubmissionResponse(submission),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.handler.Publish(ctx, websocket.DashboardRoom, event); err != nil {
		fmt.Printf("broadcast prechat submission: %v\n", err)
	}
}

func toPrechatSubmissionResponse(submission model.PrechatSubmissionItem) dto.PrechatSubmissionResponse {
	return dto.PrechatSubmissionResponse{
		UUID:        submission.UUID,
		Name:        submission.Name,
		Email:       submission.Email,
		Mobile:      submission.Mobile,
		CountryCode: submission.CountryCode,
		Region:      submission.Region,
		Message:     submission.Message,
		WorkspaceID: submission.WorkspaceID,
		SessionID:   submission.SessionID,
		Status:      string(submission.Status),
		CreatedAt:   submission.CreatedAt,
		UpdatedAt:   submission.UpdatedAt,
	}
}

func mapPrechatServiceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*prechatservice.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("prechat service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case prechatservice.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case prechatservice.ErrorCodeNotFound:
		return &HTTPError{
			StatusCode: http.StatusNotFound,
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
