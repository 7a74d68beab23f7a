package endpoints

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"chat-dashboard-backend/internal/api/middleware"
	"chat-dashboard-backend/internal/dto"
	"chat-dashboard-backend/internal/model"
	dashboardservice "chat-dashboard-backend/internal/service/dashboard"
	"chat-dashboard-backend/internal/session"
	"chat-dashboard-backend/internal/websocket"
	"chat-dashboard-backend/utils"
)

type DashboardEndpoints interface {
	Sessions(http.ResponseWriter, *http.Request) error
	Session(http.ResponseWriter, *http.Request) error
	UsageStats(http.ResponseWriter, *http.Request) error
	Embeds(http.ResponseWriter, *http.Request) error
	Websocket(http.ResponseWriter, *http.Request) error
	Rooms(http.ResponseWriter, *http.Request) error
}

type DashboardPaths struct {
	SessionPrefix string
}

type dashboardEndpoints struct {
	service *dashboardservice.Service
	handler *websocket.Handler
	paths   DashboardPaths
}

func NewDashboardEndpoints(service *dashboardservice.Service, handler *websocket.Handler, prefix string) DashboardEndpoints {
	base := strings.TrimRight(prefix, "/")
	return &dashboardEndpoints{
		service: service,
		handler: handler,
		paths: DashboardPaths{
			SessionPrefix: base + "/sessions/",
		},
	}
}

func (h *dashboardEndpoints) Sessions(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListSessions,
	})
}

func (h *dashboardEndpoints) Session(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleSessionDetail,
	})
}

func (h *dashboardEndpoints) UsageStats(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleUsageStats,
	})
}

func (h *dashboardEndpoints) Embeds(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListEmbeds,
	})
}

// Websocket joins the caller to the shared dashboard room. Realtime events
// published by the API servers fan out here. The route is guarded by the
// JWT middleware, which reads the short-lived token from the query string
// since the upgrade handshake cannot carry the API key header.
func (h *dashboardEndpoints) Websocket(w http.ResponseWriter, r *http.Request) error {
	if h.handler == nil {
		return &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Realtime updates unavailable",
			ErrorLog:   fmt.Errorf("websocket handler not configured"),
		}
	}

	var clientID string
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		clientID, _ = claims["id"].(string)
	}
	if clientID == "" {
		clientID = utils.CreateToken()
	}

	h.handler.CreateRoom(websocket.DashboardRoom)
	h.handler.JoinRoom(w, r, websocket.DashboardRoom, clientID)
	return nil
}

// Rooms lists the active websocket rooms, for operators checking fan-out.
func (h *dashboardEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	if h.handler == nil {
		return &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Realtime updates unavailable",
			ErrorLog:   fmt.Errorf("websocket handler not configured"),
		}
	}

	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
			h.handler.GetRooms(w, r)
			return nil
		},
	})
}

func (h *dashboardEndpoints) handleListSessions(w http.ResponseWriter, r *http.Request) error {
	summaries, err := h.service.ListSessions(r.Context(), dashboardservice.ListSessionsParams{
		EmbedID: r.URL.Query().Get("embedId"),
	})
	if err != nil {
		return mapDashboardServiceError(err)
	}

	resp := dto.ChatSessionListResponse{
		Sessions: make([]dto.ChatSessionSummary, 0, len(summaries)),
		Total:    len(summaries),
	}
	for _, summary := range summaries {
		resp.Sessions = append(resp.Sessions, toSessionSummary(summary))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *dashboardEndpoints) handleSessionDetail(w http.ResponseWriter, r *http.Request) error {
	sessionID, err := h.extractSessionPath(r.URL.Path)
	if err != nil {
		return err
	}

	detail, err := h.service.SessionDetail(r.Context(), sessionID)
	if err != nil {
		return mapDashboardServiceError(err)
	}

	resp := dto.ChatSessionDetailResponse{
		Session:    toSessionSummary(detail.Summary),
		Transcript: make([]dto.TranscriptTurn, 0, len(detail.Transcript)),
	}
	for _, turn := range detail.Transcript {
		resp.Transcript = append(resp.Transcript, dto.TranscriptTurn{
			ID:               turn.ID,
			UserMessage:      turn.UserMessage,
			AssistantMessage: turn.AssistantMessage,
			Timestamp:        formatTime(turn.Timestamp),
		})
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *dashboardEndpoints) handleUsageStats(w http.ResponseWriter, r *http.Request) error {
	usage, err := h.service.Stats(r.Context())
	if err != nil {
		return mapDashboardServiceError(err)
	}

	return WriteJSON(w, http.StatusOK, dto.UsageStatsResponse{
		TotalMessages:     usage.TotalMessages,
		TodayMessages:     usage.TodayMessages,
		YesterdayMessages: usage.YesterdayMessages,
		WeekMessages:      usage.WeekMessages,
		UniqueSessions:    usage.UniqueSessions,
		GrowthRatePercent: usage.GrowthRatePercent,
	})
}

func (h *dashboardEndpoints) handleListEmbeds(w http.ResponseWriter, r *http.Request) error {
	embeds, err := h.service.ListEmbeds(r.Context())
	if err != nil {
		return mapDashboardServiceError(err)
	}

	resp := make([]dto.EmbedResponse, 0, len(embeds))
	for _, embed := range embeds {
		resp = append(resp, toEmbedResponse(embed))
	}

	return WriteJSON(w, http.StatusOK, resp)
}

func (h *dashboardEndpoints) extractSessionPath(path string) (string, error) {
	trimmed := strings.TrimPrefix(path, h.paths.SessionPrefix)
	if trimmed == path {
		return "", &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Session not found",
			ErrorLog:   fmt.Errorf("session path mismatch: %s", path),
		}
	}
	sessionID := strings.Trim(trimmed, "/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		return "", &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "Session not found",
			ErrorLog:   fmt.Errorf("invalid session path: %s", path),
		}
	}
	return sessionID, nil
}

func toSessionSummary(summary session.Summary) dto.ChatSessionSummary {
	return dto.ChatSessionSummary{
		SessionID:    summary.SessionID,
		UserName:     summary.UserName,
		UserEmail:    summary.UserEmail,
		UserMobile:   summary.UserMobile,
		UserRegion:   summary.UserRegion,
		FirstSeen:    formatTime(summary.FirstSeen),
		LastActivity: formatTime(summary.LastActivity),
		MessageCount: summary.MessageCount,
		LastMessage:  summary.LastMessage,
		HasIdentity:  summary.HasIdentity,
		Status:       string(summary.Status),
	}
}

func toEmbedResponse(embed model.EmbedConfigItem) dto.EmbedResponse {
	return dto.EmbedResponse{
		EmbedID:       embed.EmbedID,
		WorkspaceName: embed.WorkspaceName,
		Enabled:       embed.Enabled,
		CreatedAt:     embed.CreatedAt,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func mapDashboardServiceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*dashboardservice.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("dashboard service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case dashboardservice.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case dashboardservice.ErrorCodeNotFound:
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
