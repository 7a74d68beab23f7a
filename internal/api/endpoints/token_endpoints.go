package endpoints

import (
	"fmt"
	"net/http"
	"time"

	internaljwt "chat-dashboard-backend/internal/jwt"
	"chat-dashboard-backend/utils"
)

type TokenEndpoints interface {
	WebsocketToken(http.ResponseWriter, *http.Request) error
}

type tokenEndpoints struct{}

func NewTokenEndpoints() TokenEndpoints {
	return &tokenEndpoints{}
}

// WebsocketToken mints a short-lived token for the realtime event stream.
// Browsers cannot attach the API key header to a websocket upgrade, so the
// dashboard trades its key for a token and passes that in the query string.
func (h *tokenEndpoints) WebsocketToken(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleWebsocketToken,
	})
}

func (h *tokenEndpoints) handleWebsocketToken(w http.ResponseWriter, r *http.Request) error {
	user := internaljwt.User{
		Id: utils.CreateToken(),
	}

	token, err := internaljwt.CreateToken(user, internaljwt.RoleUser, time.Now().Add(15*time.Minute).Unix())
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("mint websocket token: %w", err),
		}
	}

	return WriteJSON(w, http.StatusOK, internaljwt.TokenResponse{AccessToken: token})
}
