package router

import (
	"net/http"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/api/endpoints"
	"chat-dashboard-backend/internal/api/middleware"
)

// TokenRoutes mints websocket tokens for authenticated dashboards.
func TokenRoutes(prefix string, auth middleware.Middleware) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		tokenEndpoints := endpoints.NewTokenEndpoints()
		mux.HandleFunc(prefix+"/auth/ws-token", s.MakeHTTPHandleFunc(tokenEndpoints.WebsocketToken, auth))
	}
}
