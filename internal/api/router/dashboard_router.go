package router

import (
	"net/http"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/api/endpoints"
	"chat-dashboard-backend/internal/api/middleware"
	dashboardservice "chat-dashboard-backend/internal/service/dashboard"
)

// DashboardRoutes serves the chat-session read model for the dashboard.
func DashboardRoutes(prefix string, auth middleware.Middleware) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := dashboardservice.New(s.Database())
		dashboardEndpoints := endpoints.NewDashboardEndpoints(service, s.Handler(), prefix)

		mux.HandleFunc(prefix+"/sessions", s.MakeHTTPHandleFunc(dashboardEndpoints.Sessions, auth))
		mux.HandleFunc(prefix+"/sessions/", s.MakeHTTPHandleFunc(dashboardEndpoints.Session, auth))
		mux.HandleFunc(prefix+"/usage", s.MakeHTTPHandleFunc(dashboardEndpoints.UsageStats, auth))
		mux.HandleFunc(prefix+"/embeds", s.MakeHTTPHandleFunc(dashboardEndpoints.Embeds, auth))
	}
}

// DashboardWebsocketRoutes exposes the realtime event stream. Clients
// authenticate with the short-lived token minted by the admin server.
func DashboardWebsocketRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := dashboardservice.New(s.Database())
		dashboardEndpoints := endpoints.NewDashboardEndpoints(service, s.Handler(), prefix)

		mux.HandleFunc(prefix+"/events", s.MakeHTTPHandleFunc(dashboardEndpoints.Websocket, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/rooms", s.MakeHTTPHandleFunc(dashboardEndpoints.Rooms, middleware.ValidateUserJWT))
	}
}
