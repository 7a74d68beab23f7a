package router

import (
	"net/http"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/api/endpoints"
	"chat-dashboard-backend/internal/api/middleware"
	prechatservice "chat-dashboard-backend/internal/service/prechat"
)

// PrechatPublicRoutes serves the widget-facing submission endpoint.
func PrechatPublicRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := prechatservice.New(s.Database())
		prechatEndpoints := endpoints.NewPrechatEndpoints(service, s.Handler(), prefix)

		mux.HandleFunc(prefix+"/prechat", s.MakeHTTPHandleFunc(prechatEndpoints.PublicSubmissions))
	}
}

// PrechatAdminRoutes serves lead management for the dashboard.
func PrechatAdminRoutes(prefix string, auth middleware.Middleware) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := prechatservice.New(s.Database())
		prechatEndpoints := endpoints.NewPrechatEndpoints(service, s.Handler(), prefix)

		mux.HandleFunc(prefix+"/prechat", s.MakeHTTPHandleFunc(prechatEndpoints.Submissions, auth))
		mux.HandleFunc(prefix+"/prechat/stats", s.MakeHTTPHandleFunc(prechatEndpoints.SubmissionStats, auth))
		mux.HandleFunc(prefix+"/prechat/export", s.MakeHTTPHandleFunc(prechatEndpoints.SubmissionExport, auth))
		mux.HandleFunc(prefix+"/prechat/", s.MakeHTTPHandleFunc(prechatEndpoints.Submission, auth))
	}
}
