package router

import (
	"net/http"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/api/endpoints"
	"chat-dashboard-backend/internal/api/middleware"
	scheduleservice "chat-dashboard-backend/internal/service/schedule"
)

// OfficeHoursAdminRoutes lets the dashboard read and edit the schedule.
func OfficeHoursAdminRoutes(prefix string, auth middleware.Middleware) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := scheduleservice.New(s.Database())
		officeHoursEndpoints := endpoints.NewOfficeHoursEndpoints(service)

		mux.HandleFunc(prefix+"/office-hours", s.MakeHTTPHandleFunc(officeHoursEndpoints.Schedule, auth))
	}
}

// OfficeHoursPublicRoutes exposes the live status to the embedded widget.
func OfficeHoursPublicRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := scheduleservice.New(s.Database())
		officeHoursEndpoints := endpoints.NewOfficeHoursEndpoints(service)

		mux.HandleFunc(prefix+"/office-hours/status", s.MakeHTTPHandleFunc(officeHoursEndpoints.Status))
	}
}
