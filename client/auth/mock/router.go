package mock

import (
	"net/http"
	"strings"
)

// Handler routes HTTP requests to the appropriate mock API endpoints.
type Handler struct {
	Service *Service
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch {
	case path == "/auth/login":
		if h.Service.LoginHandler != nil {
			h.Service.LoginHandler(w, r)
		} else {
			h.Service.defaultLoginHandler(w, r)
		}
	case path == "/auth/me":
		if h.Service.MeHandler != nil {
			h.Service.MeHandler(w, r)
		} else {
			h.Service.defaultMeHandler(w, r)
		}
	case strings.HasPrefix(path, "/tasks"), strings.HasPrefix(path, "/forms/"), strings.HasPrefix(path, "/data/"):
		if h.Service.ResourceHandler != nil {
			h.Service.ResourceHandler(w, r)
		} else {
			h.Service.defaultResourceHandler(w, r, path)
		}
	case isReportPath(path):
		if h.Service.ResourceHandler != nil {
			h.Service.ResourceHandler(w, r)
		} else {
			h.Service.defaultReportHandler(w, r, path)
		}
	default:
		http.NotFound(w, r)
	}
}

// isReportPath matches /{study}/report, /{study}/data and /{study}/model
func isReportPath(path string) bool {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	switch parts[1] {
	case "report", "data", "model":
		return true
	}
	return false
}
