package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// authenticate resolves the user of the request bearer token, writing 401 when it cannot
func (s *Service) authenticate(w http.ResponseWriter, r *http.Request) (*User, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusUnauthorized, "Missing credentials")
		return nil, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		writeError(w, http.StatusUnauthorized, "Missing credentials")
		return nil, false
	}
	if s.isRevoked(parts[1]) {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	username, err := s.parseToken(parts[1])
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	user, ok := s.Users[username]
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	return user, true
}

// defaultMeHandler handles /auth/me requests
func (s *Service) defaultMeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user.Identity)
}

// defaultResourceHandler serves tasks, forms and datasets to authenticated users
func (s *Service) defaultResourceHandler(w http.ResponseWriter, r *http.Request, path string) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	switch {
	case path == "/tasks":
		writeJSON(w, http.StatusOK, s.Tasks)
	case strings.HasPrefix(path, "/tasks/"):
		slug := strings.TrimPrefix(path, "/tasks/")
		for _, task := range s.Tasks {
			if task.Slug == slug {
				writeJSON(w, http.StatusOK, task)
				return
			}
		}
		writeError(w, http.StatusNotFound, "Task not found")
	case strings.HasPrefix(path, "/forms/"):
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil || !json.Valid(data) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid form payload")
			return
		}
		s.submit(strings.TrimPrefix(path, "/forms/"), data)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case strings.HasPrefix(path, "/data/"):
		data, ok := s.Datasets[strings.TrimPrefix(path, "/data/")]
		if !ok {
			writeError(w, http.StatusNotFound, "Dataset not found")
			return
		}
		writeJSON(w, http.StatusOK, data)
	default:
		http.NotFound(w, r)
	}
}


// defaultReportHandler serves study reports and their raw assets
func (s *Service) defaultReportHandler(w http.ResponseWriter, r *http.Request, path string) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	study, kind := parts[0], parts[1]
	if kind == "report" {
		report, ok := s.Reports[study]
		if !ok {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}
	asset, ok := s.Assets[study+"/"+kind]
	if !ok {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}
	contentType := "text/csv"
	if kind == "model" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(asset)
}
