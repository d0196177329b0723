package mock

import (
	"encoding/json"
	"github.com/viant/caseflow/schema"
	"net/http"
)

// defaultLoginHandler handles /auth/login requests
func (s *Service) defaultLoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var request schema.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid login payload")
		return
	}
	user, ok := s.Users[request.Username]
	if !ok || user.Password != request.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	accessToken, err := s.CreateToken(request.Username, s.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	identity := user.Identity
	writeJSON(w, http.StatusOK, &schema.TokenResponse{AccessToken: accessToken, TokenType: "bearer", User: &identity})
}
