package schema

type (
	// Identity represents the authenticated user profile returned by the identity endpoint
	Identity struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		IsAdmin  bool   `json:"is_admin"`
	}

	// LoginRequest represents login endpoint payload
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// TokenResponse represents login endpoint response
	TokenResponse struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type,omitempty"`
		User        *Identity `json:"user,omitempty"`
	}
)

// Clone returns a copy of the identity, nil safe
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	ret := *i
	return &ret
}
