package session

import (
	"github.com/viant/caseflow/client/auth/transport"
	"golang.org/x/oauth2"
	"net/http"
)

// Install adds the credential request hook and the authorization failure
// response hook to the shared transport.
func (m *Manager) Install(rt *transport.RoundTripper) {
	rt.AddRequestHook(m.authorize)
	rt.AddResponseHook(m.observe)
}

func (m *Manager) authorize(req *http.Request) error {
	ctx := req.Context()
	if transport.IsAnonymous(ctx) {
		return nil
	}
	token, ok := transport.AuthToken(ctx)
	if !ok {
		token, ok = m.Token()
	}
	if !ok {
		return nil
	}
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	return nil
}

func (m *Manager) observe(resp *http.Response) {
	if resp.StatusCode != http.StatusUnauthorized {
		return
	}
	req := resp.Request
	if req == nil || transport.IsAnonymous(req.Context()) {
		return
	}
	if m.scope != nil && !m.scope(req) {
		return
	}
	token, ok := transport.BearerToken(req)
	if !ok {
		return
	}
	m.invalidate(token)
}
