package mock

import "net/http/httptest"

// HTTPTestServer runs Service on an httptest server
type HTTPTestServer struct {
	*Service
	Server  *httptest.Server
	BaseURL string
}

func NewHTTPTestServer() *HTTPTestServer {
	service := NewService()
	server := &HTTPTestServer{Service: service}
	server.Server = httptest.NewServer(service.Handler())
	server.BaseURL = server.Server.URL + "/api"
	return server
}

func (s *HTTPTestServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.Server = nil
}
