package transport

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerToken returns bearer credential carried by the request
func BearerToken(req *http.Request) (string, bool) {
	if req == nil {
		return "", false
	}
	header := req.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
