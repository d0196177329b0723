package api

import "net/http"

type Option func(*Client)

// WithHTTPClient sets http client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}
