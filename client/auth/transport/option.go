package transport

import "net/http"

type Option func(*RoundTripper)

// WithTransport sets inner transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		if transport != nil {
			t.transport = transport
		}
	}
}

// WithRequestHook installs request hook
func WithRequestHook(hook RequestHook) Option {
	return func(t *RoundTripper) {
		t.requestHooks = append(t.requestHooks, hook)
	}
}

// WithResponseHook installs response hook
func WithResponseHook(hook ResponseHook) Option {
	return func(t *RoundTripper) {
		t.responseHooks = append(t.responseHooks, hook)
	}
}
