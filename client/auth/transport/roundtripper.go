package transport

import (
	"net/http"
	"sync"
)

type (
	// RequestHook can modify outgoing request; returning an error aborts the round trip
	RequestHook func(req *http.Request) error
	// ResponseHook observes every received response before it is returned to the caller
	ResponseHook func(resp *http.Response)
)

type RoundTripper struct {
	transport     http.RoundTripper
	requestHooks  []RequestHook
	responseHooks []ResponseHook
	mux           sync.RWMutex
}

func New(options ...Option) *RoundTripper {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// AddRequestHook installs request hook
func (r *RoundTripper) AddRequestHook(hook RequestHook) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.requestHooks = append(r.requestHooks, hook)
}

// AddResponseHook installs response hook
func (r *RoundTripper) AddResponseHook(hook ResponseHook) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.responseHooks = append(r.responseHooks, hook)
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mux.RLock()
	requestHooks := r.requestHooks
	responseHooks := r.responseHooks
	r.mux.RUnlock()

	// RoundTripper must not modify the caller's request
	outbound := req.Clone(req.Context())
	for _, hook := range requestHooks {
		if err := hook(outbound); err != nil {
			closeBody(req)
			return nil, err
		}
	}
	resp, err := r.transport.RoundTrip(outbound)
	if err != nil {
		return nil, err
	}
	if resp.Request == nil {
		resp.Request = outbound
	}
	for _, hook := range responseHooks {
		hook(resp)
	}
	return resp, nil
}
