package session

import (
	"context"
	"errors"
	"github.com/viant/caseflow/schema"
	"net/http"
	"sync"
)

var errNetwork = errors.New("dial tcp: connection refused")

type response func(ctx context.Context) (*schema.Identity, error)

// fakeFetcher serves identities per token; unknown tokens are rejected with 401
type fakeFetcher struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string]response
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: map[string]int{}, responses: map[string]response{}}
}

func (f *fakeFetcher) on(token string, respond response) *fakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[token] = respond
	return f
}

func (f *fakeFetcher) callCount(token string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[token]
}

func (f *fakeFetcher) Identity(ctx context.Context, token string) (*schema.Identity, error) {
	f.mu.Lock()
	f.calls[token]++
	respond := f.responses[token]
	f.mu.Unlock()
	if respond == nil {
		return nil, schema.NewError(http.StatusUnauthorized, "Invalid token")
	}
	return respond(ctx)
}

func identity(id int, username string, isAdmin bool) response {
	return func(ctx context.Context) (*schema.Identity, error) {
		return &schema.Identity{ID: id, Username: username, IsAdmin: isAdmin}, nil
	}
}

func failure(err error) response {
	return func(ctx context.Context) (*schema.Identity, error) {
		return nil, err
	}
}

// gated holds the response until gate is closed
func gated(gate <-chan struct{}, respond response) response {
	return func(ctx context.Context) (*schema.Identity, error) {
		select {
		case <-gate:
			return respond(ctx)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// failingStore wraps a store making writes or clears fail
type failingStore struct {
	token    string
	has      bool
	writeErr error
	clearErr error
}

func (s *failingStore) Read() (string, bool) { return s.token, s.has }

func (s *failingStore) Write(token string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.token, s.has = token, true
	return nil
}

func (s *failingStore) Clear() error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token, s.has = "", false
	return nil
}
