package store

import (
	"context"
	"github.com/viant/afs"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
	"sync"
)

// SecretStore persists the token encrypted with a scy key (e.g. blowfish://default).
// Like FileStore it loads once on creation and serves reads from memory.
type SecretStore struct {
	mu       sync.RWMutex
	URL      string
	resource *scy.Resource
	secrets  *scy.Service
	fs       afs.Service
	token    string
	has      bool
}

// NewSecretStore creates an encrypted store at URL using the given scy key URL.
func NewSecretStore(URL, key string) *SecretStore {
	ret := &SecretStore{
		URL:      URL,
		resource: scy.NewResource("", URL, key),
		secrets:  scy.New(),
		fs:       afs.New(),
	}
	ret.load(context.Background())
	return ret
}

func (s *SecretStore) Read() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.has
}

func (s *SecretStore) Write(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	secret := scy.NewSecret(token, s.resource)
	if err := s.secrets.Store(context.Background(), secret); err != nil {
		return err
	}
	s.token, s.has = token, true
	return nil
}

func (s *SecretStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.has = "", false
	return remove(context.Background(), s.fs, s.URL)
}

func (s *SecretStore) load(ctx context.Context) {
	if ok, _ := s.fs.Exists(ctx, s.URL); !ok {
		return
	}
	secret, err := s.secrets.Load(ctx, s.resource)
	if err != nil {
		return
	}
	if token := secret.String(); token != "" {
		s.token, s.has = token, true
	}
}
