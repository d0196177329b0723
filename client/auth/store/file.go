package store

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/viant/afs"
	"sync"
)

// FileStore persists the token as a JSON snapshot at an afs URL
// (plain path, file://, mem:// ...). The snapshot is loaded once when the
// store is created; reads are served from memory.
type FileStore struct {
	mu    sync.RWMutex
	URL   string
	fs    afs.Service
	token string
	has   bool
}

type fileSnapshot struct {
	Token *string `json:"token"`
}

// NewFileStore creates a Store that persists the token at the given URL.
func NewFileStore(URL string) *FileStore {
	ret := &FileStore{URL: URL, fs: afs.New()}
	_ = ret.load(context.Background())
	return ret
}

func (f *FileStore) Read() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token, f.has
}

func (f *FileStore) Write(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(fileSnapshot{Token: &token})
	if err != nil {
		return err
	}
	if err = f.fs.Upload(context.Background(), f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return err
	}
	f.token, f.has = token, true
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.has = "", false
	return remove(context.Background(), f.fs, f.URL)
}

func (f *FileStore) load(ctx context.Context) error {
	if ok, _ := f.fs.Exists(ctx, f.URL); !ok {
		return nil
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.Token != nil {
		f.token, f.has = *snap.Token, true
	}
	return nil
}

func remove(ctx context.Context, fs afs.Service, URL string) error {
	ok, err := fs.Exists(ctx, URL)
	if err != nil || !ok {
		return nil
	}
	return fs.Delete(ctx, URL)
}
