package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultTokenFile is used when no path is configured.
const DefaultTokenFile = "frus_token.json"

type fileEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
}

// FileTokenStore keeps the token in a JSON file readable only by the owner.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore returns a store backed by path.
func NewFileTokenStore(path string) *FileTokenStore {
	if path == "" {
		path = DefaultTokenFile
	}
	return &FileTokenStore{path: path}
}

// Path returns the backing file.
func (fs *FileTokenStore) Path() string { return fs.path }

func (fs *FileTokenStore) Token(_ context.Context) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()

	var e fileEntry
	if err := json.NewDecoder(f).Decode(&e); err != nil {
		return "", fmt.Errorf("decode token file: %w", err)
	}
	if e.Key != TokenKey || e.Value == "" {
		return "", ErrNoToken
	}
	return e.Value, nil
}

func (fs *FileTokenStore) SetToken(_ context.Context, token string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}
	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(fileEntry{Key: TokenKey, Value: token, UpdatedAt: time.Now().Unix()})
}

func (fs *FileTokenStore) RemoveToken(_ context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore returns a store seeded with token, which may be empty.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (ms *MemoryTokenStore) Token(_ context.Context) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.token == "" {
		return "", ErrNoToken
	}
	return ms.token, nil
}

func (ms *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = token
	return nil
}

func (ms *MemoryTokenStore) RemoveToken(_ context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = ""
	return nil
}
