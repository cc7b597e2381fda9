package kv

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	fileStorePerm    = 0o644
	fileStoreDirPerm = 0o755
)

// File is a durable Store persisted as a single JSON object on disk. It
// holds the small synchronized partition: settings and prompt templates.
// Every write rewrites the file; the partition is a few KB at most.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFile loads (or creates) the store at path.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), fileStoreDirPerm); err != nil {
		return nil, err
	}

	f := &File{path: path, data: make(map[string]string)}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(content) > 0 {
			if err := json.Unmarshal(content, &f.data); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, os.ErrNotExist):
		// first run, empty partition
	default:
		return nil, err
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.persist()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return f.persist()
}

func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// persist writes the whole map atomically via a temp file rename.
// Caller holds f.mu.
func (f *File) persist() error {
	data, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, fileStorePerm); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
