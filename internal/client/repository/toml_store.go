package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	shared "github.com/charadev96/officedesk/internal/shared/domain"
)

const (
	permStore    = 0600
	permStoreDir = 0700
)

// TOMLStore keeps values in the [values] table of a TOML file. The file is
// re-read whenever its modification time changes, so several processes may
// share it.
type TOMLStore struct {
	FilePath string

	mu         sync.Mutex
	data       schema
	modifiedAt time.Time
}

type schema struct {
	Values map[string]string `toml:"values"`
}

func (r *TOMLStore) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(); err != nil {
		return "", err
	}
	value, ok := r.data.Values[key]
	if !ok {
		return "", fmt.Errorf("failed to get value '%s': %w", key, shared.ErrNotExist)
	}
	return value, nil
}

func (r *TOMLStore) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(); err != nil {
		return err
	}
	if r.data.Values == nil {
		r.data.Values = make(map[string]string)
	}
	r.data.Values[key] = value
	return r.save()
}

func (r *TOMLStore) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(); err != nil {
		return err
	}
	if _, ok := r.data.Values[key]; !ok {
		return nil
	}
	delete(r.data.Values, key)
	return r.save()
}

// refresh reloads the file if it changed on disk. A missing file is an empty
// store.
func (r *TOMLStore) refresh() error {
	info, err := os.Stat(r.FilePath)
	if errors.Is(err, os.ErrNotExist) {
		r.data = schema{}
		r.modifiedAt = time.Time{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file timestamp: %w", err)
	}
	modTime := info.ModTime()
	if r.modifiedAt.Equal(modTime) {
		return nil
	}
	if err := r.load(); err != nil {
		return err
	}
	r.modifiedAt = modTime
	return nil
}

func (r *TOMLStore) load() error {
	r.data = schema{}
	_, err := toml.DecodeFile(r.FilePath, &r.data)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	return nil
}

// save writes a temporary file next to FilePath and renames it into place,
// so the store on disk is always either the old or the new contents.
func (r *TOMLStore) save() error {
	dir := filepath.Dir(r.FilePath)
	if err := os.MkdirAll(dir, permStoreDir); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	file, err := os.CreateTemp(dir, "."+filepath.Base(r.FilePath)+"-*")
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	tmpPath := file.Name()
	defer os.Remove(tmpPath)

	if err := file.Chmod(permStore); err != nil {
		file.Close()
		return fmt.Errorf("failed to save store: %w", err)
	}
	enc := toml.NewEncoder(file)
	enc.Indent = ""
	if err := enc.Encode(r.data); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to save store: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	if err := os.Rename(tmpPath, r.FilePath); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}

	info, err := os.Stat(r.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read file timestamp: %w", err)
	}
	r.modifiedAt = info.ModTime()
	return nil
}
