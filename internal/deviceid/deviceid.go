// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package deviceid supplies the stable device identifier that keys
// "remember me" sessions. The identifier is generated once and persisted
// under the user config directory, so repeated runs on the same machine
// resolve to the same session row.
package deviceid

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Provider supplies a stable device identifier.
type Provider interface {
	DeviceID() (string, error)
}

// FileProvider persists a generated UUID in a file and returns it on every
// subsequent call.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider backed by the given file path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Default returns a provider backed by the standard per-user location
// (e.g. ~/.config/healthdiary/device_id).
func Default() (*FileProvider, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileProvider{path: filepath.Join(dir, "healthdiary", "device_id")}, nil
}

// DeviceID reads the persisted identifier, generating and saving a new one
// on first use.
func (p *FileProvider) DeviceID() (string, error) {
	if data, err := os.ReadFile(p.path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}

// Static is a fixed device identifier, used by tests.
type Static string

// DeviceID returns the fixed identifier.
func (s Static) DeviceID() (string, error) { return string(s), nil }
