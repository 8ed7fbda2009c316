// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package deviceid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestFileProviderGeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "device_id")
	p := NewFileProvider(path)

	id, err := p.DeviceID()
	if err != nil {
		t.Fatalf("DeviceID: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", id, err)
	}

	// Second call returns the same identifier.
	again, err := p.DeviceID()
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("id changed between calls: %q -> %q", id, again)
	}

	// A fresh provider for the same path reads the persisted value.
	fresh := NewFileProvider(path)
	got, err := fresh.DeviceID()
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("persisted id not reused: %q != %q", got, id)
	}
}

func TestFileProviderIgnoresEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := NewFileProvider(path)
	id, err := p.DeviceID()
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("empty file must trigger regeneration")
	}
}

func TestStatic(t *testing.T) {
	id, err := Static("fixed").DeviceID()
	if err != nil || id != "fixed" {
		t.Errorf("Static = (%q, %v)", id, err)
	}
}
