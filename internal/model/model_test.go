// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"testing"
	"time"
)

func TestSessionExpired(t *testing.T) {
	expires := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := UserSession{ExpiresAt: expires}

	if s.Expired(expires.Add(-time.Second)) {
		t.Error("session expired one second early")
	}
	// The expiry instant itself is already invalid.
	if !s.Expired(expires) {
		t.Error("session must be expired exactly at ExpiresAt")
	}
	if !s.Expired(expires.Add(time.Second)) {
		t.Error("session still valid after expiry")
	}
}

func TestPhotoBytes(t *testing.T) {
	u := User{ProfilePhoto: "aGVsbG8="}
	b, err := u.PhotoBytes()
	if err != nil || string(b) != "hello" {
		t.Errorf("PhotoBytes = (%q, %v)", b, err)
	}

	empty := User{}
	b, err = empty.PhotoBytes()
	if err != nil || b != nil {
		t.Errorf("empty photo should decode to nil, got (%v, %v)", b, err)
	}

	bad := User{ProfilePhoto: "!!not base64!!"}
	if _, err := bad.PhotoBytes(); err == nil {
		t.Error("invalid base64 should error")
	}
}

func TestUserString(t *testing.T) {
	u := User{Name: "Olga", Email: "olga@example.com"}
	if got := u.String(); got != "Olga <olga@example.com>" {
		t.Errorf("String() = %q", got)
	}
}
