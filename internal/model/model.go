// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures for Health Diary.
// These are plain structs shared by the storage layer, the auth layer and
// the CLI; they carry no persistence logic themselves.
package model

import (
	"encoding/base64"
	"fmt"
	"time"
)

// User is the root aggregate. Records, settings, sessions and admin
// actions all reference a user and are removed with it.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	// ProfilePhoto holds a base64-encoded PNG inside a text column, for
	// compatibility with databases created by older releases. Use
	// PhotoBytes to decode.
	ProfilePhoto string `json:"profile_photo,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

// String returns the name <email> representation.
func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// PhotoBytes decodes the base64 profile photo. Returns nil when no photo
// is set.
func (u User) PhotoBytes() ([]byte, error) {
	if u.ProfilePhoto == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(u.ProfilePhoto)
}

// Record is a single diary entry. Numeric fields are pointers because
// every metric is optional; a nil field maps to a NULL column.
type Record struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	RecordDate        time.Time `json:"record_date"`
	Weight            *float64  `json:"weight,omitempty"`
	PressureSystolic  *int      `json:"pressure_systolic,omitempty"`
	PressureDiastolic *int      `json:"pressure_diastolic,omitempty"`
	Pulse             *int      `json:"pulse,omitempty"`
	Temperature       *float64  `json:"temperature,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecordWithUser is a record joined with its owner, as shown in the admin
// views.
type RecordWithUser struct {
	Record
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// UserSettings is the per-user settings document. The settings payload is
// an opaque serialized key/value document; at most one row exists per user.
type UserSettings struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Settings  string    `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSession is a device-bound "remember me" session. A session is valid
// only while now < ExpiresAt; exactly at expiry it is already expired.
type UserSession struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	DeviceID     string    `json:"device_id"`
	SessionToken string    `json:"session_token"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at the given time.
func (s UserSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionUser is the session/user join returned by device lookups during
// auto-login.
type SessionUser struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// AdminAction is one entry of the append-only admin audit trail.
type AdminAction struct {
	ID               int64     `json:"id"`
	AdminID          int64     `json:"admin_id"`
	AdminName        string    `json:"admin_name,omitempty"`
	ActionType       string    `json:"action_type"`
	ActionDetails    string    `json:"action_details,omitempty"`
	AffectedUserID   *int64    `json:"affected_user_id,omitempty"`
	AffectedUserName string    `json:"affected_user_name,omitempty"`
	IPAddress        string    `json:"ip_address,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Stats holds the aggregate counters shown on the admin dashboard. The
// 30-day fields are only populated for global (not per-user) queries.
type Stats struct {
	TotalUsers        int     `json:"total_users"`
	TotalRecords      int     `json:"total_records"`
	TotalAdmins       int     `json:"total_admins"`
	TotalSessions     int     `json:"total_sessions"`
	RecordsLast7Days  int     `json:"records_last_7_days"`
	ActiveUsers30Days int     `json:"active_users_30_days"`
	AvgRecordsPerUser float64 `json:"avg_records_per_user"`
}
