// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/ovoronina/healthdiary/internal/model"
)

// Store defines the interface for all database operations in Health Diary.
// This allows for multiple database backends to be implemented. Every
// method reports failures as typed errors (ErrNotFound, ErrDuplicate,
// ErrConnection) so callers can tell "nothing found" from "query failed".
type Store interface {
	// User methods
	AddUser(email, passwordHash, name string, isAdmin bool) (int64, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int64) (*model.User, error)
	IsEmailTaken(email string) (bool, error)
	ListUsers(limit int) ([]model.User, error)
	UpdateUserProfile(id int64, name, email string) error
	UpdateUserPhoto(id int64, photoBase64 string) error
	SetUserAdmin(id int64, isAdmin bool) error
	DeleteUser(id int64) error

	// Record methods
	AddRecord(r *model.Record) (int64, error)
	UpdateRecord(r *model.Record) error
	DeleteRecord(id int64) error
	GetRecordsByUser(userID int64) ([]model.Record, error)
	// ListRecordsWithUsers returns records joined with their owners,
	// newest first. A zero userID selects all users.
	ListRecordsWithUsers(userID int64, limit int) ([]model.RecordWithUser, error)

	// Settings methods
	GetUserSettings(userID int64) (*model.UserSettings, error)
	SaveUserSettings(userID int64, settings string) error

	// Session methods. Sessions are deduplicated per device: saving a
	// session replaces whatever session the device held, even one
	// belonging to a different user.
	SaveSession(userID int64, deviceID, token string, expiresAt time.Time) error
	GetSessionByDevice(deviceID string) (*model.SessionUser, error)
	DeleteSessionByDevice(deviceID string, userID int64) error

	// Admin audit methods. The audit trail is append-only.
	LogAdminAction(action model.AdminAction) error
	ListAdminActions(adminID int64, limit int) ([]model.AdminAction, error)

	// GetStats computes the aggregate counters. The 30-day activity
	// fields are only filled for global calls (userID == 0).
	GetStats(userID int64) (model.Stats, error)

	// Backup
	ExportData() (*model.BackupData, error)
	ImportData(backup *model.BackupData) error
}
