// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ovoronina/healthdiary/internal/model"
)

// PostgresStore is the Store implementation for PostgreSQL.
type PostgresStore struct {
	bun *bun.DB
}

func (s *PostgresStore) AddUser(email, passwordHash, name string, isAdmin bool) (int64, error) {
	return AddUserBun(s.bun, email, passwordHash, name, isAdmin)
}

func (s *PostgresStore) GetUserByEmail(email string) (*model.User, error) {
	return GetUserByEmailBun(s.bun, email)
}

func (s *PostgresStore) GetUserByID(id int64) (*model.User, error) {
	return GetUserByIDBun(s.bun, id)
}

func (s *PostgresStore) IsEmailTaken(email string) (bool, error) {
	return IsEmailTakenBun(s.bun, email)
}

func (s *PostgresStore) ListUsers(limit int) ([]model.User, error) {
	return ListUsersBun(s.bun, limit)
}

func (s *PostgresStore) UpdateUserProfile(id int64, name, email string) error {
	return UpdateUserProfileBun(s.bun, id, name, email)
}

func (s *PostgresStore) UpdateUserPhoto(id int64, photoBase64 string) error {
	return UpdateUserPhotoBun(s.bun, id, photoBase64)
}

func (s *PostgresStore) SetUserAdmin(id int64, isAdmin bool) error {
	return SetUserAdminBun(s.bun, id, isAdmin)
}

func (s *PostgresStore) DeleteUser(id int64) error {
	return DeleteUserBun(s.bun, id)
}

func (s *PostgresStore) AddRecord(r *model.Record) (int64, error) {
	return AddRecordBun(s.bun, r)
}

func (s *PostgresStore) UpdateRecord(r *model.Record) error {
	return UpdateRecordBun(s.bun, r)
}

func (s *PostgresStore) DeleteRecord(id int64) error {
	return DeleteRecordBun(s.bun, id)
}

func (s *PostgresStore) GetRecordsByUser(userID int64) ([]model.Record, error) {
	return GetRecordsByUserBun(s.bun, userID)
}

func (s *PostgresStore) ListRecordsWithUsers(userID int64, limit int) ([]model.RecordWithUser, error) {
	return ListRecordsWithUsersBun(s.bun, userID, limit)
}

func (s *PostgresStore) GetUserSettings(userID int64) (*model.UserSettings, error) {
	return GetUserSettingsBun(s.bun, userID)
}

func (s *PostgresStore) SaveUserSettings(userID int64, settings string) error {
	return SaveUserSettingsBun(s.bun, userID, settings)
}

func (s *PostgresStore) SaveSession(userID int64, deviceID, token string, expiresAt time.Time) error {
	return saveSessionBun(s.bun, userID, deviceID, token, expiresAt, false)
}

func (s *PostgresStore) GetSessionByDevice(deviceID string) (*model.SessionUser, error) {
	return GetSessionByDeviceBun(s.bun, deviceID)
}

func (s *PostgresStore) DeleteSessionByDevice(deviceID string, userID int64) error {
	return DeleteSessionByDeviceBun(s.bun, deviceID, userID)
}

func (s *PostgresStore) LogAdminAction(action model.AdminAction) error {
	return LogAdminActionBun(s.bun, action)
}

func (s *PostgresStore) ListAdminActions(adminID int64, limit int) ([]model.AdminAction, error) {
	return ListAdminActionsBun(s.bun, adminID, limit)
}

func (s *PostgresStore) GetStats(userID int64) (model.Stats, error) {
	return GetStatsBun(s.bun, userID)
}

func (s *PostgresStore) ExportData() (*model.BackupData, error) {
	return ExportDataBun(s.bun)
}

func (s *PostgresStore) ImportData(backup *model.BackupData) error {
	return ImportDataBun(s.bun, backup)
}
