// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ovoronina/healthdiary/internal/model"
)

// MySQLStore is the Store implementation for MySQL/MariaDB.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) AddUser(email, passwordHash, name string, isAdmin bool) (int64, error) {
	return AddUserBun(s.bun, email, passwordHash, name, isAdmin)
}

func (s *MySQLStore) GetUserByEmail(email string) (*model.User, error) {
	return GetUserByEmailBun(s.bun, email)
}

func (s *MySQLStore) GetUserByID(id int64) (*model.User, error) {
	return GetUserByIDBun(s.bun, id)
}

func (s *MySQLStore) IsEmailTaken(email string) (bool, error) {
	return IsEmailTakenBun(s.bun, email)
}

func (s *MySQLStore) ListUsers(limit int) ([]model.User, error) {
	return ListUsersBun(s.bun, limit)
}

func (s *MySQLStore) UpdateUserProfile(id int64, name, email string) error {
	return UpdateUserProfileBun(s.bun, id, name, email)
}

func (s *MySQLStore) UpdateUserPhoto(id int64, photoBase64 string) error {
	return UpdateUserPhotoBun(s.bun, id, photoBase64)
}

func (s *MySQLStore) SetUserAdmin(id int64, isAdmin bool) error {
	return SetUserAdminBun(s.bun, id, isAdmin)
}

func (s *MySQLStore) DeleteUser(id int64) error {
	return DeleteUserBun(s.bun, id)
}

func (s *MySQLStore) AddRecord(r *model.Record) (int64, error) {
	return AddRecordBun(s.bun, r)
}

func (s *MySQLStore) UpdateRecord(r *model.Record) error {
	return UpdateRecordBun(s.bun, r)
}

func (s *MySQLStore) DeleteRecord(id int64) error {
	return DeleteRecordBun(s.bun, id)
}

func (s *MySQLStore) GetRecordsByUser(userID int64) ([]model.Record, error) {
	return GetRecordsByUserBun(s.bun, userID)
}

func (s *MySQLStore) ListRecordsWithUsers(userID int64, limit int) ([]model.RecordWithUser, error) {
	return ListRecordsWithUsersBun(s.bun, userID, limit)
}

func (s *MySQLStore) GetUserSettings(userID int64) (*model.UserSettings, error) {
	return GetUserSettingsBun(s.bun, userID)
}

func (s *MySQLStore) SaveUserSettings(userID int64, settings string) error {
	return SaveUserSettingsBun(s.bun, userID, settings)
}

func (s *MySQLStore) SaveSession(userID int64, deviceID, token string, expiresAt time.Time) error {
	return saveSessionBun(s.bun, userID, deviceID, token, expiresAt, true)
}

func (s *MySQLStore) GetSessionByDevice(deviceID string) (*model.SessionUser, error) {
	return GetSessionByDeviceBun(s.bun, deviceID)
}

func (s *MySQLStore) DeleteSessionByDevice(deviceID string, userID int64) error {
	return DeleteSessionByDeviceBun(s.bun, deviceID, userID)
}

func (s *MySQLStore) LogAdminAction(action model.AdminAction) error {
	return LogAdminActionBun(s.bun, action)
}

func (s *MySQLStore) ListAdminActions(adminID int64, limit int) ([]model.AdminAction, error) {
	return ListAdminActionsBun(s.bun, adminID, limit)
}

func (s *MySQLStore) GetStats(userID int64) (model.Stats, error) {
	return GetStatsBun(s.bun, userID)
}

func (s *MySQLStore) ExportData() (*model.BackupData, error) {
	return ExportDataBun(s.bun)
}

func (s *MySQLStore) ImportData(backup *model.BackupData) error {
	return ImportDataBun(s.bun, backup)
}
