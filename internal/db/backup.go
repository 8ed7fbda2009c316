// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/ovoronina/healthdiary/internal/model"
)

// backupSchemaVersion is stamped into every export so a future schema can
// translate old backups on restore.
const backupSchemaVersion = 1

// ExportDataBun reads the full contents of all tables into a BackupData
// container. Password hashes are included: the export is a restorable
// snapshot, not a report.
func ExportDataBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	backup := &model.BackupData{SchemaVersion: backupSchemaVersion}

	var users []UserModel
	if err := bdb.NewSelect().Model(&users).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	for _, u := range users {
		m := userModelToModel(u)
		backup.Users = append(backup.Users, m)
	}

	var records []RecordModel
	if err := bdb.NewSelect().Model(&records).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	for _, r := range records {
		backup.Records = append(backup.Records, recordModelToModel(r))
	}

	var settings []UserSettingsModel
	if err := bdb.NewSelect().Model(&settings).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	for _, s := range settings {
		backup.UserSettings = append(backup.UserSettings, model.UserSettings{
			ID:        s.ID,
			UserID:    s.UserID,
			Settings:  s.Settings,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	var sessions []UserSessionModel
	if err := bdb.NewSelect().Model(&sessions).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	for _, s := range sessions {
		backup.UserSessions = append(backup.UserSessions, model.UserSession{
			ID:           s.ID,
			UserID:       s.UserID,
			DeviceID:     s.DeviceID,
			SessionToken: s.SessionToken,
			CreatedAt:    s.CreatedAt,
			ExpiresAt:    s.ExpiresAt,
		})
	}

	var actions []AdminActionModel
	if err := bdb.NewSelect().Model(&actions).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	for _, a := range actions {
		backup.AdminActions = append(backup.AdminActions, adminActionModelToModel(a))
	}

	return backup, nil
}

// ImportDataBun restores a backup inside one transaction. The restore is
// destructive: existing rows are removed first, then the backup rows are
// inserted with their original IDs so cross-table references stay intact.
func ImportDataBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return MapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first, users last, so foreign keys never dangle mid-wipe.
	for _, m := range []interface{}{
		(*AdminActionModel)(nil),
		(*UserSessionModel)(nil),
		(*UserSettingsModel)(nil),
		(*RecordModel)(nil),
		(*UserModel)(nil),
	} {
		if _, err := tx.NewDelete().Model(m).Where("1 = 1").Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for _, u := range backup.Users {
		um := &UserModel{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			CreatedAt:    u.CreatedAt,
			ProfilePhoto: sql.NullString{String: u.ProfilePhoto, Valid: u.ProfilePhoto != ""},
			IsAdmin:      u.IsAdmin,
		}
		if _, err := tx.NewInsert().Model(um).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for i := range backup.Records {
		rm := recordToModelStruct(&backup.Records[i])
		if _, err := tx.NewInsert().Model(rm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for _, s := range backup.UserSettings {
		sm := &UserSettingsModel{
			ID:        s.ID,
			UserID:    s.UserID,
			Settings:  s.Settings,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
		if _, err := tx.NewInsert().Model(sm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for _, s := range backup.UserSessions {
		sm := &UserSessionModel{
			ID:           s.ID,
			UserID:       s.UserID,
			DeviceID:     s.DeviceID,
			SessionToken: s.SessionToken,
			CreatedAt:    s.CreatedAt,
			ExpiresAt:    s.ExpiresAt,
		}
		if _, err := tx.NewInsert().Model(sm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	for _, a := range backup.AdminActions {
		am := &AdminActionModel{
			ID:            a.ID,
			AdminID:       a.AdminID,
			ActionType:    a.ActionType,
			ActionDetails: sql.NullString{String: a.ActionDetails, Valid: a.ActionDetails != ""},
			IPAddress:     sql.NullString{String: a.IPAddress, Valid: a.IPAddress != ""},
			CreatedAt:     a.CreatedAt,
		}
		if a.AffectedUserID != nil {
			am.AffectedUserID = sql.NullInt64{Int64: *a.AffectedUserID, Valid: true}
		}
		if _, err := tx.NewInsert().Model(am).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}

	return MapDBError(tx.Commit())
}
