// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/uptrace/bun"

	"github.com/ovoronina/healthdiary/internal/model"
)

// UserModel maps the `users` table for Bun queries.
type UserModel struct {
	bun.BaseModel `bun:"table:users"`
	ID            int64          `bun:"id,pk,autoincrement"`
	Email         string         `bun:"email"`
	PasswordHash  string         `bun:"password_hash"`
	Name          string         `bun:"name"`
	CreatedAt     time.Time      `bun:"created_at"`
	ProfilePhoto  sql.NullString `bun:"profile_photo"`
	IsAdmin       bool           `bun:"is_admin"`
}

// RecordModel maps the `records` table.
type RecordModel struct {
	bun.BaseModel     `bun:"table:records"`
	ID                int64          `bun:"id,pk,autoincrement"`
	UserID            int64          `bun:"user_id"`
	RecordDate        time.Time      `bun:"record_date"`
	Weight            *float64       `bun:"weight"`
	PressureSystolic  *int           `bun:"pressure_systolic"`
	PressureDiastolic *int           `bun:"pressure_diastolic"`
	Pulse             *int           `bun:"pulse"`
	Temperature       *float64       `bun:"temperature"`
	Notes             sql.NullString `bun:"notes"`
	CreatedAt         time.Time      `bun:"created_at"`
}

// UserSettingsModel maps the `user_settings` table.
type UserSettingsModel struct {
	bun.BaseModel `bun:"table:user_settings"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id"`
	Settings      string    `bun:"settings"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

// UserSessionModel maps the `user_sessions` table.
type UserSessionModel struct {
	bun.BaseModel `bun:"table:user_sessions"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id"`
	DeviceID      string    `bun:"device_id"`
	SessionToken  string    `bun:"session_token"`
	CreatedAt     time.Time `bun:"created_at"`
	ExpiresAt     time.Time `bun:"expires_at"`
}

// AdminActionModel maps the `admin_actions` table.
type AdminActionModel struct {
	bun.BaseModel  `bun:"table:admin_actions"`
	ID             int64          `bun:"id,pk,autoincrement"`
	AdminID        int64          `bun:"admin_id"`
	ActionType     string         `bun:"action_type"`
	ActionDetails  sql.NullString `bun:"action_details"`
	AffectedUserID sql.NullInt64  `bun:"affected_user_id"`
	IPAddress      sql.NullString `bun:"ip_address"`
	CreatedAt      time.Time      `bun:"created_at"`
}

// execRawProvider accepts either *bun.DB or bun.Tx since both expose
// NewRaw(...) returning *bun.RawQuery.
type execRawProvider interface {
	NewRaw(query string, args ...interface{}) *bun.RawQuery
}

// ExecRaw executes a raw SQL statement using the provided Bun DB or
// transaction.
func ExecRaw(ctx context.Context, exec execRawProvider, query string, args ...interface{}) (sql.Result, error) {
	return exec.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto runs a raw query and scans the result into dest.
func QueryRawInto(ctx context.Context, exec execRawProvider, dest interface{}, query string, args ...interface{}) error {
	return exec.NewRaw(query, args...).Scan(ctx, dest)
}

// --- Mapping helpers (centralized conversions) ---

func userModelToModel(u UserModel) model.User {
	m := model.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		CreatedAt:    u.CreatedAt,
		IsAdmin:      u.IsAdmin,
	}
	if u.ProfilePhoto.Valid {
		m.ProfilePhoto = u.ProfilePhoto.String
	}
	return m
}

func recordModelToModel(r RecordModel) model.Record {
	m := model.Record{
		ID:                r.ID,
		UserID:            r.UserID,
		RecordDate:        r.RecordDate,
		Weight:            r.Weight,
		PressureSystolic:  r.PressureSystolic,
		PressureDiastolic: r.PressureDiastolic,
		Pulse:             r.Pulse,
		Temperature:       r.Temperature,
		CreatedAt:         r.CreatedAt,
	}
	if r.Notes.Valid {
		m.Notes = r.Notes.String
	}
	return m
}

func recordToModelStruct(r *model.Record) *RecordModel {
	return &RecordModel{
		ID:                r.ID,
		UserID:            r.UserID,
		RecordDate:        r.RecordDate.UTC(),
		Weight:            r.Weight,
		PressureSystolic:  r.PressureSystolic,
		PressureDiastolic: r.PressureDiastolic,
		Pulse:             r.Pulse,
		Temperature:       r.Temperature,
		Notes:             sql.NullString{String: r.Notes, Valid: r.Notes != ""},
		CreatedAt:         r.CreatedAt,
	}
}

func adminActionModelToModel(a AdminActionModel) model.AdminAction {
	m := model.AdminAction{
		ID:         a.ID,
		AdminID:    a.AdminID,
		ActionType: a.ActionType,
		CreatedAt:  a.CreatedAt,
	}
	if a.ActionDetails.Valid {
		m.ActionDetails = a.ActionDetails.String
	}
	if a.AffectedUserID.Valid {
		v := a.AffectedUserID.Int64
		m.AffectedUserID = &v
	}
	if a.IPAddress.Valid {
		m.IPAddress = a.IPAddress.String
	}
	return m
}

// --- User operations ---

// AddUserBun inserts a new user and returns its ID. A duplicate email maps
// to ErrDuplicate.
func AddUserBun(bdb *bun.DB, email, passwordHash, name string, isAdmin bool) (int64, error) {
	ctx := context.Background()
	um := &UserModel{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
		IsAdmin:      isAdmin,
	}
	if _, err := bdb.NewInsert().Model(um).
		Column("email", "password_hash", "name", "created_at", "is_admin").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return um.ID, nil
}

// GetUserByEmailBun returns the user with the given email, including the
// password hash for credential verification.
func GetUserByEmailBun(bdb *bun.DB, email string) (*model.User, error) {
	ctx := context.Background()
	var um UserModel
	if err := bdb.NewSelect().Model(&um).Where("email = ?", email).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	m := userModelToModel(um)
	return &m, nil
}

// GetUserByIDBun returns a user by primary key.
func GetUserByIDBun(bdb *bun.DB, id int64) (*model.User, error) {
	ctx := context.Background()
	var um UserModel
	if err := bdb.NewSelect().Model(&um).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	m := userModelToModel(um)
	return &m, nil
}

// IsEmailTakenBun reports whether a user with the email exists.
func IsEmailTakenBun(bdb *bun.DB, email string) (bool, error) {
	ctx := context.Background()
	n, err := bdb.NewSelect().Model((*UserModel)(nil)).Where("email = ?", email).Count(ctx)
	if err != nil {
		return false, MapDBError(err)
	}
	return n > 0, nil
}

// ListUsersBun returns users newest first, password hashes omitted.
func ListUsersBun(bdb *bun.DB, limit int) ([]model.User, error) {
	ctx := context.Background()
	var ums []UserModel
	q := bdb.NewSelect().Model(&ums).
		Column("id", "email", "name", "created_at", "is_admin").
		OrderExpr("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.User, 0, len(ums))
	for _, u := range ums {
		out = append(out, userModelToModel(u))
	}
	return out, nil
}

// UpdateUserProfileBun updates name and email for a user.
func UpdateUserProfileBun(bdb *bun.DB, id int64, name, email string) error {
	ctx := context.Background()
	res, err := bdb.NewUpdate().Model((*UserModel)(nil)).
		Set("name = ?", name).Set("email = ?", email).
		Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return requireRows(res)
}

// UpdateUserPhotoBun stores a base64-encoded photo for a user.
func UpdateUserPhotoBun(bdb *bun.DB, id int64, photoBase64 string) error {
	ctx := context.Background()
	photo := sql.NullString{String: photoBase64, Valid: photoBase64 != ""}
	res, err := bdb.NewUpdate().Model((*UserModel)(nil)).
		Set("profile_photo = ?", photo).
		Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return requireRows(res)
}

// SetUserAdminBun sets or clears the admin flag.
func SetUserAdminBun(bdb *bun.DB, id int64, isAdmin bool) error {
	ctx := context.Background()
	res, err := bdb.NewUpdate().Model((*UserModel)(nil)).
		Set("is_admin = ?", isAdmin).
		Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return requireRows(res)
}

// DeleteUserBun removes a user and all dependent rows in one transaction.
// The cascade is explicit so it behaves identically on backends where
// foreign-key enforcement is off by default.
func DeleteUserBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return MapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NewDelete().Model((*RecordModel)(nil)).Where("user_id = ?", id).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	if _, err := tx.NewDelete().Model((*UserSettingsModel)(nil)).Where("user_id = ?", id).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	if _, err := tx.NewDelete().Model((*UserSessionModel)(nil)).Where("user_id = ?", id).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	if _, err := tx.NewDelete().Model((*AdminActionModel)(nil)).Where("admin_id = ?", id).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	// Audit entries about the user survive, but the reference is cleared.
	if _, err := ExecRaw(ctx, tx, "UPDATE admin_actions SET affected_user_id = NULL WHERE affected_user_id = ?", id); err != nil {
		return MapDBError(err)
	}
	res, err := tx.NewDelete().Model((*UserModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if err := requireRows(res); err != nil {
		return err
	}
	return MapDBError(tx.Commit())
}

// --- Record operations ---

// AddRecordBun inserts a diary record and returns its ID.
func AddRecordBun(bdb *bun.DB, r *model.Record) (int64, error) {
	ctx := context.Background()
	rm := recordToModelStruct(r)
	if rm.CreatedAt.IsZero() {
		rm.CreatedAt = time.Now().UTC()
	}
	if _, err := bdb.NewInsert().Model(rm).
		Column("user_id", "record_date", "weight", "pressure_systolic", "pressure_diastolic", "pulse", "temperature", "notes", "created_at").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return rm.ID, nil
}

// UpdateRecordBun rewrites the metric fields of an existing record.
func UpdateRecordBun(bdb *bun.DB, r *model.Record) error {
	ctx := context.Background()
	notes := sql.NullString{String: r.Notes, Valid: r.Notes != ""}
	res, err := bdb.NewUpdate().Model((*RecordModel)(nil)).
		Set("weight = ?", r.Weight).
		Set("pressure_systolic = ?", r.PressureSystolic).
		Set("pressure_diastolic = ?", r.PressureDiastolic).
		Set("pulse = ?", r.Pulse).
		Set("temperature = ?", r.Temperature).
		Set("notes = ?", notes).
		Where("id = ?", r.ID).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return requireRows(res)
}

// DeleteRecordBun removes a record by id.
func DeleteRecordBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	res, err := bdb.NewDelete().Model((*RecordModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	return requireRows(res)
}

// GetRecordsByUserBun returns a user's records, newest date first.
func GetRecordsByUserBun(bdb *bun.DB, userID int64) ([]model.Record, error) {
	ctx := context.Background()
	var rms []RecordModel
	err := bdb.NewSelect().Model(&rms).
		Where("user_id = ?", userID).
		OrderExpr("record_date DESC, created_at DESC").Scan(ctx)
	if err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.Record, 0, len(rms))
	for _, r := range rms {
		out = append(out, recordModelToModel(r))
	}
	return out, nil
}

// joinedRecord carries a record row plus the owner's name and email.
type joinedRecord struct {
	RecordModel
	UserName  string `bun:"user_name"`
	UserEmail string `bun:"user_email"`
}

// ListRecordsWithUsersBun returns records joined with their owners for the
// admin views. A zero userID selects all users.
func ListRecordsWithUsersBun(bdb *bun.DB, userID int64, limit int) ([]model.RecordWithUser, error) {
	ctx := context.Background()
	var rows []joinedRecord
	q := bdb.NewSelect().Model(&rows).
		ModelTableExpr("records AS r").
		ColumnExpr("r.*").
		ColumnExpr("u.name AS user_name").
		ColumnExpr("u.email AS user_email").
		Join("JOIN users AS u ON r.user_id = u.id").
		OrderExpr("r.record_date DESC, r.created_at DESC")
	if userID != 0 {
		q = q.Where("r.user_id = ?", userID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.RecordWithUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.RecordWithUser{
			Record:    recordModelToModel(row.RecordModel),
			UserName:  row.UserName,
			UserEmail: row.UserEmail,
		})
	}
	return out, nil
}

// --- Settings operations ---

// GetUserSettingsBun returns the settings document for a user.
func GetUserSettingsBun(bdb *bun.DB, userID int64) (*model.UserSettings, error) {
	ctx := context.Background()
	var sm UserSettingsModel
	if err := bdb.NewSelect().Model(&sm).Where("user_id = ?", userID).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	return &model.UserSettings{
		ID:        sm.ID,
		UserID:    sm.UserID,
		Settings:  sm.Settings,
		CreatedAt: sm.CreatedAt,
		UpdatedAt: sm.UpdatedAt,
	}, nil
}

// SaveUserSettingsBun inserts the settings row on first access and updates
// it in place afterwards. At most one row exists per user.
func SaveUserSettingsBun(bdb *bun.DB, userID int64, settings string) error {
	ctx := context.Background()
	now := time.Now().UTC()
	res, err := bdb.NewUpdate().Model((*UserSettingsModel)(nil)).
		Set("settings = ?", settings).
		Set("updated_at = ?", now).
		Where("user_id = ?", userID).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = bdb.NewInsert().Model(&UserSettingsModel{
		UserID:    userID,
		Settings:  settings,
		CreatedAt: now,
		UpdatedAt: now,
	}).Column("user_id", "settings", "created_at", "updated_at").Exec(ctx)
	return MapDBError(err)
}

// --- Session operations ---

// saveSessionBun replaces the device's session. A device carries at most
// one session, so logging in as a different user on the same device evicts
// the previous user's row. The MySQL dialect uses ON DUPLICATE KEY UPDATE;
// SQLite and Postgres use ON CONFLICT.
func saveSessionBun(bdb *bun.DB, userID int64, deviceID, token string, expiresAt time.Time, dialectMySQL bool) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return MapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NewDelete().Model((*UserSessionModel)(nil)).
		Where("device_id = ?", deviceID).
		Where("user_id != ?", userID).Exec(ctx); err != nil {
		return MapDBError(err)
	}

	// Times are normalized to UTC: SQLite compares them as text, so mixed
	// offsets would break the expiry check.
	sm := &UserSessionModel{
		UserID:       userID,
		DeviceID:     deviceID,
		SessionToken: token,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    expiresAt.UTC(),
	}
	q := tx.NewInsert().Model(sm).
		Column("user_id", "device_id", "session_token", "created_at", "expires_at")
	if dialectMySQL {
		q = q.On("DUPLICATE KEY UPDATE").
			Set("session_token = VALUES(session_token)").
			Set("expires_at = VALUES(expires_at)").
			Set("created_at = VALUES(created_at)")
	} else {
		q = q.On("CONFLICT (user_id, device_id) DO UPDATE").
			Set("session_token = EXCLUDED.session_token").
			Set("expires_at = EXCLUDED.expires_at").
			Set("created_at = EXCLUDED.created_at")
	}
	if _, err := q.Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return MapDBError(tx.Commit())
}

// GetSessionByDeviceBun returns the user joined to a live session for the
// device. A session whose expires_at is now or earlier is already expired
// and yields ErrNotFound.
func GetSessionByDeviceBun(bdb *bun.DB, deviceID string) (*model.SessionUser, error) {
	ctx := context.Background()
	var su model.SessionUser
	err := QueryRawInto(ctx, bdb, &su,
		`SELECT us.user_id AS user_id, u.email AS email, u.name AS name, u.is_admin AS is_admin
		 FROM user_sessions AS us
		 JOIN users AS u ON us.user_id = u.id
		 WHERE us.device_id = ? AND us.expires_at > ?`,
		deviceID, time.Now().UTC())
	if err != nil {
		return nil, MapDBError(err)
	}
	return &su, nil
}

// DeleteSessionByDeviceBun removes the session rows for a device. A
// non-zero userID restricts deletion to that user's session.
func DeleteSessionByDeviceBun(bdb *bun.DB, deviceID string, userID int64) error {
	ctx := context.Background()
	q := bdb.NewDelete().Model((*UserSessionModel)(nil)).Where("device_id = ?", deviceID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	_, err := q.Exec(ctx)
	return MapDBError(err)
}

// --- Admin audit operations ---

// LogAdminActionBun appends an entry to the audit trail.
func LogAdminActionBun(bdb *bun.DB, a model.AdminAction) error {
	ctx := context.Background()
	am := &AdminActionModel{
		AdminID:       a.AdminID,
		ActionType:    a.ActionType,
		ActionDetails: sql.NullString{String: a.ActionDetails, Valid: a.ActionDetails != ""},
		IPAddress:     sql.NullString{String: a.IPAddress, Valid: a.IPAddress != ""},
		CreatedAt:     time.Now().UTC(),
	}
	if a.AffectedUserID != nil {
		am.AffectedUserID = sql.NullInt64{Int64: *a.AffectedUserID, Valid: true}
	}
	_, err := bdb.NewInsert().Model(am).
		Column("admin_id", "action_type", "action_details", "affected_user_id", "ip_address", "created_at").
		Exec(ctx)
	return MapDBError(err)
}

// joinedAdminAction carries an audit row plus the resolved user names.
type joinedAdminAction struct {
	AdminActionModel
	AdminName        sql.NullString `bun:"admin_name"`
	AffectedUserName sql.NullString `bun:"affected_user_name"`
}

// ListAdminActionsBun returns audit entries, most recent first. A non-zero
// adminID restricts the listing to one administrator.
func ListAdminActionsBun(bdb *bun.DB, adminID int64, limit int) ([]model.AdminAction, error) {
	ctx := context.Background()
	var rows []joinedAdminAction
	q := bdb.NewSelect().Model(&rows).
		ModelTableExpr("admin_actions AS aa").
		ColumnExpr("aa.*").
		ColumnExpr("a.name AS admin_name").
		ColumnExpr("u.name AS affected_user_name").
		Join("LEFT JOIN users AS a ON aa.admin_id = a.id").
		Join("LEFT JOIN users AS u ON aa.affected_user_id = u.id").
		OrderExpr("aa.created_at DESC, aa.id DESC")
	if adminID != 0 {
		q = q.Where("aa.admin_id = ?", adminID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.AdminAction, 0, len(rows))
	for _, row := range rows {
		m := adminActionModelToModel(row.AdminActionModel)
		if row.AdminName.Valid {
			m.AdminName = row.AdminName.String
		}
		if row.AffectedUserName.Valid {
			m.AffectedUserName = row.AffectedUserName.String
		}
		out = append(out, m)
	}
	return out, nil
}

// --- Statistics ---

// GetStatsBun recomputes the aggregate counters with plain counting
// queries; nothing is cached. The 30-day activity block is only computed
// for global calls (userID == 0).
func GetStatsBun(bdb *bun.DB, userID int64) (model.Stats, error) {
	ctx := context.Background()
	var stats model.Stats

	n, err := bdb.NewSelect().Model((*UserModel)(nil)).Count(ctx)
	if err != nil {
		return stats, MapDBError(err)
	}
	stats.TotalUsers = n

	recQ := bdb.NewSelect().Model((*RecordModel)(nil))
	if userID != 0 {
		recQ = recQ.Where("user_id = ?", userID)
	}
	n, err = recQ.Count(ctx)
	if err != nil {
		return stats, MapDBError(err)
	}
	stats.TotalRecords = n

	n, err = bdb.NewSelect().Model((*UserModel)(nil)).Where("is_admin = ?", true).Count(ctx)
	if err != nil {
		return stats, MapDBError(err)
	}
	stats.TotalAdmins = n

	n, err = bdb.NewSelect().Model((*UserSessionModel)(nil)).Count(ctx)
	if err != nil {
		return stats, MapDBError(err)
	}
	stats.TotalSessions = n

	// Date cutoffs are computed here rather than with engine-specific
	// DATE() arithmetic so the same query runs on all three backends.
	now := time.Now().UTC()
	week := midnight(now.AddDate(0, 0, -7))
	weekQ := bdb.NewSelect().Model((*RecordModel)(nil)).Where("record_date >= ?", week)
	if userID != 0 {
		weekQ = weekQ.Where("user_id = ?", userID)
	}
	n, err = weekQ.Count(ctx)
	if err != nil {
		return stats, MapDBError(err)
	}
	stats.RecordsLast7Days = n

	if userID != 0 {
		return stats, nil
	}

	month := midnight(now.AddDate(0, 0, -30))
	var row struct {
		ActiveUsers int             `bun:"active_users"`
		AvgRecords  sql.NullFloat64 `bun:"avg_records"`
	}
	err = QueryRawInto(ctx, bdb, &row,
		`SELECT COUNT(*) AS active_users, AVG(per_user) AS avg_records FROM (
		     SELECT user_id, CAST(COUNT(*) AS FLOAT) AS per_user
		     FROM records WHERE record_date >= ?
		     GROUP BY user_id
		 ) AS t`, month)
	if err != nil {
		return stats, MapDBError(err)
	}
	stats.ActiveUsers30Days = row.ActiveUsers
	if row.AvgRecords.Valid {
		stats.AvgRecordsPerUser = math.Round(row.AvgRecords.Float64*100) / 100
	}
	return stats, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// requireRows converts a zero-row update/delete into ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil // driver without RowsAffected support; assume success
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
