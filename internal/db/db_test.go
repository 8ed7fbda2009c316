// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ovoronina/healthdiary/internal/model"
)

var testDBCounter atomic.Int64

// newTestStore opens a fresh in-memory SQLite store with migrations
// applied. Each call gets its own database.
func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:healthdiary_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	s, err := NewStoreFromDSN(BackendSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return s
}

func addTestUser(t *testing.T, s Store, email, name string) int64 {
	t.Helper()
	id, err := s.AddUser(email, "hash-"+email, name, false)
	if err != nil {
		t.Fatalf("AddUser(%s): %v", email, err)
	}
	return id
}

func fptr(f float64) *float64 { return &f }
func iptr(n int) *int         { return &n }

func TestMigrationsApplied(t *testing.T) {
	dsn := fmt.Sprintf("file:healthdiary_migr_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	if err := RunMigrations(sqlDB, BackendSQLite); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	for _, table := range []string{"users", "records", "user_settings", "user_sessions", "admin_actions"} {
		var name string
		err := sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migrations: %v", table, err)
		}
	}

	var version string
	if err := sqlDB.QueryRow("SELECT version FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("schema_migrations not recorded: %v", err)
	}
	if version != "0001_init" {
		t.Errorf("recorded version = %s, want 0001_init", version)
	}

	// Re-running must be a no-op.
	if err := RunMigrations(sqlDB, BackendSQLite); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
}

func TestAddAndGetUser(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddUser("olga@example.com", "somehash", "Olga", false)
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if id == 0 {
		t.Fatal("AddUser returned zero id")
	}

	u, err := s.GetUserByEmail("olga@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.ID != id || u.Name != "Olga" || u.PasswordHash != "somehash" {
		t.Errorf("unexpected user %+v", u)
	}
	if u.IsAdmin {
		t.Error("new user should not be admin")
	}

	byID, err := s.GetUserByID(id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != "olga@example.com" {
		t.Errorf("GetUserByID email = %s", byID.Email)
	}

	if _, err := s.GetUserByEmail("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestAddUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "olga@example.com", "Olga")

	_, err := s.AddUser("olga@example.com", "otherhash", "Other", false)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email: got %v, want ErrDuplicate", err)
	}

	taken, err := s.IsEmailTaken("olga@example.com")
	if err != nil || !taken {
		t.Errorf("IsEmailTaken = (%v, %v), want (true, nil)", taken, err)
	}
	taken, err = s.IsEmailTaken("free@example.com")
	if err != nil || taken {
		t.Errorf("IsEmailTaken free = (%v, %v), want (false, nil)", taken, err)
	}
}

func TestUpdateUserProfileAndPhoto(t *testing.T) {
	s := newTestStore(t)
	id := addTestUser(t, s, "olga@example.com", "Olga")

	if err := s.UpdateUserProfile(id, "Olga V", "olga.v@example.com"); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	u, err := s.GetUserByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Olga V" || u.Email != "olga.v@example.com" {
		t.Errorf("profile not updated: %+v", u)
	}

	if err := s.UpdateUserPhoto(id, "aGVsbG8="); err != nil {
		t.Fatalf("UpdateUserPhoto: %v", err)
	}
	u, _ = s.GetUserByID(id)
	if u.ProfilePhoto != "aGVsbG8=" {
		t.Errorf("photo = %q", u.ProfilePhoto)
	}
	photo, err := u.PhotoBytes()
	if err != nil || string(photo) != "hello" {
		t.Errorf("PhotoBytes = (%q, %v)", photo, err)
	}

	// Clearing the photo stores NULL.
	if err := s.UpdateUserPhoto(id, ""); err != nil {
		t.Fatal(err)
	}
	u, _ = s.GetUserByID(id)
	if u.ProfilePhoto != "" {
		t.Errorf("photo not cleared: %q", u.ProfilePhoto)
	}

	if err := s.UpdateUserProfile(9999, "X Y", "x@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing user: got %v, want ErrNotFound", err)
	}
}

func TestSetUserAdminAndList(t *testing.T) {
	s := newTestStore(t)
	id1 := addTestUser(t, s, "a@example.com", "Anna")
	addTestUser(t, s, "b@example.com", "Boris")

	if err := s.SetUserAdmin(id1, true); err != nil {
		t.Fatalf("SetUserAdmin: %v", err)
	}
	u, _ := s.GetUserByID(id1)
	if !u.IsAdmin {
		t.Error("admin flag not set")
	}

	users, err := s.ListUsers(0)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers returned %d users", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Error("ListUsers must not expose password hashes")
		}
	}

	users, _ = s.ListUsers(1)
	if len(users) != 1 {
		t.Errorf("ListUsers(1) returned %d users", len(users))
	}
}

func TestRecordLifecycle(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	date := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	id, err := s.AddRecord(&model.Record{
		UserID:            uid,
		RecordDate:        date,
		Weight:            fptr(70.5),
		PressureSystolic:  iptr(120),
		PressureDiastolic: iptr(80),
		Pulse:             iptr(75),
		Temperature:       fptr(36.6),
		Notes:             "morning measurement",
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	records, err := s.GetRecordsByUser(uid)
	if err != nil {
		t.Fatalf("GetRecordsByUser: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	r := records[0]
	if r.ID != id || *r.Weight != 70.5 || *r.PressureSystolic != 120 ||
		*r.PressureDiastolic != 80 || *r.Pulse != 75 || *r.Temperature != 36.6 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Notes != "morning measurement" {
		t.Errorf("notes = %q", r.Notes)
	}
	if !r.RecordDate.Equal(date) {
		t.Errorf("record date = %v, want %v", r.RecordDate, date)
	}

	// Partial update: only weight, everything else NULL.
	if err := s.UpdateRecord(&model.Record{ID: id, UserID: uid, Weight: fptr(71.0)}); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	records, _ = s.GetRecordsByUser(uid)
	r = records[0]
	if *r.Weight != 71.0 {
		t.Errorf("weight = %v", *r.Weight)
	}
	if r.Pulse != nil || r.Temperature != nil || r.Notes != "" {
		t.Errorf("cleared fields survived update: %+v", r)
	}

	if err := s.DeleteRecord(id); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	records, _ = s.GetRecordsByUser(uid)
	if len(records) != 0 {
		t.Errorf("record not deleted")
	}
	if err := s.DeleteRecord(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestRecordsNullMetrics(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	id, err := s.AddRecord(&model.Record{
		UserID:     uid,
		RecordDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Pulse:      iptr(62),
	})
	if err != nil {
		t.Fatal(err)
	}
	records, _ := s.GetRecordsByUser(uid)
	if len(records) != 1 || records[0].ID != id {
		t.Fatalf("unexpected records %+v", records)
	}
	r := records[0]
	if r.Weight != nil || r.PressureSystolic != nil || r.PressureDiastolic != nil || r.Temperature != nil {
		t.Errorf("unset metrics must stay nil: %+v", r)
	}
	if *r.Pulse != 62 {
		t.Errorf("pulse = %d", *r.Pulse)
	}
}

func TestRecordsOrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	for _, day := range []int{10, 12, 11} {
		_, err := s.AddRecord(&model.Record{
			UserID:     uid,
			RecordDate: time.Date(2025, 5, day, 0, 0, 0, 0, time.UTC),
			Weight:     fptr(70),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	records, err := s.GetRecordsByUser(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	days := []int{records[0].RecordDate.Day(), records[1].RecordDate.Day(), records[2].RecordDate.Day()}
	if days[0] != 12 || days[1] != 11 || days[2] != 10 {
		t.Errorf("order = %v, want [12 11 10]", days)
	}
}

func TestListRecordsWithUsers(t *testing.T) {
	s := newTestStore(t)
	uid1 := addTestUser(t, s, "a@example.com", "Anna")
	uid2 := addTestUser(t, s, "b@example.com", "Boris")

	for _, uid := range []int64{uid1, uid2} {
		_, err := s.AddRecord(&model.Record{
			UserID:     uid,
			RecordDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
			Weight:     fptr(70),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	rows, err := s.ListRecordsWithUsers(0, 0)
	if err != nil {
		t.Fatalf("ListRecordsWithUsers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	for _, row := range rows {
		if row.UserName == "" || row.UserEmail == "" {
			t.Errorf("join missing user data: %+v", row)
		}
	}

	rows, err = s.ListRecordsWithUsers(uid1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].UserName != "Anna" {
		t.Errorf("per-user filter failed: %+v", rows)
	}
}

func TestUserSettingsUpsert(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	if _, err := s.GetUserSettings(uid); !errors.Is(err, ErrNotFound) {
		t.Errorf("settings before save: got %v, want ErrNotFound", err)
	}

	if err := s.SaveUserSettings(uid, "theme: dark\n"); err != nil {
		t.Fatalf("SaveUserSettings: %v", err)
	}
	got, err := s.GetUserSettings(uid)
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if got.Settings != "theme: dark\n" {
		t.Errorf("settings = %q", got.Settings)
	}
	firstID := got.ID

	// Saving again updates the same row.
	if err := s.SaveUserSettings(uid, "theme: light\n"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetUserSettings(uid)
	if got.Settings != "theme: light\n" {
		t.Errorf("settings after update = %q", got.Settings)
	}
	if got.ID != firstID {
		t.Errorf("update created a new row: %d -> %d", firstID, got.ID)
	}
}

func TestSessionSaveAndLookup(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	expires := time.Now().UTC().Add(24 * time.Hour)
	if err := s.SaveSession(uid, "device-1", "token-1", expires); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	su, err := s.GetSessionByDevice("device-1")
	if err != nil {
		t.Fatalf("GetSessionByDevice: %v", err)
	}
	if su.UserID != uid || su.Email != "olga@example.com" || su.Name != "Olga" {
		t.Errorf("unexpected session user %+v", su)
	}

	if _, err := s.GetSessionByDevice("device-unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown device: got %v, want ErrNotFound", err)
	}
}

func TestSessionUpsertReplaces(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	expires := time.Now().UTC().Add(24 * time.Hour)
	if err := s.SaveSession(uid, "device-1", "token-1", expires); err != nil {
		t.Fatal(err)
	}
	// Logging in again on the same device replaces the row instead of
	// accumulating sessions.
	if err := s.SaveSession(uid, "device-1", "token-2", expires.Add(time.Hour)); err != nil {
		t.Fatalf("second SaveSession: %v", err)
	}

	stats, err := s.GetStats(0)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSessions != 1 {
		t.Errorf("sessions = %d, want 1 after upsert", stats.TotalSessions)
	}
}

func TestSessionUserSwitchEvictsPrevious(t *testing.T) {
	s := newTestStore(t)
	first := addTestUser(t, s, "olga@example.com", "Olga")
	second := addTestUser(t, s, "ivan@example.com", "Ivan")

	expires := time.Now().UTC().Add(24 * time.Hour)
	if err := s.SaveSession(first, "shared-tablet", "tok-olga", expires); err != nil {
		t.Fatal(err)
	}
	// A different user logging in on the same device takes it over; the
	// device never holds two live sessions at once.
	if err := s.SaveSession(second, "shared-tablet", "tok-ivan", expires); err != nil {
		t.Fatalf("second user's SaveSession: %v", err)
	}

	su, err := s.GetSessionByDevice("shared-tablet")
	if err != nil {
		t.Fatalf("GetSessionByDevice: %v", err)
	}
	if su.UserID != second {
		t.Errorf("device resolves to user %d, want %d", su.UserID, second)
	}

	stats, err := s.GetStats(0)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSessions != 1 {
		t.Errorf("sessions = %d, want 1 after user switch", stats.TotalSessions)
	}
}

func TestSessionTwoDevicesIndependent(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	expires := time.Now().UTC().Add(24 * time.Hour)
	if err := s.SaveSession(uid, "phone", "tok-a", expires); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession(uid, "laptop", "tok-b", expires); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSessionByDevice("phone", uid); err != nil {
		t.Fatalf("DeleteSessionByDevice: %v", err)
	}
	if _, err := s.GetSessionByDevice("phone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("phone session should be gone: %v", err)
	}
	if _, err := s.GetSessionByDevice("laptop"); err != nil {
		t.Errorf("laptop session should survive: %v", err)
	}
}

func TestSessionExpired(t *testing.T) {
	s := newTestStore(t)
	uid := addTestUser(t, s, "olga@example.com", "Olga")

	// Already expired on save.
	if err := s.SaveSession(uid, "device-1", "token-1", time.Now().UTC().Add(-time.Second)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSessionByDevice("device-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session: got %v, want ErrNotFound", err)
	}

	// The boundary itself counts as expired: expires_at must be strictly
	// in the future.
	if err := s.SaveSession(uid, "device-2", "token-2", time.Now().UTC()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSessionByDevice("device-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("boundary session: got %v, want ErrNotFound", err)
	}
}

func TestAdminActions(t *testing.T) {
	s := newTestStore(t)
	adminID := addTestUser(t, s, "admin@example.com", "Admin")
	targetID := addTestUser(t, s, "user@example.com", "User")
	_ = s.SetUserAdmin(adminID, true)

	err := s.LogAdminAction(model.AdminAction{
		AdminID:        adminID,
		ActionType:     "promote_user",
		ActionDetails:  "user@example.com",
		AffectedUserID: &targetID,
	})
	if err != nil {
		t.Fatalf("LogAdminAction: %v", err)
	}
	err = s.LogAdminAction(model.AdminAction{AdminID: adminID, ActionType: "list_users"})
	if err != nil {
		t.Fatal(err)
	}

	actions, err := s.ListAdminActions(0, 0)
	if err != nil {
		t.Fatalf("ListAdminActions: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("got %d actions", len(actions))
	}
	// Joined names resolve.
	var promote *model.AdminAction
	for i := range actions {
		if actions[i].ActionType == "promote_user" {
			promote = &actions[i]
		}
	}
	if promote == nil {
		t.Fatal("promote_user entry missing")
	}
	if promote.AdminName != "Admin" || promote.AffectedUserName != "User" {
		t.Errorf("joined names = %q / %q", promote.AdminName, promote.AffectedUserName)
	}
	if promote.AffectedUserID == nil || *promote.AffectedUserID != targetID {
		t.Error("affected user id lost")
	}

	actions, _ = s.ListAdminActions(adminID, 1)
	if len(actions) != 1 {
		t.Errorf("limit ignored: %d entries", len(actions))
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	adminID := addTestUser(t, s, "admin@example.com", "Admin")
	uid := addTestUser(t, s, "olga@example.com", "Olga")
	_ = s.SetUserAdmin(adminID, true)

	_, err := s.AddRecord(&model.Record{
		UserID:     uid,
		RecordDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Weight:     fptr(70),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUserSettings(uid, "theme: dark\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession(uid, "device-1", "tok", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.LogAdminAction(model.AdminAction{
		AdminID: adminID, ActionType: "promote_user", AffectedUserID: &uid,
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUser(uid); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := s.GetUserByID(uid); !errors.Is(err, ErrNotFound) {
		t.Errorf("user still present: %v", err)
	}
	records, _ := s.GetRecordsByUser(uid)
	if len(records) != 0 {
		t.Error("records survived user deletion")
	}
	if _, err := s.GetUserSettings(uid); !errors.Is(err, ErrNotFound) {
		t.Error("settings survived user deletion")
	}
	if _, err := s.GetSessionByDevice("device-1"); !errors.Is(err, ErrNotFound) {
		t.Error("session survived user deletion")
	}

	// The audit entry stays, with the user reference cleared.
	actions, err := s.ListAdminActions(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 1 {
		t.Fatalf("audit trail lost: %d entries", len(actions))
	}
	if actions[0].AffectedUserID != nil {
		t.Error("affected_user_id should be cleared after user deletion")
	}

	if err := s.DeleteUser(uid); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	uid1 := addTestUser(t, s, "a@example.com", "Anna")
	uid2 := addTestUser(t, s, "b@example.com", "Boris")
	_ = s.SetUserAdmin(uid1, true)

	today := time.Now().UTC()
	old := today.AddDate(0, 0, -60)
	for _, rec := range []model.Record{
		{UserID: uid1, RecordDate: today, Weight: fptr(70)},
		{UserID: uid1, RecordDate: today.AddDate(0, 0, -1), Weight: fptr(70)},
		{UserID: uid2, RecordDate: old, Weight: fptr(80)},
	} {
		r := rec
		if _, err := s.AddRecord(&r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SaveSession(uid1, "device-1", "tok", today.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats(0)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.TotalAdmins != 1 || stats.TotalRecords != 3 || stats.TotalSessions != 1 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.RecordsLast7Days != 2 {
		t.Errorf("RecordsLast7Days = %d, want 2", stats.RecordsLast7Days)
	}
	if stats.ActiveUsers30Days != 1 {
		t.Errorf("ActiveUsers30Days = %d, want 1", stats.ActiveUsers30Days)
	}
	if stats.AvgRecordsPerUser != 2.0 {
		t.Errorf("AvgRecordsPerUser = %v, want 2.0", stats.AvgRecordsPerUser)
	}

	// Per-user stats: record counters scoped, activity block skipped.
	stats, err = s.GetStats(uid2)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecords != 1 || stats.RecordsLast7Days != 0 {
		t.Errorf("per-user stats = %+v", stats)
	}
	if stats.ActiveUsers30Days != 0 || stats.AvgRecordsPerUser != 0 {
		t.Errorf("activity block must stay zero for per-user stats: %+v", stats)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	src := newTestStore(t)
	uid := addTestUser(t, src, "olga@example.com", "Olga")
	adminID := addTestUser(t, src, "admin@example.com", "Admin")
	_ = src.SetUserAdmin(adminID, true)

	_, err := src.AddRecord(&model.Record{
		UserID:     uid,
		RecordDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Weight:     fptr(70.5),
		Notes:      "backup me",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := src.SaveUserSettings(uid, "theme: dark\n"); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveSession(uid, "device-1", "tok", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := src.LogAdminAction(model.AdminAction{AdminID: adminID, ActionType: "backup_export"}); err != nil {
		t.Fatal(err)
	}

	backup, err := src.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if backup.SchemaVersion != 1 {
		t.Errorf("schema version = %d", backup.SchemaVersion)
	}
	if len(backup.Users) != 2 || len(backup.Records) != 1 || len(backup.UserSettings) != 1 ||
		len(backup.UserSessions) != 1 || len(backup.AdminActions) != 1 {
		t.Fatalf("unexpected backup sizes: %+v", backup)
	}

	dst := newTestStore(t)
	// Pre-existing data must be wiped by the import.
	addTestUser(t, dst, "stale@example.com", "Stale")

	if err := dst.ImportData(backup); err != nil {
		t.Fatalf("ImportData: %v", err)
	}

	if _, err := dst.GetUserByEmail("stale@example.com"); !errors.Is(err, ErrNotFound) {
		t.Error("import did not replace existing data")
	}
	u, err := dst.GetUserByEmail("olga@example.com")
	if err != nil {
		t.Fatalf("restored user missing: %v", err)
	}
	if u.ID != uid {
		t.Errorf("restored user ID = %d, want %d", u.ID, uid)
	}
	records, _ := dst.GetRecordsByUser(uid)
	if len(records) != 1 || records[0].Notes != "backup me" || *records[0].Weight != 70.5 {
		t.Errorf("restored records = %+v", records)
	}
	settings, err := dst.GetUserSettings(uid)
	if err != nil || settings.Settings != "theme: dark\n" {
		t.Errorf("restored settings = (%+v, %v)", settings, err)
	}
	if _, err := dst.GetSessionByDevice("device-1"); err != nil {
		t.Errorf("restored session lookup: %v", err)
	}
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{sql.ErrNoRows, ErrNotFound},
		{errors.New("UNIQUE constraint failed: users.email"), ErrDuplicate},
		{errors.New("Error 1062: Duplicate entry"), ErrDuplicate},
		{errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"), ErrDuplicate},
		{errors.New("dial tcp: connection refused"), ErrConnection},
		{errors.New("dial tcp: lookup dbhost: no such host"), ErrConnection},
	}
	for _, tt := range tests {
		got := MapDBError(tt.in)
		if tt.want == nil {
			if got != nil {
				t.Errorf("MapDBError(%v) = %v, want nil", tt.in, got)
			}
			continue
		}
		if !errors.Is(got, tt.want) {
			t.Errorf("MapDBError(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\nCREATE INDEX i ON a(id);\n")
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
}

func TestOpenPolicy(t *testing.T) {
	// ForceLocal pins to sqlite even with a remote backend configured.
	h, err := Open(Config{
		Backend:    BackendMySQL,
		DSN:        "user:pw@tcp(unreachable:3306)/healthdiary",
		LocalPath:  fmt.Sprintf("file:policy_%d?mode=memory&cache=shared", testDBCounter.Add(1)),
		ForceLocal: true,
	})
	if err != nil {
		t.Fatalf("Open forced local: %v", err)
	}
	if h.Mode() != ModeLocal || h.Backend() != BackendSQLite {
		t.Errorf("forced local: mode=%s backend=%s", h.Mode(), h.Backend())
	}

	// Mobile platforms always use the local database.
	oldGoos := goos
	goos = "android"
	defer func() { goos = oldGoos }()
	h, err = Open(Config{
		Backend:   BackendPostgres,
		DSN:       "postgres://unreachable/db",
		LocalPath: fmt.Sprintf("file:policy_%d?mode=memory&cache=shared", testDBCounter.Add(1)),
	})
	if err != nil {
		t.Fatalf("Open on android: %v", err)
	}
	if h.Mode() != ModeLocal || h.Backend() != BackendSQLite {
		t.Errorf("android: mode=%s backend=%s", h.Mode(), h.Backend())
	}
}

func TestOpenFallsBackToLocal(t *testing.T) {
	failing := func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "sqlite" {
			return nil, errors.New("dial tcp: connection refused")
		}
		return sql.Open(driverName, dsn)
	}
	oldOpen := sqlOpenFunc
	sqlOpenFunc = failing
	defer func() { sqlOpenFunc = oldOpen }()

	h, err := Open(Config{
		Backend:   BackendMySQL,
		DSN:       "user:pw@tcp(unreachable:3306)/healthdiary",
		LocalPath: fmt.Sprintf("file:fallback_%d?mode=memory&cache=shared", testDBCounter.Add(1)),
	})
	if err != nil {
		t.Fatalf("Open with unreachable remote: %v", err)
	}
	if h.Mode() != ModeFallback {
		t.Errorf("mode = %s, want fallback", h.Mode())
	}
	if h.Backend() != BackendSQLite {
		t.Errorf("backend = %s, want sqlite", h.Backend())
	}
	// The fallback store is fully usable.
	if _, err := h.Store().AddUser("olga@example.com", "hash", "Olga", false); err != nil {
		t.Errorf("fallback store unusable: %v", err)
	}
}
