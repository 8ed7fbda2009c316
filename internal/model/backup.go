// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is a container for all data to be exported for a backup.
// It holds slices of all the core tables in Health Diary.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`

	Users        []User         `json:"users" yaml:"users"`
	Records      []Record       `json:"records" yaml:"records"`
	UserSettings []UserSettings `json:"user_settings" yaml:"user_settings"`
	UserSessions []UserSession  `json:"user_sessions" yaml:"user_sessions"`
	AdminActions []AdminAction  `json:"admin_actions" yaml:"admin_actions"`
}
