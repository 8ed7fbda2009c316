// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ovoronina/healthdiary/internal/i18n"
	"github.com/ovoronina/healthdiary/internal/model"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import the full database",
	}
	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())
	return cmd
}

func backupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all data to a YAML backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := requireAdmin()
			if err != nil {
				return err
			}
			backup, err := dbHandle.Store().ExportData()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(backup)
			if err != nil {
				return err
			}
			// 0600: the backup contains password hashes and session tokens.
			if err := os.WriteFile(args[0], data, 0600); err != nil {
				return err
			}
			audit(admin.UserID, "backup_export", args[0], nil)
			fmt.Println(i18n.Tf("backup.exported", map[string]any{"Path": args[0]}))
			return nil
		},
	}
}

func backupImportCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a YAML backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := requireAdmin()
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("importing replaces all existing data; re-run with --yes to confirm")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var backup model.BackupData
			if err := yaml.Unmarshal(data, &backup); err != nil {
				return fmt.Errorf("invalid backup file: %w", err)
			}
			if err := dbHandle.Store().ImportData(&backup); err != nil {
				return err
			}
			audit(admin.UserID, "backup_import", args[0], nil)
			fmt.Println(i18n.Tf("backup.imported", map[string]any{"Path": args[0]}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive import")
	return cmd
}
