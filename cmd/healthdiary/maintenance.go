// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ovoronina/healthdiary/internal/db"
	"github.com/ovoronina/healthdiary/internal/i18n"
)

// maintenanceCmd runs the engine-specific maintenance routine for the
// configured backend.
func maintenanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maintenance",
		Short: "Run database maintenance (vacuum, optimize, integrity check)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			err := db.RunMaintenance(db.Config{
				Backend:    appCfg.DBBackend(),
				DSN:        appCfg.Database.DSN,
				LocalPath:  appCfg.Database.LocalPath,
				ForceLocal: appCfg.Database.ForceLocal,
			})
			if err != nil {
				return err
			}
			fmt.Println(i18n.T("maintenance.done"))
			return nil
		},
	}
}
