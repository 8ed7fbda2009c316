// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ovoronina/healthdiary/internal/i18n"
	"github.com/ovoronina/healthdiary/internal/model"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}
	cmd.AddCommand(adminUsersCmd())
	cmd.AddCommand(adminRecordsCmd())
	cmd.AddCommand(adminPromoteCmd())
	cmd.AddCommand(adminDemoteCmd())
	cmd.AddCommand(adminDeleteUserCmd())
	cmd.AddCommand(adminAuditCmd())
	cmd.AddCommand(adminStatsCmd())
	return cmd
}

func adminUsersCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := requireAdmin()
			if err != nil {
				return err
			}
			users, err := dbHandle.Store().ListUsers(limit)
			if err != nil {
				return err
			}
			for _, u := range users {
				role := ""
				if u.IsAdmin {
					role = "  [admin]"
				}
				fmt.Printf("#%d %s <%s>  since %s%s\n",
					u.ID, u.Name, u.Email, u.CreatedAt.Format("2006-01-02"), role)
			}
			audit(admin.UserID, "list_users", fmt.Sprintf("limit=%d", limit), nil)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of users to show (0 = all)")
	return cmd
}

func adminRecordsCmd() *cobra.Command {
	var userID int64
	var limit int
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List records across users",
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := requireAdmin()
			if err != nil {
				return err
			}
			rows, err := dbHandle.Store().ListRecordsWithUsers(userID, limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(i18n.T("record.none"))
				return nil
			}
			for _, row := range rows {
				fmt.Printf("%s  (%s <%s>)\n", formatRecord(row.Record), row.UserName, row.UserEmail)
			}
			audit(admin.UserID, "list_records", fmt.Sprintf("user_id=%d limit=%d", userID, limit), nil)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "show records of one user only (0 = all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records to show (0 = all)")
	return cmd
}

func adminPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant administrator rights",
		Args:  cobra.ExactArgs(1),
		RunE:  setAdminRunE(true, "promote_user", "admin.promoted"),
	}
}

func adminDemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demote <email>",
		Short: "Revoke administrator rights",
		Args:  cobra.ExactArgs(1),
		RunE:  setAdminRunE(false, "demote_user", "admin.demoted"),
	}
}

// setAdminRunE builds the shared promote/demote handler.
func setAdminRunE(isAdmin bool, actionType, messageID string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		admin, err := requireAdmin()
		if err != nil {
			return err
		}
		target, err := dbHandle.Store().GetUserByEmail(args[0])
		if err != nil {
			return err
		}
		if err := dbHandle.Store().SetUserAdmin(target.ID, isAdmin); err != nil {
			return err
		}
		audit(admin.UserID, actionType, target.Email, &target.ID)
		fmt.Println(i18n.Tf(messageID, map[string]any{"Email": target.Email}))
		return nil
	}
}

func adminDeleteUserCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-user <email>",
		Short: "Delete a user and all their data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := requireAdmin()
			if err != nil {
				return err
			}
			target, err := dbHandle.Store().GetUserByEmail(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("deleting %s removes all their records; re-run with --yes to confirm", target.Email)
			}
			if err := dbHandle.Store().DeleteUser(target.ID); err != nil {
				return err
			}
			// The target row is gone; the audit entry keeps the email in
			// its details.
			audit(admin.UserID, "delete_user", target.Email, nil)
			fmt.Println(i18n.Tf("admin.user_deleted", map[string]any{"Email": target.Email}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func adminAuditCmd() *cobra.Command {
	var adminID int64
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the admin action log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			actions, err := dbHandle.Store().ListAdminActions(adminID, limit)
			if err != nil {
				return err
			}
			for _, a := range actions {
				fmt.Println(formatAuditEntry(a))
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&adminID, "admin", 0, "show actions of one administrator only (0 = all)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries to show (0 = all)")
	return cmd
}

func formatAuditEntry(a model.AdminAction) string {
	who := a.AdminName
	if who == "" {
		who = fmt.Sprintf("admin#%d", a.AdminID)
	}
	line := fmt.Sprintf("%s  %s  %s", a.CreatedAt.Format("2006-01-02 15:04"), who, a.ActionType)
	if a.AffectedUserName != "" {
		line += "  -> " + a.AffectedUserName
	}
	if a.ActionDetails != "" {
		line += "  (" + a.ActionDetails + ")"
	}
	return line
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			stats, err := dbHandle.Store().GetStats(0)
			if err != nil {
				return err
			}
			fmt.Printf("users:                 %d (%d admins)\n", stats.TotalUsers, stats.TotalAdmins)
			fmt.Printf("records:               %d\n", stats.TotalRecords)
			fmt.Printf("records last 7 days:   %d\n", stats.RecordsLast7Days)
			fmt.Printf("sessions:              %d\n", stats.TotalSessions)
			fmt.Printf("active users (30d):    %d\n", stats.ActiveUsers30Days)
			fmt.Printf("avg records per user:  %.2f\n", stats.AvgRecordsPerUser)
			return nil
		},
	}
}
