// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Health Diary using the
// Cobra library. It defines the root command, subcommands (register,
// login, record, admin, backup, ...) and the shared wiring: configuration,
// localization, database handle and session manager.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovoronina/healthdiary/internal/auth"
	"github.com/ovoronina/healthdiary/internal/config"
	"github.com/ovoronina/healthdiary/internal/db"
	"github.com/ovoronina/healthdiary/internal/deviceid"
	"github.com/ovoronina/healthdiary/internal/i18n"
	"github.com/ovoronina/healthdiary/internal/logging"
	"github.com/ovoronina/healthdiary/internal/model"
	"github.com/ovoronina/healthdiary/internal/rules"
)

var version = "dev" // set by the linker

var (
	cfgFile  string
	appCfg   config.Config
	dbHandle *db.Handle
	session  *auth.Manager
)

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command. Tests create
// fresh instances from here so runs stay isolated.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthdiary",
		Short: "Health Diary tracks personal health metrics.",
		Long: `Health Diary is a personal health journal: weight, blood pressure,
pulse, temperature and free-form notes, one record per measurement.

Data lives in SQLite by default; a shared MySQL or PostgreSQL backend can
be configured, with automatic fallback to the local database when the
server is unreachable.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation: show a short status.
			ok, err := session.TryAutoLogin()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(i18n.T("auth.not_logged_in"))
				return nil
			}
			u := session.CurrentUser()
			records, err := dbHandle.Store().GetRecordsByUser(u.UserID)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>, %d records (%s storage)\n",
				u.Name, u.Email, len(records), dbHandle.Mode())
			return nil
		},
	}

	cmd.AddCommand(registerCmd())
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(guestCmd())
	cmd.AddCommand(whoamiCmd())
	cmd.AddCommand(recordCmd())
	cmd.AddCommand(profileCmd())
	cmd.AddCommand(settingsCmd())
	cmd.AddCommand(adminCmd())
	cmd.AddCommand(backupCmd())
	cmd.AddCommand(maintenanceCmd())

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is healthdiary.yaml in the user config dir or current dir)")
	cmd.PersistentFlags().String("db-type", "sqlite", "database backend (sqlite, mysql, postgres)")
	cmd.PersistentFlags().String("db-dsn", "", "remote database connection string (DSN)")
	cmd.PersistentFlags().Bool("local", false, "force the local SQLite database")
	cmd.PersistentFlags().String("lang", "en", `interface language ("en", "ru")`)
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Flag names map onto config keys through viper in config.Load.
	mustBindFlag(cmd, "database.type", "db-type")
	mustBindFlag(cmd, "database.dsn", "db-dsn")
	mustBindFlag(cmd, "database.force_local", "local")
	mustBindFlag(cmd, "language", "lang")
	mustBindFlag(cmd, "debug", "debug")

	return cmd
}

// flagBindings maps config keys to persistent flag names; config.Load
// resolves them through viper.
var flagBindings = map[string]string{}

func mustBindFlag(cmd *cobra.Command, key, flag string) {
	if cmd.PersistentFlags().Lookup(flag) == nil {
		panic(fmt.Sprintf("unknown flag %q for config key %q", flag, key))
	}
	flagBindings[key] = flag
}

// setupApp loads configuration, initializes localization and logging,
// opens the database per the connection policy and builds the session
// manager. Runs before every subcommand.
func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)
	appCfg = cfg

	logging.SetDebug(cfg.Debug)
	i18n.Init(cfg.Language)

	if path, err := config.WriteDefaultConfig(); err != nil {
		logging.Debugf("could not write default config: %v", err)
	} else {
		logging.Debugf("config file: %s", path)
	}

	handle, err := db.Open(db.Config{
		Backend:    cfg.DBBackend(),
		DSN:        cfg.Database.DSN,
		LocalPath:  cfg.Database.LocalPath,
		ForceLocal: cfg.Database.ForceLocal,
	})
	if err != nil {
		return errors.New(i18n.Tf("db.error_init", map[string]any{"Err": err.Error()}))
	}
	if handle.Mode() == db.ModeFallback {
		fmt.Println(i18n.Tf("db.fallback", map[string]any{"Backend": cfg.DBBackend()}))
	}
	dbHandle = handle

	device, err := deviceid.Default()
	if err != nil {
		return err
	}
	opts := []auth.Option{}
	if cfg.SessionDays > 0 {
		opts = append(opts, auth.WithTTL(sessionTTL(cfg.SessionDays)))
	}
	session = auth.NewManager(handle.Store(), device, opts...)
	return nil
}

func sessionTTL(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

// applyFlagOverrides copies explicitly set persistent flags over the
// loaded config. Viper's own flag binding is global state; resolving the
// changed flags here keeps repeated invocations (and tests) independent.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	for key, name := range flagBindings {
		if !flags.Changed(name) {
			continue
		}
		switch key {
		case "database.type":
			cfg.Database.Type, _ = flags.GetString(name)
		case "database.dsn":
			cfg.Database.DSN, _ = flags.GetString(name)
		case "database.force_local":
			cfg.Database.ForceLocal, _ = flags.GetBool(name)
		case "language":
			cfg.Language, _ = flags.GetString(name)
		case "debug":
			cfg.Debug, _ = flags.GetBool(name)
		}
	}
}

// requireUser resolves the logged-in user via the device session. Commands
// that need an account call this first.
func requireUser() (*model.SessionUser, error) {
	ok, err := session.TryAutoLogin()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(i18n.T("auth.not_logged_in"))
	}
	return session.CurrentUser(), nil
}

// requireAdmin is requireUser plus the admin check.
func requireAdmin() (*model.SessionUser, error) {
	u, err := requireUser()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		return nil, errors.New(i18n.T("auth.admin_required"))
	}
	return u, nil
}

// localizeErr maps validation and auth sentinel errors to their localized
// messages; other errors pass through.
func localizeErr(err error) error {
	var verr *rules.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Message)
	}
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errors.New(i18n.T("auth.invalid_credentials"))
	case errors.Is(err, auth.ErrEmailTaken):
		return errors.New(i18n.T("auth.email_taken"))
	case errors.Is(err, auth.ErrNotLoggedIn):
		return errors.New(i18n.T("auth.not_logged_in"))
	}
	return err
}

// audit records an admin action; failures are logged, never surfaced. The
// audit trail must not break the operation it documents.
func audit(adminID int64, actionType, details string, affected *int64) {
	err := dbHandle.Store().LogAdminAction(model.AdminAction{
		AdminID:        adminID,
		ActionType:     actionType,
		ActionDetails:  details,
		AffectedUserID: affected,
	})
	if err != nil {
		logging.Warnf("audit log failed for %s: %v", actionType, err)
	}
}
