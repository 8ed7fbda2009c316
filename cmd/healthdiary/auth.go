// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ovoronina/healthdiary/internal/config"
	"github.com/ovoronina/healthdiary/internal/db"
	"github.com/ovoronina/healthdiary/internal/i18n"
	"github.com/ovoronina/healthdiary/internal/rules"
)

// registerCmd creates a new account and logs it in on this device.
func registerCmd() *cobra.Command {
	var email, name, password string
	var noRemember bool
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := password
			if pw == "" {
				var err error
				if pw, err = promptPassword("Password: "); err != nil {
					return err
				}
				strength, _ := rules.PasswordStrength(pw)
				fmt.Println(i18n.T(strength.LabelID()))
				confirm, err := promptPassword("Confirm password: ")
				if err != nil {
					return err
				}
				if _, err := rules.Password(pw, &confirm); err != nil {
					return localizeErr(err)
				}
			}
			u, err := session.Register(email, pw, pw, name, !noRemember)
			if err != nil {
				return localizeErr(err)
			}
			fmt.Println(i18n.Tf("auth.registered", map[string]any{"Name": u.Name}))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&noRemember, "no-remember", false, "do not keep a session on this device")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// loginCmd authenticates and, unless told otherwise, remembers the session
// on this device for the configured number of days.
func loginCmd() *cobra.Command {
	var email, password string
	var noRemember bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := password
			if pw == "" {
				var err error
				if pw, err = promptPassword("Password: "); err != nil {
					return err
				}
			}
			u, err := session.Login(email, pw, !noRemember)
			if err != nil {
				return localizeErr(err)
			}
			fmt.Println(i18n.Tf("auth.login_ok", map[string]any{"Name": u.Name}))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&noRemember, "no-remember", false, "do not keep a session on this device")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// logoutCmd deletes the device's session row.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := session.TryAutoLogin(); err != nil {
				return err
			}
			if err := session.Logout(); err != nil {
				return localizeErr(err)
			}
			fmt.Println(i18n.T("auth.logged_out"))
			return nil
		},
	}
}

// guestCmd starts guest mode: local-only storage, nothing persisted about
// the session itself.
func guestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Start a guest session on local storage",
		Long: `Starts a guest session and prints its generated guest ID. Guest
sessions always use the local database and never save a session row, so a
guest on a shared machine leaves no account trace.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			guestID := session.EnterGuest()
			handle, err := guestHandle(appCfg, dbHandle, session.ForceLocal())
			if err != nil {
				return errors.New(i18n.Tf("db.error_init", map[string]any{"Err": err.Error()}))
			}
			dbHandle = handle
			fmt.Println(i18n.T("auth.guest_on"))
			fmt.Printf("guest id: %s\n", guestID)
			fmt.Printf("storage: %s\n", dbHandle.Mode())
			return nil
		},
	}
}

// guestHandle returns the storage handle a guest session must use. A
// handle already on local storage (including fallback) is kept; a remote
// handle is replaced by one pinned to the local database.
func guestHandle(cfg config.Config, current *db.Handle, forceLocal bool) (*db.Handle, error) {
	if !forceLocal || current.Mode() != db.ModeRemote {
		return current, nil
	}
	return db.Open(db.Config{
		Backend:    cfg.DBBackend(),
		LocalPath:  cfg.Database.LocalPath,
		ForceLocal: true,
	})
}

// whoamiCmd prints the session resolved for this device.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			role := "user"
			if u.IsAdmin {
				role = "admin"
			}
			fmt.Printf("%s <%s> (%s)\n", u.Name, u.Email, role)
			return nil
		},
	}
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read (pipes, tests).
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
