// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/ovoronina/healthdiary/internal/db"
	"github.com/ovoronina/healthdiary/internal/i18n"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Per-user application settings",
	}
	cmd.AddCommand(settingsGetCmd())
	cmd.AddCommand(settingsSetCmd())
	return cmd
}

// loadSettingsDoc parses the stored settings document into a map. A user
// without a settings row gets an empty map.
func loadSettingsDoc(userID int64) (map[string]any, error) {
	doc := map[string]any{}
	s, err := dbHandle.Store().GetUserSettings(userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return doc, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal([]byte(s.Settings), &doc); err != nil {
		return nil, fmt.Errorf("corrupt settings document: %w", err)
	}
	return doc, nil
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show all settings, or one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			doc, err := loadSettingsDoc(u.UserID)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				v, ok := doc[args[0]]
				if !ok {
					return fmt.Errorf("setting %q is not set", args[0])
				}
				fmt.Println(v)
				return nil
			}
			if len(doc) == 0 {
				return nil
			}
			out, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			doc, err := loadSettingsDoc(u.UserID)
			if err != nil {
				return err
			}
			doc[args[0]] = args[1]
			out, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			if err := dbHandle.Store().SaveUserSettings(u.UserID, string(out)); err != nil {
				return err
			}
			fmt.Println(i18n.T("settings.saved"))
			return nil
		},
	}
}
