// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovoronina/healthdiary/internal/i18n"
	"github.com/ovoronina/healthdiary/internal/rules"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and update the account profile",
	}
	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileUpdateCmd())
	cmd.AddCommand(profilePhotoCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			su, err := requireUser()
			if err != nil {
				return err
			}
			u, err := dbHandle.Store().GetUserByID(su.UserID)
			if err != nil {
				return err
			}
			fmt.Printf("name:   %s\n", u.Name)
			fmt.Printf("email:  %s\n", u.Email)
			fmt.Printf("since:  %s\n", u.CreatedAt.Format("2006-01-02"))
			if u.IsAdmin {
				fmt.Println("role:   admin")
			}
			if u.ProfilePhoto != "" {
				fmt.Println("photo:  set")
			}
			return nil
		},
	}
}

func profileUpdateCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change name and/or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			su, err := requireUser()
			if err != nil {
				return err
			}
			u, err := dbHandle.Store().GetUserByID(su.UserID)
			if err != nil {
				return err
			}
			newName, newEmail := u.Name, u.Email
			if name != "" {
				if newName, err = rules.Name(name); err != nil {
					return localizeErr(err)
				}
			}
			if email != "" {
				if newEmail, err = rules.Email(email); err != nil {
					return localizeErr(err)
				}
			}
			if err := dbHandle.Store().UpdateUserProfile(u.ID, newName, newEmail); err != nil {
				return err
			}
			fmt.Println(i18n.T("profile.updated"))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}

// profilePhotoCmd stores an image file as the base64 profile photo, the
// storage format the mobile clients expect.
func profilePhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "photo <file>",
		Short: "Set the profile photo from an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			su, err := requireUser()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			encoded := base64.StdEncoding.EncodeToString(data)
			if err := dbHandle.Store().UpdateUserPhoto(su.UserID, encoded); err != nil {
				return err
			}
			fmt.Println(i18n.T("profile.photo_updated"))
			return nil
		},
	}
}
