// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovoronina/healthdiary/internal/db"
	"github.com/ovoronina/healthdiary/internal/i18n"
	"github.com/ovoronina/healthdiary/internal/model"
	"github.com/ovoronina/healthdiary/internal/rules"
)

// recordFlags holds the raw metric inputs of a record command. All values
// are strings so the validators can report format errors on the exact
// input the user typed.
type recordFlags struct {
	date      string
	weight    string
	systolic  string
	diastolic string
	pulse     string
	temp      string
	notes     string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "record date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.weight, "weight", "", "weight in kg, e.g. 70.5")
	cmd.Flags().StringVar(&f.systolic, "systolic", "", "systolic pressure, e.g. 120")
	cmd.Flags().StringVar(&f.diastolic, "diastolic", "", "diastolic pressure, e.g. 80")
	cmd.Flags().StringVar(&f.pulse, "pulse", "", "pulse in bpm, e.g. 75")
	cmd.Flags().StringVar(&f.temp, "temp", "", "body temperature in °C, e.g. 36.6")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form note")
}

// toRecord validates all set metrics and builds the record. Unset metrics
// stay nil and map to NULL columns.
func (f *recordFlags) toRecord(userID int64) (*model.Record, error) {
	r := &model.Record{UserID: userID}

	if f.date == "" {
		now := time.Now().UTC()
		r.RecordDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		d, err := time.Parse("2006-01-02", f.date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", f.date)
		}
		r.RecordDate = d
	}

	if f.weight != "" {
		w, err := rules.Weight(f.weight)
		if err != nil {
			return nil, err
		}
		r.Weight = &w
	}
	if f.systolic != "" {
		v, err := rules.PressureSystolic(f.systolic)
		if err != nil {
			return nil, err
		}
		r.PressureSystolic = &v
	}
	if f.diastolic != "" {
		v, err := rules.PressureDiastolic(f.diastolic)
		if err != nil {
			return nil, err
		}
		r.PressureDiastolic = &v
	}
	if f.pulse != "" {
		v, err := rules.Pulse(f.pulse)
		if err != nil {
			return nil, err
		}
		r.Pulse = &v
	}
	if f.temp != "" {
		t, err := rules.Temperature(f.temp)
		if err != nil {
			return nil, err
		}
		r.Temperature = &t
	}
	notes, err := rules.Notes(f.notes)
	if err != nil {
		return nil, err
	}
	r.Notes = notes

	if r.Weight == nil && r.PressureSystolic == nil && r.PressureDiastolic == nil &&
		r.Pulse == nil && r.Temperature == nil {
		return nil, errors.New(i18n.T("record.empty"))
	}
	return r, nil
}

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage diary records",
	}
	cmd.AddCommand(recordAddCmd())
	cmd.AddCommand(recordListCmd())
	cmd.AddCommand(recordEditCmd())
	cmd.AddCommand(recordDeleteCmd())
	return cmd
}

func recordAddCmd() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a diary record",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			r, err := flags.toRecord(u.UserID)
			if err != nil {
				return localizeErr(err)
			}
			if _, err := dbHandle.Store().AddRecord(r); err != nil {
				return err
			}
			fmt.Println(i18n.T("record.saved"))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func recordListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diary records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			records, err := dbHandle.Store().GetRecordsByUser(u.UserID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println(i18n.T("record.none"))
				return nil
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			for _, r := range records {
				fmt.Println(formatRecord(r))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records to show (0 = all)")
	return cmd
}

func recordEditCmd() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the metrics of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			existing, err := findOwnRecord(u.UserID, id)
			if err != nil {
				return err
			}
			r, err := flags.toRecord(u.UserID)
			if err != nil {
				return localizeErr(err)
			}
			r.ID = existing.ID
			if err := dbHandle.Store().UpdateRecord(r); err != nil {
				return err
			}
			fmt.Println(i18n.T("record.updated"))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func recordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser()
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			if _, err := findOwnRecord(u.UserID, id); err != nil {
				return err
			}
			if err := dbHandle.Store().DeleteRecord(id); err != nil {
				return err
			}
			fmt.Println(i18n.T("record.deleted"))
			return nil
		},
	}
}

// findOwnRecord checks that the record exists and belongs to the user.
// Editing someone else's record reports "not found" rather than leaking
// its existence.
func findOwnRecord(userID, id int64) (*model.Record, error) {
	records, err := dbHandle.Store().GetRecordsByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, db.ErrNotFound
}

// formatRecord renders one record line for the list view.
func formatRecord(r model.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", r.ID, r.RecordDate.Format("2006-01-02"))
	if r.Weight != nil {
		fmt.Fprintf(&b, "  %.1f kg", *r.Weight)
	}
	if r.PressureSystolic != nil && r.PressureDiastolic != nil {
		fmt.Fprintf(&b, "  %d/%d mmHg", *r.PressureSystolic, *r.PressureDiastolic)
	} else if r.PressureSystolic != nil {
		fmt.Fprintf(&b, "  %d/- mmHg", *r.PressureSystolic)
	} else if r.PressureDiastolic != nil {
		fmt.Fprintf(&b, "  -/%d mmHg", *r.PressureDiastolic)
	}
	if r.Pulse != nil {
		fmt.Fprintf(&b, "  %d bpm", *r.Pulse)
	}
	if r.Temperature != nil {
		fmt.Fprintf(&b, "  %.1f °C", *r.Temperature)
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "  %s", r.Notes)
	}
	return b.String()
}
