// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package rules holds the pure validation functions for all user input.
// Every validator takes the raw form string, and either returns the parsed,
// normalized value or a *ValidationError whose message is ready to be shown
// to the user verbatim.
//
// Canonical ranges: weight 20-500 kg, temperature 30-45 °C. This module is
// the single source of truth for them; no caller carries its own bounds.
package rules

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ovoronina/healthdiary/internal/i18n"
)

// Validation bounds for the health metrics.
const (
	WeightMin      = 20.0
	WeightMax      = 500.0
	SystolicMin    = 70
	SystolicMax    = 250
	DiastolicMin   = 40
	DiastolicMax   = 150
	PulseMin       = 30
	PulseMax       = 220
	TemperatureMin = 30.0
	TemperatureMax = 45.0
	NotesMaxLen    = 500
	NameMinLen     = 2
	NameMaxLen     = 100
	PasswordMinLen = 6
)

// ValidationError is a user-correctable input error. Message is localized
// and safe to display as-is.
type ValidationError struct {
	Field     string
	MessageID string
	Message   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

func fail(field, messageID string, data map[string]any) *ValidationError {
	return &ValidationError{Field: field, MessageID: messageID, Message: i18n.Tf(messageID, data)}
}

var (
	emailRe  = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.[a-zA-Z0-9-.]+$`)
	nameRe   = regexp.MustCompile(`^[\p{L}][\p{L} '-]*$`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	markupRe = regexp.MustCompile(`<[^>]*>`)

	// notesPolicy strips every HTML element; it is only used to detect
	// markup, never to clean it.
	notesPolicy = bluemonday.StrictPolicy()
)

// Email validates the conservative local@domain.tld shape and returns the
// trimmed address.
func Email(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" || !emailRe.MatchString(v) {
		return "", fail("email", "rules.email_invalid", nil)
	}
	return v, nil
}

// Name validates a display name: 2-100 characters after trimming, letters,
// spaces, hyphens and apostrophes only.
func Name(value string) (string, error) {
	v := strings.TrimSpace(value)
	n := len([]rune(v))
	if n < NameMinLen || n > NameMaxLen {
		return "", fail("name", "rules.name_length", map[string]any{"Min": NameMinLen, "Max": NameMaxLen})
	}
	if !nameRe.MatchString(v) {
		return "", fail("name", "rules.name_charset", nil)
	}
	return v, nil
}

// Password validates password complexity. When confirm is non-nil both
// values must be equal.
func Password(password string, confirm *string) (string, error) {
	if password == "" {
		return "", fail("password", "rules.password_empty", nil)
	}
	if len(password) < PasswordMinLen {
		return "", fail("password", "rules.password_too_short", map[string]any{"Min": PasswordMinLen})
	}
	if confirm != nil && password != *confirm {
		return "", fail("password", "rules.password_mismatch", nil)
	}
	if !digitRe.MatchString(password) {
		return "", fail("password", "rules.password_needs_digit", nil)
	}
	if !upperRe.MatchString(password) {
		return "", fail("password", "rules.password_needs_upper", nil)
	}
	return password, nil
}

// parseDecimal accepts either comma or dot as the decimal separator.
func parseDecimal(value string) (float64, bool) {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

// Weight parses and validates a weight in kilograms.
func Weight(value string) (float64, error) {
	data := map[string]any{"Min": int(WeightMin), "Max": int(WeightMax)}
	f, ok := parseDecimal(value)
	if !ok {
		return 0, fail("weight", "rules.weight_format", data)
	}
	if f < WeightMin || f > WeightMax {
		return 0, fail("weight", "rules.weight_range", data)
	}
	return f, nil
}

// PressureSystolic parses and validates a systolic pressure in mmHg.
func PressureSystolic(value string) (int, error) {
	data := map[string]any{"Min": SystolicMin, "Max": SystolicMax}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fail("pressure_systolic", "rules.systolic_format", data)
	}
	if n < SystolicMin || n > SystolicMax {
		return 0, fail("pressure_systolic", "rules.systolic_range", data)
	}
	return n, nil
}

// PressureDiastolic parses and validates a diastolic pressure in mmHg.
func PressureDiastolic(value string) (int, error) {
	data := map[string]any{"Min": DiastolicMin, "Max": DiastolicMax}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fail("pressure_diastolic", "rules.diastolic_format", data)
	}
	if n < DiastolicMin || n > DiastolicMax {
		return 0, fail("pressure_diastolic", "rules.diastolic_range", data)
	}
	return n, nil
}

// Pulse parses and validates a pulse in beats per minute.
func Pulse(value string) (int, error) {
	data := map[string]any{"Min": PulseMin, "Max": PulseMax}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fail("pulse", "rules.pulse_format", data)
	}
	if n < PulseMin || n > PulseMax {
		return 0, fail("pulse", "rules.pulse_range", data)
	}
	return n, nil
}

// Temperature parses and validates a body temperature in °C.
func Temperature(value string) (float64, error) {
	data := map[string]any{"Min": int(TemperatureMin), "Max": int(TemperatureMax)}
	f, ok := parseDecimal(value)
	if !ok {
		return 0, fail("temperature", "rules.temperature_format", data)
	}
	if f < TemperatureMin || f > TemperatureMax {
		return 0, fail("temperature", "rules.temperature_range", data)
	}
	return f, nil
}

// Notes validates an optional free-text note: at most 500 characters after
// trimming, no markup. Returns the trimmed text.
func Notes(value string) (string, error) {
	text := strings.TrimSpace(value)
	if len([]rune(text)) > NotesMaxLen {
		return "", fail("notes", "rules.notes_too_long", map[string]any{"Max": NotesMaxLen})
	}
	if containsMarkup(text) {
		return "", fail("notes", "rules.notes_markup", nil)
	}
	return text, nil
}

// containsMarkup reports whether text carries any <...> tag. The strict
// sanitizer pass additionally catches entity-escaped markup like &lt;b&gt;.
func containsMarkup(text string) bool {
	if markupRe.MatchString(text) {
		return true
	}
	stripped := html.UnescapeString(notesPolicy.Sanitize(text))
	return stripped != text
}
