// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package rules

import "regexp"

// Strength is the qualitative password strength tier.
type Strength int

const (
	StrengthWeak Strength = iota
	StrengthMedium
	StrengthStrong
	StrengthVeryStrong
)

// String returns the English tier name; use LabelID with the i18n package
// for user-facing output.
func (s Strength) String() string {
	switch s {
	case StrengthMedium:
		return "Medium"
	case StrengthStrong:
		return "Strong"
	case StrengthVeryStrong:
		return "Very strong"
	default:
		return "Weak"
	}
}

// LabelID returns the i18n message ID for the tier.
func (s Strength) LabelID() string {
	switch s {
	case StrengthMedium:
		return "strength.medium"
	case StrengthStrong:
		return "strength.strong"
	case StrengthVeryStrong:
		return "strength.very_strong"
	default:
		return "strength.weak"
	}
}

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PasswordStrength scores a password across five independent checks
// (length >= 8, digit, uppercase, lowercase, special character) and maps
// the 0-5 score to a tier: <=2 Weak, 3 Medium, 4 Strong, 5 Very strong.
// Adding a missing character class never lowers the tier.
func PasswordStrength(password string) (Strength, int) {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if digitRe.MatchString(password) {
		score++
	}
	if upperRe.MatchString(password) {
		score++
	}
	if lowerRe.MatchString(password) {
		score++
	}
	if specialRe.MatchString(password) {
		score++
	}

	switch {
	case score <= 2:
		return StrengthWeak, score
	case score == 3:
		return StrengthMedium, score
	case score == 4:
		return StrengthStrong, score
	default:
		return StrengthVeryStrong, score
	}
}
