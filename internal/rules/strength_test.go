// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package rules

import (
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestPasswordStrengthTiers(t *testing.T) {
	tests := []struct {
		pw    string
		tier  Strength
		score int
	}{
		{"", StrengthWeak, 0},
		{"abc", StrengthWeak, 1},
		{"abc123", StrengthWeak, 2},
		{"abcdef12", StrengthMedium, 3},
		{"Abcdef12", StrengthStrong, 4},
		{"Abcdef12!", StrengthVeryStrong, 5},
		{"PASS123!", StrengthStrong, 4},
	}
	for _, tt := range tests {
		tier, score := PasswordStrength(tt.pw)
		if tier != tt.tier || score != tt.score {
			t.Errorf("PasswordStrength(%q) = (%v, %d), want (%v, %d)",
				tt.pw, tier, score, tt.tier, tt.score)
		}
	}
}

func TestPasswordStrengthMonotonic(t *testing.T) {
	// Appending characters that add a missing class must never lower the
	// score.
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringMatching(`[a-z]{0,12}`).Draw(t, "base")
		_, before := PasswordStrength(base)

		extended := base + "A1!"
		_, after := PasswordStrength(extended)
		if after < before {
			t.Fatalf("score dropped from %d to %d after adding classes (%q -> %q)",
				before, after, base, extended)
		}
	})
}

func TestWeightRoundTrip(t *testing.T) {
	// Any in-range value survives format -> parse, with either separator.
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.Float64Range(WeightMin, WeightMax).Draw(t, "weight")
		text := strconv.FormatFloat(w, 'f', -1, 64)
		if rapid.Bool().Draw(t, "comma") {
			text = strings.ReplaceAll(text, ".", ",")
		}
		got, err := Weight(text)
		if err != nil {
			t.Fatalf("Weight(%q): %v", text, err)
		}
		if got != w {
			t.Fatalf("Weight(%q) = %v, want %v", text, got, w)
		}
	})
}

func TestStrengthLabels(t *testing.T) {
	if StrengthWeak.String() != "Weak" || StrengthVeryStrong.String() != "Very strong" {
		t.Error("unexpected tier names")
	}
	if StrengthMedium.LabelID() != "strength.medium" {
		t.Errorf("unexpected label ID %s", StrengthMedium.LabelID())
	}
}
