package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultWeights spot-checks the product-tuned default constants.
func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"circle base", w.Circle.Base, 10},
		{"circle name match", w.Circle.NameMatch, 50},
		{"circle description match", w.Circle.DescriptionMatch, 30},
		{"circle fuzzy match", w.Circle.FuzzyMatch, 20},
		{"circle category match", w.Circle.CategoryMatch, 25},
		{"circle distance max", w.Circle.DistanceMax, 50},
		{"circle popularity cap", w.Circle.PopularityCap, 30},
		{"circle popularity per member", w.Circle.PopularityPerMember, 0.5},
		{"circle interest match", w.Circle.InterestMatch, 30},
		{"circle joined signal per circle", w.Circle.JoinedSignalPerCircle, 2},
		{"circle joined signal cap", w.Circle.JoinedSignalCap, 20},
		{"circle viewed bonus", w.Circle.ViewedBonus, 15},
		{"meetup base", w.Meetup.Base, 10},
		{"meetup title match", w.Meetup.TitleMatch, 50},
		{"meetup description match", w.Meetup.DescriptionMatch, 30},
		{"meetup upcoming", w.Meetup.Upcoming, 30},
		{"meetup distance max", w.Meetup.DistanceMax, 40},
		{"meetup high interest", w.Meetup.HighInterest, 20},
		{"meetup own circle", w.Meetup.OwnCircle, 40},
		{"meetup attendance signal cap", w.Meetup.AttendanceSignalCap, 15},
		{"meetup viewed bonus", w.Meetup.ViewedBonus, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %g, got %g", tt.expected, tt.got)
			}
		})
	}
}

// TestMergeCalibration verifies that only non-zero overrides are applied.
func TestMergeCalibration(t *testing.T) {
	base := DefaultWeights()
	override := &Weights{}
	override.Circle.NameMatch = 60
	override.Meetup.OwnCircle = 45

	merged := MergeCalibration(base, override)

	if merged.Circle.NameMatch != 60 {
		t.Errorf("expected circle name match 60, got %g", merged.Circle.NameMatch)
	}
	if merged.Meetup.OwnCircle != 45 {
		t.Errorf("expected meetup own circle 45, got %g", merged.Meetup.OwnCircle)
	}

	// Untouched values keep their defaults
	if merged.Circle.Base != 10 {
		t.Errorf("expected circle base to keep default 10, got %g", merged.Circle.Base)
	}
	if merged.Meetup.TitleMatch != 50 {
		t.Errorf("expected meetup title match to keep default 50, got %g", merged.Meetup.TitleMatch)
	}

	// Base must not be mutated
	if base.Circle.NameMatch != 50 {
		t.Errorf("merge mutated base: circle name match is %g", base.Circle.NameMatch)
	}
}

// TestMergeCalibration_NilInputs verifies nil handling.
func TestMergeCalibration_NilInputs(t *testing.T) {
	if got := MergeCalibration(nil, nil); got.Circle.Base != 10 {
		t.Errorf("expected defaults for nil base, got circle base %g", got.Circle.Base)
	}

	base := DefaultWeights()
	merged := MergeCalibration(base, nil)
	if *merged != *base {
		t.Error("expected copy of base for nil override")
	}
	if merged == base {
		t.Error("expected a distinct copy, got the same pointer")
	}
}

// TestLoadCalibration_EmptyPath verifies defaults are returned without error.
func TestLoadCalibration_EmptyPath(t *testing.T) {
	w, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("expected no error for empty path, got %v", err)
	}
	if w.Circle.NameMatch != 50 {
		t.Errorf("expected default circle name match 50, got %g", w.Circle.NameMatch)
	}
}

// TestLoadCalibration_MissingFile verifies graceful degradation to defaults.
func TestLoadCalibration_MissingFile(t *testing.T) {
	w, err := LoadCalibration("/nonexistent/calibration.json")
	if err == nil {
		t.Error("expected error for missing file")
	}
	if w == nil || w.Circle.Base != 10 {
		t.Error("expected defaults to be returned alongside the error")
	}
}

// TestLoadCalibration_PartialFile verifies a partial calibration merges with defaults.
func TestLoadCalibration_PartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibration.json")
	content := `{"version":"1","weights":{"circle":{"name_match":75},"meetup":{"upcoming":35}}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write calibration file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if w.Circle.NameMatch != 75 {
		t.Errorf("expected overridden circle name match 75, got %g", w.Circle.NameMatch)
	}
	if w.Meetup.Upcoming != 35 {
		t.Errorf("expected overridden meetup upcoming 35, got %g", w.Meetup.Upcoming)
	}
	if w.Circle.DescriptionMatch != 30 {
		t.Errorf("expected unlisted weight to keep default 30, got %g", w.Circle.DescriptionMatch)
	}
}

// TestLoadCalibration_InvalidJSON verifies parse failures fall back to defaults.
func TestLoadCalibration_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
	if w == nil || w.Meetup.Base != 10 {
		t.Error("expected defaults to be returned alongside the error")
	}
}
