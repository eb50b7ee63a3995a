package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight overrides
}

// LoadCalibration loads scoring weights from a JSON calibration file.
// An empty path returns the defaults with no error. On read or parse
// failure the defaults are returned alongside the error so callers can
// degrade gracefully. Partial configurations are merged with defaults:
// only non-zero values override.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights into base weights. Only non-zero
// override values are applied, so a calibration file may set just the
// handful of weights being tuned.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base
	dst := fields(&result)
	src := fields(override)
	for i := range src {
		if *src[i].ptr != 0 {
			*dst[i].ptr = *src[i].ptr
		}
	}

	return &result
}

// logCalibrationOverrides logs which weights differ from the defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	def := fields(defaults)
	got := fields(loaded)
	for i := range def {
		if *got[i].ptr != *def[i].ptr {
			overrides = append(overrides, fmt.Sprintf("%s: %g -> %g",
				def[i].name, *def[i].ptr, *got[i].ptr))
		}
	}

	if len(overrides) > 0 {
		slog.Info("loaded scoring calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded scoring calibration (using all defaults)")
	}
}
