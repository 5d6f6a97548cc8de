package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed analysis.yaml
var defaultAnalysisYAML []byte

type SignificanceThresholds struct {
	VeryStrong float64 `yaml:"very_strong"`
	Strong     float64 `yaml:"strong"`
	Moderate   float64 `yaml:"moderate"`
}

type CorrelationConfig struct {
	Threshold        float64                `yaml:"threshold"`
	MinDataPoints    int                    `yaml:"min_data_points"`
	LookbackDays     int                    `yaml:"lookback_days"`
	SampleSaturation int                    `yaml:"sample_saturation"`
	Significance     SignificanceThresholds `yaml:"significance"`
}

type PredictionConfig struct {
	LookbackDays int                `yaml:"lookback_days"`
	// MinRecords is counted in distinct local days with at least one record.
	MinRecords   int                `yaml:"min_records"`
	BaseAccuracy map[string]float64 `yaml:"base_accuracy"`
}

type SchedulingConfig struct {
	HistoryDays           int     `yaml:"history_days"`
	CurrentStateHours     int     `yaml:"current_state_hours"`
	DefaultResponseRate   float64 `yaml:"default_response_rate"`
	DefaultOptimalHours   []int   `yaml:"default_optimal_hours"`
	WindowPaddingHours    int     `yaml:"window_padding_hours"`
	PreferenceConfidence  float64 `yaml:"preference_confidence"`
	ActivationThreshold   float64 `yaml:"activation_threshold"`
	DeliveryWindowMinutes int     `yaml:"delivery_window_minutes"`
	CorrelationLimit      int     `yaml:"correlation_limit"`
}

type Timeouts struct {
	Read     time.Duration `yaml:"read"`
	Write    time.Duration `yaml:"write"`
	Dispatch time.Duration `yaml:"dispatch"`
	Weather  time.Duration `yaml:"weather"`
}

// Analysis tunes the three engines. Each engine receives its own section
// explicitly; nothing here is read from package state.
type Analysis struct {
	Correlation CorrelationConfig `yaml:"correlation"`
	Prediction  PredictionConfig  `yaml:"prediction"`
	Scheduling  SchedulingConfig  `yaml:"scheduling"`
	Timeouts    Timeouts          `yaml:"timeouts"`
}

// DefaultAnalysis returns the embedded tuning.
func DefaultAnalysis() Analysis {
	var a Analysis
	if err := yaml.Unmarshal(defaultAnalysisYAML, &a); err != nil {
		panic(fmt.Sprintf("embedded analysis.yaml: %v", err))
	}
	return a
}

// LoadAnalysis starts from the embedded defaults and overlays the file named
// by ANALYSIS_CONFIG_PATH when set. Keys missing from the file keep defaults.
func LoadAnalysis() (Analysis, error) {
	cfg := DefaultAnalysis()
	path := strings.TrimSpace(os.Getenv("ANALYSIS_CONFIG_PATH"))
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Analysis{}, fmt.Errorf("read analysis config: %w", err)
	}
	return ParseAnalysis(b, cfg)
}

// ParseAnalysis overlays raw YAML onto base and validates the result.
func ParseAnalysis(raw []byte, base Analysis) (Analysis, error) {
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Analysis{}, fmt.Errorf("parse analysis config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Analysis{}, err
	}
	return cfg, nil
}

func (a Analysis) Validate() error {
	c := a.Correlation
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("correlation.threshold must be in (0,1], got %v", c.Threshold)
	}
	if c.MinDataPoints < 2 {
		return errors.New("correlation.min_data_points must be at least 2")
	}
	if c.LookbackDays <= 0 {
		return errors.New("correlation.lookback_days must be positive")
	}
	if c.SampleSaturation <= 0 {
		return errors.New("correlation.sample_saturation must be positive")
	}
	s := c.Significance
	if !(s.VeryStrong >= s.Strong && s.Strong >= s.Moderate && s.Moderate > 0) {
		return errors.New("correlation.significance thresholds must descend very_strong >= strong >= moderate > 0")
	}
	if a.Prediction.LookbackDays <= 0 || a.Prediction.MinRecords <= 0 {
		return errors.New("prediction.lookback_days and prediction.min_records must be positive")
	}
	sc := a.Scheduling
	if sc.HistoryDays <= 0 || sc.CurrentStateHours <= 0 {
		return errors.New("scheduling.history_days and scheduling.current_state_hours must be positive")
	}
	for _, h := range sc.DefaultOptimalHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("scheduling.default_optimal_hours: %d out of range", h)
		}
	}
	if sc.ActivationThreshold < 0 {
		return errors.New("scheduling.activation_threshold must not be negative")
	}
	return nil
}
