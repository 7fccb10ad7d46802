package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries everything the conversion and analysis pipelines need.
// It is passed explicitly into the core packages so concurrent requests
// can run with independent settings.
type Config struct {
	// Semitone all output pitches are measured against. 69 = A4 (440 Hz).
	ReferencePitch uint8 `yaml:"reference_pitch"`
	// Zero-based drum channel, excluded from output by default.
	// 9 is MIDI channel 10.
	DrumChannel uint8 `yaml:"drum_channel"`
	// Maximum encoded length of a single formula section.
	MaxFormulaLength int `yaml:"max_formula_length"`

	Soundfonts SoundfontConfig `yaml:"soundfonts"`
	Server     ServerConfig    `yaml:"server"`
}

type SoundfontConfig struct {
	Dir     string `yaml:"dir"`
	Default string `yaml:"default"`
}

type ServerConfig struct {
	Port                    int            `yaml:"port"`
	FileExpirationMinutes   int            `yaml:"file_expiration_minutes"`
	RefreshThresholdMinutes int            `yaml:"refresh_threshold_minutes"`
	MaxFileSizeMB           int64          `yaml:"max_file_size_mb"`
	Limits                  AnalysisLimits `yaml:"limits"`
}

// AnalysisLimits bound the harmonic-analysis parameters accepted from
// callers. Values outside these ranges are rejected, not clamped.
type AnalysisLimits struct {
	MinSamples   int     `yaml:"min_samples"`
	MaxSamples   int     `yaml:"max_samples"`
	MinStartTime float64 `yaml:"min_start_time"`
	MaxStartTime float64 `yaml:"max_start_time"`
	MinBaseFreq  float64 `yaml:"min_base_freq"`
	MaxBaseFreq  float64 `yaml:"max_base_freq"`
	MinHarmonics int     `yaml:"min_harmonics"`
	MaxHarmonics int     `yaml:"max_harmonics"`
	MinBoost     float64 `yaml:"min_boost"`
	MaxBoost     float64 `yaml:"max_boost"`
}

// Default returns the compiled-in configuration, used whenever no
// config file is present.
func Default() Config {
	return Config{
		ReferencePitch:   69,
		DrumChannel:      9,
		MaxFormulaLength: 20000,
		Soundfonts: SoundfontConfig{
			Dir:     "soundfonts",
			Default: "default.txt",
		},
		Server: ServerConfig{
			Port:                    8573,
			FileExpirationMinutes:   10,
			RefreshThresholdMinutes: 5,
			MaxFileSizeMB:           80,
			Limits: AnalysisLimits{
				MinSamples:   64,
				MaxSamples:   65536,
				MinStartTime: 0.0,
				MaxStartTime: 300.0,
				MinBaseFreq:  1.0,
				MaxBaseFreq:  20000.0,
				MinHarmonics: 1,
				MaxHarmonics: 256,
				MinBoost:     0.5,
				MaxBoost:     2.0,
			},
		},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// tries "config.yaml"; a missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %v: %w", path, err)
	}
	return cfg, nil
}
