// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-secretshare.
//
// go-secretshare is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jeremyhahn/go-secretshare/pkg/crypto/rand"
	"github.com/jeremyhahn/go-secretshare/pkg/logging"
	"github.com/jeremyhahn/go-secretshare/pkg/secretsharing"
	"gopkg.in/yaml.v3"
)

// Config represents the complete sharectl configuration
type Config struct {
	Scheme  SchemeConfig  `yaml:"scheme"`
	RNG     RNGConfig     `yaml:"rng"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Output  OutputConfig  `yaml:"output"`
}

// SchemeConfig contains the default threshold scheme parameters
type SchemeConfig struct {
	Threshold      int    `yaml:"threshold"`
	TotalShares    int    `yaml:"total_shares"`
	CoefficientMin int64  `yaml:"coefficient_min"`
	CoefficientMax int64  `yaml:"coefficient_max"`
	Arithmetic     string `yaml:"arithmetic"` // exact, float
}

// RNGConfig selects the randomness source
type RNGConfig struct {
	Mode         string `yaml:"mode"`          // auto, software, seeded, tpm2, pkcs11
	FallbackMode string `yaml:"fallback_mode"` // used when the primary source fails
	Seed         string `yaml:"seed"`          // seeded mode only; never use for real secrets

	TPM2   *TPM2Config   `yaml:"tpm2,omitempty"`
	PKCS11 *PKCS11Config `yaml:"pkcs11,omitempty"`
}

// TPM2Config contains TPM 2.0 RNG settings
type TPM2Config struct {
	Device        string `yaml:"device"`
	UseSimulator  bool   `yaml:"use_simulator"`
	SimulatorHost string `yaml:"simulator_host"`
	SimulatorPort int    `yaml:"simulator_port"`
}

// PKCS11Config contains PKCS#11 RNG settings
type PKCS11Config struct {
	Module string `yaml:"module"`
	SlotID uint   `yaml:"slot_id"`
	PIN    string `yaml:"pin"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	TextfilePath string `yaml:"textfile_path"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Format string `yaml:"format"` // text, json, table
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Scheme: SchemeConfig{
			Threshold:      3,
			TotalShares:    5,
			CoefficientMin: secretsharing.DefaultCoefficientMin,
			CoefficientMax: secretsharing.DefaultCoefficientMax,
			Arithmetic:     string(secretsharing.ArithmeticExact),
		},
		RNG: RNGConfig{
			Mode: string(rand.ModeAuto),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults and
// applies environment variable overrides
func Load(path string) (*Config, error) {
	// #nosec G304 - Config file path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML. The file may carry a
// PKCS#11 PIN or an RNG seed, so it is created owner-readable only.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies hardware environment variable overrides.
// Scheme, logging and output settings are bound by the CLI through
// SECRETSHARE_* variables instead.
func applyEnvOverrides(cfg *Config) {
	if device := os.Getenv("TPM_DEVICE_PATH"); device != "" {
		if cfg.RNG.TPM2 == nil {
			cfg.RNG.TPM2 = &TPM2Config{}
		}
		cfg.RNG.TPM2.Device = device
	}

	if module := os.Getenv("PKCS11_LIBRARY"); module != "" {
		if cfg.RNG.PKCS11 == nil {
			cfg.RNG.PKCS11 = &PKCS11Config{}
		}
		cfg.RNG.PKCS11.Module = module
	}
	if cfg.RNG.PKCS11 != nil {
		if pin := os.Getenv("PKCS11_PIN"); pin != "" {
			cfg.RNG.PKCS11.PIN = pin
		}
		if slot := os.Getenv("PKCS11_SLOT"); slot != "" {
			id, err := strconv.ParseUint(slot, 10, 32)
			if err != nil {
				log.Printf("Warning: invalid PKCS11_SLOT value %q, using %d: %v",
					slot, cfg.RNG.PKCS11.SlotID, err)
			} else {
				cfg.RNG.PKCS11.SlotID = uint(id)
			}
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scheme.Threshold < 1 {
		return fmt.Errorf("scheme threshold must be at least 1, got %d", c.Scheme.Threshold)
	}
	if c.Scheme.TotalShares < c.Scheme.Threshold {
		return fmt.Errorf("scheme total_shares (%d) must be >= threshold (%d)",
			c.Scheme.TotalShares, c.Scheme.Threshold)
	}
	if c.Scheme.CoefficientMin >= c.Scheme.CoefficientMax {
		return fmt.Errorf("scheme coefficient range [%d, %d) is empty",
			c.Scheme.CoefficientMin, c.Scheme.CoefficientMax)
	}
	if !secretsharing.Arithmetic(c.Scheme.Arithmetic).Valid() {
		return fmt.Errorf("invalid arithmetic: %s (must be exact or float)", c.Scheme.Arithmetic)
	}

	mode, err := rand.ParseMode(c.RNG.Mode)
	if err != nil {
		return err
	}
	if c.RNG.FallbackMode != "" {
		if _, err := rand.ParseMode(c.RNG.FallbackMode); err != nil {
			return fmt.Errorf("invalid fallback_mode: %w", err)
		}
	}
	if (mode == rand.ModeSeeded || rand.Mode(c.RNG.FallbackMode) == rand.ModeSeeded) && c.RNG.Seed == "" {
		return fmt.Errorf("rng seed is required for seeded mode")
	}
	if mode == rand.ModePKCS11 && (c.RNG.PKCS11 == nil || c.RNG.PKCS11.Module == "") {
		return fmt.Errorf("rng pkcs11 module is required for pkcs11 mode")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics textfile_path is required when metrics are enabled")
	}

	validOutputs := map[string]bool{"text": true, "json": true, "table": true}
	if !validOutputs[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("invalid output format: %s (must be text, json, or table)", c.Output.Format)
	}

	return nil
}

// ShareConfig converts the scheme section into a secretsharing.ShareConfig
// drawing randomness from r
func (c *Config) ShareConfig(r io.Reader) *secretsharing.ShareConfig {
	return &secretsharing.ShareConfig{
		Threshold:      c.Scheme.Threshold,
		TotalShares:    c.Scheme.TotalShares,
		CoefficientMin: c.Scheme.CoefficientMin,
		CoefficientMax: c.Scheme.CoefficientMax,
		Arithmetic:     secretsharing.Arithmetic(c.Scheme.Arithmetic),
		Rand:           r,
	}
}

// RandConfig converts the rng section into a rand.Config
func (c *Config) RandConfig() *rand.Config {
	cfg := &rand.Config{
		Mode:         rand.Mode(c.RNG.Mode),
		FallbackMode: rand.Mode(c.RNG.FallbackMode),
	}
	if c.RNG.Seed != "" {
		cfg.Seed = []byte(c.RNG.Seed)
	}
	if t := c.RNG.TPM2; t != nil {
		cfg.TPM2Config = &rand.TPM2Config{
			Device:        t.Device,
			UseSimulator:  t.UseSimulator,
			SimulatorHost: t.SimulatorHost,
			SimulatorPort: t.SimulatorPort,
		}
	}
	if p := c.RNG.PKCS11; p != nil {
		cfg.PKCS11Config = &rand.PKCS11Config{
			Module: p.Module,
			SlotID: p.SlotID,
			PIN:    p.PIN,
		}
	}
	return cfg
}

// LoggerOptions converts the logging section into logging.Options
func (c *Config) LoggerOptions(out io.Writer) logging.Options {
	return logging.Options{
		Level:  c.Logging.Level,
		Format: logging.Format(strings.ToLower(c.Logging.Format)),
		Output: out,
	}
}
