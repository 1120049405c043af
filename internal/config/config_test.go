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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeremyhahn/go-secretshare/pkg/crypto/rand"
	"github.com/jeremyhahn/go-secretshare/pkg/secretsharing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

// TestLoad_Success tests successful loading of a valid config file
func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `
scheme:
  threshold: 5
  total_shares: 6
  coefficient_min: -50
  coefficient_max: 50
  arithmetic: float

rng:
  mode: seeded
  seed: "reproducible"

logging:
  level: debug
  format: json

metrics:
  enabled: true
  textfile_path: /var/lib/node_exporter/secretshare.prom

output:
  format: table
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Scheme.Threshold != 5 || cfg.Scheme.TotalShares != 6 {
		t.Errorf("Expected 5-of-6 scheme, got %d-of-%d", cfg.Scheme.Threshold, cfg.Scheme.TotalShares)
	}
	if cfg.Scheme.CoefficientMin != -50 || cfg.Scheme.CoefficientMax != 50 {
		t.Errorf("Expected coefficient range [-50, 50), got [%d, %d)", cfg.Scheme.CoefficientMin, cfg.Scheme.CoefficientMax)
	}
	if cfg.Scheme.Arithmetic != "float" {
		t.Errorf("Expected float arithmetic, got %s", cfg.Scheme.Arithmetic)
	}
	if cfg.RNG.Mode != "seeded" || cfg.RNG.Seed != "reproducible" {
		t.Errorf("Unexpected rng config: %+v", cfg.RNG)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics to be enabled")
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Expected table output, got %s", cfg.Output.Format)
	}
}

// TestLoad_PartialUsesDefaults tests that omitted sections keep their defaults
func TestLoad_PartialUsesDefaults(t *testing.T) {
	path := writeConfig(t, `
scheme:
  threshold: 2
  total_shares: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	def := Default()
	if cfg.Scheme.CoefficientMin != def.Scheme.CoefficientMin || cfg.Scheme.CoefficientMax != def.Scheme.CoefficientMax {
		t.Errorf("Expected default coefficient range, got [%d, %d)", cfg.Scheme.CoefficientMin, cfg.Scheme.CoefficientMax)
	}
	if cfg.RNG.Mode != string(rand.ModeAuto) {
		t.Errorf("Expected auto rng mode, got %s", cfg.RNG.Mode)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected text output, got %s", cfg.Output.Format)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "scheme: [unterminated")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
scheme:
  threshold: 4
  total_shares: 3
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TPM_DEVICE_PATH", "/dev/tpmrm0")
	t.Setenv("PKCS11_LIBRARY", "/usr/lib/softhsm/libsofthsm2.so")
	t.Setenv("PKCS11_PIN", "1234")
	t.Setenv("PKCS11_SLOT", "7")

	cfg, err := Load(writeConfig(t, "rng:\n  mode: auto\n"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RNG.TPM2 == nil || cfg.RNG.TPM2.Device != "/dev/tpmrm0" {
		t.Errorf("Expected TPM device override, got %+v", cfg.RNG.TPM2)
	}
	if cfg.RNG.PKCS11 == nil {
		t.Fatal("Expected PKCS#11 config from environment")
	}
	if cfg.RNG.PKCS11.Module != "/usr/lib/softhsm/libsofthsm2.so" {
		t.Errorf("Unexpected module: %s", cfg.RNG.PKCS11.Module)
	}
	if cfg.RNG.PKCS11.PIN != "1234" || cfg.RNG.PKCS11.SlotID != 7 {
		t.Errorf("Unexpected PKCS#11 settings: %+v", cfg.RNG.PKCS11)
	}
}

func TestLoad_InvalidSlotKeepsValue(t *testing.T) {
	t.Setenv("PKCS11_SLOT", "not-a-number")

	cfg, err := Load(writeConfig(t, "rng:\n  pkcs11:\n    module: /lib/p11.so\n    slot_id: 2\n"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.RNG.PKCS11.SlotID != 2 {
		t.Errorf("Expected slot 2 to be kept, got %d", cfg.RNG.PKCS11.SlotID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"zero threshold", func(c *Config) { c.Scheme.Threshold = 0 }, "threshold"},
		{"total below threshold", func(c *Config) { c.Scheme.TotalShares = 2 }, "total_shares"},
		{"empty coefficient range", func(c *Config) { c.Scheme.CoefficientMax = c.Scheme.CoefficientMin }, "coefficient range"},
		{"unknown arithmetic", func(c *Config) { c.Scheme.Arithmetic = "decimal" }, "arithmetic"},
		{"unknown rng mode", func(c *Config) { c.RNG.Mode = "quantum" }, "quantum"},
		{"unknown fallback", func(c *Config) { c.RNG.FallbackMode = "quantum" }, "fallback_mode"},
		{"seeded without seed", func(c *Config) { c.RNG.Mode = "seeded" }, "seed"},
		{"seeded fallback without seed", func(c *Config) { c.RNG.FallbackMode = "seeded" }, "seed"},
		{"pkcs11 without module", func(c *Config) { c.RNG.Mode = "pkcs11" }, "module"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, "log level"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "console" }, "log format"},
		{"metrics without path", func(c *Config) { c.Metrics.Enabled = true }, "textfile_path"},
		{"unknown output", func(c *Config) { c.Output.Format = "xml" }, "output format"},
		{"empty rng mode is auto", func(c *Config) { c.RNG.Mode = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scheme.Threshold = 4
	cfg.Scheme.TotalShares = 7
	cfg.RNG.PKCS11 = &PKCS11Config{Module: "/lib/p11.so", SlotID: 1, PIN: "0000"}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Scheme.Threshold != 4 || loaded.Scheme.TotalShares != 7 {
		t.Errorf("Unexpected scheme after reload: %+v", loaded.Scheme)
	}
	if loaded.RNG.PKCS11 == nil || loaded.RNG.PKCS11.PIN != "0000" {
		t.Errorf("Unexpected pkcs11 after reload: %+v", loaded.RNG.PKCS11)
	}
}

func TestShareConfig(t *testing.T) {
	cfg := Default()
	cfg.Scheme.Arithmetic = "float"

	r := bytes.NewReader(nil)
	sc := cfg.ShareConfig(r)
	if sc.Threshold != 3 || sc.TotalShares != 5 {
		t.Errorf("Unexpected share config: %+v", sc)
	}
	if sc.Arithmetic != secretsharing.ArithmeticFloat {
		t.Errorf("Expected float arithmetic, got %s", sc.Arithmetic)
	}
	if sc.Rand != r {
		t.Error("Expected reader to be passed through")
	}

	if _, err := secretsharing.NewShamir(sc); err != nil {
		t.Errorf("NewShamir() rejected default config: %v", err)
	}
}

func TestRandConfig(t *testing.T) {
	cfg := Default()
	cfg.RNG.Mode = "seeded"
	cfg.RNG.FallbackMode = "software"
	cfg.RNG.Seed = "abc"
	cfg.RNG.TPM2 = &TPM2Config{Device: "/dev/tpm0", SimulatorPort: 2321}
	cfg.RNG.PKCS11 = &PKCS11Config{Module: "/lib/p11.so", SlotID: 3}

	rc := cfg.RandConfig()
	if rc.Mode != rand.ModeSeeded || rc.FallbackMode != rand.ModeSoftware {
		t.Errorf("Unexpected modes: %s / %s", rc.Mode, rc.FallbackMode)
	}
	if string(rc.Seed) != "abc" {
		t.Errorf("Unexpected seed: %q", rc.Seed)
	}
	if rc.TPM2Config == nil || rc.TPM2Config.Device != "/dev/tpm0" || rc.TPM2Config.SimulatorPort != 2321 {
		t.Errorf("Unexpected TPM2 config: %+v", rc.TPM2Config)
	}
	if rc.PKCS11Config == nil || rc.PKCS11Config.SlotID != 3 {
		t.Errorf("Unexpected PKCS#11 config: %+v", rc.PKCS11Config)
	}

	resolver, err := rand.NewResolver(rc)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	defer func() { _ = resolver.Close() }()
}

func TestLoggerOptions(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "JSON"

	var buf bytes.Buffer
	opts := cfg.LoggerOptions(&buf)
	if opts.Format != "json" {
		t.Errorf("Expected json format, got %s", opts.Format)
	}
	if opts.Output != &buf {
		t.Error("Expected output writer to be passed through")
	}
}
