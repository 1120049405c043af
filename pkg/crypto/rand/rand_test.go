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

package rand

import (
	"bytes"
	"testing"
)

func TestNewResolver_SoftwareMode(t *testing.T) {
	resolver, err := NewResolver(ModeSoftware)
	if err != nil {
		t.Fatalf("failed to create software resolver: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Fatal("software resolver should be available")
	}
}

func TestNewResolver_NilConfig(t *testing.T) {
	// nil config should default to auto mode
	resolver, err := NewResolver(nil)
	if err != nil {
		t.Fatalf("failed to create resolver with nil config: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Fatal("resolver should be available")
	}
}

func TestNewResolver_Mode(t *testing.T) {
	resolver, err := NewResolver(ModeSoftware)
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Fatal("resolver should be available")
	}
}

func TestNewResolver_Config(t *testing.T) {
	cfg := &Config{Mode: ModeSoftware}
	resolver, err := NewResolver(cfg)
	if err != nil {
		t.Fatalf("failed to create resolver with config: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Fatal("resolver should be available")
	}
}

func TestNewResolver_InvalidMode(t *testing.T) {
	cfg := &Config{Mode: "invalid"}
	_, err := NewResolver(cfg)
	if err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestSoftwareResolver_Rand(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	// Test various sizes
	sizes := []int{1, 16, 32, 64, 256, 1024}
	for _, size := range sizes {
		result, err := resolver.Rand(size)
		if err != nil {
			t.Fatalf("Rand(%d) failed: %v", size, err)
		}
		if len(result) != size {
			t.Fatalf("expected %d bytes, got %d", size, len(result))
		}
	}
}

func TestSoftwareResolver_RandZeroBytes(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	result, err := resolver.Rand(0)
	if err != nil {
		t.Fatalf("Rand(0) failed: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected 0 bytes, got %d", len(result))
	}
}

func TestSoftwareResolver_RandRandomness(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	// Generate multiple random buffers and verify they're different
	buf1, _ := resolver.Rand(32)
	buf2, _ := resolver.Rand(32)

	if bytes.Equal(buf1, buf2) {
		t.Fatal("consecutive random buffers should not be equal")
	}
}

func TestSoftwareResolver_RandEntropy(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	// Generate many bytes and verify they have good entropy
	// (not all zeros or all ones)
	buf, _ := resolver.Rand(256)

	var zeroCount, oneCount int
	for _, b := range buf {
		switch b {
		case 0:
			zeroCount++
		case 255:
			oneCount++
		}
	}

	// Should not have too many zeros or ones
	if zeroCount > 20 || oneCount > 20 {
		t.Logf("warning: high count of zero/one bytes: zeros=%d, ones=%d", zeroCount, oneCount)
	}
}

func TestSoftwareResolver_Available(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Fatal("software resolver should always be available")
	}
}

func TestSoftwareResolver_Close(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	err := resolver.Close()
	if err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
}

func TestNormalizeConfig_Nil(t *testing.T) {
	cfg := normalizeConfig(nil)
	if cfg == nil || cfg.Mode != ModeAuto {
		t.Fatal("normalizeConfig(nil) should return auto mode config")
	}
}

func TestNormalizeConfig_Mode(t *testing.T) {
	cfg := normalizeConfig(ModeSoftware)
	if cfg == nil || cfg.Mode != ModeSoftware {
		t.Fatal("normalizeConfig(Mode) should return config with that mode")
	}
}

func TestNormalizeConfig_Config(t *testing.T) {
	input := &Config{Mode: ModeSoftware, Seed: []byte("s")}
	cfg := normalizeConfig(input)
	if cfg.Mode != ModeSoftware || string(cfg.Seed) != "s" {
		t.Fatalf("normalizeConfig(*Config) = %+v, want copy of input", cfg)
	}
}

func TestNormalizeConfig_EmptyModeNotMutated(t *testing.T) {
	input := &Config{}
	cfg := normalizeConfig(input)
	if cfg.Mode != ModeAuto {
		t.Fatalf("expected auto mode, got %q", cfg.Mode)
	}
	if input.Mode != "" {
		t.Fatal("normalizeConfig should not mutate the caller's config")
	}
}

func TestNormalizeConfig_NilConfig(t *testing.T) {
	var nilCfg *Config
	cfg := normalizeConfig(nilCfg)
	if cfg == nil || cfg.Mode != ModeAuto {
		t.Fatal("normalizeConfig(nil *Config) should return auto mode config")
	}
}

func TestNormalizeConfig_InvalidType(t *testing.T) {
	cfg := normalizeConfig("invalid")
	if cfg == nil || cfg.Mode != ModeAuto {
		t.Fatal("normalizeConfig(invalid type) should return auto mode config")
	}
}

func TestResolver_Source(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	source := resolver.Source()
	if source == nil {
		t.Fatal("Source() should return non-nil source")
	}

	// Source should work the same as resolver
	buf, err := source.Rand(32)
	if err != nil {
		t.Fatalf("Source.Rand() failed: %v", err)
	}
	if len(buf) != 32 {
		t.Fatalf("expected 32 bytes from Source, got %d", len(buf))
	}
}

func TestResolver_Available(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Fatal("software resolver should be available")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"software", ModeSoftware, false},
		{"seeded", ModeSeeded, false},
		{"tpm2", ModeTPM2, false},
		{"pkcs11", ModePKCS11, false},
		{"hardware", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMode(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSoftwareResolver_Read(t *testing.T) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	buf := make([]byte, 64)
	n, err := resolver.Read(buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read() returned %d bytes, want %d", n, len(buf))
	}
}

func TestNewResolver_UnavailableHardwareWithFallback(t *testing.T) {
	// without the pkcs11 build tag the primary fails and the fallback is used
	if pkcs11Available() {
		t.Skip("pkcs11 support compiled in")
	}

	resolver, err := NewResolver(&Config{Mode: ModePKCS11, FallbackMode: ModeSoftware})
	if err != nil {
		t.Fatalf("expected fallback resolver, got error: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if _, ok := resolver.(*SoftwareResolver); !ok {
		t.Fatalf("expected *SoftwareResolver, got %T", resolver)
	}
}

func TestNewResolver_UnavailableHardwareWithoutFallback(t *testing.T) {
	if tpm2Available() {
		t.Skip("tpm2 support compiled in")
	}

	if _, err := NewResolver(ModeTPM2); err == nil {
		t.Fatal("expected error when TPM2 support is not compiled")
	}
}

func TestNewResolver_SeededWithSoftwareFallback(t *testing.T) {
	resolver, err := NewResolver(&Config{
		Mode:         ModeSeeded,
		FallbackMode: ModeSoftware,
		Seed:         []byte("seed"),
	})
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if _, ok := resolver.(*autoResolver); !ok {
		t.Fatalf("expected primary/fallback pair, got %T", resolver)
	}
	if _, err := resolver.Rand(16); err != nil {
		t.Fatalf("Rand() failed: %v", err)
	}
}

func BenchmarkSoftwareResolver_Rand32(b *testing.B) {
	resolver, _ := NewResolver(ModeSoftware)
	defer func() { _ = resolver.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = resolver.Rand(32)
	}
}

func BenchmarkSeededResolver_Rand32(b *testing.B) {
	resolver, _ := NewSeeded([]byte("bench"))
	defer func() { _ = resolver.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = resolver.Rand(32)
	}
}
