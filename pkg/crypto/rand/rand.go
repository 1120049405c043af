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

// Package rand provides the randomness sources used to draw polynomial
// coefficients and to sample shares.
//
// Every Resolver implements io.Reader and can be handed directly to the
// secretsharing package. Sources:
//   - Auto: best available source (PKCS#11 > TPM2 > Software)
//   - Software: crypto/rand
//   - Seeded: deterministic ChaCha20 keystream keyed from a seed, for
//     reproducible tests and demos only
//   - TPM2: TPM 2.0 GetRandom (build tag tpm2)
//   - PKCS11: PKCS#11 C_GenerateRandom (build tag pkcs11)
//
// # Configuration
//
//	// Auto mode: automatically use best available hardware
//	rng, _ := rand.NewResolver(rand.ModeAuto)
//
//	// Reproducible stream for tests
//	rng, _ := rand.NewResolver(&rand.Config{
//	    Mode: rand.ModeSeeded,
//	    Seed: []byte("test-vector-1"),
//	})
//
//	// Hardware first, software on failure
//	rng, _ := rand.NewResolver(&rand.Config{
//	    Mode:         rand.ModeTPM2,
//	    FallbackMode: rand.ModeSoftware,
//	})
//
// # Thread Safety
//
// All Resolver implementations are safe for concurrent use.
package rand

import (
	"crypto/rand"
	"fmt"
)

// Mode specifies which RNG source to use.
type Mode string

const (
	// ModeAuto automatically selects the best available RNG.
	// Preference order: PKCS#11 > TPM2 > Software
	ModeAuto Mode = "auto"

	// ModeSoftware uses crypto/rand (stdlib secure random)
	ModeSoftware Mode = "software"

	// ModeSeeded derives a deterministic stream from Config.Seed.
	// Never use it for real secrets.
	ModeSeeded Mode = "seeded"

	// ModeTPM2 uses Trusted Platform Module 2.0 hardware RNG
	ModeTPM2 Mode = "tpm2"

	// ModePKCS11 uses PKCS#11 hardware security module RNG
	ModePKCS11 Mode = "pkcs11"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeAuto, ModeSoftware, ModeSeeded, ModeTPM2, ModePKCS11}

// ParseMode converts a string to a Mode. The empty string maps to ModeAuto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown RNG mode: %s", s)
}

// Config contains RNG configuration.
type Config struct {
	// Mode specifies the primary RNG source to use.
	// Defaults to ModeAuto if not specified.
	Mode Mode

	// FallbackMode specifies the RNG source to use if primary mode fails.
	// If not specified, failures are returned as errors.
	FallbackMode Mode

	// Seed keys the deterministic stream when Mode is ModeSeeded.
	Seed []byte

	// TPM2Config contains TPM2-specific configuration (if Mode=ModeTPM2).
	// If nil, defaults are used.
	TPM2Config *TPM2Config

	// PKCS11Config contains PKCS#11-specific configuration (if Mode=ModePKCS11).
	PKCS11Config *PKCS11Config
}

// TPM2Config contains configuration for TPM2 RNG.
type TPM2Config struct {
	// Device path to the TPM device (default: "/dev/tpm0")
	// Ignored when UseSimulator is true
	Device string

	// MaxRequestSize limits the maximum bytes to request per RNG call.
	// Default: 32 bytes
	MaxRequestSize int

	// UseSimulator connects to a TPM simulator over TCP instead of a
	// hardware device.
	UseSimulator bool

	// SimulatorHost is the hostname of the TPM simulator (default: "localhost")
	SimulatorHost string

	// SimulatorPort is the TCP command port of the simulator (default: 2321)
	SimulatorPort int
}

// PKCS11Config contains configuration for PKCS#11 RNG.
type PKCS11Config struct {
	// Module path to the PKCS#11 library (e.g., /usr/lib/libsofthsm2.so)
	Module string

	// SlotID specifies the PKCS#11 slot containing the RNG
	SlotID uint

	// PIN is the user PIN. Login is skipped when empty.
	PIN string
}

// Source represents a random number generator.
type Source interface {
	// Rand returns n random bytes.
	Rand(n int) ([]byte, error)

	// Available returns true if this RNG source is available and ready.
	Available() bool

	// Close closes the RNG and releases any resources.
	Close() error
}

// Resolver provides the main interface for generating random numbers.
//
// Resolver implements io.Reader so it can be passed anywhere a randomness
// source is expected, including the secretsharing package.
type Resolver interface {
	// Rand returns n random bytes from the configured RNG source.
	// If the primary source fails and FallbackMode is configured,
	// tries the fallback source.
	Rand(n int) ([]byte, error)

	// Read implements io.Reader.
	Read(p []byte) (n int, err error)

	// Source returns the underlying RNG Source being used.
	Source() Source

	// Available returns true if at least one RNG source is available.
	Available() bool

	// Close closes the resolver and releases any resources.
	Close() error
}

// NewResolver creates a new RNG resolver with the given configuration.
// config may be nil, a Mode or a *Config. If config is nil or empty, auto
// mode is used.
func NewResolver(config interface{}) (Resolver, error) {
	cfg := normalizeConfig(config)
	return newResolver(cfg)
}

// normalizeConfig converts various config types to *Config.
func normalizeConfig(config interface{}) *Config {
	if config == nil {
		return &Config{Mode: ModeAuto}
	}

	switch v := config.(type) {
	case Mode:
		return &Config{Mode: v}
	case *Config:
		if v == nil {
			return &Config{Mode: ModeAuto}
		}
		cfg := *v
		if cfg.Mode == "" {
			cfg.Mode = ModeAuto
		}
		return &cfg
	default:
		return &Config{Mode: ModeAuto}
	}
}

// newResolver creates the actual resolver implementation.
func newResolver(cfg *Config) (Resolver, error) {
	primary, err := newPrimaryResolver(cfg)
	if err != nil {
		if cfg.FallbackMode == "" || cfg.FallbackMode == cfg.Mode {
			return nil, err
		}
		return newResolver(&Config{
			Mode:         cfg.FallbackMode,
			Seed:         cfg.Seed,
			TPM2Config:   cfg.TPM2Config,
			PKCS11Config: cfg.PKCS11Config,
		})
	}

	if cfg.Mode == ModeAuto || cfg.FallbackMode == "" || cfg.FallbackMode == cfg.Mode {
		return primary, nil
	}

	fallback, err := newPrimaryResolver(&Config{
		Mode:         cfg.FallbackMode,
		Seed:         cfg.Seed,
		TPM2Config:   cfg.TPM2Config,
		PKCS11Config: cfg.PKCS11Config,
	})
	if err != nil {
		return primary, nil
	}
	return &autoResolver{resolver: primary, fallback: fallback}, nil
}

func newPrimaryResolver(cfg *Config) (Resolver, error) {
	switch cfg.Mode {
	case ModeAuto, "":
		return newAutoResolver(cfg)
	case ModeSoftware:
		return newSoftwareResolver()
	case ModeSeeded:
		return NewSeeded(cfg.Seed)
	case ModeTPM2:
		return newTPM2Resolver(cfg.TPM2Config)
	case ModePKCS11:
		return newPKCS11Resolver(cfg.PKCS11Config)
	default:
		return nil, fmt.Errorf("unknown RNG mode: %s", cfg.Mode)
	}
}

// SoftwareResolver uses crypto/rand from the Go standard library.
type SoftwareResolver struct{}

var _ Resolver = (*SoftwareResolver)(nil)

func newSoftwareResolver() (Resolver, error) {
	return &SoftwareResolver{}, nil
}

func (s *SoftwareResolver) Rand(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	return buf, err
}

// Read implements io.Reader for compatibility with crypto/rand.Reader.
func (s *SoftwareResolver) Read(p []byte) (n int, err error) {
	return rand.Read(p)
}

func (s *SoftwareResolver) Source() Source {
	return &resolverSource{resolver: s}
}

func (s *SoftwareResolver) Available() bool {
	return true // crypto/rand always available
}

func (s *SoftwareResolver) Close() error {
	return nil // Nothing to close
}

// resolverSource exposes a Resolver through the Source interface.
type resolverSource struct {
	resolver Resolver
}

func (s *resolverSource) Rand(n int) ([]byte, error) {
	return s.resolver.Rand(n)
}

func (s *resolverSource) Available() bool {
	return s.resolver.Available()
}

func (s *resolverSource) Close() error {
	return s.resolver.Close()
}

// readFromRand adapts a Rand(n) function to io.Reader semantics.
func readFromRand(p []byte, randFn func(int) ([]byte, error)) (int, error) {
	data, err := randFn(len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, data), nil
}
