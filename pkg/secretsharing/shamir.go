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

package secretsharing

import (
	"fmt"
	"io"
)

// ShareConfig configures secret sharing parameters.
type ShareConfig struct {
	Threshold   int // k - minimum shares needed to reconstruct
	TotalShares int // n - total shares to create

	// CoefficientMin and CoefficientMax bound the random polynomial
	// coefficients to [CoefficientMin, CoefficientMax). When both are zero
	// the defaults [1, 100) are used.
	CoefficientMin int64
	CoefficientMax int64

	// Arithmetic used by Combine. Defaults to ArithmeticExact.
	Arithmetic Arithmetic

	// Rand is the randomness source for coefficients and sampling.
	// Defaults to crypto/rand.
	Rand io.Reader
}

// Shamir binds a threshold scheme configuration to the share generator,
// sampler and reconstructor.
type Shamir struct {
	config ShareConfig
}

// NewShamir creates a new Shamir instance with the given configuration.
// Returns an error wrapping ErrInvalidParameters if the configuration is
// invalid.
func NewShamir(config *ShareConfig) (*Shamir, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", ErrInvalidParameters)
	}
	if err := validateSchemeParameters(config.TotalShares, config.Threshold); err != nil {
		return nil, err
	}

	cfg := *config
	if cfg.CoefficientMin == 0 && cfg.CoefficientMax == 0 {
		cfg.CoefficientMin = DefaultCoefficientMin
		cfg.CoefficientMax = DefaultCoefficientMax
	}
	if cfg.CoefficientMin >= cfg.CoefficientMax {
		return nil, fmt.Errorf("%w: coefficient range [%d, %d) is empty",
			ErrInvalidParameters, cfg.CoefficientMin, cfg.CoefficientMax)
	}
	if cfg.Arithmetic == "" {
		cfg.Arithmetic = ArithmeticExact
	}
	if !cfg.Arithmetic.Valid() {
		return nil, fmt.Errorf("%w: unknown arithmetic %q", ErrInvalidParameters, cfg.Arithmetic)
	}

	return &Shamir{config: cfg}, nil
}

// Threshold returns the number of shares required to reconstruct.
func (s *Shamir) Threshold() int {
	return s.config.Threshold
}

// TotalShares returns the number of shares produced by Split.
func (s *Shamir) TotalShares() int {
	return s.config.TotalShares
}

// Split divides a secret into TotalShares shares, requiring Threshold to
// reconstruct.
func (s *Shamir) Split(secret int64) (ShareSet, error) {
	return generateShares(s.config.Rand, secret, s.config.TotalShares, s.config.Threshold,
		s.config.CoefficientMin, s.config.CoefficientMax)
}

// SplitBundle splits a secret and wraps the shares in a new Bundle.
func (s *Shamir) SplitBundle(secret int64) (*Bundle, error) {
	shares, err := s.Split(secret)
	if err != nil {
		return nil, err
	}
	return NewBundle(shares, s.config.Threshold, s.config.TotalShares), nil
}

// Sample selects amount random shares using the configured randomness
// source.
func (s *Shamir) Sample(shares ShareSet, amount int) (ShareSet, error) {
	return SampleShares(s.config.Rand, shares, amount)
}

// Combine reconstructs the secret from Threshold or more shares. Extra
// shares are checked for consistency with the polynomial through the
// lowest-indexed Threshold shares, which are then used to reconstruct.
func (s *Shamir) Combine(shares ShareSet) (int64, error) {
	k := s.config.Threshold
	if len(shares) < k {
		return 0, fmt.Errorf("%w: need %d, got %d", ErrInsufficientShares, k, len(shares))
	}

	if len(shares) > k {
		if err := VerifyShares(shares, k); err != nil {
			return 0, fmt.Errorf("share verification failed: %w", err)
		}
	}

	subset := make(ShareSet, k)
	for _, index := range shares.Indices()[:k] {
		subset[index] = shares[index]
	}

	return Reconstruct(subset, s.config.Arithmetic)
}

// CombineBundle reconstructs the secret from a bundle produced by a scheme
// with the same threshold and share count.
func (s *Shamir) CombineBundle(b *Bundle) (int64, error) {
	if b.Threshold != s.config.Threshold || b.TotalShares != s.config.TotalShares {
		return 0, fmt.Errorf("%w: bundle is %d-of-%d, scheme is %d-of-%d", ErrBundleMismatch,
			b.Threshold, b.TotalShares, s.config.Threshold, s.config.TotalShares)
	}
	shares, err := b.ShareSet()
	if err != nil {
		return 0, err
	}
	return s.Combine(shares)
}
