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
	"math"
	"math/big"
)

// Arithmetic selects the number representation used during interpolation.
type Arithmetic string

const (
	// ArithmeticExact interpolates with exact rationals (math/big). A set of
	// exactly threshold consistent shares always yields the exact secret.
	ArithmeticExact Arithmetic = "exact"

	// ArithmeticFloat interpolates with float64. Results are only exact
	// while every intermediate product stays below 2^53; large secrets,
	// wide coefficient ranges or high thresholds drift and round to a
	// wrong integer without any error.
	ArithmeticFloat Arithmetic = "float"
)

// Valid reports whether a is a known arithmetic mode.
func (a Arithmetic) Valid() bool {
	return a == ArithmeticExact || a == ArithmeticFloat
}

// ReconstructSecret recovers the constant term of the polynomial through
// the supplied shares using exact arithmetic.
//
// The share count is not checked: the caller must supply exactly the
// threshold's worth of shares from one split. Fewer or more shares, or
// shares from different polynomials, produce a plausible but wrong
// integer. Use ReconstructWithThreshold for a checked variant.
func ReconstructSecret(shares ShareSet) (int64, error) {
	return Reconstruct(shares, ArithmeticExact)
}

// ReconstructWithThreshold is ReconstructSecret with an explicit share
// count check. Returns ErrThresholdMismatch if len(shares) != threshold.
func ReconstructWithThreshold(shares ShareSet, threshold int) (int64, error) {
	if threshold <= 0 {
		return 0, fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidParameters, threshold)
	}
	if len(shares) != threshold {
		return 0, fmt.Errorf("%w: need exactly %d shares, got %d", ErrThresholdMismatch, threshold, len(shares))
	}
	return Reconstruct(shares, ArithmeticExact)
}

// Reconstruct recovers the secret with the given arithmetic. The degree-0
// coefficient of the interpolating polynomial is rounded to the nearest
// integer, halves away from zero.
func Reconstruct(shares ShareSet, arithmetic Arithmetic) (int64, error) {
	switch arithmetic {
	case ArithmeticExact, "":
		coeffs, err := Interpolate(shares)
		if err != nil {
			return 0, err
		}
		secret := roundRat(coeffs[0])
		if !secret.IsInt64() {
			return 0, fmt.Errorf("%w: reconstructed value %s", ErrOverflow, secret.String())
		}
		return secret.Int64(), nil
	case ArithmeticFloat:
		return reconstructFloat(shares)
	default:
		return 0, fmt.Errorf("%w: unknown arithmetic %q", ErrInvalidParameters, arithmetic)
	}
}

// Interpolate returns the coefficients (powers 0..m-1) of the unique
// polynomial of degree < m passing through the m supplied shares.
//
// Each Lagrange basis polynomial is built by synthetic multiplication:
// start from y_i / prod(x_i - x_j) and multiply in place by (x - x_j) for
// every j != i.
func Interpolate(shares ShareSet) ([]*big.Rat, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares provided", ErrInvalidParameters)
	}

	xs := shares.Indices()
	m := len(xs)

	total := newRatVector(m)
	term := newRatVector(m)
	diff := new(big.Rat)
	negX := new(big.Rat)

	for i, xi := range xs {
		denom := big.NewRat(1, 1)
		for j, xj := range xs {
			if i != j {
				denom.Mul(denom, diff.SetInt64(int64(xi-xj)))
			}
		}

		for d := range term {
			term[d].SetInt64(0)
		}
		term[0].SetInt64(shares[xi])
		term[0].Quo(term[0], denom)

		for j, xj := range xs {
			if i == j {
				continue
			}
			negX.SetInt64(-int64(xj))
			for d := m - 1; d >= 1; d-- {
				term[d].Add(term[d], term[d-1])
				term[d-1].Mul(term[d-1], negX)
			}
		}

		for d := range total {
			total[d].Add(total[d], term[d])
		}
	}

	return total, nil
}

// VerifyShares checks that every share lies on the polynomial defined by
// the threshold lowest-indexed shares, and that the polynomial has integer
// coefficients as produced by GenerateShares.
func VerifyShares(shares ShareSet, threshold int) error {
	if threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidParameters, threshold)
	}
	if len(shares) < threshold {
		return fmt.Errorf("%w: need at least %d shares, got %d", ErrInsufficientShares, threshold, len(shares))
	}

	indices := shares.Indices()
	base := make(ShareSet, threshold)
	for _, index := range indices[:threshold] {
		base[index] = shares[index]
	}

	coeffs, err := Interpolate(base)
	if err != nil {
		return err
	}
	for d, c := range coeffs {
		if !c.IsInt() {
			return fmt.Errorf("%w: coefficient %d is not an integer (%s)", ErrInconsistentShares, d, c.RatString())
		}
	}

	want := new(big.Rat)
	for _, index := range indices[threshold:] {
		got := evaluateRational(coeffs, int64(index))
		if got.Cmp(want.SetInt64(shares[index])) != 0 {
			return fmt.Errorf("%w: share %d does not lie on the polynomial", ErrInconsistentShares, index)
		}
	}

	return nil
}

// reconstructFloat is the float64 rendition of Interpolate, keeping only
// the degree-0 coefficient.
func reconstructFloat(shares ShareSet) (int64, error) {
	if len(shares) == 0 {
		return 0, fmt.Errorf("%w: no shares provided", ErrInvalidParameters)
	}

	xs := shares.Indices()
	m := len(xs)
	total := make([]float64, m)
	term := make([]float64, m)

	for i, xi := range xs {
		prod := 1.0
		for j, xj := range xs {
			if i != j {
				prod *= float64(xi - xj)
			}
		}

		for d := range term {
			term[d] = 0
		}
		term[0] = float64(shares[xi]) / prod

		for j, xj := range xs {
			if i == j {
				continue
			}
			for d := m - 1; d >= 1; d-- {
				term[d] += term[d-1]
				term[d-1] *= -float64(xj)
			}
		}

		for d := range total {
			total[d] += term[d]
		}
	}

	secret := math.Round(total[0])
	// float64(math.MaxInt64) rounds up to 2^63, which is out of range
	if math.IsNaN(secret) || secret < math.MinInt64 || secret >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: reconstructed value %g", ErrOverflow, total[0])
	}
	return int64(secret), nil
}

func newRatVector(n int) []*big.Rat {
	v := make([]*big.Rat, n)
	for i := range v {
		v[i] = new(big.Rat)
	}
	return v
}

// evaluateRational evaluates a rational polynomial at x with Horner's method.
func evaluateRational(coeffs []*big.Rat, x int64) *big.Rat {
	result := new(big.Rat)
	if len(coeffs) == 0 {
		return result
	}

	bx := new(big.Rat).SetInt64(x)
	result.Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result.Mul(result, bx)
		result.Add(result, coeffs[i])
	}
	return result
}

// roundRat rounds r to the nearest integer, halves away from zero.
func roundRat(r *big.Rat) *big.Int {
	num := r.Num()
	den := r.Denom()

	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	rem.Abs(rem)
	rem.Lsh(rem, 1)
	if rem.Cmp(den) >= 0 {
		if num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}
