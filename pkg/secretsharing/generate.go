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
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"math/bits"
)

const (
	// DefaultCoefficientMin is the inclusive lower bound for random
	// polynomial coefficients.
	DefaultCoefficientMin int64 = 1

	// DefaultCoefficientMax is the exclusive upper bound for random
	// polynomial coefficients. Wider ranges make shares less predictable
	// but produce larger share values.
	DefaultCoefficientMax int64 = 100
)

// GenerateShares splits secret into numberOfShares shares, any minShares of
// which reconstruct it. Coefficients are drawn from r in the default range
// [DefaultCoefficientMin, DefaultCoefficientMax). A nil r uses crypto/rand.
//
// The returned set has keys 1..numberOfShares. Share values are computed
// with arbitrary precision; ErrOverflow is returned instead of a truncated
// value when a share does not fit in an int64.
func GenerateShares(r io.Reader, secret int64, numberOfShares, minShares int) (ShareSet, error) {
	return generateShares(r, secret, numberOfShares, minShares, DefaultCoefficientMin, DefaultCoefficientMax)
}

func generateShares(r io.Reader, secret int64, numberOfShares, minShares int, coefMin, coefMax int64) (ShareSet, error) {
	if err := validateSchemeParameters(numberOfShares, minShares); err != nil {
		return nil, err
	}
	if coefMin >= coefMax {
		return nil, fmt.Errorf("%w: coefficient range [%d, %d) is empty", ErrInvalidParameters, coefMin, coefMax)
	}
	if r == nil {
		r = rand.Reader
	}

	// p(x) = secret + c1*x + c2*x^2 + ... + c(k-1)*x^(k-1)
	coeffs := make([]*big.Int, minShares)
	coeffs[0] = big.NewInt(secret)
	for j := 1; j < minShares; j++ {
		c, err := randomInt64(r, coefMin, coefMax)
		if err != nil {
			return nil, fmt.Errorf("failed to generate random coefficients: %w", err)
		}
		coeffs[j] = big.NewInt(c)
	}

	shares := make(ShareSet, numberOfShares)
	x := new(big.Int)
	for i := 1; i <= numberOfShares; i++ {
		y := evaluatePolynomial(coeffs, x.SetInt64(int64(i)))
		if !y.IsInt64() {
			return nil, fmt.Errorf("%w: share %d evaluates to %s", ErrOverflow, i, y.String())
		}
		shares[i] = y.Int64()
	}

	return shares, nil
}

func validateSchemeParameters(numberOfShares, minShares int) error {
	if numberOfShares <= 0 {
		return fmt.Errorf("%w: number of shares must be positive, got %d", ErrInvalidParameters, numberOfShares)
	}
	if minShares <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidParameters, minShares)
	}
	if numberOfShares < minShares {
		return fmt.Errorf("%w: number of shares (%d) must be >= threshold (%d)",
			ErrInvalidParameters, numberOfShares, minShares)
	}
	return nil
}

// evaluatePolynomial evaluates a polynomial at point x.
// Uses Horner's method: p(x) = a0 + x(a1 + x(a2 + ... + x*an))
func evaluatePolynomial(coeffs []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int)
	if len(coeffs) == 0 {
		return result
	}

	result.Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, coeffs[i])
	}

	return result
}

// randomInt64 draws a uniform integer in [lo, hi) from r. lo < hi.
func randomInt64(r io.Reader, lo, hi int64) (int64, error) {
	// two's complement keeps the span correct even when lo is negative
	span := uint64(hi) - uint64(lo)
	n, err := randomUint64n(r, span)
	if err != nil {
		return 0, err
	}
	return int64(uint64(lo) + n), nil
}

// randomUint64n draws a uniform integer in [0, n) from r by rejection
// sampling on the smallest covering bit mask. n > 0.
func randomUint64n(r io.Reader, n uint64) (uint64, error) {
	if n == 1 {
		return 0, nil
	}
	// a shift by 64 yields 0, so the mask wraps to all ones
	mask := uint64(1)<<bits.Len64(n-1) - 1

	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := binary.BigEndian.Uint64(buf[:]) & mask
		if v < n {
			return v, nil
		}
	}
}
