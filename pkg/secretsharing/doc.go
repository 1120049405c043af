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

// Package secretsharing implements a (k,n) threshold secret sharing scheme
// over plain integers.
//
// A secret integer is divided into n shares such that any k shares
// (the threshold) reconstruct it exactly. The secret is the constant term
// of a polynomial of degree k-1:
//
//	p(x) = secret + c1*x + c2*x^2 + ... + c(k-1)*x^(k-1)
//
// The coefficients c1..c(k-1) are drawn uniformly from a bounded range
// (by default [1, 100)) and share i is the point (i, p(i)) for i = 1..n.
// The secret is recovered by Lagrange interpolation of k shares at x=0.
//
// # Arithmetic
//
// Shares are evaluated with arbitrary precision and rejected with
// ErrOverflow when they do not fit in an int64. Reconstruction uses exact
// rational arithmetic by default; ArithmeticFloat keeps a float64 variant
// whose results drift once intermediate products exceed 2^53.
//
// This is not a finite-field scheme. Share values grow with the secret and
// the coefficients, so fewer than k shares do constrain the secret. Use it
// where the threshold structure matters, not where information-theoretic
// secrecy is required.
//
// # Randomness
//
// Every operation that draws randomness takes an io.Reader. Pass
// crypto/rand.Reader (or nil) in production and a seeded reader from
// pkg/crypto/rand in tests to make splits and samples reproducible.
//
// # Usage Example
//
//	shares, err := secretsharing.GenerateShares(nil, 42, 6, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	subset, err := secretsharing.SampleShares(nil, shares, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secret, err := secretsharing.ReconstructSecret(subset) // 42
//
// # Caller Contract
//
// ReconstructSecret does not know the threshold. Supplying fewer or more
// than k shares, or shares from different splits, yields a wrong integer
// without an error. ReconstructWithThreshold, VerifyShares and
// Shamir.Combine add the checks when the threshold is known.
//
// # Performance
//
//   - Generation: O(n * k)
//   - Sampling: O(n log n) for the index sort, O(m) draws
//   - Reconstruction: O(k^2) rational operations per basis polynomial
package secretsharing
