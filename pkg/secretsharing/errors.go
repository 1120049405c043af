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

import "errors"

var (
	// ErrInvalidParameters is returned for malformed scheme parameters:
	// non-positive share counts, a threshold larger than the share count,
	// a non-positive sample amount or an empty coefficient range.
	ErrInvalidParameters = errors.New("secretsharing: invalid parameters")

	// ErrInsufficientShares is returned when more shares are requested or
	// required than are available.
	ErrInsufficientShares = errors.New("secretsharing: insufficient shares")

	// ErrOverflow is returned when a share value or a reconstructed secret
	// does not fit in an int64.
	ErrOverflow = errors.New("secretsharing: integer overflow")

	// ErrThresholdMismatch is returned by strict reconstruction when the
	// number of supplied shares differs from the expected threshold.
	ErrThresholdMismatch = errors.New("secretsharing: share count does not match threshold")

	// ErrInconsistentShares is returned when the supplied shares do not all
	// lie on one polynomial of degree threshold-1.
	ErrInconsistentShares = errors.New("secretsharing: inconsistent shares")

	// ErrDuplicateIndex is returned when two shares carry the same index.
	ErrDuplicateIndex = errors.New("secretsharing: duplicate share index")

	// ErrBundleMismatch is returned when shares from different splits are
	// merged.
	ErrBundleMismatch = errors.New("secretsharing: bundle mismatch")
)
