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
	"fmt"
	"io"
)

// SampleShares returns a uniformly random subset of exactly amount shares
// from shares, preserving their values. A nil r uses crypto/rand.
//
// Indices are sorted before a partial Fisher-Yates shuffle, so every
// C(len(shares), amount) subset is equally likely and a deterministic r
// always selects the same subset.
func SampleShares(r io.Reader, shares ShareSet, amount int) (ShareSet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: sample amount must be positive, got %d", ErrInvalidParameters, amount)
	}
	if amount > len(shares) {
		return nil, fmt.Errorf("%w: requested %d of %d shares", ErrInsufficientShares, amount, len(shares))
	}
	if r == nil {
		r = rand.Reader
	}

	indices := shares.Indices()
	for i := 0; i < amount; i++ {
		j, err := randomUint64n(r, uint64(len(indices)-i))
		if err != nil {
			return nil, fmt.Errorf("failed to draw random share: %w", err)
		}
		k := i + int(j)
		indices[i], indices[k] = indices[k], indices[i]
	}

	sample := make(ShareSet, amount)
	for _, index := range indices[:amount] {
		sample[index] = shares[index]
	}
	return sample, nil
}
