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
	"sort"

	"github.com/google/uuid"
)

// Share is a single point (Index, Value) on a secret-bearing polynomial.
type Share struct {
	Index int   `json:"index"`
	Value int64 `json:"value"`
}

// String returns a string representation of the share (for debugging)
func (s Share) String() string {
	return fmt.Sprintf("Share{Index: %d, Value: %d}", s.Index, s.Value)
}

// ShareSet maps share index to share value. It holds either every
// generated share or a subset selected for reconstruction.
type ShareSet map[int]int64

// NewShareSet builds a ShareSet from a list of shares.
// Returns ErrDuplicateIndex if two shares carry the same index.
func NewShareSet(shares []Share) (ShareSet, error) {
	set := make(ShareSet, len(shares))
	for _, share := range shares {
		if _, exists := set[share.Index]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, share.Index)
		}
		set[share.Index] = share.Value
	}
	return set, nil
}

// Len returns the number of shares in the set.
func (s ShareSet) Len() int {
	return len(s)
}

// Indices returns the share indices in ascending order.
func (s ShareSet) Indices() []int {
	indices := make([]int, 0, len(s))
	for index := range s {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// Shares returns the shares ordered by ascending index.
func (s ShareSet) Shares() []Share {
	shares := make([]Share, 0, len(s))
	for _, index := range s.Indices() {
		shares = append(shares, Share{Index: index, Value: s[index]})
	}
	return shares
}

// Clone returns an independent copy of the set.
func (s ShareSet) Clone() ShareSet {
	clone := make(ShareSet, len(s))
	for index, value := range s {
		clone[index] = value
	}
	return clone
}

// Bundle is the serialisable envelope for the shares of one split. The ID
// ties shares to the split that produced them so that shares of different
// secrets are never combined by accident.
type Bundle struct {
	ID          uuid.UUID `json:"id"`
	Threshold   int       `json:"threshold"`
	TotalShares int       `json:"total_shares"`
	Shares      []Share   `json:"shares"`
}

// NewBundle wraps a freshly generated share set in a bundle with a new
// random ID.
func NewBundle(set ShareSet, threshold, totalShares int) *Bundle {
	return &Bundle{
		ID:          uuid.New(),
		Threshold:   threshold,
		TotalShares: totalShares,
		Shares:      set.Shares(),
	}
}

// Subset returns a bundle carrying the same split metadata with only the
// given shares.
func (b *Bundle) Subset(set ShareSet) *Bundle {
	return &Bundle{
		ID:          b.ID,
		Threshold:   b.Threshold,
		TotalShares: b.TotalShares,
		Shares:      set.Shares(),
	}
}

// Validate checks the bundle metadata and every share index.
func (b *Bundle) Validate() error {
	if b.ID == uuid.Nil {
		return fmt.Errorf("%w: bundle id is empty", ErrInvalidParameters)
	}
	if b.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidParameters, b.Threshold)
	}
	if b.TotalShares < b.Threshold {
		return fmt.Errorf("%w: total shares (%d) must be >= threshold (%d)",
			ErrInvalidParameters, b.TotalShares, b.Threshold)
	}
	for i, share := range b.Shares {
		if share.Index < 1 || share.Index > b.TotalShares {
			return fmt.Errorf("%w: share %d has index %d outside 1..%d",
				ErrInvalidParameters, i, share.Index, b.TotalShares)
		}
	}
	return nil
}

// ShareSet validates the bundle and returns its shares as a ShareSet.
func (b *Bundle) ShareSet() (ShareSet, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return NewShareSet(b.Shares)
}

// MergeBundles joins bundles that belong to the same split, for example
// the individual shares handed back by several holders. Repeated shares
// with identical values are collapsed.
func MergeBundles(bundles ...*Bundle) (*Bundle, error) {
	if len(bundles) == 0 {
		return nil, fmt.Errorf("%w: no bundles provided", ErrInvalidParameters)
	}

	first := bundles[0]
	merged := make(ShareSet)
	for i, b := range bundles {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("bundle %d: %w", i, err)
		}
		if b.ID != first.ID || b.Threshold != first.Threshold || b.TotalShares != first.TotalShares {
			return nil, fmt.Errorf("%w: bundle %d (%s, %d-of-%d) differs from bundle 0 (%s, %d-of-%d)",
				ErrBundleMismatch, i, b.ID, b.Threshold, b.TotalShares,
				first.ID, first.Threshold, first.TotalShares)
		}
		for _, share := range b.Shares {
			if existing, ok := merged[share.Index]; ok && existing != share.Value {
				return nil, fmt.Errorf("%w: index %d has conflicting values", ErrDuplicateIndex, share.Index)
			}
			merged[share.Index] = share.Value
		}
	}

	return first.Subset(merged), nil
}
