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
	"errors"
	"io"
	"testing"

	rng "github.com/jeremyhahn/go-secretshare/pkg/crypto/rand"
	"github.com/stretchr/testify/require"
)

// seeded returns a deterministic randomness source for reproducible tests.
func seeded(t testing.TB, seed string) io.Reader {
	t.Helper()
	r, err := rng.NewSeeded([]byte(seed))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

var errBrokenReader = errors.New("broken reader")

// combinations calls fn with every size-k subset of indices, in
// lexicographic order.
func combinations(indices []int, k int, fn func([]int)) {
	subset := make([]int, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(subset) == k {
			fn(subset)
			return
		}
		for i := start; i <= len(indices)-(k-len(subset)); i++ {
			subset = append(subset, indices[i])
			walk(i + 1)
			subset = subset[:len(subset)-1]
		}
	}
	walk(0)
}

func pick(shares ShareSet, indices []int) ShareSet {
	subset := make(ShareSet, len(indices))
	for _, index := range indices {
		subset[index] = shares[index]
	}
	return subset
}
