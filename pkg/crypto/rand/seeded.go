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
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// seededInfo binds derived keys to this package so the same seed used
// elsewhere never yields the same keystream.
const seededInfo = "go-secretshare seeded rng v1"

// ErrEmptySeed is returned when ModeSeeded is requested without a seed.
var ErrEmptySeed = errors.New("rand: seeded mode requires a non-empty seed")

// seededResolver produces a deterministic ChaCha20 keystream. The key is
// HKDF-SHA256(seed) and the nonce is zero; the same seed always yields the
// same byte sequence.
type seededResolver struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

var _ Resolver = (*seededResolver)(nil)

// NewSeeded returns a deterministic resolver keyed from seed.
func NewSeeded(seed []byte) (Resolver, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}

	key := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, nil, []byte(seededInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive seeded key: %w", err)
	}

	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to create seeded cipher: %w", err)
	}

	return &seededResolver{cipher: c}, nil
}

func (s *seededResolver) Rand(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *seededResolver) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cipher == nil {
		return 0, fmt.Errorf("seeded resolver closed")
	}
	clear(p)
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}

func (s *seededResolver) Source() Source {
	return &resolverSource{resolver: s}
}

func (s *seededResolver) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cipher != nil
}

func (s *seededResolver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cipher = nil
	return nil
}
