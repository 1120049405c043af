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


package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jeremyhahn/go-secretshare/pkg/secretsharing"
	"github.com/spf13/cobra"
)

// stdinPath selects standard input for --in
const stdinPath = "-"

// readBundle decodes and validates a JSON bundle from path, or from stdin
// when path is "-"
func readBundle(stdin io.Reader, path string) (*secretsharing.Bundle, error) {
	r := stdin
	if path != stdinPath {
		// #nosec G304 - Bundle path is provided by the operator
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bundle: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var b secretsharing.Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	return &b, nil
}

// writeBundle writes b as indented JSON. Shares are secret material, so the
// file is owner-readable only.
func writeBundle(path string, b *secretsharing.Bundle) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// emitBundle writes b to outFile when set, otherwise prints it
func (a *app) emitBundle(cmd *cobra.Command, b *secretsharing.Bundle, outFile string) error {
	printer := a.printer(cmd)
	if outFile == "" {
		return printer.PrintBundle(b)
	}
	if err := writeBundle(outFile, b); err != nil {
		return err
	}
	return printer.PrintSuccess(fmt.Sprintf("Wrote bundle %s with %d shares to %s", b.ID, len(b.Shares), outFile))
}
