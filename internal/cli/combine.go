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
	"fmt"

	"github.com/jeremyhahn/go-secretshare/pkg/metrics"
	"github.com/jeremyhahn/go-secretshare/pkg/secretsharing"
	"github.com/spf13/cobra"
)

func newCombineCmd(a *app) *cobra.Command {
	var (
		inFiles []string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Reconstruct the secret from shares",
		Long: `Reconstruct the secret from one or more bundles of the same split.

At least threshold shares are required. Shares beyond the threshold are
checked against the polynomial and a mismatch is reported as an error.
With --strict exactly threshold shares must be supplied.`,
		Example: `  sharectl combine --in sampled.json
  sharectl combine --in alice.json --in bob.json --in carol.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundles := make([]*secretsharing.Bundle, 0, len(inFiles))
			for _, path := range inFiles {
				b, err := readBundle(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				bundles = append(bundles, b)
			}

			merged, err := secretsharing.MergeBundles(bundles...)
			if err != nil {
				return err
			}
			shares, err := merged.ShareSet()
			if err != nil {
				return err
			}

			var secret int64
			err = metrics.Observe(metrics.OpCombine, func() error {
				if strict && shares.Len() != merged.Threshold {
					return fmt.Errorf("%w: need exactly %d shares, got %d",
						secretsharing.ErrThresholdMismatch, merged.Threshold, shares.Len())
				}
				scheme, err := secretsharing.NewShamir(&secretsharing.ShareConfig{
					Threshold:   merged.Threshold,
					TotalShares: merged.TotalShares,
					Arithmetic:  secretsharing.Arithmetic(a.cfg.Scheme.Arithmetic),
				})
				if err != nil {
					return err
				}
				secret, err = scheme.CombineBundle(merged)
				return err
			})
			if err != nil {
				return fmt.Errorf("combine failed: %w", err)
			}
			metrics.AddSharesCombined(shares.Len())

			a.logger.Debug("secret reconstructed", "bundle", merged.ID.String(), "indices", shares.Indices())
			return a.printer(cmd).PrintSecret(secret, shares.Indices())
		},
	}

	cmd.Flags().StringSliceVar(&inFiles, "in", []string{stdinPath}, "bundle files to read (- for stdin); repeat to merge")
	cmd.Flags().BoolVar(&strict, "strict", false, "require exactly threshold shares")

	return cmd
}
