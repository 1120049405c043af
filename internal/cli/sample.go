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

func newSampleCmd(a *app) *cobra.Command {
	var (
		inFile  string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Select random shares from a bundle",
		Long: `Select a uniformly random subset of shares from a bundle. The amount
defaults to the bundle threshold.`,
		Example: `  sharectl sample --in bundle.json --amount 5 -o json
  sharectl split --secret 42 -o json | sharectl sample -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBundle(cmd.InOrStdin(), inFile)
			if err != nil {
				return err
			}
			shares, err := b.ShareSet()
			if err != nil {
				return err
			}

			amount := b.Threshold
			if a.v.IsSet("amount") {
				amount = a.v.GetInt("amount")
			}

			r, err := a.randomness()
			if err != nil {
				return err
			}

			var sample secretsharing.ShareSet
			err = metrics.Observe(metrics.OpSample, func() error {
				var err error
				sample, err = secretsharing.SampleShares(r, shares, amount)
				return err
			})
			if err != nil {
				return fmt.Errorf("sample failed: %w", err)
			}

			a.logger.Debug("shares sampled", "bundle", b.ID.String(), "indices", sample.Indices())
			return a.emitBundle(cmd, b.Subset(sample), outFile)
		},
	}

	cmd.Flags().StringVar(&inFile, "in", stdinPath, "bundle file to read (- for stdin)")
	cmd.Flags().Int("amount", 0, "number of shares to select (default: bundle threshold)")
	cmd.Flags().StringVar(&outFile, "out", "", "write the sampled bundle as JSON to this file")

	return cmd
}
