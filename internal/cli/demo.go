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

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Split, sample and reconstruct a secret in one run",
		Long: `Generate shares for a secret, select threshold of them at random and
reconstruct the secret from the selection.`,
		Example: `  sharectl demo
  sharectl demo --secret -1000000 --shares 10 --threshold 7 --rng seeded --seed demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := a.v.GetInt64("secret")
			sc, err := a.shareConfig()
			if err != nil {
				return err
			}
			sc.TotalShares = a.v.GetInt("shares")
			sc.Threshold = a.v.GetInt("threshold")

			scheme, err := secretsharing.NewShamir(sc)
			if err != nil {
				metrics.RecordError(metrics.OpSplit, err)
				return fmt.Errorf("demo failed: %w", err)
			}

			result := &DemoResult{
				Secret:      secret,
				Threshold:   scheme.Threshold(),
				TotalShares: scheme.TotalShares(),
			}

			var shares, sample secretsharing.ShareSet
			if err := metrics.Observe(metrics.OpSplit, func() error {
				shares, err = scheme.Split(secret)
				return err
			}); err != nil {
				return fmt.Errorf("demo split failed: %w", err)
			}
			metrics.AddSharesGenerated(shares.Len())
			result.Shares = shares.Shares()

			if err := metrics.Observe(metrics.OpSample, func() error {
				sample, err = scheme.Sample(shares, scheme.Threshold())
				return err
			}); err != nil {
				return fmt.Errorf("demo sample failed: %w", err)
			}
			result.Sampled = sample.Shares()

			if err := metrics.Observe(metrics.OpCombine, func() error {
				result.Reconstructed, err = scheme.Combine(sample)
				return err
			}); err != nil {
				return fmt.Errorf("demo combine failed: %w", err)
			}
			metrics.AddSharesCombined(sample.Len())
			result.Match = result.Reconstructed == secret

			if err := a.printer(cmd).PrintDemo(result); err != nil {
				return err
			}
			if !result.Match {
				return fmt.Errorf("reconstructed %d does not match secret %d", result.Reconstructed, secret)
			}
			return nil
		},
	}

	cmd.Flags().Int64("secret", 42, "secret integer")
	cmd.Flags().IntP("shares", "n", 6, "total number of shares")
	cmd.Flags().IntP("threshold", "k", 5, "shares required to reconstruct")

	return cmd
}
