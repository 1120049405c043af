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

func newSplitCmd(a *app) *cobra.Command {
	var (
		secret  int64
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a secret integer into shares",
		Long: `Split a secret integer into n shares, any k of which reconstruct it.

The threshold and share count default to the scheme section of the config
file and can be overridden with --threshold and --shares.`,
		Example: `  sharectl split --secret 42 --shares 6 --threshold 5 -o json > bundle.json
  sharectl split --secret -7 -n 3 -k 2 --out bundle.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.shareConfig()
			if err != nil {
				return err
			}
			if a.v.IsSet("shares") {
				sc.TotalShares = a.v.GetInt("shares")
			}
			if a.v.IsSet("threshold") {
				sc.Threshold = a.v.GetInt("threshold")
			}

			var bundle *secretsharing.Bundle
			err = metrics.Observe(metrics.OpSplit, func() error {
				scheme, err := secretsharing.NewShamir(sc)
				if err != nil {
					return err
				}
				bundle, err = scheme.SplitBundle(secret)
				return err
			})
			if err != nil {
				return fmt.Errorf("split failed: %w", err)
			}
			metrics.AddSharesGenerated(len(bundle.Shares))

			a.logger.Debug("secret split", "bundle", bundle.ID.String(),
				"threshold", bundle.Threshold, "shares", bundle.TotalShares)
			return a.emitBundle(cmd, bundle, outFile)
		},
	}

	cmd.Flags().Int64Var(&secret, "secret", 0, "secret integer to split")
	cmd.Flags().IntP("shares", "n", 0, "total number of shares (default from config)")
	cmd.Flags().IntP("threshold", "k", 0, "shares required to reconstruct (default from config)")
	cmd.Flags().StringVar(&outFile, "out", "", "write the bundle as JSON to this file")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

// shareConfig builds a share configuration from the resolved scheme using
// the configured randomness source
func (a *app) shareConfig() (*secretsharing.ShareConfig, error) {
	r, err := a.randomness()
	if err != nil {
		return nil, err
	}
	return a.cfg.ShareConfig(r), nil
}
