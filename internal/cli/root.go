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

	"github.com/jeremyhahn/go-secretshare/internal/config"
	"github.com/jeremyhahn/go-secretshare/pkg/crypto/rand"
	"github.com/jeremyhahn/go-secretshare/pkg/logging"
	"github.com/jeremyhahn/go-secretshare/pkg/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every command of one invocation
type app struct {
	flags    *Config
	v        *viper.Viper
	cfg      *config.Config
	logger   *logging.Logger
	resolver rand.Resolver
}

// newRootCmd builds the command tree with fresh state
func newRootCmd() (*cobra.Command, *app) {
	a := &app{flags: NewConfig()}

	root := &cobra.Command{
		Use:   "sharectl",
		Short: "sharectl - (k,n) threshold secret sharing for integers",
		Long: `sharectl splits a secret integer into n shares so that any k of them
reconstruct it, samples subsets of shares and recombines them.

Commands:
  - split:   generate a bundle of shares for a secret
  - sample:  pick random shares from a bundle
  - combine: reconstruct the secret from a bundle
  - demo:    split, sample and combine in one run

Global flags can also be set through SECRETSHARE_* environment variables
(for example SECRETSHARE_OUTPUT=json). Flags override the environment,
which overrides the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	a.flags.AddFlags(root.PersistentFlags())

	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newSplitCmd(a))
	root.AddCommand(newSampleCmd(a))
	root.AddCommand(newCombineCmd(a))
	root.AddCommand(newDemoCmd(a))

	return root, a
}

// Execute runs the root command and prints any error to stderr
func Execute() error {
	root, a := newRootCmd()
	err := a.run(root)
	if err != nil {
		a.handleError(root, err)
	}
	return err
}

// run executes root and releases the randomness source and metrics
// regardless of the command outcome
func (a *app) run(root *cobra.Command) error {
	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// setup resolves configuration for the executing command
func (a *app) setup(cmd *cobra.Command) error {
	v, err := newViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := resolve(v)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.v = v
	a.cfg = cfg
	a.logger = logger.With("command", cmd.Name())
	a.logger.Debugf("configuration resolved (rng=%s, arithmetic=%s, output=%s)",
		cfg.RNG.Mode, cfg.Scheme.Arithmetic, cfg.Output.Format)
	return nil
}

// randomness returns the configured randomness source, creating it on
// first use so commands that draw nothing never touch hardware
func (a *app) randomness() (rand.Resolver, error) {
	if a.resolver != nil {
		return a.resolver, nil
	}
	resolver, err := newResolver(a.cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Debugf("using %s randomness source", a.cfg.RNG.Mode)
	a.resolver = resolver
	return resolver, nil
}

// close releases the randomness source and writes the metrics textfile
func (a *app) close() error {
	var errs []error
	if a.resolver != nil {
		if err := a.resolver.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close randomness source: %w", err))
		}
		a.resolver = nil
	}
	if a.cfg != nil && a.cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
			errs = append(errs, err)
		} else {
			a.logger.Debugf("metrics written to %s", a.cfg.Metrics.TextfilePath)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// printer returns a printer for the resolved output format
func (a *app) printer(cmd *cobra.Command) *Printer {
	return NewPrinter(a.outputFormat(), cmd.OutOrStdout())
}

func (a *app) outputFormat() string {
	if a.cfg != nil {
		return a.cfg.Output.Format
	}
	return a.flags.OutputFormat
}

// handleError prints an error to stderr in the selected output format
func (a *app) handleError(root *cobra.Command, err error) {
	printer := NewPrinter(a.outputFormat(), root.ErrOrStderr())
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
}
