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
	"io"
	"strings"

	"github.com/jeremyhahn/go-secretshare/internal/config"
	"github.com/jeremyhahn/go-secretshare/pkg/crypto/rand"
	"github.com/jeremyhahn/go-secretshare/pkg/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables bound to global flags,
// e.g. SECRETSHARE_OUTPUT or SECRETSHARE_COEF_MIN.
const EnvPrefix = "SECRETSHARE"

// Global flag keys
const (
	keyConfig      = "config"
	keyOutput      = "output"
	keyVerbose     = "verbose"
	keyRNG         = "rng"
	keySeed        = "seed"
	keyArithmetic  = "arithmetic"
	keyCoefMin     = "coef-min"
	keyCoefMax     = "coef-max"
	keyMetricsFile = "metrics-file"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the YAML configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool

	// RNG selects the randomness source (auto, software, seeded, tpm2, pkcs11)
	RNG string

	// Seed keys the seeded RNG
	Seed string

	// Arithmetic selects exact or float reconstruction
	Arithmetic string

	// CoefMin and CoefMax bound the random polynomial coefficients
	CoefMin int64
	CoefMax int64

	// MetricsFile enables the Prometheus textfile export to this path
	MetricsFile string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	def := config.Default()
	return &Config{
		OutputFormat: def.Output.Format,
		RNG:          def.RNG.Mode,
		Arithmetic:   def.Scheme.Arithmetic,
		CoefMin:      def.Scheme.CoefficientMin,
		CoefMax:      def.Scheme.CoefficientMax,
	}
}

// AddFlags registers the global flags on fs
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, keyConfig, "",
		"config file (YAML)")
	fs.StringVarP(&c.OutputFormat, keyOutput, "o", c.OutputFormat,
		"output format (text, json, table)")
	fs.BoolVarP(&c.Verbose, keyVerbose, "v", false,
		"verbose output")
	fs.StringVar(&c.RNG, keyRNG, c.RNG,
		"randomness source (auto, software, seeded, tpm2, pkcs11)")
	fs.StringVar(&c.Seed, keySeed, "",
		"seed for the seeded randomness source (testing only)")
	fs.StringVar(&c.Arithmetic, keyArithmetic, c.Arithmetic,
		"reconstruction arithmetic (exact, float)")
	fs.Int64Var(&c.CoefMin, keyCoefMin, c.CoefMin,
		"inclusive lower bound for polynomial coefficients")
	fs.Int64Var(&c.CoefMax, keyCoefMax, c.CoefMax,
		"exclusive upper bound for polynomial coefficients")
	fs.StringVar(&c.MetricsFile, keyMetricsFile, "",
		"write Prometheus metrics to this textfile on exit")
}

// newViper binds fs to a viper instance that also reads SECRETSHARE_*
// environment variables. Explicit flags win over the environment.
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

// resolve loads the YAML file (or the defaults) and overlays every flag or
// environment variable that was explicitly set.
func resolve(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString(keyConfig); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet(keyOutput) {
		cfg.Output.Format = v.GetString(keyOutput)
	}
	if v.IsSet(keyVerbose) && v.GetBool(keyVerbose) {
		cfg.Logging.Level = "debug"
	}
	if v.IsSet(keyRNG) {
		cfg.RNG.Mode = v.GetString(keyRNG)
	}
	if v.IsSet(keySeed) {
		cfg.RNG.Seed = v.GetString(keySeed)
	}
	if v.IsSet(keyArithmetic) {
		cfg.Scheme.Arithmetic = v.GetString(keyArithmetic)
	}
	if v.IsSet(keyCoefMin) {
		cfg.Scheme.CoefficientMin = v.GetInt64(keyCoefMin)
	}
	if v.IsSet(keyCoefMax) {
		cfg.Scheme.CoefficientMax = v.GetInt64(keyCoefMax)
	}
	if v.IsSet(keyMetricsFile) {
		if path := v.GetString(keyMetricsFile); path != "" {
			cfg.Metrics.Enabled = true
			cfg.Metrics.TextfilePath = path
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger creates the CLI logger from the resolved configuration
func newLogger(cfg *config.Config, out io.Writer) (*logging.Logger, error) {
	return logging.New(cfg.LoggerOptions(out))
}

// newResolver creates the randomness source from the resolved configuration
func newResolver(cfg *config.Config) (rand.Resolver, error) {
	resolver, err := rand.NewResolver(cfg.RandConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s randomness source: %w", cfg.RNG.Mode, err)
	}
	return resolver, nil
}
