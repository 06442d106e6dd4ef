// Package config loads the router's configuration surface from
// flags, environment variables, and an optional config file (spec §6).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sorcore/internal/sorerr"
)

// Config holds every tunable of the routing pipeline, plus the chain
// connection details needed to drive it.
type Config struct {
	RPCURL    string
	ChainID   uint64
	InfuraKey string

	TopN                int
	TopNTokenInOut      int
	TopNSecondHop       int
	MaxSwapsPerPath     int
	MaxSplits           int
	DistributionPercent int
	MulticallChunkSize  int

	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("top-n", 4)
	v.SetDefault("top-n-token-in-out", 4)
	v.SetDefault("top-n-second-hop", 2)
	v.SetDefault("max-swaps-per-path", 3)
	v.SetDefault("max-splits", 3)
	v.SetDefault("distribution-percent", 5)
	v.SetDefault("multicall-chunk-size", 50)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:    v.GetString("rpc"),
		ChainID:   v.GetUint64("chain-id"),
		InfuraKey: v.GetString("infura-key"),

		TopN:                v.GetInt("top-n"),
		TopNTokenInOut:      v.GetInt("top-n-token-in-out"),
		TopNSecondHop:       v.GetInt("top-n-second-hop"),
		MaxSwapsPerPath:     v.GetInt("max-swaps-per-path"),
		MaxSplits:           v.GetInt("max-splits"),
		DistributionPercent: v.GetInt("distribution-percent"),
		MulticallChunkSize:  v.GetInt("multicall-chunk-size"),

		LogLevel: v.GetString("log-level"),
	}

	return cfg, cfg.Validate()
}

// Validate enforces the configuration invariants spec §7 treats as
// fatal (ConfigInvalid): maxSplits must not exceed 3, and
// distributionPercent must evenly divide 100.
func (c Config) Validate() error {
	if c.MaxSplits < 1 || c.MaxSplits > 3 {
		return sorerr.New("config.Validate", sorerr.ConfigInvalid,
			fmt.Errorf("maxSplits must be in [1,3], got %d", c.MaxSplits))
	}
	if c.DistributionPercent <= 0 || 100%c.DistributionPercent != 0 {
		return sorerr.New("config.Validate", sorerr.ConfigInvalid,
			fmt.Errorf("distributionPercent %d does not divide 100", c.DistributionPercent))
	}
	if c.MaxSwapsPerPath < 1 {
		return sorerr.New("config.Validate", sorerr.ConfigInvalid,
			fmt.Errorf("maxSwapsPerPath must be >= 1, got %d", c.MaxSwapsPerPath))
	}
	return nil
}
