// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the store's tunables from an optional csdb.yaml
// sitting beside the base path, with environment overrides layered on top.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Options are every tunable the store's lifecycle and query surface read
// beyond the mandatory base path.
type Options struct {
	// MainDirName and BalanceDirName are the subdirectory names under the
	// base path for the main and balance stores (§6).
	MainDirName    string
	BalanceDirName string

	// DBType selects the on-disk KV engine passed to the store factory
	// ("pebbledb", "leveldb", ...).
	DBType string

	// LogLevel / LogJSON / LogFilePath configure the package-level logger.
	LogLevel    string
	LogJSON     bool
	LogFilePath string

	// MaxTransactionLimit caps the `limit` argument GetTransactions will
	// honor in a single call, regardless of what the caller requests.
	MaxTransactionLimit uint64
}

// Defaults returns the option set used when no config file is present.
func Defaults() Options {
	return Options{
		MainDirName:         "transactions",
		BalanceDirName:      "balance",
		DBType:              "pebbledb",
		LogLevel:            "info",
		LogJSON:             false,
		MaxTransactionLimit: 10_000,
	}
}

// Load reads "<basePath>/csdb.yaml" if present, falling back to defaults
// for anything it doesn't set, and applies CSDB_-prefixed environment
// variable overrides on top (e.g. CSDB_LOGLEVEL=debug).
func Load(basePath string) (Options, error) {
	opts := Defaults()

	v := viper.New()
	v.SetConfigName("csdb")
	v.SetConfigType("yaml")
	if basePath != "" {
		v.AddConfigPath(basePath)
	}
	v.SetEnvPrefix("CSDB")
	v.AutomaticEnv()

	v.SetDefault("maindirname", opts.MainDirName)
	v.SetDefault("balancedirname", opts.BalanceDirName)
	v.SetDefault("dbtype", opts.DBType)
	v.SetDefault("loglevel", opts.LogLevel)
	v.SetDefault("logjson", opts.LogJSON)
	v.SetDefault("logfilepath", opts.LogFilePath)
	v.SetDefault("maxtransactionlimit", opts.MaxTransactionLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Options{}, fmt.Errorf("config: reading %s: %w", filepath.Join(basePath, "csdb.yaml"), err)
		}
	}

	limit, err := cast.ToUint64E(v.Get("maxtransactionlimit"))
	if err != nil {
		return Options{}, fmt.Errorf("config: maxtransactionlimit: %w", err)
	}

	opts.MainDirName = v.GetString("maindirname")
	opts.BalanceDirName = v.GetString("balancedirname")
	opts.DBType = v.GetString("dbtype")
	opts.LogLevel = v.GetString("loglevel")
	opts.LogJSON = v.GetBool("logjson")
	opts.LogFilePath = v.GetString("logfilepath")
	opts.MaxTransactionLimit = limit
	return opts, nil
}
