// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-engine CLI. It analyzes
// citation snapshots read from a file or the SQLite store, serves
// recommendations, and maintains the store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/logging"
	"github.com/pdiddy/citation-engine/internal/metrics"
	"github.com/pdiddy/citation-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// Process-wide state built in PersistentPreRunE.
var (
	cfg      appConfig
	logger   logging.Logger = logging.NewNop()
	registry *prometheus.Registry
	collect  *metrics.Metrics
)

// replacer maps nested config keys to environment variable names, so
// analysis.damping_factor reads CITATION_ENGINE_ANALYSIS_DAMPING_FACTOR.
var replacer = strings.NewReplacer(".", "_")

// rootCmd is the base command for the citation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-engine",
	Short: "Citation network analysis and paper recommendations",
	Long: `citation-engine builds a citation graph from a snapshot of papers and
citations, ranks papers by PageRank and centrality, detects research
clusters and their trends, finds cross-domain opportunities and
breakthrough papers, and recommends papers to users.

Snapshots are read from YAML/JSON files or from a SQLite store that also
holds user interaction profiles. The fetch command builds snapshots from
OpenAlex.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			logger.Debug("loaded secrets", logging.Any("keys", s.Keys()))
		}
		cfg.Provider = s.ApplyProvider(cfg.Provider)

		registry = prometheus.NewRegistry()
		collect = metrics.New(registry)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()
		path := viper.GetString("metrics_file")
		if path == "" || registry == nil {
			return nil
		}
		if err := prometheus.WriteToTextfile(path, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./citation-engine.yaml or ~/.config/citation-engine/citation-engine.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	flags.String("metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.String("secrets-dir", secrets.DefaultDir, "directory of credential files (openalex-email, openalex-api-key)")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-engine"))
		}
	}

	viper.SetEnvPrefix("CITATION_ENGINE")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	if err := setDefaults(viper.GetViper()); err != nil {
		fmt.Fprintln(os.Stderr, "config defaults:", err)
	}
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
