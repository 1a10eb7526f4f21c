package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/stake-plus/commitaudit/src/ai/providers"
	"github.com/stake-plus/commitaudit/src/audit"
	"github.com/stake-plus/commitaudit/src/config"
	"github.com/stake-plus/commitaudit/src/data"
	"github.com/stake-plus/commitaudit/src/logging"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Service
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "commitaudit",
	Short: "Judge whether tagged commits implement a described function",
	Long: `commitaudit collects the Bitbucket commits tagged with one or more test case
IDs, attaches their diffs, and asks an LLM judge whether the work matches a
description and how many hours it represents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var warnings []string
		var err error
		cfg, warnings, err = loadConfig(configPath, os.Getenv)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			logger.Warn(w)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("COMMITAUDIT_CONFIG"), "YAML settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log encoding (json or console)")

	rootCmd.AddCommand(serveCmd, analyzeCmd, judgeCmd)
}

// loadConfig layers the YAML file, the optional settings table and the
// environment. Settings table failures are reported as warnings so env and
// file values still apply.
func loadConfig(path string, getenv func(string) string) (config.Service, []string, error) {
	l := config.NewLoader().WithEnv(getenv)
	if path != "" {
		if err := l.ReadFile(path); err != nil {
			return config.Service{}, nil, err
		}
	}

	var warnings []string
	if dsn := l.GetSetting("mysql_dsn", "MYSQL_DSN", ""); dsn != "" {
		settings, err := data.ReadSettings(dsn, nil)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("settings table unavailable: %v", err))
		} else {
			l.WithSettings(settings)
		}
	}
	return config.Load(l), warnings, nil
}

// exitCode maps an analysis failure onto a process exit status.
func exitCode(err error) int {
	var ae *audit.Error
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ae) && ae.Status == 404:
		return 3
	case errors.As(err, &ae) && ae.Status >= 500:
		return 4
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
