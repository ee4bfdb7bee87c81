package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/storelens/internal/config"
	"github.com/KaramelBytes/storelens/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	flagLang  string
	flagRules string

	// Loaded configuration; cfgErr holds the reason when cfg is nil.
	cfg    *cfgpkg.Global
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "storelens",
	Short: "StoreLens: analyze e-commerce order exports",
	Long: `StoreLens reads an order export (CSV, TSV, XLSX or JSON), detects the kind of store it
came from, maps its columns to a canonical schema and produces a localized business analysis
with sales, customer, product, financial and data-quality sections.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.storelens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "output language: en | ar (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "YAML file overriding scoring and finance rules (overrides config)")
}

func loadConfig() {
	cfg, cfgErr = nil, nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		cfgErr = err
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		logging.Setup(debugLevel("info"), "text")
		return
	}
	if flagLang != "" {
		c.Language = strings.ToLower(strings.TrimSpace(flagLang))
	}
	if flagRules != "" {
		c.RulesFile = flagRules
	}
	if err := c.Validate(); err != nil {
		cfgErr = err
		logging.Setup(debugLevel("info"), "text")
		return
	}
	cfg = c
	logging.Setup(debugLevel(cfg.LogLevel), cfg.LogFormat)
}

func debugLevel(level string) string {
	if debug {
		return "debug"
	}
	return level
}

// requireConfig returns the loaded config or the reason it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	if cfgErr != nil {
		return nil, fmt.Errorf("config: %w", cfgErr)
	}
	return nil, errors.New("config not loaded")
}
