// StockScope assembles equity research snapshots from live market data.
//
// Main CLI entrypoint using the cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantav/stockscope/api"
	"github.com/quantav/stockscope/internal/config"
	"github.com/quantav/stockscope/internal/insight"
	"github.com/quantav/stockscope/internal/llm"
	"github.com/quantav/stockscope/internal/logging"
	"github.com/quantav/stockscope/internal/snapshot"
	"github.com/quantav/stockscope/internal/source"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockscope",
	Short: "StockScope equity research snapshots",
	Long: `StockScope assembles an equity research snapshot per ticker symbol:
live market data, derived technical indicators, a multi-factor heuristic
rating, and per-section analysis with AI-backed insight text.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// A local .env is optional; real config comes from viper.
		_ = godotenv.Load()

		var err error
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log = logging.New(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// buildAssembler wires the engine from configuration. The LLM backend is
// optional: without a key the insight generator runs on templates only.
func buildAssembler() *snapshot.Assembler {
	cacheTTL := time.Duration(cfg.Scrape.CacheTTLSec) * time.Second

	var provider llm.Provider
	if cfg.LLM.AnthropicKey != "" {
		p, err := llm.NewAnthropic(cfg.LLM.AnthropicKey, llm.WithModel(cfg.LLM.Model))
		if err == nil {
			provider = p
		} else {
			log.Warn().Err(err).Msg("generation backend unavailable, using templates")
		}
	}

	chart := source.NewChartClient(cacheTTL, log)
	resolver := source.NewResolver(log,
		source.NewStockAnalysis(cacheTTL, log),
		source.NewYahooWeb(cacheTTL, log),
		source.NewNewsFeed(cacheTTL, log),
	)
	gen := insight.NewGenerator(provider, cfg.LLM.Model, cfg.LLM.MaxTokens, log)

	return snapshot.NewAssembler(chart, resolver, gen, log)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("stockscope %s (commit %s, built %s)\n", version, commit, date)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(_ *cobra.Command, _ []string) error {
		server := api.NewServer(cfg, buildAssembler(), log)
		return server.Start()
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <symbol>",
	Short: "Print the quantitative research snapshot for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := buildAssembler().Snapshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(snap)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol> [section]",
	Short: "Run section analysis for a symbol (all sections when omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		assembler := buildAssembler()
		if len(args) == 2 {
			analysis, err := assembler.Section(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(analysis)
		}
		report, err := assembler.Research(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
