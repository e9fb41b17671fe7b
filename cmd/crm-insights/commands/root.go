package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"crm-insights/internal/analytics"
	"crm-insights/internal/cache"
	"crm-insights/internal/config"
	"crm-insights/internal/logging"
	"crm-insights/internal/mcp"
	"crm-insights/internal/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "crm-insights",
	Short: "CRM Insights is a business analytics MCP server",
	Long: `An MCP server and CLI that turns a CRM data snapshot into insights, recommendations,
forecasts, RFM segments, lead scores, churn risk, campaign attribution and
price/inventory suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logFile, err = logging.Init(logging.Options{
			Verbose: verbose,
			Level:   cfg.LogLevel,
			Dir:     cfg.LogDir,
		})
		if err != nil {
			return err
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("dataPath", cfg.DataPath).
			Msg("CRM Insights starting")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	// 1. Warm the result cache
	reports := cache.New[*report.Report](cfg.CacheTTL)
	if err := reports.Load(cfg.CacheFile()); err != nil {
		log.Warn().Err(err).Msg("Ignoring unreadable result cache")
	}

	// 2. Serve until the client disconnects
	server := mcp.NewServer(cfg, analytics.New(), reports)
	err := server.Serve(ctx)

	// 3. Persist what is still fresh
	if dropped := reports.Prune(); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("Pruned expired cache entries")
	}
	if saveErr := reports.Save(cfg.CacheFile()); saveErr != nil {
		log.Warn().Err(saveErr).Msg("Failed to persist result cache")
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(reportCmd, schemaCmd, versionCmd)
}
