package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"crm-insights/internal/analytics"
	"crm-insights/internal/report"
	"crm-insights/internal/snapshot"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type reportFlags struct {
	snapshot string
	horizon  int
	period   string
	seasonal bool
	decay    analytics.Decay
	format   string
	output   string
	charts   bool
	open     bool
}

var reportOpts reportFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze a snapshot and render a complete report",
	Example: `  crm-insights report --snapshot data/snapshot.json
  crm-insights report --format html --charts --open
  crm-insights report --format json --horizon 12 --period week -o report.json
  crm-insights report --decay-initial 0.8 --decay-floor 0.6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, reportOpts)
	},
}

func runReport(cmd *cobra.Command, f reportFlags) error {
	// 1. Resolve inputs against configuration
	path := f.snapshot
	if path == "" {
		path = cfg.SnapshotPath
	}
	if path == "" {
		return fmt.Errorf("no snapshot given: use --snapshot or set SNAPSHOT_PATH")
	}
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}

	opts := report.Options{Forecast: cfg.ForecastOptions(), Charts: cfg.EnableMermaidCharts}
	flags := cmd.Flags()
	if flags.Changed("horizon") {
		opts.Forecast.Horizon = f.horizon
	}
	if flags.Changed("period") {
		opts.Forecast.Period = analytics.Period(f.period)
	}
	if flags.Changed("seasonal") {
		opts.Forecast.Seasonal = f.seasonal
	}
	if flags.Changed("decay-initial") || flags.Changed("decay-floor") || flags.Changed("decay-range") {
		decay := f.decay
		opts.Forecast.Decay = &decay
	}
	if flags.Changed("charts") {
		opts.Charts = f.charts
	}

	// 2. Analyze
	doc, err := snapshot.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	r, err := report.Build(cmd.Context(), analytics.New(), doc, opts)
	if err != nil {
		return err
	}

	// 3. Render
	output := f.output
	if output == "" && f.open {
		output = filepath.Join(os.TempDir(), "crm-insights-report-"+doc.Hash[:12]+format.Extension())
	}
	if output == "" || output == "-" {
		return report.Render(cmd.OutOrStdout(), r, format)
	}
	if err := writeReport(output, r, format); err != nil {
		return err
	}
	log.Info().Str("path", output).Str("format", string(format)).Msg("Report written")

	if f.open {
		if err := browser.OpenFile(output); err != nil {
			return fmt.Errorf("failed to open report: %w", err)
		}
	}
	return nil
}

func writeReport(path string, r *report.Report, format report.Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := render(file, r, format); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename report file: %w", err)
	}
	return nil
}

func render(w io.Writer, r *report.Report, format report.Format) error {
	if err := report.Render(w, r, format); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func init() {
	fl := reportCmd.Flags()
	fl.StringVarP(&reportOpts.snapshot, "snapshot", "s", "", "snapshot JSON file (default SNAPSHOT_PATH)")
	fl.IntVar(&reportOpts.horizon, "horizon", 6, "number of periods to forecast")
	fl.StringVar(&reportOpts.period, "period", string(analytics.PeriodMonth), "forecast period: day, week, month, quarter or year")
	fl.BoolVar(&reportOpts.seasonal, "seasonal", false, "apply monthly seasonal factors")
	fl.Float64Var(&reportOpts.decay.Initial, "decay-initial", analytics.DefaultDecay.Initial, "forecast confidence of the first period")
	fl.Float64Var(&reportOpts.decay.Floor, "decay-floor", analytics.DefaultDecay.Floor, "lowest forecast confidence")
	fl.Float64Var(&reportOpts.decay.Range, "decay-range", analytics.DefaultDecay.Range, "confidence drop across the horizon")
	fl.StringVarP(&reportOpts.format, "format", "f", string(report.FormatText), "output format: json, markdown, html or text")
	fl.StringVarP(&reportOpts.output, "output", "o", "", "write to file instead of stdout")
	fl.BoolVar(&reportOpts.charts, "charts", false, "embed Mermaid charts (markdown and html)")
	fl.BoolVar(&reportOpts.open, "open", false, "open the written report with the system viewer")
}
