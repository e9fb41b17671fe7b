package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"crm-insights/internal/analytics"
	"crm-insights/internal/cache"
	"crm-insights/internal/report"
	"crm-insights/internal/snapshot"

	"github.com/rs/zerolog/log"
)

var errNoSnapshot = errors.New("no snapshot provided: pass snapshot_json or snapshot_path, or configure SNAPSHOT_PATH")

// resolveSnapshot decodes the inline document, or loads the given or configured path.
func (s *Server) resolveSnapshot(inline, path string) (*snapshot.Document, error) {
	switch {
	case inline != "" && path != "":
		return nil, fmt.Errorf("snapshot_json and snapshot_path are mutually exclusive")
	case inline != "":
		return snapshot.Decode([]byte(inline))
	case path != "":
		return snapshot.LoadFile(path)
	case s.cfg != nil && s.cfg.SnapshotPath != "":
		return snapshot.LoadFile(s.cfg.SnapshotPath)
	}
	return nil, errNoSnapshot
}

// forecastOptions overlays per-call parameters on the configured defaults.
func (s *Server) forecastOptions(in ForecastInput) analytics.ForecastOptions {
	opts := analytics.ForecastOptions{Horizon: 6, Period: analytics.PeriodMonth}
	if s.cfg != nil {
		opts = s.cfg.ForecastOptions()
	}
	if in.Horizon != 0 {
		opts.Horizon = in.Horizon
	}
	if in.Period != "" {
		opts.Period = analytics.Period(in.Period)
	}
	if in.Seasonal != nil {
		opts.Seasonal = *in.Seasonal
	}
	if in.SeasonalFactors != nil {
		opts.SeasonalFactors = in.SeasonalFactors
	}
	if in.Decay != nil {
		opts.Decay = in.Decay.toDecay()
	}
	return opts
}

func (s *Server) chartsEnabled(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.cfg != nil && s.cfg.EnableMermaidCharts
}

// report builds the full report for a document, memoized by content hash and options.
func (s *Server) report(ctx context.Context, doc *snapshot.Document, opts report.Options) (*report.Report, error) {
	if s.reports == nil {
		return report.Build(ctx, s.engine, doc, opts)
	}

	// Concurrent callers share one build, so it ignores their cancellation
	shared := context.WithoutCancel(ctx)
	compute := func() (*report.Report, error) {
		return report.Build(shared, s.engine, doc, opts)
	}
	key := reportKey(doc.Hash, opts)
	r, hit, err := s.reports.Get(key, compute)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("hash", doc.Hash).Bool("cache_hit", hit).Msg("Report resolved")
	return r, nil
}

func reportKey(hash string, opts report.Options) string {
	f := opts.Forecast
	decay := "default"
	if f.Decay != nil {
		decay = fmt.Sprintf("%g/%g/%g", f.Decay.Initial, f.Decay.Floor, f.Decay.Range)
	}
	return cache.Key(
		hash,
		strconv.Itoa(f.Horizon),
		string(f.Period),
		strconv.FormatBool(f.Seasonal),
		fmt.Sprint(f.SeasonalFactors),
		decay,
		strconv.FormatBool(opts.Charts),
	)
}
