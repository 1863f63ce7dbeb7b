// Command rainalert runs one rain check: it fetches the forecast for every
// configured area, and if rain, snow, thunder or hail is expected within three
// days it sends a single WeCom alert. It takes no flags and always exits 0;
// failures are reported through the log.
package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/rain-alert/internal/adapter/amap"
	"github.com/couchcryptid/rain-alert/internal/adapter/wecom"
	"github.com/couchcryptid/rain-alert/internal/config"
	"github.com/couchcryptid/rain-alert/internal/observability"
	"github.com/couchcryptid/rain-alert/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return
	}

	logger, closeLog, err := observability.NewLogger(cfg)
	if err != nil {
		slog.Error("failed to open log", "error", err)
		return
	}
	defer func() {
		if err := closeLog(); err != nil {
			slog.Error("log close error", "error", err)
		}
	}()

	metrics := observability.NewMetrics()

	fetcher := amap.NewClient(cfg.APIKey, cfg.ForecastBaseURL, cfg.HTTPTimeout, logger)
	notifier := wecom.NewClient(cfg.CorpID, cfg.CorpSecret, cfg.AgentID, cfg.WeComBaseURL, cfg.HTTPTimeout, logger)

	runner := pipeline.New(cfg.Areas, fetcher, notifier, logger, metrics, clockwork.NewRealClock())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := runner.Run(ctx)
	logger.Info("rain check finished",
		"areas", report.AreasTotal,
		"failed", report.AreasFailed,
		"findings", len(report.Findings),
		"notified", report.Notified,
	)

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()
		if err := metrics.Push(pushCtx, cfg.PushgatewayURL, cfg.PushJob); err != nil {
			logger.Warn("metrics push failed", "url", cfg.PushgatewayURL, "error", err)
		}
	}
}
