package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/rain-alert/internal/domain"
	"github.com/couchcryptid/rain-alert/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ForecastFetcher retrieves the multi-day forecast for one area.
type ForecastFetcher interface {
	Forecast(ctx context.Context, area domain.Area) (domain.Forecast, error)
}

// Notifier delivers a rendered alert.
type Notifier interface {
	Send(ctx context.Context, content string) error
}

// Report summarises one run.
type Report struct {
	AreasTotal  int
	AreasFailed int
	Findings    []domain.RainFinding
	Message     string
	Notified    bool
	NotifyErr   error
}

// Runner performs one check-and-notify cycle over the configured areas.
type Runner struct {
	areas    []domain.Area
	fetcher  ForecastFetcher
	notifier Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// New creates a Runner. Areas are checked in the order given.
func New(areas []domain.Area, f ForecastFetcher, n Notifier, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Runner {
	return &Runner{
		areas:    areas,
		fetcher:  f,
		notifier: n,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
	}
}

// Run fetches and classifies every area, then renders and sends a single
// alert if any precipitation was found. Failures are logged and reported,
// never returned.
func (r *Runner) Run(ctx context.Context) Report {
	start := r.clock.Now()
	defer func() {
		r.metrics.RunDuration.Set(r.clock.Since(start).Seconds())
		r.metrics.LastRunTimestamp.Set(float64(r.clock.Now().Unix()))
	}()

	r.logger.Info("rain check started", "areas", len(r.areas))

	report := Report{AreasTotal: len(r.areas)}
	var agg domain.Aggregator
	for _, area := range r.areas {
		findings, ok := r.checkArea(ctx, area)
		if !ok {
			report.AreasFailed++
			continue
		}
		agg.Add(findings...)
	}

	report.Findings = agg.Findings()
	r.metrics.RainFindings.Add(float64(agg.Len()))
	r.metrics.RainyAreas.Set(float64(len(agg.Areas())))

	if agg.Empty() {
		r.logger.Info("no precipitation forecast in the next three days",
			"areas", report.AreasTotal, "failed", report.AreasFailed)
		return report
	}

	r.logger.Info("precipitation forecast, sending alert",
		"findings", agg.Len(), "rainy_areas", len(agg.Areas()))
	for _, f := range report.Findings {
		r.logger.Info("rain finding",
			"area", f.Area,
			"date", f.Date,
			"day_type", f.DayType.String(),
			"time", string(f.Time),
			"weather", f.Weather,
		)
	}

	report.Message = domain.RenderAlert(report.Findings)
	if err := r.notifier.Send(ctx, report.Message); err != nil {
		report.NotifyErr = err
		r.metrics.Notifications.WithLabelValues(notifyOutcome(err)).Inc()
		r.logger.Error("alert not delivered", "error", err)
		return report
	}

	report.Notified = true
	r.metrics.Notifications.WithLabelValues("sent").Inc()
	r.logger.Info("alert delivered", "rainy_areas", len(agg.Areas()))
	return report
}

// checkArea fetches one forecast and classifies it. It returns false when the
// fetch failed.
func (r *Runner) checkArea(ctx context.Context, area domain.Area) ([]domain.RainFinding, bool) {
	reqStart := r.clock.Now()
	forecast, err := r.fetcher.Forecast(ctx, area)
	r.metrics.ForecastAPIDuration.Observe(r.clock.Since(reqStart).Seconds())

	if err != nil {
		var pqe *domain.ProviderQueryError
		if errors.As(err, &pqe) {
			r.metrics.ForecastRequests.WithLabelValues("provider_error").Inc()
			r.logger.Warn("forecast query failed", "area", area.Name, "adcode", area.Adcode, "reason", pqe.Info)
			return nil, false
		}
		r.metrics.ForecastRequests.WithLabelValues("transport_error").Inc()
		r.logger.Warn("forecast request error", "area", area.Name, "adcode", area.Adcode, "error", err)
		return nil, false
	}
	r.metrics.ForecastRequests.WithLabelValues("success").Inc()

	r.logger.Info("forecast",
		"area", area.Name,
		"city", forecast.City,
		"report_time", forecast.ReportTime,
	)
	for i, c := range forecast.Casts {
		r.logger.Info("cast",
			"area", area.Name,
			"day", domain.DayType(i).Label(),
			"date", c.Date,
			"day_weather", c.DayWeather,
			"night_weather", c.NightWeather,
			"temp", string(c.DayTemp)+"°C ~ "+string(c.NightTemp)+"°C",
			"wind", c.DayWind+" / "+c.NightWind,
			"power", string(c.DayPower)+" / "+string(c.NightPower),
		)
	}

	return domain.ClassifyRain(area.Name, forecast.Casts), true
}

func notifyOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return "auth_error"
	case errors.Is(err, domain.ErrDelivery):
		return "delivery_error"
	default:
		return "transport_error"
	}
}
