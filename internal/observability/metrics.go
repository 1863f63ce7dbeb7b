package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus collectors for one rain alert run. The job
// exits after each run, so collectors live on a private registry that is
// pushed to a Pushgateway instead of being scraped.
type Metrics struct {
	Registry *prometheus.Registry

	ForecastRequests    *prometheus.CounterVec // labels: outcome={success,provider_error,transport_error}
	ForecastAPIDuration prometheus.Histogram
	RainFindings        prometheus.Counter
	RainyAreas          prometheus.Gauge

	Notifications *prometheus.CounterVec // labels: outcome={sent,auth_error,delivery_error,transport_error}

	RunDuration      prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates all run metrics and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_alert",
			Name:      "forecast_requests_total",
			Help:      "Forecast provider requests by outcome.",
		}, []string{"outcome"}),
		ForecastAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rain_alert",
			Name:      "forecast_api_duration_seconds",
			Help:      "Forecast provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RainFindings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_alert",
			Name:      "rain_findings_total",
			Help:      "Area-days with precipitation in the look-ahead window.",
		}),
		RainyAreas: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_alert",
			Name:      "rainy_areas",
			Help:      "Distinct areas with at least one finding in the last run.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_alert",
			Name:      "notifications_total",
			Help:      "Notification attempts by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_alert",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last complete run.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_alert",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
	}

	m.Registry.MustRegister(
		m.ForecastRequests,
		m.ForecastAPIDuration,
		m.RainFindings,
		m.RainyAreas,
		m.Notifications,
		m.RunDuration,
		m.LastRunTimestamp,
	)

	return m
}

// Push sends the registry to a Pushgateway under the given job name,
// replacing the job's previous metrics.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(m.Registry).PushContext(ctx)
}
