package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/rain-alert/internal/domain"
	"github.com/couchcryptid/rain-alert/internal/observability"
	"github.com/couchcryptid/rain-alert/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFetcher struct {
	forecasts map[string]domain.Forecast
	errs      map[string]error
	clock     *clockwork.FakeClock
	calls     *[]string
}

func (m *mockFetcher) Forecast(_ context.Context, area domain.Area) (domain.Forecast, error) {
	*m.calls = append(*m.calls, "fetch:"+area.Name)
	if m.clock != nil {
		m.clock.Advance(time.Second)
	}
	if err, ok := m.errs[area.Adcode]; ok {
		return domain.Forecast{}, err
	}
	return m.forecasts[area.Adcode], nil
}

type mockNotifier struct {
	err      error
	messages []string
	calls    *[]string
}

func (m *mockNotifier) Send(_ context.Context, content string) error {
	*m.calls = append(*m.calls, "send")
	m.messages = append(m.messages, content)
	return m.err
}

var (
	xihu     = domain.Area{Name: "西湖区", Adcode: "330106"}
	binjiang = domain.Area{Name: "滨江区", Adcode: "330108"}
	xiaoshan = domain.Area{Name: "萧山区", Adcode: "330109"}
)

func forecastOf(casts ...domain.ForecastDay) domain.Forecast {
	return domain.Forecast{City: "杭州市", ReportTime: "2024-06-01 11:00:00", Casts: casts}
}

func day(date, dayWeather, nightWeather string) domain.ForecastDay {
	return domain.ForecastDay{Date: date, DayWeather: dayWeather, NightWeather: nightWeather}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	calls    []string
	fetcher  *mockFetcher
	notifier *mockNotifier
	metrics  *observability.Metrics
	clock    *clockwork.FakeClock
}

func newFixture() *fixture {
	f := &fixture{
		metrics: observability.NewMetrics(),
		clock:   clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 7, 0, 0, 0, time.UTC)),
	}
	f.fetcher = &mockFetcher{
		forecasts: map[string]domain.Forecast{},
		errs:      map[string]error{},
		clock:     f.clock,
		calls:     &f.calls,
	}
	f.notifier = &mockNotifier{calls: &f.calls}
	return f
}

func (f *fixture) run(areas ...domain.Area) pipeline.Report {
	r := pipeline.New(areas, f.fetcher, f.notifier, discardLogger(), f.metrics, f.clock)
	return r.Run(context.Background())
}

// --- tests ---

func TestRunner_Run_SendsSingleAlert(t *testing.T) {
	f := newFixture()
	f.fetcher.forecasts[xihu.Adcode] = forecastOf(
		day("2024-06-01", "晴", "小雨"),
		day("2024-06-02", "多云", "多云"),
	)
	f.fetcher.forecasts[binjiang.Adcode] = forecastOf(
		day("2024-06-01", "晴", "晴"),
		day("2024-06-02", "晴", "晴"),
		day("2024-06-03", "雷阵雨", "中雨"),
	)

	report := f.run(xihu, binjiang)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, "西湖区", report.Findings[0].Area)
	assert.Equal(t, domain.PeriodNight, report.Findings[0].Time)
	assert.Equal(t, "滨江区", report.Findings[1].Area)
	assert.Equal(t, domain.DayAfterTomorrow, report.Findings[1].DayType)

	assert.True(t, report.Notified)
	assert.NoError(t, report.NotifyErr)
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, domain.RenderAlert(report.Findings), f.notifier.messages[0])
	assert.Equal(t, report.Message, f.notifier.messages[0])

	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.ForecastRequests.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.RainFindings), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.RainyAreas), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Notifications.WithLabelValues("sent")), 0)
}

func TestRunner_Run_AllFetchesBeforeNotify(t *testing.T) {
	f := newFixture()
	f.fetcher.forecasts[xihu.Adcode] = forecastOf(day("2024-06-01", "小雨", "小雨"))
	f.fetcher.forecasts[binjiang.Adcode] = forecastOf(day("2024-06-01", "小雪", "晴"))
	f.fetcher.forecasts[xiaoshan.Adcode] = forecastOf(day("2024-06-01", "晴", "晴"))

	f.run(xihu, binjiang, xiaoshan)

	want := []string{"fetch:西湖区", "fetch:滨江区", "fetch:萧山区", "send"}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_Run_NoRainSkipsNotify(t *testing.T) {
	f := newFixture()
	f.fetcher.forecasts[xihu.Adcode] = forecastOf(day("2024-06-01", "晴", "多云"))
	f.fetcher.forecasts[binjiang.Adcode] = forecastOf()

	report := f.run(xihu, binjiang)

	assert.Empty(t, report.Findings)
	assert.Empty(t, report.Message)
	assert.False(t, report.Notified)
	assert.Empty(t, f.notifier.messages)
	assert.InDelta(t, 0, testutil.ToFloat64(f.metrics.Notifications.WithLabelValues("sent")), 0)
}

func TestRunner_Run_FetchFailuresDoNotAbort(t *testing.T) {
	f := newFixture()
	f.fetcher.errs[xihu.Adcode] = &domain.ProviderQueryError{Area: xihu.Name, Status: "0", Info: "INVALID_USER_KEY"}
	f.fetcher.errs[binjiang.Adcode] = fmt.Errorf("%w: connection refused", domain.ErrTransport)
	f.fetcher.forecasts[xiaoshan.Adcode] = forecastOf(day("2024-06-01", "冰雹", "晴"))

	report := f.run(xihu, binjiang, xiaoshan)

	assert.Equal(t, 3, report.AreasTotal)
	assert.Equal(t, 2, report.AreasFailed)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "萧山区", report.Findings[0].Area)
	assert.True(t, report.Notified)

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ForecastRequests.WithLabelValues("provider_error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ForecastRequests.WithLabelValues("transport_error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ForecastRequests.WithLabelValues("success")), 0)
}

func TestRunner_Run_NotifyFailureIsReported(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"auth", fmt.Errorf("%w: errcode=40013", domain.ErrAuth), "auth_error"},
		{"delivery", &domain.DeliveryError{Code: 81013, Raw: `{"errcode":81013}`}, "delivery_error"},
		{"transport", errors.New("dial tcp: timeout"), "transport_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.fetcher.forecasts[xihu.Adcode] = forecastOf(day("2024-06-01", "小雨", "晴"))
			f.notifier.err = tt.err

			report := f.run(xihu)

			assert.False(t, report.Notified)
			assert.ErrorIs(t, report.NotifyErr, tt.err)
			assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Notifications.WithLabelValues(tt.outcome)), 0)
		})
	}
}

func TestRunner_Run_DuplicateAreasAreNotDeduplicated(t *testing.T) {
	f := newFixture()
	f.fetcher.forecasts[xihu.Adcode] = forecastOf(day("2024-06-01", "小雨", "晴"))

	report := f.run(xihu, xihu)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, report.Findings[0], report.Findings[1])
	assert.Contains(t, report.Message, "📊 本次共有 1 个区域未来三天有降水。")
}

func TestRunner_Run_RecordsTiming(t *testing.T) {
	f := newFixture()
	f.fetcher.forecasts[xihu.Adcode] = forecastOf()
	f.fetcher.forecasts[binjiang.Adcode] = forecastOf()

	f.run(xihu, binjiang)

	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.RunDuration), 0.001)
	assert.InDelta(t, float64(f.clock.Now().Unix()), testutil.ToFloat64(f.metrics.LastRunTimestamp), 0)
}
