package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/rain-alert/internal/domain"
)

// Client fetches multi-day forecasts from the amap weather API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an amap weather client. baseURL is the full weatherInfo
// endpoint.
func NewClient(key, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Forecast returns the full forecast for one area. A provider-reported
// failure or an empty forecast list yields a *domain.ProviderQueryError; any
// other failure wraps domain.ErrTransport.
func (c *Client) Forecast(ctx context.Context, area domain.Area) (domain.Forecast, error) {
	params := url.Values{
		"key":        {c.key},
		"city":       {area.Adcode},
		"extensions": {"all"},
		"output":     {"JSON"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: forecast request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Forecast{}, fmt.Errorf("%w: amap API error: status %d: %s", domain.ErrTransport, resp.StatusCode, body)
	}

	var wr weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: decode response: %w", domain.ErrTransport, err)
	}

	if wr.Status != "1" || len(wr.Forecasts) == 0 {
		info := wr.Info
		if info == "" {
			info = "empty forecast"
		}
		return domain.Forecast{}, &domain.ProviderQueryError{Area: area.Name, Status: wr.Status, Info: info}
	}

	f := wr.Forecasts[0]
	c.logger.Debug("forecast received",
		"area", area.Name,
		"adcode", area.Adcode,
		"city", f.City,
		"report_time", f.ReportTime,
		"casts", len(f.Casts),
	)
	return f, nil
}

// amap API response types.

type weatherResponse struct {
	Status    string            `json:"status"` // "1" success, "0" failure
	Count     string            `json:"count"`
	Info      string            `json:"info"`
	InfoCode  string            `json:"infocode"`
	Forecasts []domain.Forecast `json:"forecasts"`
}
