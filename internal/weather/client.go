// Package weather looks up current conditions and a five-day forecast from
// the OpenWeatherMap API. Lookups never fail: any missing key, transport,
// status or decode problem yields a fixed sample payload instead.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// forecastDays is the number of daily entries returned.
const forecastDays = 5

// Client fetches weather for a named location.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for baseURL. An empty apiKey makes every lookup
// return the sample payload without a network call.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetWeather returns current conditions and the forecast for location.
func (c *Client) GetWeather(ctx context.Context, location string) domain.Weather {
	if c.apiKey == "" {
		c.logger.WarnContext(ctx, "weather API key is missing, using sample data", "location", location)
		return Sample(location)
	}

	var cur currentResponse
	if err := c.get(ctx, "weather", location, &cur); err != nil {
		c.logger.WarnContext(ctx, "weather lookup failed, using sample data", "location", location, "error", err)
		return Sample(location)
	}
	if len(cur.Weather) == 0 {
		c.logger.WarnContext(ctx, "weather lookup returned no conditions, using sample data", "location", location)
		return Sample(location)
	}

	return domain.Weather{
		Location:    cur.Name + ", " + cur.Sys.Country,
		Temperature: round(cur.Main.Temp),
		Condition:   cur.Weather[0].Main,
		Description: cur.Weather[0].Description,
		Humidity:    cur.Main.Humidity,
		WindSpeed:   round(cur.Wind.Speed * 3.6),
		Forecast:    c.GetForecast(ctx, location),
	}
}

// GetForecast returns up to five midday forecast entries for location. On
// failure it returns the sample forecast.
func (c *Client) GetForecast(ctx context.Context, location string) []domain.ForecastDay {
	if c.apiKey == "" {
		return sampleForecast()
	}

	var fc forecastResponse
	if err := c.get(ctx, "forecast", location, &fc); err != nil {
		c.logger.WarnContext(ctx, "forecast lookup failed, using sample data", "location", location, "error", err)
		return sampleForecast()
	}

	days := make([]domain.ForecastDay, 0, forecastDays)
	for _, item := range fc.List {
		if len(days) == forecastDays {
			break
		}
		if !strings.Contains(item.DtTxt, "12:00:00") {
			continue
		}
		day := domain.ForecastDay{
			Date: strings.SplitN(item.DtTxt, " ", 2)[0],
			High: round(item.Main.TempMax),
			Low:  round(item.Main.TempMin),
		}
		if len(item.Weather) > 0 {
			day.Condition = item.Weather[0].Main
		}
		days = append(days, day)
	}
	return days
}

func (c *Client) get(ctx context.Context, endpoint, location string, out any) error {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("weather.Client.get %s: %w", endpoint, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather.Client.get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("weather.Client.get %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weather.Client.get %s: decode: %w", endpoint, err)
	}
	return nil
}

// round matches the app's display rounding: halves go up, also for negatives.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []condition `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			TempMax float64 `json:"temp_max"`
			TempMin float64 `json:"temp_min"`
		} `json:"main"`
		Weather []condition `json:"weather"`
	} `json:"list"`
}
