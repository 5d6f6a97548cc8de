// Package weather looks up current outdoor conditions for a location.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type Conditions struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*Conditions, error)
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("weather: unexpected status %d", e.code) }

// OpenMeteo queries the open-meteo.com forecast API, which needs no key.
type OpenMeteo struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    backoff
	log        *logger.Logger
}

func NewOpenMeteoFromEnv(log *logger.Logger) *OpenMeteo {
	return &OpenMeteo{
		baseURL:    envutil.String("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		httpClient: &http.Client{Timeout: envutil.Seconds("WEATHER_TIMEOUT_SECONDS", 5*time.Second)},
		maxRetries: envutil.Int("WEATHER_MAX_RETRIES", 2),
		backoff:    defaultBackoff,
		log:        log.With("client", "OpenMeteo"),
	}
}

func NewOpenMeteo(baseURL string, httpClient *http.Client, log *logger.Logger) *OpenMeteo {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenMeteo{baseURL: baseURL, httpClient: httpClient, backoff: defaultBackoff, log: log.With("client", "OpenMeteo")}
}

type currentResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (c *OpenMeteo) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current_weather", "true")
	endpoint := c.baseURL + "/v1/forecast?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		out, resp, err := c.do(ctx, endpoint)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !transient(err) || attempt == c.maxRetries || ctx.Err() != nil {
			break
		}
		sleep := c.backoff.delay(attempt, resp)
		c.log.Debug("weather lookup retrying", "attempt", attempt+1, "sleep", sleep, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, lastErr
}

func (c *OpenMeteo) do(ctx context.Context, endpoint string) (*Conditions, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp, &statusError{code: resp.StatusCode}
	}
	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, resp, fmt.Errorf("weather: decode: %w", err)
	}
	if body.CurrentWeather == nil {
		return nil, resp, errors.New("weather: response missing current_weather")
	}
	return &Conditions{
		Temperature: body.CurrentWeather.Temperature,
		Condition:   ConditionForCode(body.CurrentWeather.WeatherCode),
	}, resp, nil
}

// ConditionForCode buckets WMO weather interpretation codes.
func ConditionForCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code >= 1 && code <= 3:
		return "cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return "rain"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "snow"
	case code >= 95:
		return "storm"
	default:
		return "unknown"
	}
}
