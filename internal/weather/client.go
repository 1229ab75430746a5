package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

const providerName = "open-meteo"

// Client fetches hourly forecasts from the Open-Meteo API. It satisfies
// conditions.ForecastProvider. A circuit breaker fails calls fast while the
// upstream is down; there is no retry within a refresh cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewClient creates an Open-Meteo forecast client.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    providerName,
			Timeout: 60 * time.Second,
		}),
		logger: log.Named("weather-client"),
	}
}

// FetchForecast fetches the hourly forecast series covering the requested
// number of days in one call. Transport failures surface as NetworkError,
// schema failures as DecodeError.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, days int) ([]conditions.HourlyForecast, error) {
	url := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&hourly=%s&forecast_days=%d&timezone=auto",
		c.baseURL, lat, lon, hourlyVariables, days)

	start := time.Now()

	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, url)
	})
	if err != nil {
		if _, ok := err.(*conditions.DecodeError); ok {
			return nil, err
		}
		return nil, &conditions.NetworkError{Provider: providerName, Err: err}
	}

	payload := result.(*openMeteoResponse)

	forecasts, err := c.mapForecasts(payload)
	if err != nil {
		return nil, &conditions.DecodeError{Provider: providerName, Err: err}
	}

	c.logger.Debug("Forecast fetched",
		logger.Float64("lat", lat),
		logger.Float64("lon", lon),
		logger.Int("days", days),
		logger.Int("hours", len(forecasts)),
		logger.Duration("duration", time.Since(start)))

	return forecasts, nil
}

func (c *Client) fetch(ctx context.Context, url string) (*openMeteoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &conditions.DecodeError{Provider: providerName, Err: err}
	}

	return &payload, nil
}

// mapForecasts converts the parallel Open-Meteo arrays into the ordered
// hourly series. Hours missing any mandatory variable are skipped; optional
// variables stay nil when the model reported null.
func (c *Client) mapForecasts(payload *openMeteoResponse) ([]conditions.HourlyForecast, error) {
	hourly := payload.Hourly
	if len(hourly.Time) == 0 {
		return nil, fmt.Errorf("no hourly data in response")
	}

	zone := time.FixedZone(payload.Timezone, payload.UTCOffsetSeconds)

	forecasts := make([]conditions.HourlyForecast, 0, len(hourly.Time))
	for i, raw := range hourly.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", raw, zone)
		if err != nil {
			return nil, fmt.Errorf("invalid hourly timestamp %q: %w", raw, err)
		}

		if !withinRange(i, len(hourly.CloudCover), len(hourly.Humidity), len(hourly.WindSpeed),
			len(hourly.WindDirection), len(hourly.Temperature)) {
			return nil, fmt.Errorf("hourly arrays shorter than time array")
		}

		if hourly.CloudCover[i] == nil || hourly.Humidity[i] == nil || hourly.WindSpeed[i] == nil ||
			hourly.WindDirection[i] == nil || hourly.Temperature[i] == nil {
			continue
		}

		f := conditions.HourlyForecast{
			Time:          ts,
			CloudCover:    *hourly.CloudCover[i],
			Humidity:      *hourly.Humidity[i],
			WindSpeed:     *hourly.WindSpeed[i],
			WindDirection: *hourly.WindDirection[i],
			Temperature:   *hourly.Temperature[i],
		}

		if i < len(hourly.DewPoint) && hourly.DewPoint[i] != nil {
			f.DewPoint = hourly.DewPoint[i]
		}
		if i < len(hourly.Visibility) && hourly.Visibility[i] != nil {
			f.Visibility = hourly.Visibility[i]
		}
		if i < len(hourly.LowCloudCover) && hourly.LowCloudCover[i] != nil {
			f.LowCloudCover = hourly.LowCloudCover[i]
		}

		forecasts = append(forecasts, f)
	}

	if len(forecasts) == 0 {
		return nil, fmt.Errorf("all hourly samples incomplete")
	}

	return forecasts, nil
}

func withinRange(i int, lengths ...int) bool {
	for _, l := range lengths {
		if i >= l {
			return false
		}
	}
	return true
}
