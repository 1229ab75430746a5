package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

const providerName = "n2yo"

// ISSNoradID is the NORAD catalog number of the International Space Station.
const ISSNoradID = 25544

// Client fetches visible satellite passes from the N2YO API. It satisfies
// conditions.PassProvider and requires an API key; callers that have no key
// configured should not construct a Client at all. N2YO meters requests per
// hour, so calls go through a rate limiter.
type Client struct {
	baseURL          string
	apiKey           string
	noradID          int
	minVisibilitySec int
	httpClient       *http.Client
	limiter          *rate.Limiter
	logger           *logger.Logger
}

// NewClient creates an N2YO pass client for the given satellite.
func NewClient(baseURL, apiKey string, noradID, minVisibilitySec int, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:          baseURL,
		apiKey:           apiKey,
		noradID:          noradID,
		minVisibilitySec: minVisibilitySec,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(0.25), 3),
		logger:  log.Named("satellite-client"),
	}
}

// n2yoResponse mirrors the N2YO visualpasses payload.
type n2yoResponse struct {
	Info struct {
		SatID       int    `json:"satid"`
		SatName     string `json:"satname"`
		PassesCount int    `json:"passescount"`
	} `json:"info"`
	Passes []n2yoPass `json:"passes"`
}

type n2yoPass struct {
	StartUTC int64   `json:"startUTC"`
	EndUTC   int64   `json:"endUTC"`
	MaxEl    float64 `json:"maxEl"`
	Duration int     `json:"duration"`
	Mag      float64 `json:"mag"`
}

// FetchPasses fetches the visible passes over the next dayCount days.
func (c *Client) FetchPasses(ctx context.Context, lat, lon, elevation float64, days int) ([]conditions.SatellitePass, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	url := fmt.Sprintf("%s/visualpasses/%d/%.4f/%.4f/%d/%d/%d/&apiKey=%s",
		c.baseURL, c.noradID, lat, lon, int(elevation), days, c.minVisibilitySec, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &conditions.ProviderError{Provider: providerName, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &conditions.NetworkError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &conditions.NetworkError{
			Provider: providerName,
			Err:      fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	var payload n2yoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &conditions.DecodeError{Provider: providerName, Err: err}
	}

	passes := make([]conditions.SatellitePass, 0, len(payload.Passes))
	for _, p := range payload.Passes {
		if p.Duration <= 0 {
			continue
		}
		passes = append(passes, conditions.SatellitePass{
			ID:              uuid.New(),
			RiseTime:        time.Unix(p.StartUTC, 0).UTC(),
			DurationSeconds: p.Duration,
			MaxElevation:    p.MaxEl,
		})
	}

	c.logger.Debug("Satellite passes fetched",
		logger.Int("norad_id", c.noradID),
		logger.Int("count", len(passes)))

	return passes, nil
}
