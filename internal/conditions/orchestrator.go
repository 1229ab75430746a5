package conditions

import (
	"context"
	"sync"
	"time"

	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// ForecastProvider fetches an ordered hourly forecast series covering the
// requested number of days.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, lat, lon float64, days int) ([]HourlyForecast, error)
}

// AstronomyCalculator computes sun and moon data for one location-day. It
// never fails outward: internal failures degrade to placeholder values.
type AstronomyCalculator interface {
	SunEvents(lat, lon float64, date time.Time) SunEvents
	MoonInfo(lat, lon float64, date time.Time) MoonInfo
}

// PassProvider fetches visible satellite passes over the horizon.
type PassProvider interface {
	FetchPasses(ctx context.Context, lat, lon, elevation float64, days int) ([]SatellitePass, error)
}

// Orchestrator drives the three provider categories for a location and
// assembles the unified snapshot. It performs no persistence.
type Orchestrator struct {
	forecast ForecastProvider
	astro    AstronomyCalculator
	passes   PassProvider // nil when no satellite credential is configured
	logger   *logger.Logger
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator. A nil pass provider means the
// satellite category is skipped entirely and snapshots carry no passes.
func NewOrchestrator(forecast ForecastProvider, astro AstronomyCalculator, passes PassProvider, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		forecast: forecast,
		astro:    astro,
		passes:   passes,
		logger:   log.Named("orchestrator"),
		now:      time.Now,
	}
}

// BuildSnapshot fetches from all providers concurrently and assembles one
// ViewingConditions for the location across the day horizon. A weather
// failure aborts the whole build and is returned verbatim; astronomy degrades
// per-day to placeholders; a satellite failure degrades to an empty pass list.
func (o *Orchestrator) BuildSnapshot(ctx context.Context, loc Location, days int) (*ViewingConditions, error) {
	start := o.now()

	var (
		wg          sync.WaitGroup
		forecasts   []HourlyForecast
		forecastErr error
		sunEvents   = make([]SunEvents, days)
		moonInfo    = make([]MoonInfo, days)
		passes      []SatellitePass
		passErr     error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		forecasts, forecastErr = o.forecast.FetchForecast(ctx, loc.Latitude, loc.Longitude, days)
	}()

	// One pair of calculations per day offset. Results are written into
	// index-addressed slots, so the dailySunEvents[i]/dailyMoonInfo[i]
	// alignment holds regardless of completion order.
	wg.Add(1)
	go func() {
		defer wg.Done()
		var dayWG sync.WaitGroup
		for offset := 0; offset < days; offset++ {
			dayWG.Add(1)
			go func(offset int) {
				defer dayWG.Done()
				date := start.AddDate(0, 0, offset)
				sunEvents[offset] = o.astro.SunEvents(loc.Latitude, loc.Longitude, date)
				moonInfo[offset] = o.astro.MoonInfo(loc.Latitude, loc.Longitude, date)
			}(offset)
		}
		dayWG.Wait()
	}()

	if o.passes != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			elevation := 0.0
			if loc.Elevation != nil {
				elevation = *loc.Elevation
			}
			passes, passErr = o.passes.FetchPasses(ctx, loc.Latitude, loc.Longitude, elevation, days)
		}()
	}

	wg.Wait()

	if forecastErr != nil {
		o.logger.Error("Weather fetch failed, aborting snapshot build",
			logger.String("location", loc.Name),
			logger.Error(forecastErr))
		return nil, forecastErr
	}

	if passErr != nil {
		o.logger.Warn("Satellite pass fetch failed, continuing without passes",
			logger.String("location", loc.Name),
			logger.Error(passErr))
		passes = nil
	}

	snapshot := &ViewingConditions{
		FetchedAt:       start,
		Location:        loc,
		HourlyForecasts: forecasts,
		DailySunEvents:  sunEvents,
		DailyMoonInfo:   moonInfo,
		SatellitePasses: passes,
		FogScore:        CurrentFogScore(forecasts),
	}

	o.logger.Info("Snapshot assembled",
		logger.String("location", loc.Name),
		logger.Int("forecast_hours", len(forecasts)),
		logger.Int("days", days),
		logger.Int("passes", len(passes)),
		logger.Duration("duration", o.now().Sub(start)))

	return snapshot, nil
}
