package conditions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

type fakeForecast struct {
	forecasts []HourlyForecast
	err       error
	calls     int
}

func (f *fakeForecast) FetchForecast(_ context.Context, _, _ float64, _ int) ([]HourlyForecast, error) {
	f.calls++
	return f.forecasts, f.err
}

type fakeAstro struct{}

func (fakeAstro) SunEvents(_, _ float64, date time.Time) SunEvents {
	return SunEvents{
		Sunrise: date.Add(6 * time.Hour),
		Sunset:  date.Add(18 * time.Hour),
	}
}

func (fakeAstro) MoonInfo(_, _ float64, date time.Time) MoonInfo {
	return MoonInfo{Phase: float64(date.Day()) / 31, PhaseName: "Full Moon", Glyph: "\U0001F315"}
}

type fakePasses struct {
	passes []SatellitePass
	err    error
}

func (f *fakePasses) FetchPasses(_ context.Context, _, _, _ float64, _ int) ([]SatellitePass, error) {
	return f.passes, f.err
}

func foggyForecasts(now time.Time, hours int) []HourlyForecast {
	forecasts := make([]HourlyForecast, hours)
	for i := range forecasts {
		forecasts[i] = HourlyForecast{
			Time:        now.Add(time.Duration(i) * time.Hour),
			CloudCover:  50,
			Humidity:    97,
			Temperature: 6,
			DewPoint:    floatPtr(5.5),
		}
	}
	return forecasts
}

func testLocation() Location {
	return Location{Name: "London", Latitude: 51.5, Longitude: -0.12}
}

func TestBuildSnapshotAssemblesAllCategories(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	forecast := &fakeForecast{forecasts: foggyForecasts(now, 72)}
	passes := &fakePasses{passes: []SatellitePass{
		{ID: uuid.New(), RiseTime: now.Add(11 * time.Hour), DurationSeconds: 300, MaxElevation: 45},
	}}

	o := NewOrchestrator(forecast, fakeAstro{}, passes, logger.NewNop())
	o.now = func() time.Time { return now }

	snapshot, err := o.BuildSnapshot(context.Background(), testLocation(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snapshot.FetchedAt.Equal(now) {
		t.Errorf("expected fetched_at %v, got %v", now, snapshot.FetchedAt)
	}
	if len(snapshot.HourlyForecasts) != 72 {
		t.Errorf("expected 72 forecast hours, got %d", len(snapshot.HourlyForecasts))
	}
	if len(snapshot.DailySunEvents) != 3 || len(snapshot.DailyMoonInfo) != 3 {
		t.Fatalf("expected 3 parallel astronomy entries, got %d sun / %d moon",
			len(snapshot.DailySunEvents), len(snapshot.DailyMoonInfo))
	}
	if len(snapshot.SatellitePasses) != 1 {
		t.Errorf("expected 1 pass, got %d", len(snapshot.SatellitePasses))
	}

	// Per-day entries must line up with their day offset.
	for offset := 0; offset < 3; offset++ {
		wantSunrise := now.AddDate(0, 0, offset).Add(6 * time.Hour)
		if got := snapshot.DailySunEvents[offset].Sunrise; !got.Equal(wantSunrise) {
			t.Errorf("day %d: expected sunrise %v, got %v", offset, wantSunrise, got)
		}
	}

	want := ScoreFog(snapshot.HourlyForecasts[0])
	if snapshot.FogScore.Percentage != want.Percentage {
		t.Errorf("expected fog score %d from first hour, got %d", want.Percentage, snapshot.FogScore.Percentage)
	}
}

func TestBuildSnapshotWeatherFailureAborts(t *testing.T) {
	fetchErr := &NetworkError{Provider: "open-meteo", Err: errors.New("connection refused")}
	forecast := &fakeForecast{err: fetchErr}

	o := NewOrchestrator(forecast, fakeAstro{}, nil, logger.NewNop())

	snapshot, err := o.BuildSnapshot(context.Background(), testLocation(), 3)
	if snapshot != nil {
		t.Error("expected nil snapshot on weather failure")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected the provider error verbatim, got %v", err)
	}
}

func TestBuildSnapshotWithoutPassProvider(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	forecast := &fakeForecast{forecasts: foggyForecasts(now, 24)}

	o := NewOrchestrator(forecast, fakeAstro{}, nil, logger.NewNop())

	snapshot, err := o.BuildSnapshot(context.Background(), testLocation(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.SatellitePasses) != 0 {
		t.Errorf("expected no passes without a provider, got %d", len(snapshot.SatellitePasses))
	}
}

func TestBuildSnapshotPassFailureDegrades(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	forecast := &fakeForecast{forecasts: foggyForecasts(now, 24)}
	passes := &fakePasses{err: &ProviderError{Provider: "n2yo", Err: errors.New("quota exceeded")}}

	o := NewOrchestrator(forecast, fakeAstro{}, passes, logger.NewNop())

	snapshot, err := o.BuildSnapshot(context.Background(), testLocation(), 1)
	if err != nil {
		t.Fatalf("expected pass failure to degrade, got error: %v", err)
	}
	if len(snapshot.SatellitePasses) != 0 {
		t.Errorf("expected empty pass list after pass failure, got %d", len(snapshot.SatellitePasses))
	}
}

func TestBuildSnapshotElevationForwarded(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	forecast := &fakeForecast{forecasts: foggyForecasts(now, 24)}

	var gotElevation float64
	passes := &passRecorder{elevation: &gotElevation}

	o := NewOrchestrator(forecast, fakeAstro{}, passes, logger.NewNop())

	loc := testLocation()
	loc.Elevation = floatPtr(370)
	if _, err := o.BuildSnapshot(context.Background(), loc, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotElevation != 370 {
		t.Errorf("expected elevation 370 forwarded to pass provider, got %v", gotElevation)
	}
}

type passRecorder struct {
	elevation *float64
}

func (p *passRecorder) FetchPasses(_ context.Context, _, _, elevation float64, _ int) ([]SatellitePass, error) {
	*p.elevation = elevation
	return nil, nil
}
