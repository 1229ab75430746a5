package conditions

import (
	"time"

	"github.com/google/uuid"
)

// Location identifies a point on Earth. The name doubles as the cache-match
// key, so two saved locations sharing a name resolve to the same cache slot.
type Location struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"` // meters
}

// HourlyForecast is one hour's weather sample. Optional fields are nil when
// the provider did not report them.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	CloudCover    int       `json:"cloud_cover"`    // percent
	Humidity      int       `json:"humidity"`       // percent
	WindSpeed     float64   `json:"wind_speed"`     // km/h
	WindDirection int       `json:"wind_direction"` // degrees
	Temperature   float64   `json:"temperature"`    // celsius
	DewPoint      *float64  `json:"dew_point,omitempty"`
	Visibility    *float64  `json:"visibility,omitempty"` // meters
	LowCloudCover *int      `json:"low_cloud_cover,omitempty"`
}

// SunEvents holds the eight sun event timestamps for one location-day.
type SunEvents struct {
	Sunrise                   time.Time `json:"sunrise"`
	Sunset                    time.Time `json:"sunset"`
	CivilTwilightBegin        time.Time `json:"civil_twilight_begin"`
	CivilTwilightEnd          time.Time `json:"civil_twilight_end"`
	NauticalTwilightBegin     time.Time `json:"nautical_twilight_begin"`
	NauticalTwilightEnd       time.Time `json:"nautical_twilight_end"`
	AstronomicalTwilightBegin time.Time `json:"astronomical_twilight_begin"`
	AstronomicalTwilightEnd   time.Time `json:"astronomical_twilight_end"`
}

// AstronomicalNightStart returns the time full darkness begins.
func (s SunEvents) AstronomicalNightStart() time.Time {
	return s.AstronomicalTwilightEnd
}

// AstronomicalNightEnd returns the time full darkness ends.
func (s SunEvents) AstronomicalNightEnd() time.Time {
	return s.AstronomicalTwilightBegin
}

// AstronomicalNightDuration computes the length of full darkness for the
// given calendar day. Night end normally falls on the next morning, so the
// end time is rolled forward a day when it precedes the start.
func (s SunEvents) AstronomicalNightDuration(on time.Time) time.Duration {
	startOfDay := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, on.Location())

	nightStart := s.AstronomicalNightStart()
	nightEnd := s.AstronomicalNightEnd()

	start := time.Date(startOfDay.Year(), startOfDay.Month(), startOfDay.Day(),
		nightStart.Hour(), nightStart.Minute(), 0, 0, startOfDay.Location())
	end := time.Date(startOfDay.Year(), startOfDay.Month(), startOfDay.Day(),
		nightEnd.Hour(), nightEnd.Minute(), 0, 0, startOfDay.Location())

	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	return end.Sub(start)
}

// MoonInfo describes the moon for one location-day.
type MoonInfo struct {
	Phase        float64 `json:"phase"`      // normalized to [0,1], 0 = new, 0.5 = full
	PhaseName    string  `json:"phase_name"` // one of the 8 named phases
	Altitude     float64 `json:"altitude"`   // degrees above horizon
	Illumination int     `json:"illumination"`
	Glyph        string  `json:"glyph"`
}

// SatellitePass is one visible pass of a tracked satellite.
type SatellitePass struct {
	ID              uuid.UUID `json:"id"`
	RiseTime        time.Time `json:"rise_time"`
	DurationSeconds int       `json:"duration_seconds"`
	MaxElevation    float64   `json:"max_elevation"` // degrees
}

// SetTime returns the time the satellite drops below the horizon.
func (p SatellitePass) SetTime() time.Time {
	return p.RiseTime.Add(time.Duration(p.DurationSeconds) * time.Second)
}

// FogFactor tags a condition that contributed to a fog risk score.
type FogFactor string

const (
	FogFactorHighHumidity  FogFactor = "high_humidity"
	FogFactorLowTempDewGap FogFactor = "low_temp_dew_gap"
	FogFactorLowVisibility FogFactor = "low_visibility"
	FogFactorHighLowCloud  FogFactor = "high_low_cloud"
)

// FogScore is a fog risk percentage plus the factors that produced it.
type FogScore struct {
	Percentage int         `json:"percentage"`
	Factors    []FogFactor `json:"factors"`
}

// NewFogScore clamps the percentage to [0,100].
func NewFogScore(percentage int, factors []FogFactor) FogScore {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return FogScore{Percentage: percentage, Factors: factors}
}

// ViewingConditions is the immutable aggregate snapshot for one location and
// horizon. The location is copied at fetch time rather than referenced, so a
// snapshot survives later edits or deletion of the stored location.
// DailySunEvents and DailyMoonInfo are parallel sequences indexed by day
// offset and always have the same length.
type ViewingConditions struct {
	FetchedAt       time.Time        `json:"fetched_at"`
	Location        Location         `json:"location"`
	HourlyForecasts []HourlyForecast `json:"hourly_forecasts"`
	DailySunEvents  []SunEvents      `json:"daily_sun_events"`
	DailyMoonInfo   []MoonInfo       `json:"daily_moon_info"`
	SatellitePasses []SatellitePass  `json:"satellite_passes"`
	FogScore        FogScore         `json:"fog_score"`
}

// Age returns how long ago the snapshot was fetched.
func (v *ViewingConditions) Age(now time.Time) time.Duration {
	return now.Sub(v.FetchedAt)
}
