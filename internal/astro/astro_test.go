package astro

import (
	"testing"
	"time"

	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

func TestMoonPhaseNames(t *testing.T) {
	tests := []struct {
		phaseDays float64
		name      string
		glyph     string
	}{
		{0, "New Moon", "\U0001F311"},
		{1.7, "New Moon", "\U0001F311"},
		{3.5, "Waxing Crescent", "\U0001F312"},
		{7, "First Quarter", "\U0001F313"},
		{10.5, "Waxing Gibbous", "\U0001F314"},
		{14, "Full Moon", "\U0001F315"},
		{17.5, "Waning Gibbous", "\U0001F316"},
		{21, "Last Quarter", "\U0001F317"},
		{24.5, "Waning Crescent", "\U0001F318"},
		{27, "New Moon", "\U0001F311"},
	}

	for _, tt := range tests {
		if got := moonPhaseName(tt.phaseDays); got != tt.name {
			t.Errorf("moonPhaseName(%v) = %q, want %q", tt.phaseDays, got, tt.name)
		}
		if got := moonGlyph(tt.phaseDays); got != tt.glyph {
			t.Errorf("moonGlyph(%v) = %q, want %q", tt.phaseDays, got, tt.glyph)
		}
	}
}

func TestMoonInfoRanges(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	// Sweep a full lunar cycle and check every derived value stays in range.
	start := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)
		info := c.MoonInfo(51.5, -0.12, date)

		if info.Phase < 0 || info.Phase >= 1 {
			t.Errorf("%s: phase %v out of [0,1)", date.Format("2006-01-02"), info.Phase)
		}
		if info.Illumination < 0 || info.Illumination > 100 {
			t.Errorf("%s: illumination %d out of [0,100]", date.Format("2006-01-02"), info.Illumination)
		}
		if info.Altitude < -90 || info.Altitude > 90 {
			t.Errorf("%s: altitude %v out of [-90,90]", date.Format("2006-01-02"), info.Altitude)
		}
		if info.PhaseName == "" || info.Glyph == "" {
			t.Errorf("%s: missing phase name or glyph", date.Format("2006-01-02"))
		}
	}
}

func TestMoonAltitudeBounded(t *testing.T) {
	coords := []struct{ lat, lon float64 }{
		{51.5, -0.12},
		{-33.87, 151.21},
		{0, 0},
		{78.22, 15.63},
	}

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, coord := range coords {
		for hour := 0; hour < 24; hour += 3 {
			alt := moonAltitude(coord.lat, coord.lon, base.Add(time.Duration(hour)*time.Hour))
			if alt < -90 || alt > 90 {
				t.Errorf("lat %v lon %v hour %d: altitude %v out of [-90,90]", coord.lat, coord.lon, hour, alt)
			}
		}
	}
}

func TestSunEventsOrdering(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	// Mid-latitude equinox day: every event occurs and the usual ordering
	// holds from astronomical dawn through astronomical dusk.
	events := c.SunEvents(51.5, -0.12, time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))

	sequence := []struct {
		name string
		t    time.Time
	}{
		{"astronomical dawn", events.AstronomicalTwilightBegin},
		{"nautical dawn", events.NauticalTwilightBegin},
		{"civil dawn", events.CivilTwilightBegin},
		{"sunrise", events.Sunrise},
		{"sunset", events.Sunset},
		{"civil dusk", events.CivilTwilightEnd},
		{"nautical dusk", events.NauticalTwilightEnd},
		{"astronomical dusk", events.AstronomicalTwilightEnd},
	}

	for i := 1; i < len(sequence); i++ {
		if !sequence[i-1].t.Before(sequence[i].t) {
			t.Errorf("expected %s (%v) before %s (%v)",
				sequence[i-1].name, sequence[i-1].t, sequence[i].name, sequence[i].t)
		}
	}
}

func TestSunEventsPolarPlaceholders(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	// Midsummer in Svalbard: the sun never sets and astronomical twilight
	// never occurs, so those events fall back to the requested date.
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	events := c.SunEvents(78.22, 15.63, date)

	if !events.AstronomicalTwilightBegin.Equal(date) {
		t.Errorf("expected placeholder astronomical dawn %v, got %v", date, events.AstronomicalTwilightBegin)
	}
	if !events.AstronomicalTwilightEnd.Equal(date) {
		t.Errorf("expected placeholder astronomical dusk %v, got %v", date, events.AstronomicalTwilightEnd)
	}
}
