package astro

import (
	"math"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
)

// moonCycleDays is the scale of astral's moon phase value: 0 = new moon,
// 14 = full moon, wrapping just short of 28.
const moonCycleDays = 28.0

// MoonInfo computes the moon phase, illumination, altitude, name, and glyph
// for the given location-day.
func (c *Calculator) MoonInfo(lat, lon float64, date time.Time) conditions.MoonInfo {
	phaseDays := astral.MoonPhase(date)

	normalized := math.Mod(phaseDays, moonCycleDays) / moonCycleDays
	if normalized < 0 {
		normalized += 1
	}

	// Illuminated fraction from the phase angle: 0 at new, 1 at full.
	illumination := int(math.Round((1 - math.Cos(2*math.Pi*normalized)) / 2 * 100))

	return conditions.MoonInfo{
		Phase:        normalized,
		PhaseName:    moonPhaseName(phaseDays),
		Altitude:     moonAltitude(lat, lon, date),
		Illumination: illumination,
		Glyph:        moonGlyph(phaseDays),
	}
}

// moonPhaseName bins the phase value into the 8 named phases. Bins are
// centered on new (0), first quarter (7), full (14), and last quarter (21).
func moonPhaseName(phaseDays float64) string {
	switch {
	case phaseDays < 1.75 || phaseDays >= 26.25:
		return "New Moon"
	case phaseDays < 5.25:
		return "Waxing Crescent"
	case phaseDays < 8.75:
		return "First Quarter"
	case phaseDays < 12.25:
		return "Waxing Gibbous"
	case phaseDays < 15.75:
		return "Full Moon"
	case phaseDays < 19.25:
		return "Waning Gibbous"
	case phaseDays < 22.75:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}

func moonGlyph(phaseDays float64) string {
	switch {
	case phaseDays < 1.75 || phaseDays >= 26.25:
		return "\U0001F311" // new
	case phaseDays < 5.25:
		return "\U0001F312" // waxing crescent
	case phaseDays < 8.75:
		return "\U0001F313" // first quarter
	case phaseDays < 12.25:
		return "\U0001F314" // waxing gibbous
	case phaseDays < 15.75:
		return "\U0001F315" // full
	case phaseDays < 19.25:
		return "\U0001F316" // waning gibbous
	case phaseDays < 22.75:
		return "\U0001F317" // last quarter
	default:
		return "\U0001F318" // waning crescent
	}
}

// moonAltitude returns the moon's altitude above the horizon in degrees,
// using a low-precision lunar position (truncated Meeus series, good to a
// fraction of a degree — plenty for a visibility dashboard).
func moonAltitude(lat, lon float64, t time.Time) float64 {
	const rad = math.Pi / 180
	const obliquity = 23.4397 * rad

	// Days since J2000.0.
	d := float64(t.UTC().Unix())/86400.0 - 10957.5

	// Geocentric ecliptic coordinates.
	meanLon := (218.316 + 13.176396*d) * rad
	meanAnomaly := (134.963 + 13.064993*d) * rad
	meanDistance := (93.272 + 13.229350*d) * rad

	eclLon := meanLon + 6.289*rad*math.Sin(meanAnomaly)
	eclLat := 5.128 * rad * math.Sin(meanDistance)

	// Equatorial coordinates.
	ra := math.Atan2(math.Sin(eclLon)*math.Cos(obliquity)-math.Tan(eclLat)*math.Sin(obliquity), math.Cos(eclLon))
	dec := math.Asin(math.Sin(eclLat)*math.Cos(obliquity) + math.Cos(eclLat)*math.Sin(obliquity)*math.Sin(eclLon))

	// Local hour angle via sidereal time.
	sidereal := (280.16+360.9856235*d)*rad + lon*rad
	hourAngle := sidereal - ra

	latRad := lat * rad
	sinAlt := math.Sin(latRad)*math.Sin(dec) + math.Cos(latRad)*math.Cos(dec)*math.Cos(hourAngle)

	return math.Asin(sinAlt) / rad
}
