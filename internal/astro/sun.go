package astro

import (
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// Calculator computes sun and moon data for a location-day. It satisfies
// conditions.AstronomyCalculator and never fails outward: any internal
// failure degrades to a placeholder for the affected value.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates an astronomy calculator.
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log.Named("astro")}
}

// SunEvents computes the eight sun event timestamps for the given
// location-day. Values that cannot be computed (polar day or night) fall
// back to the requested date rather than failing the whole day.
func (c *Calculator) SunEvents(lat, lon float64, date time.Time) conditions.SunEvents {
	observer := astral.Observer{Latitude: lat, Longitude: lon}

	var events conditions.SunEvents

	t, err := astral.Sunrise(observer, date)
	events.Sunrise = c.orDate(t, err, date, "sunrise")

	t, err = astral.Sunset(observer, date)
	events.Sunset = c.orDate(t, err, date, "sunset")

	t, err = astral.Dawn(observer, date, astral.DepressionCivil)
	events.CivilTwilightBegin = c.orDate(t, err, date, "civil dawn")

	t, err = astral.Dusk(observer, date, astral.DepressionCivil)
	events.CivilTwilightEnd = c.orDate(t, err, date, "civil dusk")

	t, err = astral.Dawn(observer, date, astral.DepressionNautical)
	events.NauticalTwilightBegin = c.orDate(t, err, date, "nautical dawn")

	t, err = astral.Dusk(observer, date, astral.DepressionNautical)
	events.NauticalTwilightEnd = c.orDate(t, err, date, "nautical dusk")

	t, err = astral.Dawn(observer, date, astral.DepressionAstronomical)
	events.AstronomicalTwilightBegin = c.orDate(t, err, date, "astronomical dawn")

	t, err = astral.Dusk(observer, date, astral.DepressionAstronomical)
	events.AstronomicalTwilightEnd = c.orDate(t, err, date, "astronomical dusk")

	return events
}

// orDate unwraps an astral result, substituting the requested date when the
// event does not occur at this latitude and date.
func (c *Calculator) orDate(t time.Time, err error, date time.Time, event string) time.Time {
	if err != nil {
		c.logger.Debug("Sun event not computable, using placeholder",
			logger.String("event", event),
			logger.Time("date", date),
			logger.Error(err))
		return date
	}
	return t
}
