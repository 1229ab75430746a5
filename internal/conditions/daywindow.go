package conditions

import "time"

// ForecastsForDay returns the ordered sub-sequence of forecasts whose
// timestamps fall within the calendar day at the given offset from today
// (0 = today, 1 = tomorrow, ...). An offset beyond the fetched horizon
// yields an empty slice, never an error.
func ForecastsForDay(forecasts []HourlyForecast, offset int, now time.Time) []HourlyForecast {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayStart := startOfToday.AddDate(0, 0, offset)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var day []HourlyForecast
	for _, f := range forecasts {
		if !f.Time.Before(dayStart) && f.Time.Before(dayEnd) {
			day = append(day, f)
		}
	}
	return day
}

// CurrentHourForecast locates the "current hour" sample within the selected
// day's slice: the entry on today's calendar day whose hour matches the
// current hour. For future days, or when no exact hour match exists, it falls
// back to the first entry of the slice. An empty slice yields no sample.
func CurrentHourForecast(forecasts []HourlyForecast, offset int, now time.Time) (HourlyForecast, bool) {
	day := ForecastsForDay(forecasts, offset, now)
	if len(day) == 0 {
		return HourlyForecast{}, false
	}

	for _, f := range day {
		sameDay := f.Time.Year() == now.Year() && f.Time.YearDay() == now.YearDay()
		if sameDay && f.Time.Hour() == now.Hour() {
			return f, true
		}
	}

	return day[0], true
}
