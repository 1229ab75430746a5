package conditions

// Fog risk thresholds and the fixed weight each condition contributes.
const (
	fogHumidityThreshold   = 95   // percent
	fogDewPointGapMax      = 2.5  // celsius
	fogVisibilityThreshold = 1000 // meters
	fogLowCloudThreshold   = 80   // percent

	fogWeightHumidity    = 40
	fogWeightDewPointGap = 30
	fogWeightVisibility  = 20
	fogWeightLowCloud    = 10
)

// ScoreFog maps one hourly sample to a fog risk score. Pure and
// deterministic. Each condition that holds adds its weight and tag; missing
// optional fields cannot trigger their condition.
func ScoreFog(f HourlyForecast) FogScore {
	var percentage int
	var factors []FogFactor

	if f.Humidity > fogHumidityThreshold {
		percentage += fogWeightHumidity
		factors = append(factors, FogFactorHighHumidity)
	}

	if f.DewPoint != nil && f.Temperature-*f.DewPoint < fogDewPointGapMax {
		percentage += fogWeightDewPointGap
		factors = append(factors, FogFactorLowTempDewGap)
	}

	if f.Visibility != nil && *f.Visibility < fogVisibilityThreshold {
		percentage += fogWeightVisibility
		factors = append(factors, FogFactorLowVisibility)
	}

	if f.LowCloudCover != nil && *f.LowCloudCover > fogLowCloudThreshold {
		percentage += fogWeightLowCloud
		factors = append(factors, FogFactorHighLowCloud)
	}

	return NewFogScore(percentage, factors)
}

// CurrentFogScore scores the nearest-term sample of the series. An empty
// series yields a zero score with no factors.
func CurrentFogScore(forecasts []HourlyForecast) FogScore {
	if len(forecasts) == 0 {
		return NewFogScore(0, nil)
	}
	return ScoreFog(forecasts[0])
}
