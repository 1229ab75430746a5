package conditions

import (
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestScoreFog(t *testing.T) {
	tests := []struct {
		name          string
		forecast      HourlyForecast
		expectPercent int
		expectFactors []FogFactor
	}{
		{
			name: "all four conditions met",
			forecast: HourlyForecast{
				Humidity:      98,
				Temperature:   10.0,
				DewPoint:      floatPtr(9.0),
				Visibility:    floatPtr(500),
				LowCloudCover: intPtr(95),
			},
			expectPercent: 100,
			expectFactors: []FogFactor{FogFactorHighHumidity, FogFactorLowTempDewGap, FogFactorLowVisibility, FogFactorHighLowCloud},
		},
		{
			name: "no optional fields and low humidity",
			forecast: HourlyForecast{
				Humidity:    80,
				Temperature: 15.0,
			},
			expectPercent: 0,
			expectFactors: nil,
		},
		{
			name: "high humidity only",
			forecast: HourlyForecast{
				Humidity:    96,
				Temperature: 15.0,
			},
			expectPercent: 40,
			expectFactors: []FogFactor{FogFactorHighHumidity},
		},
		{
			name: "low temp dew gap only",
			forecast: HourlyForecast{
				Humidity:    50,
				Temperature: 10.0,
				DewPoint:    floatPtr(8.0),
			},
			expectPercent: 30,
			expectFactors: []FogFactor{FogFactorLowTempDewGap},
		},
		{
			name: "low visibility only",
			forecast: HourlyForecast{
				Humidity:    50,
				Temperature: 15.0,
				Visibility:  floatPtr(999),
			},
			expectPercent: 20,
			expectFactors: []FogFactor{FogFactorLowVisibility},
		},
		{
			name: "high low cloud only",
			forecast: HourlyForecast{
				Humidity:      50,
				Temperature:   15.0,
				LowCloudCover: intPtr(81),
			},
			expectPercent: 10,
			expectFactors: []FogFactor{FogFactorHighLowCloud},
		},
		{
			name: "missing optionals cannot trigger despite foggy values elsewhere",
			forecast: HourlyForecast{
				Humidity:    96,
				Temperature: 0.5, // would be a tiny gap if dew point were present
			},
			expectPercent: 40,
			expectFactors: []FogFactor{FogFactorHighHumidity},
		},
		{
			name: "boundary values do not trigger",
			forecast: HourlyForecast{
				Humidity:      95,
				Temperature:   10.0,
				DewPoint:      floatPtr(7.5), // gap exactly 2.5
				Visibility:    floatPtr(1000),
				LowCloudCover: intPtr(80),
			},
			expectPercent: 0,
			expectFactors: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreFog(tt.forecast)

			if score.Percentage != tt.expectPercent {
				t.Errorf("expected percentage %d, got %d", tt.expectPercent, score.Percentage)
			}
			if len(score.Factors) != len(tt.expectFactors) {
				t.Fatalf("expected %d factors, got %d (%v)", len(tt.expectFactors), len(score.Factors), score.Factors)
			}
			for i, factor := range tt.expectFactors {
				if score.Factors[i] != factor {
					t.Errorf("expected factor %d to be %s, got %s", i, factor, score.Factors[i])
				}
			}
		})
	}
}

func TestScoreFogDeterministic(t *testing.T) {
	forecast := HourlyForecast{
		Time:        time.Now(),
		Humidity:    98,
		Temperature: 5.0,
		DewPoint:    floatPtr(4.0),
	}

	first := ScoreFog(forecast)
	second := ScoreFog(forecast)

	if first.Percentage != second.Percentage || len(first.Factors) != len(second.Factors) {
		t.Errorf("expected identical scores, got %v and %v", first, second)
	}
}

func TestNewFogScoreClamps(t *testing.T) {
	if score := NewFogScore(150, nil); score.Percentage != 100 {
		t.Errorf("expected clamp to 100, got %d", score.Percentage)
	}
	if score := NewFogScore(-10, nil); score.Percentage != 0 {
		t.Errorf("expected clamp to 0, got %d", score.Percentage)
	}
}

func TestCurrentFogScoreEmptySeries(t *testing.T) {
	score := CurrentFogScore(nil)
	if score.Percentage != 0 || len(score.Factors) != 0 {
		t.Errorf("expected zero score for empty series, got %v", score)
	}
}

func TestCurrentFogScoreUsesFirstSample(t *testing.T) {
	forecasts := []HourlyForecast{
		{Humidity: 98, Temperature: 10},
		{Humidity: 10, Temperature: 20},
	}

	score := CurrentFogScore(forecasts)
	want := ScoreFog(forecasts[0])

	if score.Percentage != want.Percentage {
		t.Errorf("expected score of first sample (%d), got %d", want.Percentage, score.Percentage)
	}
}
