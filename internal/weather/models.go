package weather

// openMeteoResponse mirrors the Open-Meteo forecast API payload for the
// hourly variables this service requests. Parallel arrays indexed by hour;
// values the model could not produce arrive as null.
type openMeteoResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Timezone         string  `json:"timezone"`
	Hourly           struct {
		Time          []string   `json:"time"`
		CloudCover    []*int     `json:"cloud_cover"`
		Humidity      []*int     `json:"relative_humidity_2m"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindDirection []*int     `json:"wind_direction_10m"`
		Temperature   []*float64 `json:"temperature_2m"`
		DewPoint      []*float64 `json:"dew_point_2m"`
		Visibility    []*float64 `json:"visibility"`
		LowCloudCover []*int     `json:"cloud_cover_low"`
	} `json:"hourly"`
}

// hourlyVariables is the hourly variable list requested from Open-Meteo.
const hourlyVariables = "cloud_cover,relative_humidity_2m,wind_speed_10m,wind_direction_10m,temperature_2m,dew_point_2m,visibility,cloud_cover_low"
