package weather

import "github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"

// Sample returns the fixed fallback payload with location substituted in.
func Sample(location string) domain.Weather {
	return domain.Weather{
		Location:    location,
		Temperature: 22,
		Condition:   "Sunny",
		Description: "Clear sky with light breeze",
		Humidity:    65,
		WindSpeed:   12,
		Forecast:    sampleForecast(),
	}
}

func sampleForecast() []domain.ForecastDay {
	return []domain.ForecastDay{
		{Date: "2024-01-15", High: 24, Low: 18, Condition: "Sunny"},
		{Date: "2024-01-16", High: 23, Low: 17, Condition: "Partly Cloudy"},
		{Date: "2024-01-17", High: 21, Low: 16, Condition: "Cloudy"},
		{Date: "2024-01-18", High: 20, Low: 15, Condition: "Rainy"},
		{Date: "2024-01-19", High: 22, Low: 17, Condition: "Sunny"},
	}
}
