package domain

// Weather is the current conditions plus a five-day forecast for a location.
// Temperatures are degrees Celsius, WindSpeed is km/h.
type Weather struct {
	Location    string        `json:"location"`
	Temperature int           `json:"temperature"`
	Condition   string        `json:"condition"`
	Description string        `json:"description"`
	Humidity    int           `json:"humidity"`
	WindSpeed   int           `json:"windSpeed"`
	Forecast    []ForecastDay `json:"forecast"`
}

// ForecastDay is one day of the forecast. Date is "2006-01-02".
type ForecastDay struct {
	Date      string `json:"date"`
	High      int    `json:"high"`
	Low       int    `json:"low"`
	Condition string `json:"condition"`
}
