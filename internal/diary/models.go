package diary

// Entry is a single diary entry. The weather columns are copied from the
// record resolved for Entry.Date at creation time and are never re-derived.
type Entry struct {
	ID          int64   `json:"id"`
	Date        Date    `json:"date"`
	Text        string  `json:"text"`
	Weather     string  `json:"weather"`
	Icon        string  `json:"icon"`
	Temperature float64 `json:"temperature"`
}

// WeatherRecord is cached weather data for one calendar date.
// At most one record exists per date.
type WeatherRecord struct {
	Date        Date
	Condition   string
	Icon        string
	Temperature float64
}

// WeatherSnapshot is the flat result of a current-weather fetch.
type WeatherSnapshot struct {
	Condition   string
	Icon        string
	Temperature float64
}
