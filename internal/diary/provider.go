package diary

import "context"

// WeatherFetcher abstracts the upstream weather API
// (geocode by city name, then current weather by coordinates).
type WeatherFetcher interface {
	FetchCurrentWeather(ctx context.Context, city string) (WeatherSnapshot, error)
}

// EntryStore is the contract the diary table must satisfy.
type EntryStore interface {
	InsertEntry(ctx context.Context, entry Entry) (Entry, error)
	FindEntriesByDate(ctx context.Context, date Date) ([]Entry, error)
	FindEntriesByDateRange(ctx context.Context, start, end Date) ([]Entry, error)
	UpdateFirstEntryByDate(ctx context.Context, date Date, text string) (Entry, error)
	DeleteEntriesByDate(ctx context.Context, date Date) error
}

// WeatherStore is the contract the per-date weather cache must satisfy.
// Records are only ever overwritten by a fresh upsert, never deleted.
type WeatherStore interface {
	FindWeather(ctx context.Context, date Date) (WeatherRecord, error)
	UpsertWeather(ctx context.Context, record WeatherRecord) error
}
