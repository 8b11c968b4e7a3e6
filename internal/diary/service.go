package diary

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when no diary entry or weather record exists
	// for the requested date.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDate is returned when a diary is created for a date beyond
	// the allowed horizon.
	ErrInvalidDate = errors.New("date is beyond the allowed horizon")
)

// cutoffDate is the last date a diary entry may be created for.
var cutoffDate = NewDate(3050, time.January, 1)

// Service orchestrates diary entries and per-date weather resolution.
type Service struct {
	entries EntryStore
	weather WeatherStore
	fetcher WeatherFetcher
	city    string
	log     zerolog.Logger
}

// NewService creates a new Service for the configured city.
func NewService(entries EntryStore, weather WeatherStore, fetcher WeatherFetcher, city string, log zerolog.Logger) *Service {
	return &Service{
		entries: entries,
		weather: weather,
		fetcher: fetcher,
		city:    city,
		log:     log.With().Str("component", "diary").Logger(),
	}
}

// CreateDiary stores a new entry for date, annotated with the weather
// resolved for that date.
func (s *Service) CreateDiary(ctx context.Context, date Date, text string) (Entry, error) {
	if date.After(cutoffDate.Time) {
		return Entry{}, ErrInvalidDate
	}

	record, err := s.resolveWeather(ctx, date)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Date:        date,
		Text:        text,
		Weather:     record.Condition,
		Icon:        record.Icon,
		Temperature: record.Temperature,
	}

	stored, err := s.entries.InsertEntry(ctx, entry)
	if err != nil {
		return Entry{}, err
	}

	s.log.Info().Str("date", date.String()).Int64("id", stored.ID).Msg("diary entry created")
	return stored, nil
}

// resolveWeather looks up the cached weather record for date, falling back
// to a live fetch for the configured city. A freshly fetched record is NOT
// persisted here; only the scheduled daily refresh writes the cache.
func (s *Service) resolveWeather(ctx context.Context, date Date) (WeatherRecord, error) {
	record, err := s.weather.FindWeather(ctx, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return WeatherRecord{}, err
	}

	snapshot, err := s.fetcher.FetchCurrentWeather(ctx, s.city)
	if err != nil {
		return WeatherRecord{}, err
	}

	return WeatherRecord{
		Date:        date,
		Condition:   snapshot.Condition,
		Icon:        snapshot.Icon,
		Temperature: snapshot.Temperature,
	}, nil
}

// ReadDiary returns every entry for the given date.
func (s *Service) ReadDiary(ctx context.Context, date Date) ([]Entry, error) {
	return s.entries.FindEntriesByDate(ctx, date)
}

// ReadDiaries returns every entry between start and end inclusive,
// ordered by date ascending.
func (s *Service) ReadDiaries(ctx context.Context, start, end Date) ([]Entry, error) {
	return s.entries.FindEntriesByDateRange(ctx, start, end)
}

// UpdateDiary replaces the text of the lowest-id entry for the given date.
func (s *Service) UpdateDiary(ctx context.Context, date Date, text string) (Entry, error) {
	return s.entries.UpdateFirstEntryByDate(ctx, date, text)
}

// DeleteDiary removes every entry for the given date. Deleting a date with
// no entries is not an error.
func (s *Service) DeleteDiary(ctx context.Context, date Date) error {
	return s.entries.DeleteEntriesByDate(ctx, date)
}

// RefreshTodayWeather fetches current weather for the configured city and
// upserts it as today's record, regardless of any existing record.
func (s *Service) RefreshTodayWeather(ctx context.Context) error {
	snapshot, err := s.fetcher.FetchCurrentWeather(ctx, s.city)
	if err != nil {
		return err
	}

	record := WeatherRecord{
		Date:        Today(),
		Condition:   snapshot.Condition,
		Icon:        snapshot.Icon,
		Temperature: snapshot.Temperature,
	}
	if err := s.weather.UpsertWeather(ctx, record); err != nil {
		return err
	}

	s.log.Info().
		Str("date", record.Date.String()).
		Str("condition", record.Condition).
		Float64("temperature", record.Temperature).
		Msg("refreshed today's weather")
	return nil
}
