package diary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntryStore struct {
	entries []Entry
	nextID  int64
}

func (f *fakeEntryStore) InsertEntry(_ context.Context, entry Entry) (Entry, error) {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeEntryStore) FindEntriesByDate(_ context.Context, date Date) ([]Entry, error) {
	var found []Entry
	for _, e := range f.entries {
		if e.Date.Equal(date.Time) {
			found = append(found, e)
		}
	}
	return found, nil
}

func (f *fakeEntryStore) FindEntriesByDateRange(_ context.Context, start, end Date) ([]Entry, error) {
	var found []Entry
	for _, e := range f.entries {
		if !e.Date.Before(start.Time) && !e.Date.After(end.Time) {
			found = append(found, e)
		}
	}
	return found, nil
}

func (f *fakeEntryStore) UpdateFirstEntryByDate(_ context.Context, date Date, text string) (Entry, error) {
	for i, e := range f.entries {
		if e.Date.Equal(date.Time) {
			f.entries[i].Text = text
			return f.entries[i], nil
		}
	}
	return Entry{}, ErrNotFound
}

func (f *fakeEntryStore) DeleteEntriesByDate(_ context.Context, date Date) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !e.Date.Equal(date.Time) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeWeatherStore struct {
	records map[string]WeatherRecord
	upserts int
}

func newFakeWeatherStore() *fakeWeatherStore {
	return &fakeWeatherStore{records: make(map[string]WeatherRecord)}
}

func (f *fakeWeatherStore) FindWeather(_ context.Context, date Date) (WeatherRecord, error) {
	record, ok := f.records[date.String()]
	if !ok {
		return WeatherRecord{}, ErrNotFound
	}
	return record, nil
}

func (f *fakeWeatherStore) UpsertWeather(_ context.Context, record WeatherRecord) error {
	f.upserts++
	f.records[record.Date.String()] = record
	return nil
}

type fakeFetcher struct {
	snapshot WeatherSnapshot
	err      error
	calls    int
}

func (f *fakeFetcher) FetchCurrentWeather(context.Context, string) (WeatherSnapshot, error) {
	f.calls++
	if f.err != nil {
		return WeatherSnapshot{}, f.err
	}
	return f.snapshot, nil
}

func newTestService(entries *fakeEntryStore, cache *fakeWeatherStore, fetcher *fakeFetcher) *Service {
	return NewService(entries, cache, fetcher, "seoul", zerolog.Nop())
}

func TestCreateDiaryCopiesCachedWeather(t *testing.T) {
	date := NewDate(2023, time.October, 25)
	entries := &fakeEntryStore{}
	cache := newFakeWeatherStore()
	cache.records[date.String()] = WeatherRecord{
		Date:        date,
		Condition:   "Rain",
		Icon:        "10d",
		Temperature: 278.2,
	}
	fetcher := &fakeFetcher{}
	svc := newTestService(entries, cache, fetcher)

	entry, err := svc.CreateDiary(context.Background(), date, "오늘의 일기")
	require.NoError(t, err)

	assert.Equal(t, "2023-10-25", entry.Date.String())
	assert.Equal(t, "오늘의 일기", entry.Text)
	assert.Equal(t, "Rain", entry.Weather)
	assert.Equal(t, "10d", entry.Icon)
	assert.Equal(t, 278.2, entry.Temperature)
	assert.NotZero(t, entry.ID)
	assert.Zero(t, fetcher.calls, "cached weather should not trigger a fetch")
}

func TestCreateDiaryFetchesOnCacheMissWithoutPersisting(t *testing.T) {
	date := NewDate(2023, time.October, 26)
	entries := &fakeEntryStore{}
	cache := newFakeWeatherStore()
	fetcher := &fakeFetcher{snapshot: WeatherSnapshot{Condition: "Clear", Icon: "01d", Temperature: 285.0}}
	svc := newTestService(entries, cache, fetcher)

	entry, err := svc.CreateDiary(context.Background(), date, "cache miss")
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, "Clear", entry.Weather)
	// Only the scheduled refresh writes the cache.
	assert.Zero(t, cache.upserts)
}

func TestCreateDiaryRejectsDatesBeyondCutoff(t *testing.T) {
	entries := &fakeEntryStore{}
	cache := newFakeWeatherStore()
	fetcher := &fakeFetcher{}
	svc := newTestService(entries, cache, fetcher)

	_, err := svc.CreateDiary(context.Background(), NewDate(5000, time.May, 13), "오늘의 일기")
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, entries.entries, "nothing must be persisted for an invalid date")
	assert.Zero(t, fetcher.calls)
}

func TestCreateDiaryAllowsCutoffDateItself(t *testing.T) {
	entries := &fakeEntryStore{}
	cache := newFakeWeatherStore()
	fetcher := &fakeFetcher{snapshot: WeatherSnapshot{Condition: "Clouds", Icon: "03d", Temperature: 280.0}}
	svc := newTestService(entries, cache, fetcher)

	_, err := svc.CreateDiary(context.Background(), NewDate(3050, time.January, 1), "far future")
	require.NoError(t, err)

	_, err = svc.CreateDiary(context.Background(), NewDate(3050, time.January, 2), "too far")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestCreateDiarySurfacesUpstreamFailure(t *testing.T) {
	upstreamErr := errors.New("upstream down")
	entries := &fakeEntryStore{}
	svc := newTestService(entries, newFakeWeatherStore(), &fakeFetcher{err: upstreamErr})

	_, err := svc.CreateDiary(context.Background(), NewDate(2023, time.October, 25), "text")
	require.ErrorIs(t, err, upstreamErr)
	assert.Empty(t, entries.entries)
}

func TestUpdateDiaryNotFound(t *testing.T) {
	svc := newTestService(&fakeEntryStore{}, newFakeWeatherStore(), &fakeFetcher{})

	_, err := svc.UpdateDiary(context.Background(), NewDate(2023, time.October, 25), "new text")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDiaryIsIdempotent(t *testing.T) {
	svc := newTestService(&fakeEntryStore{}, newFakeWeatherStore(), &fakeFetcher{})

	require.NoError(t, svc.DeleteDiary(context.Background(), NewDate(2023, time.October, 25)))
}

func TestRefreshTodayWeatherAlwaysFetchesAndUpserts(t *testing.T) {
	cache := newFakeWeatherStore()
	fetcher := &fakeFetcher{snapshot: WeatherSnapshot{Condition: "Snow", Icon: "13d", Temperature: 270.1}}
	svc := newTestService(&fakeEntryStore{}, cache, fetcher)

	require.NoError(t, svc.RefreshTodayWeather(context.Background()))
	require.NoError(t, svc.RefreshTodayWeather(context.Background()))

	assert.Equal(t, 2, fetcher.calls, "refresh must ignore the cache and re-fetch")
	assert.Equal(t, 2, cache.upserts)

	record, err := cache.FindWeather(context.Background(), Today())
	require.NoError(t, err)
	assert.Equal(t, "Snow", record.Condition)
}

func TestRefreshTodayWeatherPropagatesFetchFailure(t *testing.T) {
	cache := newFakeWeatherStore()
	fetcher := &fakeFetcher{err: errors.New("boom")}
	svc := newTestService(&fakeEntryStore{}, cache, fetcher)

	require.Error(t, svc.RefreshTodayWeather(context.Background()))
	assert.Zero(t, cache.upserts)
}
