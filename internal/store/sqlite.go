package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/sjpark-dev/weather-diary/internal/diary"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode for better read concurrency.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS diary (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	text        TEXT NOT NULL,
	weather     TEXT NOT NULL,
	icon        TEXT NOT NULL,
	temperature REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_diary_date ON diary(date);

CREATE TABLE IF NOT EXISTS date_weather (
	date        TEXT PRIMARY KEY,
	weather     TEXT NOT NULL,
	icon        TEXT NOT NULL,
	temperature REAL NOT NULL
);
`

// SQLite persists diary entries and per-date weather records in two tables.
// It implements both diary.EntryStore and diary.WeatherStore.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates the tables if needed and returns the store.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// InsertEntry stores a new entry and returns it with its assigned id.
// SQLite transactions are serializable, which keeps concurrent creates for
// the same date from interleaving inside the insert.
func (s *SQLite) InsertEntry(ctx context.Context, entry diary.Entry) (diary.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return diary.Entry{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO diary (date, text, weather, icon, temperature) VALUES (?, ?, ?, ?, ?)`,
		entry.Date.String(), entry.Text, entry.Weather, entry.Icon, entry.Temperature,
	)
	if err != nil {
		return diary.Entry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return diary.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return diary.Entry{}, err
	}

	entry.ID = id
	return entry, nil
}

// FindEntriesByDate returns every entry for the given date ordered by id.
func (s *SQLite) FindEntriesByDate(ctx context.Context, date diary.Date) ([]diary.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, text, weather, icon, temperature FROM diary WHERE date = ? ORDER BY id`,
		date.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindEntriesByDateRange returns every entry between start and end
// inclusive, ordered by date ascending then id.
func (s *SQLite) FindEntriesByDateRange(ctx context.Context, start, end diary.Date) ([]diary.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, text, weather, icon, temperature FROM diary
		 WHERE date >= ? AND date <= ? ORDER BY date, id`,
		start.String(), end.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// UpdateFirstEntryByDate replaces the text of the lowest-id entry for the
// given date and returns the updated entry. Picking the lowest id makes the
// "first match" deterministic when several entries share a date.
func (s *SQLite) UpdateFirstEntryByDate(ctx context.Context, date diary.Date, text string) (diary.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return diary.Entry{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, date, text, weather, icon, temperature FROM diary WHERE date = ? ORDER BY id LIMIT 1`,
		date.String(),
	)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return diary.Entry{}, diary.ErrNotFound
		}
		return diary.Entry{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE diary SET text = ? WHERE id = ?`, text, entry.ID); err != nil {
		return diary.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return diary.Entry{}, err
	}

	entry.Text = text
	return entry, nil
}

// DeleteEntriesByDate removes every entry for the given date.
// Deleting a date with no entries is a no-op.
func (s *SQLite) DeleteEntriesByDate(ctx context.Context, date diary.Date) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM diary WHERE date = ?`, date.String())
	return err
}

// FindWeather returns the cached weather record for the given date.
func (s *SQLite) FindWeather(ctx context.Context, date diary.Date) (diary.WeatherRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, weather, icon, temperature FROM date_weather WHERE date = ?`,
		date.String(),
	)

	var (
		record  diary.WeatherRecord
		dateStr string
	)
	if err := row.Scan(&dateStr, &record.Condition, &record.Icon, &record.Temperature); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return diary.WeatherRecord{}, diary.ErrNotFound
		}
		return diary.WeatherRecord{}, err
	}

	parsed, err := diary.ParseDate(dateStr)
	if err != nil {
		return diary.WeatherRecord{}, err
	}
	record.Date = parsed
	return record, nil
}

// UpsertWeather stores the record for its date, overwriting any existing
// record. Last write wins.
func (s *SQLite) UpsertWeather(ctx context.Context, record diary.WeatherRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO date_weather (date, weather, icon, temperature) VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET weather = excluded.weather, icon = excluded.icon, temperature = excluded.temperature`,
		record.Date.String(), record.Condition, record.Icon, record.Temperature,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (diary.Entry, error) {
	var (
		entry   diary.Entry
		dateStr string
	)
	if err := row.Scan(&entry.ID, &dateStr, &entry.Text, &entry.Weather, &entry.Icon, &entry.Temperature); err != nil {
		return diary.Entry{}, err
	}

	date, err := diary.ParseDate(dateStr)
	if err != nil {
		return diary.Entry{}, err
	}
	entry.Date = date
	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]diary.Entry, error) {
	entries := []diary.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
