package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound indicates that the entity hasn't been found in the database.
var ErrNotFound = errors.New("not found")

// Theme is the dashboard color theme.
type Theme string

// Themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid checks whether the theme is known.
func (t Theme) Valid() bool { return t == ThemeDark || t == ThemeLight }

// Preferences are the settings kept between sessions of an owner:
// the last used steam identifier and the theme. Everything else is
// derived again on load.
type Preferences struct {
	Owner     string    `db:"owner"      json:"owner"`
	SteamID   string    `db:"steam_id"   json:"steamId"`
	Theme     Theme     `db:"theme"      json:"theme"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Store provides methods to store/load data.
type Store struct {
	db *sqlx.DB
}

// New prepares the database.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite, single writer

	const schema = `
		CREATE TABLE IF NOT EXISTS preferences (
			owner TEXT PRIMARY KEY,
			steam_id TEXT NOT NULL DEFAULT '',
			theme TEXT NOT NULL DEFAULT 'dark',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the preferences of the owner.
func (s *Store) Get(ctx context.Context, owner string) (Preferences, error) {
	var p Preferences
	err := s.db.GetContext(ctx, &p, `SELECT * FROM preferences WHERE owner = ?`, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, ErrNotFound
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// Upsert creates or replaces the preferences of the owner.
func (s *Store) Upsert(ctx context.Context, p Preferences) error {
	if p.Owner == "" {
		return errors.New("owner is required")
	}
	if p.Theme == "" {
		p.Theme = ThemeDark
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO preferences (owner, steam_id, theme, updated_at)
					VALUES (:owner, :steam_id, :theme, :updated_at)
					ON CONFLICT(owner) DO UPDATE SET
						steam_id = excluded.steam_id,
						theme = excluded.theme,
						updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}

	return nil
}

// Delete removes the preferences of the owner.
func (s *Store) Delete(ctx context.Context, owner string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE owner = ?`, owner)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
