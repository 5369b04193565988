// Package backend implements the ingest side of the sync contract: a
// SQLite-backed event store and the HTTP endpoint scan runs publish to.
// Events are keyed on their natural identity (club, title, date), which
// is what makes publishing idempotent.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS clubs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL UNIQUE COLLATE NOCASE,
	instagram_url TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	club_id     INTEGER NOT NULL REFERENCES clubs(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	event_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT 'scraped',
	post_url    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'published',
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_events_identity
	ON events(club_id, title, event_date);
`

// Event is a stored event row.
type Event struct {
	ID          int64
	ClubID      int64
	Title       string
	Description string
	EventDate   string
	EndDate     string
	Location    string
	Category    string
	Source      string
	PostURL     string
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindOrCreateClub resolves a club name to its ID, creating the club on
// first sight. Matching is case-insensitive.
func (s *Store) FindOrCreateClub(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("club name cannot be empty")
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM clubs WHERE name = ? COLLATE NOCASE`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up club: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clubs (name, instagram_url) VALUES (?, ?)`,
		name, "https://instagram.com/"+name,
	)
	if err != nil {
		return 0, fmt.Errorf("creating club: %w", err)
	}
	return res.LastInsertId()
}

// CreateEvent inserts the event unless an event with the same club,
// title, and date already exists. Returns the row ID and whether a new
// row was created; a duplicate returns the existing ID.
func (s *Store) CreateEvent(ctx context.Context, ev Event) (int64, bool, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM events WHERE club_id = ? AND title = ? AND event_date = ?`,
		ev.ClubID, ev.Title, ev.EventDate,
	).Scan(&existing)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("checking for duplicate: %w", err)
	}

	source := ev.Source
	if source == "" {
		source = "scraped"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (club_id, title, description, event_date, end_date, location, category, source, post_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ClubID, ev.Title, ev.Description, ev.EventDate, ev.EndDate, ev.Location, ev.Category, source, ev.PostURL,
	)
	if err != nil {
		// The unique index closes the check-then-insert race.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			if serr := s.db.QueryRowContext(ctx,
				`SELECT id FROM events WHERE club_id = ? AND title = ? AND event_date = ?`,
				ev.ClubID, ev.Title, ev.EventDate,
			).Scan(&existing); serr == nil {
				return existing, false, nil
			}
		}
		return 0, false, fmt.Errorf("inserting event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("getting event ID: %w", err)
	}
	return id, true, nil
}

// CountEvents reports the number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}
