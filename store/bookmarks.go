package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmark is a named search, stored as its URL query string.
type Bookmark struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveBookmark stores state under name, replacing any bookmark with that name.
func SaveBookmark(db *sql.DB, name, state string) error {
	query := `
		INSERT INTO bookmarks (name, state) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET state = excluded.state
	`
	_, err := db.Exec(query, name, state)
	if err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// GetBookmark returns the bookmark called name.
func GetBookmark(db *sql.DB, name string) (Bookmark, error) {
	query := `SELECT name, state, created_at FROM bookmarks WHERE name = ?`
	var b Bookmark
	err := db.QueryRow(query, name).Scan(&b.Name, &b.State, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Bookmark{}, fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return b, nil
}

// ListBookmarks returns all bookmarks ordered by name.
func ListBookmarks(db *sql.DB) ([]Bookmark, error) {
	query := `SELECT name, state, created_at FROM bookmarks ORDER BY name`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.Name, &b.State, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// DeleteBookmark removes the bookmark called name.
func DeleteBookmark(db *sql.DB, name string) error {
	res, err := db.Exec(`DELETE FROM bookmarks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}
	return nil
}
