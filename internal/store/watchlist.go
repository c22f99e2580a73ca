package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cesargomez89/watchlist/internal/domain"
)

// entrySelect projects one row per film with its meta columns (null when the
// meta row is missing) and genre names as a JSON array in insertion order.
const entrySelect = `
SELECT
	f.film_id, f.title, f.release_date, f.media_type, f.status, f.watched_date,
	f.created_at, f.updated_at,
	m.imdb_id, m.runtime, m.plot, m.rating, m.poster_url,
	(
		SELECT json_group_array(o.name)
		FROM (SELECT g.name FROM genre g WHERE g.film_id = f.film_id ORDER BY g.genre_id) o
	) AS genres
FROM film f
LEFT JOIN meta m ON m.film_id = f.film_id`

type filmRow struct {
	domain.Film
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type metaRow struct {
	domain.Meta
	FilmID int64 `db:"film_id"`
}

// ListAll returns every entry ordered by when it was added.
func (db *DB) ListAll(ctx context.Context) ([]domain.WatchlistEntry, error) {
	entries := []domain.WatchlistEntry{}
	err := db.RunInTx(ctx, func(tx *DB) error {
		if err := tx.SelectContext(ctx, &entries, entrySelect+` ORDER BY f.created_at, f.film_id`); err != nil {
			return storageErr("list watchlist", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns the entry for filmID or ErrNotFound.
func (db *DB) Get(ctx context.Context, filmID int64) (*domain.WatchlistEntry, error) {
	var entry domain.WatchlistEntry
	err := db.GetContext(ctx, &entry, entrySelect+` WHERE f.film_id = ?`, filmID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(filmID)
	}
	if err != nil {
		return nil, storageErr("get watchlist entry", err)
	}
	return &entry, nil
}

// Insert writes the film, its meta row and its genres in one transaction.
// A film already on the list yields ErrConflict and nothing is written.
func (db *DB) Insert(ctx context.Context, film domain.Film, meta domain.Meta, genres []string) (*domain.WatchlistEntry, error) {
	if err := validateFilm(film); err != nil {
		return nil, err
	}

	var entry *domain.WatchlistEntry
	err := db.RunInTx(ctx, func(tx *DB) error {
		exists, err := tx.filmExists(ctx, film.FilmID)
		if err != nil {
			return err
		}
		if exists {
			return conflict(film.FilmID)
		}

		now := time.Now().UTC()
		row := filmRow{Film: film, CreatedAt: now, UpdatedAt: now}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO film (
			film_id, title, release_date, media_type, status, watched_date, created_at, updated_at
		) VALUES (
			:film_id, :title, :release_date, :media_type, :status, :watched_date, :created_at, :updated_at
		)`, row)
		if err != nil {
			if isUniqueViolation(err) {
				return conflict(film.FilmID)
			}
			return storageErr("insert film", err)
		}

		_, err = tx.NamedExecContext(ctx, `INSERT INTO meta (
			film_id, imdb_id, runtime, plot, rating, poster_url
		) VALUES (
			:film_id, :imdb_id, :runtime, :plot, :rating, :poster_url
		)`, metaRow{Meta: meta, FilmID: film.FilmID})
		if err != nil {
			return storageErr("insert meta", err)
		}

		for _, name := range genres {
			if _, err := tx.ExecContext(ctx, `INSERT INTO genre (film_id, name) VALUES (?, ?)`, film.FilmID, name); err != nil {
				return storageErr("insert genre", err)
			}
		}

		entry, err = tx.Get(ctx, film.FilmID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdatePartial applies the supplied fields of patch to the film. Omitted
// fields keep their stored value; a supplied empty watched date clears it.
func (db *DB) UpdatePartial(ctx context.Context, filmID int64, patch domain.FilmPatch) (*domain.WatchlistEntry, error) {
	var entry *domain.WatchlistEntry
	err := db.RunInTx(ctx, func(tx *DB) error {
		exists, err := tx.filmExists(ctx, filmID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(filmID)
		}
		if err := patch.Validate(); err != nil {
			return err
		}

		var sets []string
		var args []interface{}
		if patch.Status.Set {
			sets = append(sets, "status = ?")
			args = append(args, patch.Status.Value)
		}
		if patch.WatchedDate.Set {
			sets = append(sets, "watched_date = ?")
			args = append(args, patch.WatchedDate.Value)
		}
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now().UTC(), filmID)

		query := `UPDATE film SET ` + strings.Join(sets, ", ") + ` WHERE film_id = ?`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return storageErr("update film", err)
		}

		entry, err = tx.Get(ctx, filmID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the film and its dependent rows together.
func (db *DB) Delete(ctx context.Context, filmID int64) error {
	return db.RunInTx(ctx, func(tx *DB) error {
		exists, err := tx.filmExists(ctx, filmID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(filmID)
		}

		// Children first; foreign keys are enforced and nothing cascades.
		for _, stmt := range []struct{ op, query string }{
			{"delete genres", `DELETE FROM genre WHERE film_id = ?`},
			{"delete meta", `DELETE FROM meta WHERE film_id = ?`},
			{"delete film", `DELETE FROM film WHERE film_id = ?`},
		} {
			if _, err := tx.ExecContext(ctx, stmt.query, filmID); err != nil {
				return storageErr(stmt.op, err)
			}
		}
		return nil
	})
}

func (db *DB) filmExists(ctx context.Context, filmID int64) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM film WHERE film_id = ?`, filmID); err != nil {
		return false, storageErr("check film", err)
	}
	return count > 0, nil
}

func validateFilm(film domain.Film) error {
	switch {
	case film.FilmID <= 0:
		return fmt.Errorf("%w: film_id must be positive, got %d", domain.ErrInvalidArgument, film.FilmID)
	case strings.TrimSpace(film.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	case !film.MediaType.Valid():
		return fmt.Errorf("%w: invalid media type %q", domain.ErrInvalidArgument, film.MediaType)
	case !film.Status.Valid():
		return fmt.Errorf("%w: invalid status %q", domain.ErrInvalidArgument, film.Status)
	}
	return nil
}

func notFound(filmID int64) error {
	return fmt.Errorf("%w: film %d is not on the watchlist", domain.ErrNotFound, filmID)
}

func conflict(filmID int64) error {
	return fmt.Errorf("%w: film %d is already on the watchlist", domain.ErrConflict, filmID)
}
