// Package repository runs the note statements against the notes table and
// allocates tags.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"public-notes/db"
	"public-notes/models"
	"public-notes/validation"
)

const (
	// DefaultLimit caps every read.
	DefaultLimit = 80
	// MaxCreateAttempts bounds how often Create retries after losing a tag
	// to a concurrent creator.
	MaxCreateAttempts = 5
)

const (
	selectColumns = `SELECT tag, title, name, email, text FROM notes`
	insertNote    = `INSERT INTO notes (tag, title, name, email, text) VALUES (?, ?, ?, ?, ?)`
)

type NoteRepository struct {
	gw  *db.Gateway
	log zerolog.Logger

	// latestTag reads the highest tag inside Create's transaction.
	latestTag func(ctx context.Context, q db.Querier) (int64, bool, error)
}

func NewNoteRepository(gw *db.Gateway, log zerolog.Logger) *NoteRepository {
	r := &NoteRepository{
		gw:  gw,
		log: log.With().Str("component", "repository").Logger(),
	}
	r.latestTag = r.maxTag
	return r
}

// NextTag turns the result of MaxTag into the tag for the next note.
func NextTag(latest int64, found bool) int64 {
	if !found {
		return 0
	}
	return latest + 1
}

// MaxTag returns the highest stored tag. found is false when the table is
// missing or empty; a store that cannot be reached is an error, never an
// empty result.
func (r *NoteRepository) MaxTag(ctx context.Context) (tag int64, found bool, err error) {
	err = r.withTx(ctx, "max_tag", func(tx *sql.Tx) error {
		tag, found, err = r.maxTag(ctx, tx)
		return err
	})
	return tag, found, err
}

func (r *NoteRepository) maxTag(ctx context.Context, q db.Querier) (int64, bool, error) {
	exists, err := r.gw.TableExists(ctx, q, db.NotesTable)
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, nil
	}

	var latest sql.NullInt64
	if err := q.QueryRowContext(ctx, `SELECT MAX(tag) FROM notes`).Scan(&latest); err != nil {
		return 0, false, fmt.Errorf("%w: selecting max tag: %v", db.ErrDatabase, err)
	}
	return latest.Int64, latest.Valid, nil
}

// Create assigns the next tag to note and inserts it. The tag is read and
// written in one transaction; if a concurrent creator wins the same tag the
// primary key rejects the insert and the transaction is retried with a
// fresh tag.
func (r *NoteRepository) Create(ctx context.Context, note models.Note) (models.Note, error) {
	var err error
	for attempt := 1; attempt <= MaxCreateAttempts; attempt++ {
		err = r.withTx(ctx, "create", func(tx *sql.Tx) error {
			latest, found, err := r.latestTag(ctx, tx)
			if err != nil {
				return err
			}
			note.Tag = NextTag(latest, found)
			return r.insert(ctx, tx, note)
		})
		if !errors.Is(err, db.ErrDuplicateTag) {
			break
		}
		r.log.Warn().
			Int64("tag", note.Tag).
			Int("attempt", attempt).
			Msg("Tag taken by a concurrent create, retrying")
	}
	if err != nil {
		return models.Note{}, err
	}

	r.log.Info().Int64("tag", note.Tag).Str("email", note.Email).Msg("Note created")
	return note, nil
}

// Insert stores note under its own tag. A tag already in use yields an
// error matching both db.ErrDatabase and db.ErrDuplicateTag.
func (r *NoteRepository) Insert(ctx context.Context, note models.Note) error {
	return r.withTx(ctx, "insert", func(tx *sql.Tx) error {
		return r.insert(ctx, tx, note)
	})
}

func (r *NoteRepository) insert(ctx context.Context, q db.Querier, note models.Note) error {
	_, err := q.ExecContext(ctx, insertNote, note.Tag, note.Title, note.Name, note.Email, note.Text)
	if err == nil {
		return nil
	}
	if r.gw.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %w: tag %d: %v", db.ErrDatabase, db.ErrDuplicateTag, note.Tag, err)
	}
	return fmt.Errorf("%w: inserting note %d: %v", db.ErrDatabase, note.Tag, err)
}

// DeleteByTag removes every note carrying tag and reports how many went.
func (r *NoteRepository) DeleteByTag(ctx context.Context, tag int64) (int64, error) {
	var deleted int64
	err := r.withTx(ctx, "delete_by_tag", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE tag = ?`, tag)
		if err != nil {
			return fmt.Errorf("%w: deleting tag %d: %v", db.ErrDatabase, tag, err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: rows affected: %v", db.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info().Int64("tag", tag).Int64("deleted", deleted).Msg("Notes deleted")
	return deleted, nil
}

func (r *NoteRepository) ListAll(ctx context.Context, limit int) ([]models.Note, error) {
	return r.query(ctx, "list_all",
		selectColumns+` ORDER BY tag ASC LIMIT ?`, clamp(limit))
}

func (r *NoteRepository) FindByTag(ctx context.Context, tag int64, limit int) ([]models.Note, error) {
	return r.query(ctx, "find_by_tag",
		selectColumns+` WHERE tag = ? ORDER BY tag ASC LIMIT ?`, tag, clamp(limit))
}

// FindByEmail checks the address format before querying.
func (r *NoteRepository) FindByEmail(ctx context.Context, email string, limit int) ([]models.Note, error) {
	email, err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, "find_by_email",
		selectColumns+` WHERE email = ? ORDER BY email ASC, tag ASC LIMIT ?`, email, clamp(limit))
}

func (r *NoteRepository) query(ctx context.Context, op, query string, args ...any) ([]models.Note, error) {
	notes := []models.Note{}
	err := r.withTx(ctx, op, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", db.ErrDatabase, op, err)
		}
		defer rows.Close()

		for rows.Next() {
			var note models.Note
			if err := rows.Scan(&note.Tag, &note.Title, &note.Name, &note.Email, &note.Text); err != nil {
				return fmt.Errorf("%w: %s: scanning row: %v", db.ErrDatabase, op, err)
			}
			notes = append(notes, note)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %s: %v", db.ErrDatabase, op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// withTx borrows a connection, runs fn in a transaction on it and commits,
// or rolls back if fn fails. The connection goes back to the pool on every
// path.
func (r *NoteRepository) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	log := r.log.With().Str("op", op).Logger()

	conn, err := r.gw.Acquire(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Operation failed")
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Could not begin transaction")
		return fmt.Errorf("%w: begin: %v", db.ErrDatabase, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("Rollback failed")
		}
		if errors.Is(err, db.ErrDuplicateTag) {
			log.Warn().Err(err).Msg("Operation rejected")
		} else {
			log.Error().Err(err).Msg("Operation failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("Commit failed")
		return fmt.Errorf("%w: commit: %v", db.ErrDatabase, err)
	}
	return nil
}

func clamp(limit int) int {
	if limit <= 0 || limit > DefaultLimit {
		return DefaultLimit
	}
	return limit
}
