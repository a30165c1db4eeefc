package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/slug"
)

const seriesColumns = "id, title, description, genre, tags, author_id, cover_url, is_completed, view_count, created_at, updated_at"

func scanSeries(scan func(dest ...any) error) (*models.Series, error) {
	var sr models.Series
	var tags string
	err := scan(&sr.ID, &sr.Title, &sr.Description, &sr.Genre, &tags, &sr.AuthorID,
		&sr.CoverURL, &sr.IsCompleted, &sr.ViewCount, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	sr.Tags = splitTags(tags)
	sr.Slug = slug.Make(sr.Title, sr.ID)
	return &sr, nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, ",")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// CreateSeries inserts a new series owned by authorID.
func (s *Store) CreateSeries(authorID, title, description, genre string, tags []string) (*models.Series, error) {
	id := uuid.NewString()
	now := time.Now()
	query := `INSERT INTO series (id, title, description, genre, tags, author_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.Exec(query, id, title, description, genre, joinTags(tags), authorID, now, now); err != nil {
		return nil, err
	}
	return &models.Series{
		ID:          id,
		Title:       title,
		Slug:        slug.Make(title, id),
		Description: description,
		Genre:       genre,
		Tags:        tags,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetSeriesByID fetches a bare series row, without author or chapters.
func (s *Store) GetSeriesByID(id string) (*models.Series, error) {
	row := s.db.QueryRow("SELECT "+seriesColumns+" FROM series WHERE id = ?", id)
	return scanSeries(row.Scan)
}

// GetSeriesDetail fetches a series together with its author profile and
// ordered chapter list. The sub-fetches carry different severity: a missing
// series row or a missing author profile is a hard not-found (content is
// never rendered without its author), while a chapters fetch failure
// degrades to an empty list with a logged warning.
func (s *Store) GetSeriesDetail(id string) (*models.Series, error) {
	series, err := s.GetSeriesByID(id)
	if err != nil {
		return nil, err
	}

	author, err := s.GetProfileByID(series.AuthorID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			log.Printf("Series %s references missing author %s; treating as not found", id, series.AuthorID)
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	series.Author = author

	chapters, err := s.ListChaptersBySeries(id, false)
	if err != nil {
		log.Printf("Warning: failed to load chapters for series %s: %v", id, err)
		chapters = nil
	}
	series.Chapters = chapters
	return series, nil
}

// ListSeriesOptions filters and paginates the public series listing.
type ListSeriesOptions struct {
	Genre    string
	AuthorID string
	Search   string
	Page     int
	PerPage  int
}

// ListSeries returns a page of series plus the total row count for the
// X-Total-Count header.
func (s *Store) ListSeries(opts ListSeriesOptions) ([]*models.Series, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = 20
	}

	where := "1=1"
	args := []any{}
	if opts.Genre != "" {
		where += " AND genre = ?"
		args = append(args, opts.Genre)
	}
	if opts.AuthorID != "" {
		where += " AND author_id = ?"
		args = append(args, opts.AuthorID)
	}
	if opts.Search != "" {
		where += " AND title LIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM series WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM series WHERE %s ORDER BY updated_at DESC LIMIT ? OFFSET ?", seriesColumns, where)
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Series
	for rows.Next() {
		sr, err := scanSeries(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, sr)
	}
	return list, total, rows.Err()
}

// UpdateSeries updates the editable fields of a series.
func (s *Store) UpdateSeries(id, title, description, genre string, tags []string) error {
	query := "UPDATE series SET title = ?, description = ?, genre = ?, tags = ?, updated_at = ? WHERE id = ?"
	_, err := s.db.Exec(query, title, description, genre, joinTags(tags), time.Now(), id)
	return err
}

// UpdateSeriesCoverURL updates the cover image reference for a series.
func (s *Store) UpdateSeriesCoverURL(id, url string) error {
	_, err := s.db.Exec("UPDATE series SET cover_url = ?, updated_at = ? WHERE id = ?", url, time.Now(), id)
	return err
}

// SetSeriesCompleted flips the completion flag.
func (s *Store) SetSeriesCompleted(id string, completed bool) error {
	_, err := s.db.Exec("UPDATE series SET is_completed = ?, updated_at = ? WHERE id = ?", completed, time.Now(), id)
	return err
}

// DeleteSeries removes a series and its children. Comments and chapters
// are deleted explicitly before the parent row inside one transaction, so
// a child-delete failure aborts the whole operation and leaves no orphans.
// The ON DELETE CASCADE constraints cover the same ground; the two layers
// are deliberately redundant.
func (s *Store) DeleteSeries(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM comments WHERE chapter_id IN (SELECT id FROM chapters WHERE series_id = ?)", id); err != nil {
		return fmt.Errorf("failed to delete series comments: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chapters WHERE series_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete series chapters: %w", err)
	}
	res, err := tx.Exec("DELETE FROM series WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSeriesNotFound
	}

	return tx.Commit()
}

// IncrementSeriesViews bumps the view counter in a single atomic UPDATE.
// Never read-modify-write counters from application code; concurrent
// requests would lose updates.
func (s *Store) IncrementSeriesViews(id string) error {
	res, err := s.db.Exec("UPDATE series SET view_count = view_count + 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSeriesNotFound
	}
	return nil
}
