package store

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/casadosescritores/escritores-go/internal/excerpt"
	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/slug"
)

const chapterColumns = "id, series_id, author_id, title, body, chapter_number, is_published, view_count, created_at, updated_at"

func scanChapter(scan func(dest ...any) error) (*models.Chapter, error) {
	var c models.Chapter
	err := scan(&c.ID, &c.SeriesID, &c.AuthorID, &c.Title, &c.Body, &c.ChapterNumber,
		&c.IsPublished, &c.ViewCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	c.Slug = slug.Make(c.Title, c.ID)
	return &c, nil
}

// CreateChapter inserts a new chapter. The chapter number is assigned as
// max(existing)+1 within the same transaction, keeping numbers unique and
// dense per series.
func (s *Store) CreateChapter(seriesID, authorID, title, body string) (*models.Chapter, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var number int
	if err := tx.QueryRow("SELECT COALESCE(MAX(chapter_number), 0) + 1 FROM chapters WHERE series_id = ?", seriesID).Scan(&number); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now()
	query := `INSERT INTO chapters (id, series_id, author_id, title, body, chapter_number, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, id, seriesID, authorID, title, body, number, now, now); err != nil {
		return nil, err
	}
	if _, err := tx.Exec("UPDATE series SET updated_at = ? WHERE id = ?", now, seriesID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Chapter{
		ID:            id,
		SeriesID:      seriesID,
		AuthorID:      authorID,
		Title:         title,
		Slug:          slug.Make(title, id),
		Body:          body,
		ChapterNumber: number,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// GetChapterByID fetches a single chapter by its ID, draft or published.
func (s *Store) GetChapterByID(id string) (*models.Chapter, error) {
	row := s.db.QueryRow("SELECT "+chapterColumns+" FROM chapters WHERE id = ?", id)
	return scanChapter(row.Scan)
}

// GetChapterDetail fetches a published chapter for public rendering. Like
// series detail, a missing author profile escalates to not-found.
func (s *Store) GetChapterDetail(id string) (*models.Chapter, *models.Profile, error) {
	chapter, err := s.GetChapterByID(id)
	if err != nil {
		return nil, nil, err
	}
	if !chapter.IsPublished {
		return nil, nil, ErrChapterNotFound
	}

	author, err := s.GetProfileByID(chapter.AuthorID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			log.Printf("Chapter %s references missing author %s; treating as not found", id, chapter.AuthorID)
			return nil, nil, ErrChapterNotFound
		}
		return nil, nil, err
	}
	return chapter, author, nil
}

// ListChaptersBySeries returns the series' chapters in reading order. When
// includeDrafts is false, only published chapters are returned, with
// bodies replaced by excerpts to keep list payloads small.
func (s *Store) ListChaptersBySeries(seriesID string, includeDrafts bool) ([]*models.Chapter, error) {
	query := "SELECT " + chapterColumns + " FROM chapters WHERE series_id = ?"
	if !includeDrafts {
		query += " AND is_published = 1"
	}
	query += " ORDER BY chapter_number ASC"

	rows, err := s.db.Query(query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*models.Chapter
	for rows.Next() {
		c, err := scanChapter(rows.Scan)
		if err != nil {
			return nil, err
		}
		if !includeDrafts {
			c.Excerpt = excerpt.FromHTML(c.Body, excerpt.DefaultLength)
			c.Body = ""
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// UpdateChapter updates a chapter's title and body.
func (s *Store) UpdateChapter(id, title, body string) error {
	query := "UPDATE chapters SET title = ?, body = ?, updated_at = ? WHERE id = ?"
	_, err := s.db.Exec(query, title, body, time.Now(), id)
	return err
}

// SetChapterPublished flips the publication flag.
func (s *Store) SetChapterPublished(id string, published bool) error {
	_, err := s.db.Exec("UPDATE chapters SET is_published = ?, updated_at = ? WHERE id = ?", published, time.Now(), id)
	return err
}

// DeleteChapter removes a chapter and its comments in one transaction.
func (s *Store) DeleteChapter(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM comments WHERE chapter_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM chapters WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrChapterNotFound
	}
	return tx.Commit()
}

// IncrementChapterViews bumps the view counter atomically.
func (s *Store) IncrementChapterViews(id string) error {
	res, err := s.db.Exec("UPDATE chapters SET view_count = view_count + 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrChapterNotFound
	}
	return nil
}
