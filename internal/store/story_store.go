package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/casadosescritores/escritores-go/internal/excerpt"
	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/slug"
)

const storyColumns = "id, author_id, title, body, category, is_published, view_count, created_at, updated_at"

func scanStory(scan func(dest ...any) error) (*models.Story, error) {
	var st models.Story
	err := scan(&st.ID, &st.AuthorID, &st.Title, &st.Body, &st.Category,
		&st.IsPublished, &st.ViewCount, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	st.Slug = slug.Make(st.Title, st.ID)
	return &st, nil
}

// CreateStory inserts a new standalone story.
func (s *Store) CreateStory(authorID, title, body, category string) (*models.Story, error) {
	id := uuid.NewString()
	now := time.Now()
	query := `INSERT INTO stories (id, author_id, title, body, category, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.Exec(query, id, authorID, title, body, category, now, now); err != nil {
		return nil, err
	}
	return &models.Story{
		ID:        id,
		AuthorID:  authorID,
		Title:     title,
		Slug:      slug.Make(title, id),
		Body:      body,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetStoryByID fetches a story row regardless of publication state. Used
// by owner-facing and mutating paths after the ownership gate.
func (s *Store) GetStoryByID(id string) (*models.Story, error) {
	row := s.db.QueryRow("SELECT "+storyColumns+" FROM stories WHERE id = ?", id)
	return scanStory(row.Scan)
}

// GetStoryDetail fetches a story for the public page. Unpublished stories
// are not found for every caller, including their author; drafts are
// reached through the owner listing instead. A missing author profile
// escalates to not-found.
func (s *Store) GetStoryDetail(id string) (*models.Story, error) {
	story, err := s.GetStoryByID(id)
	if err != nil {
		return nil, err
	}
	if !story.IsPublished {
		return nil, ErrStoryNotFound
	}

	author, err := s.GetProfileByID(story.AuthorID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			log.Printf("Story %s references missing author %s; treating as not found", id, story.AuthorID)
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	story.Author = author
	return story, nil
}

// ListStoriesOptions filters and paginates the public story listing. Only
// published stories are listed.
type ListStoriesOptions struct {
	Category string
	AuthorID string
	Search   string
	Page     int
	PerPage  int
}

// ListStories returns a page of published stories plus the total count.
// Bodies are replaced with excerpts.
func (s *Store) ListStories(opts ListStoriesOptions) ([]*models.Story, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = 20
	}

	where := "is_published = 1"
	args := []any{}
	if opts.Category != "" {
		where += " AND category = ?"
		args = append(args, opts.Category)
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
	if err := s.db.QueryRow("SELECT COUNT(*) FROM stories WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM stories WHERE %s ORDER BY updated_at DESC LIMIT ? OFFSET ?", storyColumns, where)
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Story
	for rows.Next() {
		st, err := scanStory(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		st.Excerpt = excerpt.FromHTML(st.Body, excerpt.DefaultLength)
		st.Body = ""
		list = append(list, st)
	}
	return list, total, rows.Err()
}

// ListStoriesByAuthor returns all of an author's stories, drafts included.
// Owner-facing.
func (s *Store) ListStoriesByAuthor(authorID string) ([]*models.Story, error) {
	rows, err := s.db.Query("SELECT "+storyColumns+" FROM stories WHERE author_id = ? ORDER BY updated_at DESC", authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Story
	for rows.Next() {
		st, err := scanStory(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// ListCategories returns the distinct categories with published stories.
func (s *Store) ListCategories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category FROM stories WHERE is_published = 1 AND category != '' ORDER BY category ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateStory updates a story's editable fields.
func (s *Store) UpdateStory(id, title, body, category string) error {
	query := "UPDATE stories SET title = ?, body = ?, category = ?, updated_at = ? WHERE id = ?"
	_, err := s.db.Exec(query, title, body, category, time.Now(), id)
	return err
}

// SetStoryPublished flips the publication flag.
func (s *Store) SetStoryPublished(id string, published bool) error {
	_, err := s.db.Exec("UPDATE stories SET is_published = ?, updated_at = ? WHERE id = ?", published, time.Now(), id)
	return err
}

// DeleteStory removes a story and its comments in one transaction.
func (s *Store) DeleteStory(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM comments WHERE story_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM stories WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrStoryNotFound
	}
	return tx.Commit()
}

// IncrementStoryViews bumps the view counter atomically.
func (s *Store) IncrementStoryViews(id string) error {
	res, err := s.db.Exec("UPDATE stories SET view_count = view_count + 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrStoryNotFound
	}
	return nil
}
