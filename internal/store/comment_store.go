package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/casadosescritores/escritores-go/internal/models"
)

// CreateStoryComment attaches a comment to a story.
func (s *Store) CreateStoryComment(storyID, authorID, body string) (*models.Comment, error) {
	return s.createComment(sql.NullString{String: storyID, Valid: true}, sql.NullString{}, authorID, body)
}

// CreateChapterComment attaches a comment to a chapter.
func (s *Store) CreateChapterComment(chapterID, authorID, body string) (*models.Comment, error) {
	return s.createComment(sql.NullString{}, sql.NullString{String: chapterID, Valid: true}, authorID, body)
}

func (s *Store) createComment(storyID, chapterID sql.NullString, authorID, body string) (*models.Comment, error) {
	id := uuid.NewString()
	now := time.Now()
	query := "INSERT INTO comments (id, story_id, chapter_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := s.db.Exec(query, id, storyID, chapterID, authorID, body, now); err != nil {
		return nil, err
	}
	return &models.Comment{
		ID:        id,
		StoryID:   storyID.String,
		ChapterID: chapterID.String,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
	}, nil
}

// GetCommentByID fetches a single comment.
func (s *Store) GetCommentByID(id string) (*models.Comment, error) {
	var c models.Comment
	var storyID, chapterID sql.NullString
	query := "SELECT id, story_id, chapter_id, author_id, body, created_at FROM comments WHERE id = ?"
	err := s.db.QueryRow(query, id).Scan(&c.ID, &storyID, &chapterID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	c.StoryID = storyID.String
	c.ChapterID = chapterID.String
	return &c, nil
}

// ListCommentsForStory returns a story's comments, oldest first, with the
// commenting profile joined in for rendering.
func (s *Store) ListCommentsForStory(storyID string) ([]*models.Comment, error) {
	return s.listComments("story_id", storyID)
}

// ListCommentsForChapter returns a chapter's comments, oldest first.
func (s *Store) ListCommentsForChapter(chapterID string) ([]*models.Comment, error) {
	return s.listComments("chapter_id", chapterID)
}

func (s *Store) listComments(column, parentID string) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.story_id, c.chapter_id, c.author_id, c.body, c.created_at,
		       p.username, p.avatar_url
		FROM comments c
		JOIN profiles p ON c.author_id = p.id
		WHERE c.` + column + ` = ?
		ORDER BY c.created_at ASC`
	rows, err := s.db.Query(query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		var storyID, chapterID sql.NullString
		var author models.Profile
		if err := rows.Scan(&c.ID, &storyID, &chapterID, &c.AuthorID, &c.Body, &c.CreatedAt,
			&author.Username, &author.AvatarURL); err != nil {
			return nil, err
		}
		c.StoryID = storyID.String
		c.ChapterID = chapterID.String
		author.ID = c.AuthorID
		c.Author = &author
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a single comment.
func (s *Store) DeleteComment(id string) error {
	res, err := s.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
