package models

import "time"

// Series represents a multi-chapter work.
type Series struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Genre       string     `json:"genre"`
	Tags        []string   `json:"tags"`
	AuthorID    string     `json:"author_id"`
	Author      *Profile   `json:"author,omitempty"` // omitempty hides it when not loaded
	CoverURL    string     `json:"cover_url"`
	IsCompleted bool       `json:"is_completed"`
	ViewCount   int64      `json:"view_count"`
	Chapters    []*Chapter `json:"chapters,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Chapter represents a single installment of a Series.
type Chapter struct {
	ID            string    `json:"id"`
	SeriesID      string    `json:"series_id"`
	AuthorID      string    `json:"author_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Body          string    `json:"body,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	ChapterNumber int       `json:"chapter_number"`
	IsPublished   bool      `json:"is_published"`
	ViewCount     int64     `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Story represents a standalone, single-part work.
type Story struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Author      *Profile  `json:"author,omitempty"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Body        string    `json:"body,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Category    string    `json:"category"`
	IsPublished bool      `json:"is_published"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
