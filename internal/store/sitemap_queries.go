package store

// Lightweight queries used by the sitemap generator. Only the columns
// needed to build canonical URLs are selected.

import (
	"time"

	"github.com/casadosescritores/escritores-go/internal/slug"
)

// SitemapRef is one canonical page the sitemap should list.
type SitemapRef struct {
	Slug      string
	UpdatedAt time.Time
}

// ListSeriesRefs returns slug references for every series.
func (s *Store) ListSeriesRefs() ([]SitemapRef, error) {
	return s.listRefs("SELECT id, title, updated_at FROM series ORDER BY updated_at DESC")
}

// ListPublishedStoryRefs returns slug references for published stories.
func (s *Store) ListPublishedStoryRefs() ([]SitemapRef, error) {
	return s.listRefs("SELECT id, title, updated_at FROM stories WHERE is_published = 1 ORDER BY updated_at DESC")
}

func (s *Store) listRefs(query string) ([]SitemapRef, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []SitemapRef
	for rows.Next() {
		var id, title string
		var updatedAt time.Time
		if err := rows.Scan(&id, &title, &updatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, SitemapRef{Slug: slug.Make(title, id), UpdatedAt: updatedAt})
	}
	return refs, rows.Err()
}
