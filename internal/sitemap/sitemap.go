// Package sitemap renders the canonical URL list for published content:
// series pages, published story pages and category pages. The XML is
// cached and rebuilt by a background job or invalidated when a mutation
// touches the pages it lists.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/casadosescritores/escritores-go/internal/store"
)

type urlset struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Service builds and caches the sitemap document.
type Service struct {
	store   *store.Store
	baseURL string

	mu     sync.RWMutex
	cached []byte
	built  time.Time
}

// New creates a sitemap service. baseURL is the site origin without a
// trailing slash.
func New(st *store.Store, baseURL string) *Service {
	return &Service{
		store:   st,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// XML returns the cached sitemap, building it on first use.
func (s *Service) XML() ([]byte, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	return s.Refresh()
}

// Invalidate drops the cache so the next request rebuilds it. Called after
// mutations that change the set of canonical pages.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Refresh rebuilds the sitemap from the database and caches the result.
func (s *Service) Refresh() ([]byte, error) {
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, urlEntry{Loc: s.baseURL + "/"})

	seriesRefs, err := s.store.ListSeriesRefs()
	if err != nil {
		return nil, fmt.Errorf("failed to list series for sitemap: %w", err)
	}
	for _, ref := range seriesRefs {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     s.baseURL + "/series/" + ref.Slug,
			LastMod: ref.UpdatedAt.Format("2006-01-02"),
		})
	}

	storyRefs, err := s.store.ListPublishedStoryRefs()
	if err != nil {
		return nil, fmt.Errorf("failed to list stories for sitemap: %w", err)
	}
	for _, ref := range storyRefs {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     s.baseURL + "/stories/" + ref.Slug,
			LastMod: ref.UpdatedAt.Format("2006-01-02"),
		})
	}

	categories, err := s.store.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for sitemap: %w", err)
	}
	for _, c := range categories {
		set.URLs = append(set.URLs, urlEntry{Loc: s.baseURL + "/categories/" + c})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	doc := append([]byte(xml.Header), body...)

	s.mu.Lock()
	s.cached = doc
	s.built = time.Now()
	s.mu.Unlock()
	return doc, nil
}
