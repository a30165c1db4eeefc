package store_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/casadosescritores/escritores-go/internal/slug"
	"github.com/casadosescritores/escritores-go/internal/store"
	"github.com/casadosescritores/escritores-go/internal/testutil"
)

func TestSeriesLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	author, err := st.CreateProfile("author", "hash", "user")
	if err != nil {
		t.Fatalf("Failed to create author: %v", err)
	}

	series, err := st.CreateSeries(author.ID, "Crônicas do Mar", "desc", "fantasy", []string{"mar", "aventura"})
	if err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}
	if series.Slug == "" {
		t.Fatal("Created series has no slug")
	}
	// The slug must decode back to the series ID.
	if got := slug.ParseID(series.Slug); got != series.ID {
		t.Errorf("slug %q decodes to %q, want %q", series.Slug, got, series.ID)
	}

	t.Run("fetch by id", func(t *testing.T) {
		fetched, err := st.GetSeriesByID(series.ID)
		if err != nil {
			t.Fatalf("GetSeriesByID failed: %v", err)
		}
		if fetched.Title != "Crônicas do Mar" {
			t.Errorf("got title %q", fetched.Title)
		}
		if len(fetched.Tags) != 2 || fetched.Tags[0] != "mar" {
			t.Errorf("tags round trip failed: %#v", fetched.Tags)
		}
	})

	t.Run("detail includes author and published chapters only", func(t *testing.T) {
		published, _ := st.CreateChapter(series.ID, author.ID, "Capítulo Um", "<p>texto</p>")
		st.SetChapterPublished(published.ID, true)
		st.CreateChapter(series.ID, author.ID, "Rascunho", "<p>draft</p>")

		detail, err := st.GetSeriesDetail(series.ID)
		if err != nil {
			t.Fatalf("GetSeriesDetail failed: %v", err)
		}
		if detail.Author == nil || detail.Author.Username != "author" {
			t.Error("detail is missing its author")
		}
		if len(detail.Chapters) != 1 {
			t.Fatalf("expected 1 published chapter in detail, got %d", len(detail.Chapters))
		}
		if detail.Chapters[0].ID != published.ID {
			t.Error("wrong chapter in detail listing")
		}
	})

	t.Run("update and complete", func(t *testing.T) {
		if err := st.UpdateSeries(series.ID, "Novo Título", "d2", "romance", nil); err != nil {
			t.Fatalf("UpdateSeries failed: %v", err)
		}
		if err := st.SetSeriesCompleted(series.ID, true); err != nil {
			t.Fatalf("SetSeriesCompleted failed: %v", err)
		}
		fetched, _ := st.GetSeriesByID(series.ID)
		if fetched.Title != "Novo Título" || !fetched.IsCompleted {
			t.Errorf("update not persisted: %+v", fetched)
		}
	})

	t.Run("missing series", func(t *testing.T) {
		if _, err := st.GetSeriesByID("nope"); !errors.Is(err, store.ErrSeriesNotFound) {
			t.Errorf("got %v, want ErrSeriesNotFound", err)
		}
	})
}

func TestListSeries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	a1, _ := st.CreateProfile("alice", "hash", "user")
	a2, _ := st.CreateProfile("bob", "hash", "user")
	st.CreateSeries(a1.ID, "Dragons of Dawn", "", "fantasy", nil)
	st.CreateSeries(a1.ID, "City Lights", "", "romance", nil)
	st.CreateSeries(a2.ID, "Dragon Empire", "", "fantasy", nil)

	t.Run("genre filter", func(t *testing.T) {
		list, total, err := st.ListSeries(store.ListSeriesOptions{Genre: "fantasy"})
		if err != nil {
			t.Fatalf("ListSeries failed: %v", err)
		}
		if total != 2 || len(list) != 2 {
			t.Errorf("got %d results (total %d), want 2", len(list), total)
		}
	})

	t.Run("author filter", func(t *testing.T) {
		_, total, err := st.ListSeries(store.ListSeriesOptions{AuthorID: a2.ID})
		if err != nil {
			t.Fatalf("ListSeries failed: %v", err)
		}
		if total != 1 {
			t.Errorf("got total %d, want 1", total)
		}
	})

	t.Run("search", func(t *testing.T) {
		_, total, err := st.ListSeries(store.ListSeriesOptions{Search: "Dragon"})
		if err != nil {
			t.Fatalf("ListSeries failed: %v", err)
		}
		if total != 2 {
			t.Errorf("got total %d, want 2", total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		list, total, err := st.ListSeries(store.ListSeriesOptions{Page: 1, PerPage: 2})
		if err != nil {
			t.Fatalf("ListSeries failed: %v", err)
		}
		if total != 3 {
			t.Errorf("got total %d, want 3", total)
		}
		if len(list) != 2 {
			t.Errorf("got %d items on page 1, want 2", len(list))
		}
		list2, _, _ := st.ListSeries(store.ListSeriesOptions{Page: 2, PerPage: 2})
		if len(list2) != 1 {
			t.Errorf("got %d items on page 2, want 1", len(list2))
		}
	})
}

func TestDeleteSeriesRemovesChildren(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	author, _ := st.CreateProfile("author", "hash", "user")
	series, _ := st.CreateSeries(author.ID, "Doomed", "", "drama", nil)
	chapter, _ := st.CreateChapter(series.ID, author.ID, "Ch", "body")
	st.CreateChapterComment(chapter.ID, author.ID, "a comment")

	if err := st.DeleteSeries(series.ID); err != nil {
		t.Fatalf("DeleteSeries failed: %v", err)
	}

	if _, err := st.GetSeriesByID(series.ID); !errors.Is(err, store.ErrSeriesNotFound) {
		t.Errorf("series still present after delete: %v", err)
	}
	var chapters, comments int
	db.QueryRow("SELECT COUNT(*) FROM chapters").Scan(&chapters)
	db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&comments)
	if chapters != 0 || comments != 0 {
		t.Errorf("orphans left behind: %d chapters, %d comments", chapters, comments)
	}

	t.Run("deleting a missing series reports not found", func(t *testing.T) {
		if err := st.DeleteSeries(series.ID); !errors.Is(err, store.ErrSeriesNotFound) {
			t.Errorf("got %v, want ErrSeriesNotFound", err)
		}
	})
}

func TestIncrementSeriesViews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	author, _ := st.CreateProfile("author", "hash", "user")
	series, _ := st.CreateSeries(author.ID, "Counted", "", "", nil)

	const n = 25
	for i := 0; i < n; i++ {
		if err := st.IncrementSeriesViews(series.ID); err != nil {
			t.Fatalf("IncrementSeriesViews failed on iteration %d: %v", i, err)
		}
	}
	fetched, _ := st.GetSeriesByID(series.ID)
	if fetched.ViewCount != n {
		t.Errorf("view count = %d, want %d", fetched.ViewCount, n)
	}

	if err := st.IncrementSeriesViews("missing"); !errors.Is(err, store.ErrSeriesNotFound) {
		t.Errorf("got %v, want ErrSeriesNotFound for missing series", err)
	}
}

// The counter is bumped with a single UPDATE, so concurrent viewers must
// never lose an increment.
func TestIncrementSeriesViewsConcurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	author, _ := st.CreateProfile("author", "hash", "user")
	series, _ := st.CreateSeries(author.ID, "Counted", "", "", nil)

	const n = 20
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- st.IncrementSeriesViews(series.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("IncrementSeriesViews failed: %v", err)
		}
	}

	fetched, _ := st.GetSeriesByID(series.ID)
	if fetched.ViewCount != n {
		t.Errorf("view count = %d, want %d", fetched.ViewCount, n)
	}
}
