package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/testutil"
)

func TestChapterHandlers(t *testing.T) {
	server, db := testutil.SetupTestServer(t)
	router := server.Router()

	authorCookie := testutil.GetAuthCookie(t, server, "romancista", "password123", "user")
	strangerCookie := testutil.GetAuthCookie(t, server, "curiosa", "password123", "user")

	author, _ := server.Store().GetProfileByUsername("romancista")
	series, _ := server.Store().CreateSeries(author.ID, "Série Longa", "", "fantasy", nil)

	var chapter models.Chapter

	t.Run("Create chapter", func(t *testing.T) {
		payload := `{"title":"Capítulo Um", "body":"<p>era uma vez</p>"}`
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/series/%s/chapters", series.ID), bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(authorCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
		}
		json.Unmarshal(rr.Body.Bytes(), &chapter)
		if chapter.ChapterNumber != 1 {
			t.Errorf("chapter number = %d, want 1", chapter.ChapterNumber)
		}
	})

	t.Run("Stranger cannot add chapters to someone else's series", func(t *testing.T) {
		payload := `{"title":"Invasão", "body":""}`
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/series/%s/chapters", series.ID), bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(strangerCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("got status %d, want 403", rr.Code)
		}
	})

	t.Run("Draft chapter is 404 on the public page", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/chapters/"+chapter.Slug, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404", rr.Code)
		}
	})

	t.Run("Publish notifies followers", func(t *testing.T) {
		// The stranger follows the author first.
		req, _ := http.NewRequest("PUT", "/api/profiles/romancista/follow", nil)
		req.AddCookie(strangerCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("follow returned %d", rr.Code)
		}

		req, _ = http.NewRequest("POST", fmt.Sprintf("/api/chapters/%s/publish", chapter.ID), nil)
		req.AddCookie(authorCookie)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("publish returned %d: %s", rr.Code, rr.Body.String())
		}

		// Notification rows are written from a goroutine; poll briefly.
		follower, _ := server.Store().GetProfileByUsername("curiosa")
		deadline := time.Now().Add(2 * time.Second)
		var got bool
		for time.Now().Before(deadline) {
			list, _ := server.Store().ListNotifications(follower.ID, true)
			for _, n := range list {
				if n.Type == models.NotificationNewChapter {
					got = true
				}
			}
			if got {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		if !got {
			t.Error("follower never received a new-chapter notification")
		}
	})

	t.Run("Published chapter is public with its author", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/chapters/"+chapter.Slug, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
		}
		var payload struct {
			Chapter models.Chapter `json:"chapter"`
			Author  models.Profile `json:"author"`
		}
		json.Unmarshal(rr.Body.Bytes(), &payload)
		if payload.Chapter.ID != chapter.ID || payload.Author.Username != "romancista" {
			t.Error("unexpected chapter detail payload")
		}
	})

	t.Run("Republishing does not notify again", func(t *testing.T) {
		follower, _ := server.Store().GetProfileByUsername("curiosa")
		before, _ := server.Store().ListNotifications(follower.ID, false)

		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/chapters/%s/publish", chapter.ID), nil)
		req.AddCookie(authorCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("republish returned %d", rr.Code)
		}

		time.Sleep(100 * time.Millisecond)
		after, _ := server.Store().ListNotifications(follower.ID, false)
		if len(after) != len(before) {
			t.Errorf("republish created %d extra notifications", len(after)-len(before))
		}
	})

	t.Run("Update and view counter", func(t *testing.T) {
		payload := `{"title":"Capítulo Um (revisado)", "body":"<p>novo texto</p>"}`
		req, _ := http.NewRequest("PUT", "/api/chapters/"+chapter.ID, bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(authorCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("update returned %d", rr.Code)
		}

		req, _ = http.NewRequest("POST", fmt.Sprintf("/api/chapters/%s/views", chapter.ID), nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("view hit returned %d", rr.Code)
		}
		var count int
		db.QueryRow("SELECT view_count FROM chapters WHERE id = ?", chapter.ID).Scan(&count)
		if count != 1 {
			t.Errorf("view_count = %d, want 1", count)
		}
	})

	t.Run("Non-owner delete is forbidden", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/chapters/"+chapter.ID, nil)
		req.AddCookie(strangerCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("got status %d, want 403", rr.Code)
		}
	})

	t.Run("Owner delete", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/chapters/"+chapter.ID, nil)
		req.AddCookie(authorCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Errorf("got status %d, want 204", rr.Code)
		}
	})
}
