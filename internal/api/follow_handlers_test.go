package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/testutil"
)

func TestFollowHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	fanCookie := testutil.GetAuthCookie(t, server, "fan", "password123", "user")
	testutil.GetAuthCookie(t, server, "idol", "password123", "user")

	idol, _ := server.Store().GetProfileByUsername("idol")

	follow := func(cookie *http.Cookie, username string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("PUT", "/api/profiles/"+username+"/follow", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Follow creates edge and notification", func(t *testing.T) {
		rr := follow(fanCookie, "idol")
		if rr.Code != http.StatusNoContent {
			t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
		}

		notifications, _ := server.Store().ListNotifications(idol.ID, true)
		if len(notifications) != 1 || notifications[0].Type != models.NotificationFollow {
			t.Errorf("unexpected notifications: %+v", notifications)
		}
	})

	t.Run("Re-follow is idempotent and silent", func(t *testing.T) {
		rr := follow(fanCookie, "idol")
		if rr.Code != http.StatusNoContent {
			t.Fatalf("got status %d", rr.Code)
		}
		notifications, _ := server.Store().ListNotifications(idol.ID, false)
		if len(notifications) != 1 {
			t.Errorf("re-follow created another notification: %d total", len(notifications))
		}
	})

	t.Run("Self follow rejected", func(t *testing.T) {
		rr := follow(fanCookie, "fan")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want 400", rr.Code)
		}
	})

	t.Run("Follow unknown profile", func(t *testing.T) {
		rr := follow(fanCookie, "ghost")
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404", rr.Code)
		}
	})

	t.Run("Follower lists and public profile counts", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/profiles/idol/followers", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		var followers []models.Profile
		json.Unmarshal(rr.Body.Bytes(), &followers)
		if len(followers) != 1 || followers[0].Username != "fan" {
			t.Errorf("followers = %+v", followers)
		}

		req, _ = http.NewRequest("GET", "/api/profiles/idol", nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		var profile struct {
			FollowerCount  int `json:"follower_count"`
			FollowingCount int `json:"following_count"`
		}
		json.Unmarshal(rr.Body.Bytes(), &profile)
		if profile.FollowerCount != 1 || profile.FollowingCount != 0 {
			t.Errorf("counts = %d/%d, want 1/0", profile.FollowerCount, profile.FollowingCount)
		}
		// Zero counts are reported explicitly, not omitted.
		if !strings.Contains(rr.Body.String(), `"following_count":0`) {
			t.Errorf("body omits zero following count: %s", rr.Body.String())
		}
	})

	t.Run("Unfollow", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/profiles/idol/follow", nil)
		req.AddCookie(fanCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("got status %d", rr.Code)
		}
		followers, _ := server.Store().ListFollowers(idol.ID)
		if len(followers) != 0 {
			t.Errorf("still %d followers after unfollow", len(followers))
		}
	})
}

func TestNotificationHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	cookie := testutil.GetAuthCookie(t, server, "recipient", "password123", "user")
	testutil.GetAuthCookie(t, server, "sender", "password123", "user")

	recipient, _ := server.Store().GetProfileByUsername("recipient")
	sender, _ := server.Store().GetProfileByUsername("sender")
	n1, _ := server.Store().CreateNotification(recipient.ID, sender.ID, models.NotificationFollow, "oi")
	server.Store().CreateNotification(recipient.ID, sender.ID, models.NotificationNewChapter, "novo capítulo")

	t.Run("List unread", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/notifications?unread=true", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		var list []models.Notification
		json.Unmarshal(rr.Body.Bytes(), &list)
		if len(list) != 2 {
			t.Errorf("got %d notifications, want 2", len(list))
		}
	})

	t.Run("Mark one read", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/notifications/"+n1.ID+"/read", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		unread, _ := server.Store().ListNotifications(recipient.ID, true)
		if len(unread) != 1 {
			t.Errorf("got %d unread, want 1", len(unread))
		}
	})

	t.Run("Cannot mark someone else's notification", func(t *testing.T) {
		otherCookie := testutil.GetAuthCookie(t, server, "intruder", "password123", "user")
		unread, _ := server.Store().ListNotifications(recipient.ID, true)
		req, _ := http.NewRequest("POST", "/api/notifications/"+unread[0].ID+"/read", nil)
		req.AddCookie(otherCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404", rr.Code)
		}
	})

	t.Run("Mark all read", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/notifications/read-all", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		unread, _ := server.Store().ListNotifications(recipient.ID, true)
		if len(unread) != 0 {
			t.Errorf("got %d unread after read-all", len(unread))
		}
	})
}
