// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/casadosescritores/escritores-go/internal/core"
	"github.com/casadosescritores/escritores-go/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	db    *sql.DB
	store *store.Store
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// App returns the core application the server was built from.
func (s *Server) App() *core.App {
	return s.app
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		db:    app.DB(),
		store: store.New(app.DB()),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	// Public API routes
	r.Post("/api/users/signup", s.handleSignup)
	r.Post("/api/users/login", s.handleLogin)
	r.Get("/api/version", s.handleGetVersion)

	r.Route("/api", func(r chi.Router) {
		// Series
		r.Get("/series", s.handleListSeries)
		r.Get("/series/{seriesSlug}", s.handleGetSeries)
		r.Get("/series/{seriesSlug}/chapters", s.handleListSeriesChapters)
		r.Post("/series/{seriesSlug}/views", s.handleSeriesView)

		// Chapters
		r.Get("/chapters/{chapterSlug}", s.handleGetChapter)
		r.Get("/chapters/{chapterSlug}/comments", s.handleListChapterComments)
		r.Post("/chapters/{chapterSlug}/views", s.handleChapterView)

		// Stories
		r.Get("/stories", s.handleListStories)
		r.Get("/stories/{storySlug}", s.handleGetStory)
		r.Get("/stories/{storySlug}/comments", s.handleListStoryComments)
		r.Post("/stories/{storySlug}/views", s.handleStoryView)
		r.Get("/categories", s.handleListCategories)

		// Public profiles
		r.Get("/profiles/{username}", s.handleGetProfile)
		r.Get("/profiles/{username}/followers", s.handleListFollowers)
		r.Get("/profiles/{username}/following", s.handleListFollowing)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Post("/users/logout", s.handleLogout)
			r.Get("/users/me", s.handleGetMe)
			r.Put("/users/me", s.handleUpdateMe)
			r.Post("/users/me/avatar", s.handleUploadAvatar)
			r.Get("/users/me/series", s.handleListMySeries)
			r.Get("/users/me/stories", s.handleListMyStories)

			// Series mutations (author only)
			r.Post("/series", s.handleCreateSeries)
			r.Put("/series/{seriesID}", s.handleUpdateSeries)
			r.Delete("/series/{seriesID}", s.handleDeleteSeries)
			r.Post("/series/{seriesID}/complete", s.handleCompleteSeries)
			r.Post("/series/{seriesID}/cover", s.handleUploadSeriesCover)
			r.Get("/series/{seriesID}/export", s.handleExportSeries)
			r.Post("/series/{seriesID}/chapters", s.handleCreateChapter)

			// Chapter mutations (author only)
			r.Put("/chapters/{chapterID}", s.handleUpdateChapter)
			r.Delete("/chapters/{chapterID}", s.handleDeleteChapter)
			r.Post("/chapters/{chapterID}/publish", s.handlePublishChapter)

			// Story mutations (author only)
			r.Post("/stories", s.handleCreateStory)
			r.Put("/stories/{storyID}", s.handleUpdateStory)
			r.Delete("/stories/{storyID}", s.handleDeleteStory)
			r.Post("/stories/{storyID}/publish", s.handlePublishStory)

			// Comments
			r.Post("/comments", s.handleCreateComment)
			r.Delete("/comments/{commentID}", s.handleDeleteComment)

			// Follows
			r.Put("/profiles/{username}/follow", s.handleFollow)
			r.Delete("/profiles/{username}/follow", s.handleUnfollow)

			// Notifications
			r.Get("/notifications", s.handleListNotifications)
			r.Post("/notifications/{notificationID}/read", s.handleMarkNotificationRead)
			r.Post("/notifications/read-all", s.handleMarkAllNotificationsRead)

			// Admin User Management Routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(s.AdminOnlyMiddleware)

				r.Get("/users", s.handleAdminListUsers)
				r.Post("/users", s.handleAdminCreateUser)
				r.Put("/users/{userID}", s.handleAdminUpdateUser)
				r.Delete("/users/{userID}", s.handleAdminDeleteUser)
			})
		})
	})

	// WebSocket route (session-authenticated inside the handler group)
	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)
		r.Get("/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
			profile := getProfileFromContext(r)
			s.app.WsHub().ServeWs(w, r, profile.ID)
		})
	})

	// SEO surface
	r.Get("/sitemap.xml", s.handleSitemap)

	// Public object storage (covers, avatars)
	fileServer := http.StripPrefix("/storage/", http.FileServer(http.Dir(s.app.Bucket().Root())))
	r.Get("/storage/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(); err != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version()})
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	doc, err := s.app.Sitemap().XML()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
