package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/casadosescritores/escritores-go/internal/store"
)

// Job names, registered on the manager by RegisterJobs.
const (
	JobSitemapRefresh = "sitemap-refresh"
	JobSessionPurge   = "session-purge"
)

// RegisterJobs wires the background tasks into the manager.
func RegisterJobs(jm *JobManager) {
	jm.Register(JobSitemapRefresh, func(ctx JobContext) {
		if _, err := ctx.Sitemap().Refresh(); err != nil {
			log.Printf("Sitemap refresh failed: %v", err)
		}
	})
	jm.Register(JobSessionPurge, func(ctx JobContext) {
		n, err := store.New(ctx.DB()).PurgeExpiredSessions()
		if err != nil {
			log.Printf("Session purge failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Purged %d expired sessions", n)
		}
	})
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	scheduleJob(s, app, JobSitemapRefresh, app.Config().Sitemap.RefreshInterval)
	scheduleJob(s, app, JobSessionPurge, app.Config().Sessions.PurgeInterval)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

func scheduleJob(s *gocron.Scheduler, app JobContext, jobID string, interval int) {
	if interval == 0 {
		log.Printf("Interval for '%s' is 0, scheduled run is disabled.", jobID)
		return
	}

	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobID, interval)
	_, err := s.Every(interval).Minutes().Do(func() {
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		if err := app.JobManager().RunJob(jobID, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobID, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobID, err)
	}
}
