package jobs

import (
	"database/sql"
	"time"

	"growshare-backend/internal/config"
	"growshare-backend/internal/logger"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db     *sql.DB
	config *config.Config
	now    func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:     db,
		config: cfg,
		now:    time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllLifecycleJobs runs every booking lifecycle job (for manual execution)
func (jr *JobRunner) RunAllLifecycleJobs() {
	jr.ActivateStartedBookings()
	jr.CompleteFinishedBookings()
}

// today is the current UTC calendar date as stored in the date columns.
func (jr *JobRunner) today() string {
	return jr.now().UTC().Format("2006-01-02")
}
