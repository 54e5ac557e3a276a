package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"growshare-backend/internal/config"
	"growshare-backend/internal/jobs"
)

func TestNewScheduler_RegistersLifecycleJobs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		ActivateStartedBookings:  "0 5 0 * * *",
		CompleteFinishedBookings: "0 10 0 * * *",
	}}

	s := NewScheduler(jobs.NewJobRunner(nil, cfg))
	assert.Len(t, s.cron.Entries(), 2)
	assert.True(t, s.IsRunning())
}

func TestNewScheduler_SkipsInvalidSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		ActivateStartedBookings:  "every day",
		CompleteFinishedBookings: "0 10 0 * * *",
	}}

	s := NewScheduler(jobs.NewJobRunner(nil, cfg))
	assert.Len(t, s.cron.Entries(), 1)
}
