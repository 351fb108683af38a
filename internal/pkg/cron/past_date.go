package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// PastDateJobs expires supervisor past-date exceptions that fell out of the
// reporting window.
type PastDateJobs struct {
	userService user.UserService
	location    *time.Location
	now         func() time.Time
}

func NewPastDateJobs(userService user.UserService, location *time.Location) *PastDateJobs {
	return &PastDateJobs{
		userService: userService,
		location:    location,
		now:         time.Now,
	}
}

func (j *PastDateJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("clear_expired_past_dates", 6*time.Hour, j.ClearExpiredPastDates)
}

func (j *PastDateJobs) ClearExpiredPastDates(ctx context.Context) error {
	today := utils.Today(j.now(), j.location)
	cleared, err := j.userService.ClearExpiredPastDates(ctx, today)
	if err != nil {
		return err
	}
	if cleared > 0 {
		slog.Info("Cron: cleared expired past date exceptions", "count", cleared, "today", today.Format(time.DateOnly))
	}
	return nil
}
