package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	usersvc "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"first", "second"}, order, "a failing job does not stop the next")
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestClearExpiredPastDatesJob(t *testing.T) {
	ctx := context.Background()
	old := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := testutil.NewUserStore(
		user.User{ID: "s1", Role: user.RoleSupervisor, AllowedPastDate: &old},
		user.User{ID: "s2", Role: user.RoleSupervisor, AllowedPastDate: &recent},
	)

	jobs := NewPastDateJobs(usersvc.NewUserService(store), time.UTC)
	jobs.now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }

	s := NewScheduler()
	jobs.RegisterJobs(s)
	s.RunOnce(ctx)

	s1, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, s1.AllowedPastDate)

	s2, err := store.GetByID(ctx, "s2")
	require.NoError(t, err)
	assert.NotNil(t, s2.AllowedPastDate)
}
