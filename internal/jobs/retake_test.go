package jobs

import (
	"academyhub/internal/logger"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMarker struct {
	calls int
	age   time.Duration
	err   error
}

func (m *countingMarker) MarkRetakesDue(ctx context.Context, age time.Duration) (int64, error) {
	m.calls++
	m.age = age
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return 3, m.err
}

func TestRetakeJob_PassesAge(t *testing.T) {
	m := &countingMarker{}
	RetakeJob(m, 90*24*time.Hour, logger.Nop())()

	assert.Equal(t, 1, m.calls)
	assert.Equal(t, 90*24*time.Hour, m.age)
}

func TestRetakeJob_SurvivesErrors(t *testing.T) {
	m := &countingMarker{err: errors.New("mongo down")}
	job := RetakeJob(m, time.Hour, logger.Nop())
	job()
	job()
	assert.Equal(t, 2, m.calls)
}

func TestScheduler_AddRetakeJob(t *testing.T) {
	s := NewScheduler(logger.Nop())

	require.NoError(t, s.AddRetakeJob("0 3 * * *", &countingMarker{}, time.Hour))
	assert.Len(t, s.cron.Entries(), 1)

	err := s.AddRetakeJob("every day", &countingMarker{}, time.Hour)
	assert.Error(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
