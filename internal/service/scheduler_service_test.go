package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "0 0 9 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: " 7:05 ", want: "0 5 7 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "1:2:3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedulerService_Register(t *testing.T) {
	s := NewSchedulerService(time.UTC, time.Second, testLogger())
	noop := func(context.Context) error { return nil }

	_, err := s.ScheduleDaily("sweep", "09:30", noop)
	assert.NoError(t, err)
	_, err = s.ScheduleDaily("sweep", "bad", noop)
	assert.Error(t, err)

	_, err = s.ScheduleInterval("purge", 24*time.Hour, noop)
	assert.NoError(t, err)
	_, err = s.ScheduleInterval("purge", 10*time.Millisecond, noop)
	assert.Error(t, err)

	s.Start()
	s.Stop()
}

func TestSchedulerService_JobGetsDeadline(t *testing.T) {
	s := NewSchedulerService(time.UTC, 50*time.Millisecond, testLogger())

	var hadDeadline bool
	s.wrap("probe", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return errors.New("boom")
	})()

	assert.True(t, hadDeadline)
}
