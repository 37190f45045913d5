package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "time/tzdata"
)

func TestNewRejectsNilJob(t *testing.T) {
	_, err := New(DefaultSpec, time.UTC, nil, nil)
	require.Error(t, err)
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	_, err := New("every morning", time.UTC, nil, func(context.Context) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestNextUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	s, err := New(DefaultSpec, loc, nil, func(context.Context) {})
	require.NoError(t, err)

	next := s.Next().In(loc)
	assert.Equal(t, 8, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
	assert.True(t, next.Before(time.Now().Add(24*time.Hour+time.Minute)))
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := New(DefaultSpec, time.UTC, nil, func(context.Context) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunFiresJob(t *testing.T) {
	fired := make(chan struct{}, 1)
	s, err := New("@every 1s", time.UTC, nil, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not fire")
	}
}

func TestRunPassesContextToJob(t *testing.T) {
	type key struct{}
	got := make(chan any, 1)

	s, err := New("@every 1s", time.UTC, nil, func(ctx context.Context) {
		select {
		case got <- ctx.Value(key{}):
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "run"))
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	select {
	case v := <-got:
		assert.Equal(t, "run", v)
	case <-time.After(5 * time.Second):
		t.Fatal("job did not fire")
	}
}
