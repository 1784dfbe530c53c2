package component

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type journal struct {
	events []string
}

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	status   HealthStatus
	log      *journal
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.log != nil {
		f.log.events = append(f.log.events, "start "+f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	if f.log != nil {
		f.log.events = append(f.log.events, "stop "+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health {
	return Health{Name: f.name, Status: f.status}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeComponent{name: "http"}))
	require.NoError(t, r.Register(&fakeComponent{name: "markup"}))

	err := r.Register(&fakeComponent{name: "http"})
	assert.ErrorContains(t, err, "http already registered")

	assert.Equal(t, "markup", r.Get("markup").Name())
	assert.Nil(t, r.Get("missing"))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "http", all[0].Name())

	all[0] = nil
	assert.NotNil(t, r.All()[0], "All must return a copy")
}

func TestRegistry_Lifecycle(t *testing.T) {
	log := &journal{}
	r := NewRegistry()
	for _, name := range []string{"http", "markup", "feeds"} {
		require.NoError(t, r.Register(&fakeComponent{name: name, log: log}))
	}

	ctx := context.Background()
	require.NoError(t, r.StartAll(ctx))
	require.NoError(t, r.StartAll(ctx), "running components are not started twice")
	require.NoError(t, r.StopAll(ctx))
	require.NoError(t, r.StopAll(ctx), "stopped components are not stopped twice")

	assert.Equal(t, []string{
		"start http", "start markup", "start feeds",
		"stop feeds", "stop markup", "stop http",
	}, log.events)
}

func TestRegistry_StartFailureRollsBack(t *testing.T) {
	log := &journal{}
	refused := errors.New("connection refused")
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeComponent{name: "a", log: log}))
	require.NoError(t, r.Register(&fakeComponent{name: "b", log: log}))
	require.NoError(t, r.Register(&fakeComponent{name: "c", log: log, startErr: refused}))
	require.NoError(t, r.Register(&fakeComponent{name: "d", log: log}))

	err := r.StartAll(context.Background())
	require.ErrorIs(t, err, refused)
	assert.ErrorContains(t, err, "start c")
	assert.Equal(t, []string{"start a", "start b", "start c", "stop b", "stop a"}, log.events)

	log.events = nil
	require.NoError(t, r.StopAll(context.Background()))
	assert.Empty(t, log.events)
}

func TestRegistry_StopAllSkipsUnstarted(t *testing.T) {
	log := &journal{}
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeComponent{name: "http", log: log}))

	require.NoError(t, r.StopAll(context.Background()))
	assert.Empty(t, log.events)
}

func TestRegistry_StopAllJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeComponent{name: "a", stopErr: errA}))
	require.NoError(t, r.Register(&fakeComponent{name: "b", stopErr: errB}))
	require.NoError(t, r.StartAll(context.Background()))

	err := r.StopAll(context.Background())
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

type slowComponent struct {
	fakeComponent
	sawDeadline bool
}

func (s *slowComponent) Stop(ctx context.Context) error {
	_, s.sawDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func TestRegistry_StopTimeout(t *testing.T) {
	r := NewRegistry().WithStopTimeout(20 * time.Millisecond)
	slow := &slowComponent{fakeComponent: fakeComponent{name: "slow"}}
	require.NoError(t, r.Register(slow))
	require.NoError(t, r.StartAll(context.Background()))

	err := r.StopAll(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, slow.sawDeadline)
}

func TestRegistry_HealthAll(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeComponent{name: "http", status: StatusHealthy}))
	require.NoError(t, r.Register(&fakeComponent{name: "breaker", status: StatusDegraded}))

	got := r.HealthAll(context.Background())
	assert.Equal(t, []Health{
		{Name: "http", Status: StatusHealthy},
		{Name: "breaker", Status: StatusDegraded},
	}, got)
}
