package enemy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/cube/cubetest"
	"github.com/ugaemi/cubechase/internal/game"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// farPlayer is out of contact range and up-right of the default enemy fix.
var farPlayer = cube.Position{X: 300, Y: 200}

func setupController(t *testing.T) (*Controller, *cubetest.Recorder, *game.State, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	state := game.NewState(game.WithClock(clock.Now))
	unit := cubetest.NewRecorder(cube.Position{X: 100, Y: 100, Angle: 0})
	c := NewController(1, unit, state, NewPursuit(), WithClock(clock.Now))
	return c, unit, state, clock
}

func TestController_Init(t *testing.T) {
	c, unit, _, _ := setupController(t)

	require.NoError(t, c.Init(context.Background()))
	assert.Equal(t, []cube.Color{PursuitColor}, unit.LightCalls())
}

func TestController_FirstTickWaitsOneInterval(t *testing.T) {
	c, unit, _, clock := setupController(t)
	ctx := context.Background()

	require.NoError(t, c.Update(ctx, farPlayer))
	assert.Equal(t, 0, unit.PositionReads)

	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))
	assert.Equal(t, 1, unit.PositionReads)
}

func TestController_RateGate(t *testing.T) {
	tests := []struct {
		name       string
		gap        time.Duration
		wantReads  int
		wantMotors int
	}{
		{"second tick too soon is skipped", 150 * time.Millisecond, 1, 1},
		{"second tick at interval runs", 200 * time.Millisecond, 2, 2},
		{"second tick after interval runs", 350 * time.Millisecond, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, unit, _, clock := setupController(t)
			ctx := context.Background()

			clock.Advance(game.EnemyTickInterval)
			require.NoError(t, c.Update(ctx, farPlayer))

			// A player behind-left flips the pivot direction when the tick runs.
			clock.Advance(tt.gap)
			require.NoError(t, c.Update(ctx, cube.Position{X: 0, Y: 50}))

			assert.Equal(t, tt.wantReads, unit.PositionReads)
			assert.Len(t, unit.MotorCalls(), tt.wantMotors)
		})
	}
}

func TestController_SkippedTickDoesNotResetGate(t *testing.T) {
	c, unit, _, clock := setupController(t)
	ctx := context.Background()

	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))

	clock.Advance(150 * time.Millisecond)
	require.NoError(t, c.Update(ctx, farPlayer))
	clock.Advance(60 * time.Millisecond)
	require.NoError(t, c.Update(ctx, farPlayer))

	assert.Equal(t, 2, unit.PositionReads)
}

func TestController_ChangeSuppression(t *testing.T) {
	c, unit, _, clock := setupController(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clock.Advance(game.EnemyTickInterval)
		require.NoError(t, c.Update(ctx, farPlayer))
	}

	// Heading 0, bearing 26: pivot right, sent once.
	assert.Equal(t, []cube.Motion{{Left: 2, Right: -2}}, unit.MotorCalls())

	unit.Place(cube.Position{X: 100, Y: 100, Angle: 26})
	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))

	assert.Equal(t, []cube.Motion{{Left: 2, Right: -2}, {Left: 6, Right: 6}}, unit.MotorCalls())
}

func TestController_PauseSendsOneStop(t *testing.T) {
	c, unit, state, clock := setupController(t)
	ctx := context.Background()

	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))
	require.Len(t, unit.MotorCalls(), 1)

	state.TogglePause()
	for i := 0; i < 5; i++ {
		clock.Advance(game.EnemyTickInterval)
		require.NoError(t, c.Update(ctx, farPlayer))
	}

	motors := unit.MotorCalls()
	require.Len(t, motors, 2)
	assert.Equal(t, cube.Stop, motors[1])
	assert.Equal(t, 1, unit.PositionReads, "paused ticks must not read position")

	state.TogglePause()
	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))

	motors = unit.MotorCalls()
	require.Len(t, motors, 3)
	assert.Equal(t, cube.Motion{Left: 2, Right: -2}, motors[2], "pursuit resumes after unpause")
}

func TestController_PauseAgainAfterResumeStopsAgain(t *testing.T) {
	c, unit, state, _ := setupController(t)
	ctx := context.Background()

	state.TogglePause()
	require.NoError(t, c.Update(ctx, farPlayer))
	state.TogglePause()
	require.NoError(t, c.Update(ctx, farPlayer))
	state.TogglePause()
	require.NoError(t, c.Update(ctx, farPlayer))

	assert.Equal(t, []cube.Motion{cube.Stop, cube.Stop}, unit.MotorCalls())
}

func TestController_OutOfField(t *testing.T) {
	c, unit, _, clock := setupController(t)
	ctx := context.Background()

	unit.Lift()
	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))

	assert.Equal(t, 1, unit.PositionReads)
	assert.Empty(t, unit.MotorCalls())
}

func TestController_ActuatorFailure(t *testing.T) {
	c, unit, _, clock := setupController(t)
	ctx := context.Background()
	boom := errors.New("link lost")

	unit.Fail(boom)
	clock.Advance(game.EnemyTickInterval)
	err := c.Update(ctx, farPlayer)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "enemy 1")
}

func TestController_Halt(t *testing.T) {
	c, unit, _, clock := setupController(t)
	ctx := context.Background()

	require.NoError(t, c.Halt(ctx))
	assert.Empty(t, unit.MotorCalls(), "already stopped")

	clock.Advance(game.EnemyTickInterval)
	require.NoError(t, c.Update(ctx, farPlayer))
	require.NoError(t, c.Halt(ctx))

	assert.Equal(t, []cube.Motion{{Left: 2, Right: -2}, cube.Stop}, unit.MotorCalls())
}

type countingBehavior struct {
	updates int
	motion  cube.Motion
}

func (b *countingBehavior) Init(context.Context, int, cube.Actuator, *game.State) error { return nil }

func (b *countingBehavior) Update(context.Context, int, cube.Actuator, *game.State, cube.Position, cube.Position) (cube.Motion, error) {
	b.updates++
	return b.motion, nil
}

func TestController_CustomBehavior(t *testing.T) {
	clock := newFakeClock()
	state := game.NewState(game.WithClock(clock.Now))
	unit := cubetest.NewRecorder(cube.Position{})
	b := &countingBehavior{motion: cube.Motion{Left: 3, Right: 3}}
	c := NewController(7, unit, state, b, WithClock(clock.Now), WithInterval(50*time.Millisecond))

	for i := 0; i < 4; i++ {
		clock.Advance(50 * time.Millisecond)
		require.NoError(t, c.Update(context.Background(), farPlayer))
	}

	assert.Equal(t, 4, b.updates)
	assert.Equal(t, []cube.Motion{{Left: 3, Right: 3}}, unit.MotorCalls())
	assert.Equal(t, 7, c.ID())
}
