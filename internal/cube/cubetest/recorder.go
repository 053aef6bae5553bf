// Package cubetest provides a recording cube.Actuator for tests.
package cubetest

import (
	"context"
	"sync"

	"github.com/ugaemi/cubechase/internal/cube"
)

// Recorder is an in-memory cube.Actuator that records every command.
type Recorder struct {
	mu sync.Mutex

	Lights    []cube.Color
	Sequences [][]cube.LightStep
	Motors    []cube.Motion
	Sounds    []cube.SoundEffect

	// PositionReads counts calls to Position.
	PositionReads int

	pos   cube.Position
	onMat bool
	err   error
}

// NewRecorder creates a recorder reporting pos as its position.
func NewRecorder(pos cube.Position) *Recorder {
	return &Recorder{pos: pos, onMat: true}
}

// Place moves the cube to pos.
func (r *Recorder) Place(pos cube.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = pos
	r.onMat = true
}

// Lift takes the cube off the mat.
func (r *Recorder) Lift() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMat = false
}

// Fail makes every subsequent command return err.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) SetLight(_ context.Context, c cube.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.Lights = append(r.Lights, c)
	return nil
}

func (r *Recorder) SetLightSequence(_ context.Context, _ int, steps []cube.LightStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.Sequences = append(r.Sequences, steps)
	return nil
}

func (r *Recorder) SetMotors(_ context.Context, m cube.Motion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.Motors = append(r.Motors, m)
	return nil
}

func (r *Recorder) PlaySound(_ context.Context, s cube.SoundEffect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.Sounds = append(r.Sounds, s)
	return nil
}

func (r *Recorder) Position(_ context.Context) (cube.Position, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PositionReads++
	if r.err != nil {
		return cube.Position{}, false, r.err
	}
	return r.pos, r.onMat, nil
}

// MotorCalls returns a copy of the recorded motor commands.
func (r *Recorder) MotorCalls() []cube.Motion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cube.Motion(nil), r.Motors...)
}

// LightCalls returns a copy of the recorded light colours.
func (r *Recorder) LightCalls() []cube.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cube.Color(nil), r.Lights...)
}
