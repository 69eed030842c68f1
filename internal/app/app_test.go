package app

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/entity"
	"github.com/Faultbox/pbrview/internal/engine/frame"
	"github.com/Faultbox/pbrview/internal/engine/gpu/gputest"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
)

type fakeInput struct {
	controls camera.Controls
	pressed  map[Action]bool
}

func (f fakeInput) Controls() camera.Controls { return f.controls }
func (f fakeInput) Pressed(a Action) bool     { return f.pressed[a] }

func press(actions ...Action) fakeInput {
	in := fakeInput{pressed: make(map[Action]bool)}
	for _, a := range actions {
		in.pressed[a] = true
	}
	return in
}

func newApp(t *testing.T) (*App, *gputest.Log, *camera.Camera, *lighting.Set) {
	t.Helper()
	log := &gputest.Log{}
	cam := camera.New(mgl32.Vec3{0, 0, -10}, 3, 1, 1)
	lights, err := lighting.NewSet(8, lighting.NewRand(1))
	require.NoError(t, err)

	vs := gputest.NewStage(log, "vs")
	ps := gputest.NewStage(log, "ps")
	mesh := &gputest.Mesh{MeshName: "sphere", Log: log}

	orch := frame.New(&gputest.Pipeline{Log: log}, nil)
	orch.SetCamera(cam)
	orch.SetLights(lights)
	orch.SetEntities([]*entity.Entity{
		entity.New("a", mesh, material.New("m", vs, ps)),
		entity.New("b", mesh, material.New("m", vs, ps)),
	})
	return New(orch, 1280, 720, nil), log, cam, lights
}

func TestNewAppliesInitialSize(t *testing.T) {
	a, _, cam, _ := newApp(t)

	w, h := a.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect(), 1e-6)
	assert.True(t, a.Running())
}

func TestUpdateQuit(t *testing.T) {
	a, _, cam, _ := newApp(t)
	before := cam.Position()

	in := press(ActionQuit)
	in.controls.Forward = true
	a.Update(0.5, in)

	assert.False(t, a.Running())
	assert.Equal(t, before, cam.Position(), "quit skips the rest of the update")
}

func TestUpdateRegeneratesLights(t *testing.T) {
	a, _, _, lights := newApp(t)
	before := append([]lighting.Light(nil), lights.Lights()...)

	a.Update(0.016, press())
	assert.Equal(t, before, lights.Lights())

	a.Update(0.016, press(ActionRegenerateLights))
	assert.NotEqual(t, before, lights.Lights())
	assert.Equal(t, 8, lights.Len())
	assert.Equal(t, before[:lighting.DirectionalCount], lights.Lights()[:lighting.DirectionalCount])
}

func TestUpdateMovesCamera(t *testing.T) {
	a, _, cam, _ := newApp(t)
	in := press()
	in.controls.Forward = true

	a.Update(1, in)

	assert.InDelta(t, -7, cam.Position().Z(), 1e-4)
}

func TestScreenshotRequestIsConsumedOnce(t *testing.T) {
	a, _, _, _ := newApp(t)

	assert.False(t, a.TakeScreenshotRequest())
	a.Update(0.016, press(ActionScreenshot))
	assert.True(t, a.TakeScreenshotRequest())
	assert.False(t, a.TakeScreenshotRequest())
}

func TestDrawRunsOneFrame(t *testing.T) {
	a, log, _, _ := newApp(t)

	st := a.Draw()

	assert.Equal(t, 2, st.Entities)
	assert.Equal(t, 1, st.FrameStages)
	assert.Len(t, log.Filter("pipeline", "Present"), 1)
	assert.Equal(t, st, a.Info().Frame)
}

func TestResizeIgnoresMinimisedWindow(t *testing.T) {
	a, _, cam, _ := newApp(t)

	a.Resize(0, 0)
	w, h := a.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	a.Resize(800, 800)
	assert.InDelta(t, 1, cam.Aspect(), 1e-6)
}

func TestInfo(t *testing.T) {
	a, _, _, _ := newApp(t)
	for i := 0; i < 61; i++ {
		a.Update(1.0/60, press())
	}

	info := a.Info()
	assert.InDelta(t, 60, info.FPS, 0.5)
	assert.Equal(t, 2, info.Entities)
	assert.Equal(t, 8, info.Lights)
	assert.Equal(t, 5, info.PointLights)
	assert.Equal(t, 1280, info.Width)
}
