package material

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/pbrview/internal/engine/gpu/gputest"
)

func newStages() (*gputest.Log, *gputest.Stage, *gputest.Stage) {
	log := &gputest.Log{}
	return log, gputest.NewStage(log, "vs"), gputest.NewStage(log, "ps")
}

func TestNewDefaults(t *testing.T) {
	_, vs, ps := newStages()
	m := New("plain", vs, ps)

	assert.Equal(t, "plain", m.Name())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Tint())
	assert.Equal(t, mgl32.Vec2{1, 1}, m.UVTiling())
	assert.Same(t, vs, m.VertexStage())
	assert.Same(t, ps, m.PixelStage())
}

func TestBindPushesConstantsAndResources(t *testing.T) {
	_, vs, ps := newStages()
	m := New("cobble", vs, ps, WithTint(mgl32.Vec3{0.5, 0.25, 1}), WithUVTiling(2, 2))
	m.AddTexture(Albedo, 7)
	m.AddTexture(NormalMap, 8)
	m.AddSampler(BasicSampler, 3)

	m.Bind()

	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, ps.Bound[ColorTint])
	assert.Equal(t, mgl32.Vec2{2, 2}, ps.Bound[UVScale])
	assert.EqualValues(t, 7, ps.Bound[Albedo])
	assert.EqualValues(t, 8, ps.Bound[NormalMap])
	assert.EqualValues(t, 3, ps.Bound[BasicSampler])
	assert.Empty(t, vs.Bound, "bind must not touch the vertex stage")
}

func TestBindIsIndependentOfRegistrationOrder(t *testing.T) {
	logA, vsA, psA := newStages()
	a := New("a", vsA, psA)
	a.AddTexture(Albedo, 1)
	a.AddTexture(MetalMap, 2)
	a.AddSampler(BasicSampler, 5)
	a.AddSampler(ClampSampler, 6)

	logB, vsB, psB := newStages()
	b := New("b", vsB, psB)
	b.AddSampler(ClampSampler, 6)
	b.AddTexture(MetalMap, 2)
	b.AddSampler(BasicSampler, 5)
	b.AddTexture(Albedo, 1)

	a.Bind()
	b.Bind()

	assert.Equal(t, psA.Bound, psB.Bound)
	assert.Equal(t, logA.Ops(), logB.Ops())
}

func TestOverwriteReplacesBinding(t *testing.T) {
	log, vs, ps := newStages()
	m := New("m", vs, ps)
	m.AddTexture(Albedo, 1)
	m.AddTexture(Albedo, 9)
	m.AddSampler(BasicSampler, 2)
	m.AddSampler(BasicSampler, 4)

	assert.Equal(t, []string{Albedo}, m.TextureNames())
	assert.Equal(t, []string{BasicSampler}, m.SamplerNames())

	m.Bind()

	assert.EqualValues(t, 9, ps.Bound[Albedo])
	assert.EqualValues(t, 4, ps.Bound[BasicSampler])
	assert.Len(t, log.Filter("ps", "SetTexture"), 1)
	assert.Len(t, log.Filter("ps", "SetSampler"), 1)
}

func TestSetTintAndTiling(t *testing.T) {
	_, vs, ps := newStages()
	m := New("m", vs, ps)
	m.SetTint(mgl32.Vec3{0.1, 0.2, 0.3})
	m.SetUVTiling(4, 8)

	m.Bind()

	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, ps.Bound[ColorTint])
	assert.Equal(t, mgl32.Vec2{4, 8}, ps.Bound[UVScale])
}

func TestUnresolvedNamesAreReported(t *testing.T) {
	log := &gputest.Log{}
	vs := gputest.NewStage(log, "vs")
	// A non-PBR pixel stage that has no metal map and no clamp sampler.
	ps := gputest.NewStage(log, "basic.ps", ColorTint, UVScale, Albedo, NormalMap, RoughnessMap, BasicSampler)

	rec := &Recorder{}
	m := New("bronze", vs, ps, WithReporter(rec))
	m.AddTexture(Albedo, 1)
	m.AddTexture(MetalMap, 2)
	m.AddSampler(BasicSampler, 3)
	m.AddSampler(ClampSampler, 4)

	assert.NotPanics(t, m.Bind)

	require.Len(t, rec.Bindings, 2)
	assert.Equal(t, Binding{Material: "bronze", Stage: "basic.ps", Kind: KindTexture, Name: MetalMap}, rec.Bindings[0])
	assert.Equal(t, Binding{Material: "bronze", Stage: "basic.ps", Kind: KindSampler, Name: ClampSampler}, rec.Bindings[1])

	_, bound := ps.Bound[MetalMap]
	assert.False(t, bound)
	assert.EqualValues(t, 1, ps.Bound[Albedo])
}

func TestValidateReportsUndeclaredNames(t *testing.T) {
	log := &gputest.Log{}
	ps := gputest.NewStage(log, "basic.ps")
	declared := map[string]bool{ColorTint: true, Albedo: true}

	rec := &Recorder{}
	m := New("bronze", gputest.NewStage(log, "vs"), ps, WithReporter(rec))
	m.AddTexture(Albedo, 1)
	m.AddTexture(MetalMap, 2)
	m.AddSampler(ClampSampler, 4)

	n := m.Validate(func(name string) bool { return declared[name] })

	assert.Equal(t, 2, n)
	assert.Equal(t, []Binding{
		{Material: "bronze", Stage: "basic.ps", Kind: KindConstant, Name: UVScale},
		{Material: "bronze", Stage: "basic.ps", Kind: KindTexture, Name: MetalMap},
	}, rec.Bindings)
	assert.Empty(t, log.Calls)
}

func TestLogReporterLogsOnce(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewLogReporter(zap.New(core))

	b := Binding{Material: "m", Stage: "ps", Kind: KindTexture, Name: "Missing"}
	r.Unresolved(b)
	r.Unresolved(b)
	r.Unresolved(Binding{Material: "m", Stage: "ps", Kind: KindConstant, Name: "uvScale"})

	assert.Equal(t, 2, logs.Len())
	assert.Len(t, r.Distinct(), 2)
	assert.Equal(t, "texture", logs.All()[0].ContextMap()["kind"])
}

func TestMultiReporter(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	r := Multi(a, b)
	r.Unresolved(Binding{Name: "x"})

	assert.Len(t, a.Bindings, 1)
	assert.Len(t, b.Bindings, 1)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "sampler", KindSampler.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
