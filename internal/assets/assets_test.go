package assets

import (
	"errors"
	"image"
	"testing"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/gpu/gputest"
	"github.com/Faultbox/pbrview/internal/scene"
	"github.com/Faultbox/pbrview/pkg/geometry"
)

type fakeBackend struct {
	next     uint32
	uploads  int
	deleted  []string
	samplers map[string]int
}

func (b *fakeBackend) UploadTexture(*image.RGBA) gpu.Texture {
	b.next++
	b.uploads++
	return gpu.Texture(b.next)
}

func (b *fakeBackend) DeleteTexture(gpu.Texture) { b.deleted = append(b.deleted, "texture") }

func (b *fakeBackend) UploadMesh(name string, m *geometry.Mesh) gpu.Mesh {
	return &gputest.Mesh{MeshName: name, Indices: int32(len(m.Indices))}
}

func (b *fakeBackend) DeleteMesh(gpu.Mesh) { b.deleted = append(b.deleted, "mesh") }

func (b *fakeBackend) NewSampler(name string) gpu.Sampler {
	if b.samplers == nil {
		b.samplers = make(map[string]int)
	}
	b.samplers[name]++
	b.next++
	return gpu.Sampler(b.next)
}

func (b *fakeBackend) DeleteSampler(gpu.Sampler) { b.deleted = append(b.deleted, "sampler") }

func TestCache(t *testing.T) {
	c := NewCache[int]()

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d, %d; want 1, 1", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	c.Clear()
	hits, misses = c.Stats()
	if c.Len() != 0 || hits != 0 || misses != 0 {
		t.Error("Clear() should reset contents and stats")
	}
}

func TestManagerUploadsOncePerName(t *testing.T) {
	b := &fakeBackend{}
	m := NewManager(b, nil)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	t1 := m.Texture("white", img)
	t2 := m.Texture("white", img)
	t3 := m.Texture("black", img)

	if t1 != t2 {
		t.Errorf("same name gave %d and %d", t1, t2)
	}
	if t1 == t3 {
		t.Error("different names share a texture")
	}
	if b.uploads != 2 {
		t.Errorf("uploads = %d, want 2", b.uploads)
	}
	if hits, _ := m.Stats(); hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}

	s1 := m.Sampler("basic")
	s2 := m.Sampler("basic")
	if s1 != s2 || b.samplers["basic"] != 1 {
		t.Error("sampler preset should be created once")
	}

	g := geometry.Cube(1)
	if m.Mesh("cube", g) != m.Mesh("cube", g) {
		t.Error("mesh should be cached")
	}
}

func TestManagerPrograms(t *testing.T) {
	m := NewManager(&fakeBackend{}, nil)
	vs := gputest.NewStage(nil, "pbr.vs")
	ps := gputest.NewStage(nil, "pbr.ps")
	m.RegisterProgram("pbr", vs, ps)
	m.RegisterProgram("basic", vs, ps)

	gotVS, gotPS, err := m.Program("pbr")
	if err != nil {
		t.Fatalf("Program(pbr) error: %v", err)
	}
	if gotVS != vs || gotPS != ps {
		t.Error("Program returned the wrong stages")
	}

	_, _, err = m.Program("toon")
	if !errors.Is(err, scene.ErrUnknownShader) {
		t.Errorf("Program(toon) error = %v, want ErrUnknownShader", err)
	}

	names := m.ProgramNames()
	if len(names) != 2 || names[0] != "basic" || names[1] != "pbr" {
		t.Errorf("ProgramNames() = %v", names)
	}
}

func TestManagerCloseReleasesEverything(t *testing.T) {
	b := &fakeBackend{}
	m := NewManager(b, nil)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	m.Texture("a", img)
	m.Texture("b", img)
	m.Mesh("sphere", geometry.Sphere(1, 8, 4))
	m.Sampler("clamp")

	m.Close()

	if len(b.deleted) != 4 {
		t.Errorf("deleted %v, want 4 objects", b.deleted)
	}
	m.Texture("a", img)
	if b.uploads != 3 {
		t.Errorf("texture after Close should upload again, uploads = %d", b.uploads)
	}
}

func TestManagerBuildsDefaultScene(t *testing.T) {
	b := &fakeBackend{}
	m := NewManager(b, nil)
	log := &gputest.Log{}
	for _, name := range []string{"pbr", "basic"} {
		m.RegisterProgram(name, gputest.NewStage(log, name+".vs"), gputest.NewStage(log, name+".ps"))
	}

	d, err := scene.Default()
	if err != nil {
		t.Fatal(err)
	}
	s, err := scene.Build(d, m, scene.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(s.Entities) != 6 {
		t.Errorf("entities = %d, want 6", len(s.Entities))
	}
	if b.uploads != len(d.Textures) {
		t.Errorf("uploads = %d, want one per texture (%d)", b.uploads, len(d.Textures))
	}
	if len(b.samplers) != 2 {
		t.Errorf("samplers = %v, want basic and clamp", b.samplers)
	}
}
