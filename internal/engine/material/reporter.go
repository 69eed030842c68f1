package material

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Kind is the kind of slot a binding addresses.
type Kind uint8

const (
	KindTexture Kind = iota
	KindSampler
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	case KindConstant:
		return "constant"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Binding identifies a name a material tried to bind.
type Binding struct {
	Material string
	Stage    string
	Kind     Kind
	Name     string
}

func (b Binding) String() string {
	return fmt.Sprintf("%s: %s %q not declared by %s", b.Material, b.Kind, b.Name, b.Stage)
}

// Reporter receives bindings that a stage did not resolve.
type Reporter interface {
	Unresolved(b Binding)
}

type discard struct{}

func (discard) Unresolved(Binding) {}

// Discard drops every report.
var Discard Reporter = discard{}

// LogReporter logs each distinct unresolved binding once.
type LogReporter struct {
	log  *zap.Logger
	mu   sync.Mutex
	seen map[Binding]struct{}
}

// NewLogReporter creates a reporter that logs at debug level.
func NewLogReporter(log *zap.Logger) *LogReporter {
	return &LogReporter{
		log:  log,
		seen: make(map[Binding]struct{}),
	}
}

// Unresolved implements Reporter.
func (r *LogReporter) Unresolved(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[b]; ok {
		return
	}
	r.seen[b] = struct{}{}
	r.log.Debug("unresolved material binding",
		zap.String("material", b.Material),
		zap.String("stage", b.Stage),
		zap.Stringer("kind", b.Kind),
		zap.String("name", b.Name),
	)
}

// Distinct returns the distinct bindings seen so far, sorted.
func (r *LogReporter) Distinct() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Binding, 0, len(r.seen))
	for b := range r.seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Recorder keeps every report in order.
type Recorder struct {
	Bindings []Binding
}

// Unresolved implements Reporter.
func (r *Recorder) Unresolved(b Binding) {
	r.Bindings = append(r.Bindings, b)
}

// Multi fans a report out to several reporters.
func Multi(rs ...Reporter) Reporter {
	return multi(rs)
}

type multi []Reporter

func (m multi) Unresolved(b Binding) {
	for _, r := range m {
		r.Unresolved(b)
	}
}
