// Package render implements template materialization and incremental
// rendering: compiled placeholder markup is parsed into a detached dom
// subtree, substitution values are applied at each placeholder, and
// subsequent renders against the same container patch only the slots whose
// values changed.
package render

import (
	"runtime"
	"sync"
	"weak"

	"github.com/conneroisu/quill/internal/compile"
)

// Template is the compile-once handle for a static segment sequence. The
// Go analog of a tagged-literal call site is a *Template held by the caller
// (typically a package-level variable): pointer identity is the cache key,
// so two Templates with identical text never share part state.
type Template struct {
	segments []string

	once     sync.Once
	compiled *compile.Compiled
	err      error
}

// NewTemplate builds a template from its static segments. N segments
// describe N-1 substitution slots. Compilation is deferred to first use.
func NewTemplate(segments []string) *Template {
	return &Template{segments: segments}
}

// Segments returns the template's static segments.
func (t *Template) Segments() []string {
	out := make([]string, len(t.segments))
	copy(out, t.segments)
	return out
}

func (t *Template) compile() (*compile.Compiled, error) {
	t.once.Do(func() {
		t.compiled, t.err = compile.Compile(t.segments)
	})
	return t.compiled, t.err
}

// Bind pairs the template with one render call's substitution values. The
// Result is an immutable value object, cheap to construct per call.
func (t *Template) Bind(values ...any) *Result {
	return &Result{tmpl: t, values: values}
}

// Result is one render call's (template, values) pairing.
type Result struct {
	tmpl   *Template
	values []any
}

// Template returns the compiled-template reference shared across results.
func (r *Result) Template() *Template {
	return r.tmpl
}

// Values returns a copy of the substitution values.
func (r *Result) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// templateCache maps segment-slice identity to its Template so repeated
// binds against the same backing array reuse one compiled form. Keys are
// weak: a cache entry never keeps the caller's segment slice alive.
var (
	cacheMu       sync.Mutex
	templateCache = make(map[weak.Pointer[string]]*Template)
)

// TemplateFor returns the Template for the given segment slice, keyed by
// the identity of its backing array. Distinct slices with identical text
// get distinct templates, preserving per-call-site part-shape stability.
func TemplateFor(segments []string) *Template {
	if len(segments) == 0 {
		return NewTemplate(segments)
	}
	key := weak.Make(&segments[0])

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if t, ok := templateCache[key]; ok {
		return t
	}
	t := NewTemplate(segments)
	templateCache[key] = t
	runtime.AddCleanup(&segments[0], func(k weak.Pointer[string]) {
		cacheMu.Lock()
		delete(templateCache, k)
		cacheMu.Unlock()
	}, key)
	return t
}
