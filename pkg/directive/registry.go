package directive

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
)

// ErrNilDefinition is returned when registering a nil definition.
var ErrNilDefinition = errors.New("directive: nil definition")

// Registry maps directive names to definitions within one scope. Lookups
// fall back to the parent scope.
type Registry struct {
	mu     sync.RWMutex
	name   string
	parent *Registry
	defs   map[string]*Definition

	// version increases on every registration in this scope or any
	// ancestor's, so compiled-template caches can detect staleness.
	version atomic.Uint64
}

// NewRegistry creates a scope. A nil parent makes it a root scope.
func NewRegistry(name string, parent *Registry) *Registry {
	return &Registry{
		name:   name,
		parent: parent,
		defs:   make(map[string]*Definition),
	}
}

// Name returns the scope name.
func (r *Registry) Name() string { return r.name }

// Parent returns the enclosing scope, or nil.
func (r *Registry) Parent() *Registry { return r.parent }

// Register adds def under name. Registering a name already present in this
// scope fails with *DuplicateDirectiveError; a name present only in a
// parent scope is shadowed.
func (r *Registry) Register(name string, def *Definition) error {
	if def == nil {
		return ErrNilDefinition
	}
	key := NormalizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[key]; exists {
		return &DuplicateDirectiveError{Name: key, Scope: r.name}
	}
	if def.Name == "" {
		def.Name = key
	}
	r.defs[key] = def
	r.version.Add(1)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, def *Definition) {
	if err := r.Register(name, def); err != nil {
		panic(err)
	}
}

// Resolve returns the nearest definition for name, searching this scope
// before its parents.
func (r *Registry) Resolve(name string) (*Definition, error) {
	key := NormalizeName(name)
	for scope := r; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		def, ok := scope.defs[key]
		scope.mu.RUnlock()
		if ok {
			return def, nil
		}
	}
	return nil, &UnresolvedDirectiveError{Name: key}
}

// Names returns every name visible from this scope, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	for scope := r; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		for k := range scope.defs {
			seen[k] = true
		}
		scope.mu.RUnlock()
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Version returns a counter that changes whenever a definition visible
// from this scope is registered.
func (r *Registry) Version() uint64 {
	var v uint64
	for scope := r; scope != nil; scope = scope.parent {
		v += scope.version.Load()
	}
	return v
}

// NormalizeName maps the spellings of a directive name to one key:
// "customShow", "custom-show" and "v-custom-show" all become "custom-show".
func NormalizeName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "v-")
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
