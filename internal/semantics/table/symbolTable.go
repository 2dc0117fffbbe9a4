package table

import (
	"github.com/dimenus/Odin/internal/semantics/symbols"
)

// ScopeFlags describe what a scope belongs to.
type ScopeFlags uint32

const (
	ScopeUniverse ScopeFlags = 1 << iota
	ScopePackage
	ScopeProc
	ScopeRecord // struct/union polymorphic parameters
	ScopeBlock
)

// Scope holds entities declared in a package, procedure or block
type Scope struct {
	parent   *Scope
	entities map[string]*symbols.Entity
	order    []*symbols.Entity
	Flags    ScopeFlags
	Name     string
}

// NewScope creates a new scope with optional parent scope
func NewScope(parent *Scope, flags ScopeFlags, name string) *Scope {
	return &Scope{
		parent:   parent,
		entities: make(map[string]*symbols.Entity),
		Flags:    flags,
		Name:     name,
	}
}

func (s *Scope) Parent() *Scope { return s.parent }

// Insert declares e. If the name is already declared in this scope the
// existing entity is returned with false. Blank names are never recorded.
func (s *Scope) Insert(e *symbols.Entity) (*symbols.Entity, bool) {
	if e.Name == "_" || e.Name == "" {
		return nil, true
	}
	if prev, exists := s.entities[e.Name]; exists {
		return prev, false
	}
	s.entities[e.Name] = e
	s.order = append(s.order, e)
	if e.Scope == nil {
		e.Scope = s
	}
	return nil, true
}

// Lookup finds an entity in this scope or parent scopes
func (s *Scope) Lookup(name string) (*symbols.Entity, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if e, ok := sc.entities[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupCurrent finds an entity declared directly in this scope
func (s *Scope) LookupCurrent(name string) (*symbols.Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// IsGlobal is true for package and universe scopes.
func (s *Scope) IsGlobal() bool {
	return s.Flags&(ScopePackage|ScopeUniverse) != 0
}

// Entities returns the scope's entities in declaration order.
func (s *Scope) Entities() []*symbols.Entity {
	return s.order
}

func (s *Scope) Len() int { return len(s.order) }

// Package returns the nearest enclosing package scope.
func (s *Scope) Package() *Scope {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.Flags&ScopePackage != 0 {
			return sc
		}
	}
	return nil
}

var _ symbols.Scope = (*Scope)(nil)
