package typechecker

import (
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

// Env is the checking environment threaded through every call. It is a
// value: the With* builders return a modified copy and never touch the
// receiver.
type Env struct {
	Scope *table.Scope
	// Proc is the procedure whose body is being checked, nil at package level.
	Proc     *symbols.Entity
	ProcType *types.Proc

	SuppressErrors bool
	// NoPolyErrors silences errors raised while probing a polymorphic
	// candidate inside an overload set.
	NoPolyErrors     bool
	AllowPolymorphic bool
	TypeHint         types.SemType
	InEnumContext    bool
	// PolyScope is the scope a polymorphic signature binds its parameters in.
	PolyScope *table.Scope

	// path is the chain of declarations being resolved, outermost first.
	path []*symbols.Entity
}

// NewEnv returns an environment rooted at scope.
func NewEnv(scope *table.Scope) Env {
	return Env{Scope: scope}
}

func (env Env) WithScope(s *table.Scope) Env {
	env.Scope = s
	return env
}

func (env Env) WithProc(e *symbols.Entity, sig *types.Proc) Env {
	env.Proc = e
	env.ProcType = sig
	return env
}

func (env Env) WithHint(t types.SemType) Env {
	env.TypeHint = t
	return env
}

func (env Env) Suppressed() Env {
	env.SuppressErrors = true
	return env
}

func (env Env) WithPolymorphic(allow bool) Env {
	env.AllowPolymorphic = allow
	return env
}

func (env Env) WithEnumContext() Env {
	env.InEnumContext = true
	return env
}

func (env Env) WithPolyScope(s *table.Scope) Env {
	env.PolyScope = s
	return env
}

func (env Env) withoutPolyErrors() Env {
	env.NoPolyErrors = true
	return env
}

// enter pushes e onto the resolution path. The slice is copied so sibling
// environments never see each other's pushes.
func (env Env) enter(e *symbols.Entity) Env {
	path := make([]*symbols.Entity, len(env.path), len(env.path)+1)
	copy(path, env.path)
	env.path = append(path, e)
	return env
}

// cycleFrom returns the resolution path starting at e, or nil when e is not
// on the path.
func (env Env) cycleFrom(e *symbols.Entity) []*symbols.Entity {
	for i, p := range env.path {
		if p == e {
			return env.path[i:]
		}
	}
	return nil
}
