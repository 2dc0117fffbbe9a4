package symbols

import (
	"fmt"

	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/types"
	"github.com/dimenus/Odin/internal/utils"
)

// Scope is implemented by table.Scope; declared here to avoid an import cycle
type Scope interface {
	Lookup(name string) (*Entity, bool)
	LookupCurrent(name string) (*Entity, bool)
	Insert(e *Entity) (*Entity, bool)
	IsGlobal() bool
}

// EntityKind categorizes entities
type EntityKind int

const (
	EntityInvalid EntityKind = iota
	EntityConstant
	EntityVariable
	EntityTypeName
	EntityProcedure
	EntityProcGroup
	EntityBuiltin
	EntityImportName
	EntityLibraryName
	EntityLabel
	EntityNil
)

var kindNames = [...]string{
	EntityInvalid:     "invalid",
	EntityConstant:    "constant",
	EntityVariable:    "variable",
	EntityTypeName:    "type name",
	EntityProcedure:   "procedure",
	EntityProcGroup:   "procedure group",
	EntityBuiltin:     "builtin",
	EntityImportName:  "import name",
	EntityLibraryName: "library name",
	EntityLabel:       "label",
	EntityNil:         "nil",
}

func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("EntityKind(%d)", int(k))
}

// State is the resolution lifecycle of an entity.
type State int

const (
	Unresolved State = iota
	InProgress
	Resolved
)

type Flags uint32

const (
	FlagUsed Flags = 1 << iota
	FlagParam
	FlagUsing
	FlagPolymorphic // a $T or $N parameter
	FlagField
	FlagGenerated // produced by polymorphic instantiation
	FlagAutoCast
	FlagImmutable // procedure parameters may not be assigned
	FlagTypeField // a type parameter bound inside a record instance
)

// Decl is what is needed to resolve an entity on first use.
type Decl struct {
	Type  ast.Expression // declared type, may be nil
	Init  ast.Expression // initializer, may be nil
	Scope Scope          // scope the initializer is checked in
	Node  *ast.ValueDecl
}

// Entity represents a declared name
type Entity struct {
	ID    int
	Kind  EntityKind
	Name  string
	Pkg   string
	Ident *ast.IdentifierExpr // declaring identifier, nil for universe entries
	Type  types.SemType
	Value consteval.Value // for constants
	State State
	Flags Flags
	Scope Scope // declaring scope
	Decl  *Decl

	Group       []*Entity // EntityProcGroup members
	BuiltinID   int       // EntityBuiltin
	ImportScope Scope     // EntityImportName
	ImportPath  string

	// Template is the polymorphic procedure this entity was generated from.
	Template *Entity
}

func NewEntity(kind EntityKind, name string, ident *ast.IdentifierExpr, typ types.SemType) *Entity {
	return &Entity{Kind: kind, Name: name, Ident: ident, Type: typ}
}

func (e *Entity) String() string {
	if e.Type != nil {
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Name, e.Type)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Name)
}

func (e *Entity) Has(f Flags) bool { return e.Flags&f != 0 }
func (e *Entity) Set(f Flags)      { e.Flags |= f }

func (e *Entity) MarkUsed()    { e.Flags |= FlagUsed }
func (e *Entity) IsUsed() bool { return e.Flags&FlagUsed != 0 }

func (e *Entity) IsExported() bool { return utils.IsExported(e.Name) }

// Resolved reports whether the entity's type is known.
func (e *Entity) Resolved() bool { return e.State == Resolved }
