package types

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dimenus/Odin/internal/semantics/consteval"
)

// SemType is the semantic representation of a type.
//
// Types are immutable once built, with two exceptions that only happen
// while a declaration is being resolved: Named.SetUnderlying and the
// field lists of a record being checked. Identity is structural except
// for Named and Generic, which are nominal.
type SemType interface {
	String() string
	Equals(other SemType) bool
	isType()
}

var nextID atomic.Uint64

func newID() uint64 { return nextID.Add(1) }

// Basic

type Basic struct {
	Kind  BasicKind
	Flags BasicFlags
	Size  int64
	Name  TYPE_NAME
}

func (b *Basic) String() string { return string(b.Name) }
func (b *Basic) isType()        {}
func (b *Basic) Equals(other SemType) bool {
	if o, ok := other.(*Basic); ok {
		return b.Kind == o.Kind
	}
	return false
}

// Named

// Named is a declared type. Two Named types are identical only if they are
// the same declaration (or the same instantiation).
type Named struct {
	id         uint64
	Name       string
	Pkg        string
	Distinct   bool
	underlying SemType
}

func NewNamed(name, pkg string, underlying SemType) *Named {
	return &Named{id: newID(), Name: name, Pkg: pkg, underlying: underlying}
}

func (n *Named) ID() uint64 { return n.id }

// Underlying returns the resolved base, or nil while the declaration is
// still in progress.
func (n *Named) Underlying() SemType { return n.underlying }

func (n *Named) SetUnderlying(t SemType) {
	if o, ok := t.(*Named); ok {
		t = o.underlying
	}
	n.underlying = t
}

func (n *Named) String() string { return n.Name }
func (n *Named) isType()        {}
func (n *Named) Equals(other SemType) bool {
	o, ok := other.(*Named)
	return ok && o.id == n.id
}

// Generic

// Generic is the `$T` placeholder of a polymorphic signature. It is never
// bound in place; bindings live in a substitution keyed by ID.
type Generic struct {
	id             uint64
	Name           string
	Specialization SemType
}

func NewGeneric(name string, specialization SemType) *Generic {
	return &Generic{id: newID(), Name: name, Specialization: specialization}
}

func (g *Generic) ID() uint64 { return g.id }
func (g *Generic) String() string {
	if g.Specialization != nil {
		return fmt.Sprintf("$%s/%s", g.Name, g.Specialization)
	}
	return "$" + g.Name
}
func (g *Generic) isType() {}
func (g *Generic) Equals(other SemType) bool {
	o, ok := other.(*Generic)
	return ok && o.id == g.id
}

// Pointer

type Pointer struct {
	Elem SemType
}

func NewPointer(elem SemType) *Pointer { return &Pointer{Elem: elem} }

func (p *Pointer) String() string { return "^" + p.Elem.String() }
func (p *Pointer) isType()        {}
func (p *Pointer) Equals(other SemType) bool {
	o, ok := other.(*Pointer)
	return ok && Identical(p.Elem, o.Elem)
}

// Array

// Array is [N]T. CountParam is set for [$N]T in a polymorphic signature.
type Array struct {
	Elem       SemType
	Count      int64
	CountParam *Generic
}

func NewArray(elem SemType, count int64) *Array { return &Array{Elem: elem, Count: count} }

func (a *Array) String() string {
	if a.CountParam != nil {
		return fmt.Sprintf("[%s]%s", a.CountParam, a.Elem)
	}
	return fmt.Sprintf("[%d]%s", a.Count, a.Elem)
}
func (a *Array) isType() {}
func (a *Array) Equals(other SemType) bool {
	o, ok := other.(*Array)
	if !ok {
		return false
	}
	if a.CountParam != nil || o.CountParam != nil {
		if a.CountParam == nil || o.CountParam == nil || !a.CountParam.Equals(o.CountParam) {
			return false
		}
	} else if a.Count != o.Count {
		return false
	}
	return Identical(a.Elem, o.Elem)
}

// Slice

type Slice struct {
	Elem SemType
}

func NewSlice(elem SemType) *Slice { return &Slice{Elem: elem} }

func (s *Slice) String() string { return "[]" + s.Elem.String() }
func (s *Slice) isType()        {}
func (s *Slice) Equals(other SemType) bool {
	o, ok := other.(*Slice)
	return ok && Identical(s.Elem, o.Elem)
}

// DynamicArray

type DynamicArray struct {
	Elem SemType
}

func NewDynamicArray(elem SemType) *DynamicArray { return &DynamicArray{Elem: elem} }

func (d *DynamicArray) String() string { return "[dynamic]" + d.Elem.String() }
func (d *DynamicArray) isType()        {}
func (d *DynamicArray) Equals(other SemType) bool {
	o, ok := other.(*DynamicArray)
	return ok && Identical(d.Elem, o.Elem)
}

// Map

type Map struct {
	Key   SemType
	Value SemType
}

func NewMap(key, value SemType) *Map { return &Map{Key: key, Value: value} }

func (m *Map) String() string { return fmt.Sprintf("map[%s]%s", m.Key, m.Value) }
func (m *Map) isType()        {}
func (m *Map) Equals(other SemType) bool {
	o, ok := other.(*Map)
	return ok && Identical(m.Key, o.Key) && Identical(m.Value, o.Value)
}

// Records

// PolyArg is one argument of a record instantiation: a type for a type
// parameter, a constant for a value parameter.
type PolyArg struct {
	Type  SemType
	Value consteval.Value
}

func (a PolyArg) IsType() bool { return !a.Value.IsValid() }

func (a PolyArg) Equals(b PolyArg) bool {
	if a.IsType() != b.IsType() {
		return false
	}
	if a.IsType() {
		return Identical(a.Type, b.Type)
	}
	return consteval.Equal(a.Value, b.Value)
}

func (a PolyArg) String() string {
	if a.IsType() {
		return a.Type.String()
	}
	return a.Value.String()
}

// Field is a struct member.
type Field struct {
	Name  string
	Type  SemType
	Using bool
	Index int
}

// Struct. A template has PolyParams; an instance has Template and Args.
type Struct struct {
	Fields     []*Field
	PolyParams *Tuple
	Template   *Named
	Args       []PolyArg
	// Polymorphic marks an instance whose arguments still contain generics.
	Polymorphic bool
}

func (s *Struct) Field(name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (s *Struct) String() string {
	var b strings.Builder
	b.WriteString("struct")
	if s.PolyParams != nil {
		b.WriteString(s.PolyParams.String())
	}
	b.WriteString("{")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Using {
			b.WriteString("using ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Name, f.Type)
	}
	b.WriteString("}")
	return b.String()
}
func (s *Struct) isType() {}
func (s *Struct) Equals(other SemType) bool {
	o, ok := other.(*Struct)
	if !ok {
		return false
	}
	if s.Template != nil || o.Template != nil {
		return s.Template == o.Template && argsEqual(s.Args, o.Args)
	}
	if len(s.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range s.Fields {
		g := o.Fields[i]
		if f.Name != g.Name || f.Using != g.Using || !Identical(f.Type, g.Type) {
			return false
		}
	}
	return true
}

// Union. NoNil unions have no nil state; their zero value is the first
// variant.
type Union struct {
	Variants    []SemType
	NoNil       bool
	PolyParams  *Tuple
	Template    *Named
	Args        []PolyArg
	Polymorphic bool
}

func (u *Union) String() string {
	var b strings.Builder
	b.WriteString("union")
	if u.PolyParams != nil {
		b.WriteString(u.PolyParams.String())
	}
	if u.NoNil {
		b.WriteString(" #no_nil")
	}
	b.WriteString("{")
	for i, v := range u.Variants {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteString("}")
	return b.String()
}
func (u *Union) isType() {}
func (u *Union) Equals(other SemType) bool {
	o, ok := other.(*Union)
	if !ok {
		return false
	}
	if u.Template != nil || o.Template != nil {
		return u.Template == o.Template && argsEqual(u.Args, o.Args)
	}
	if len(u.Variants) != len(o.Variants) || u.NoNil != o.NoNil {
		return false
	}
	for i, v := range u.Variants {
		if !Identical(v, o.Variants[i]) {
			return false
		}
	}
	return true
}

// Variant reports whether t is one of the union's variants.
func (u *Union) Variant(t SemType) bool {
	for _, v := range u.Variants {
		if Identical(v, t) {
			return true
		}
	}
	return false
}

func argsEqual(a, b []PolyArg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// Enum

type EnumField struct {
	Name  string
	Value consteval.Value
}

type Enum struct {
	Base   SemType
	Fields []*EnumField
}

func (e *Enum) Field(name string) (*EnumField, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (e *Enum) String() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return fmt.Sprintf("enum %s {%s}", e.Base, strings.Join(names, ", "))
}
func (e *Enum) isType() {}
func (e *Enum) Equals(other SemType) bool {
	o, ok := other.(*Enum)
	if !ok || len(e.Fields) != len(o.Fields) || !Identical(e.Base, o.Base) {
		return false
	}
	for i, f := range e.Fields {
		if f.Name != o.Fields[i].Name || !consteval.Equal(f.Value, o.Fields[i].Value) {
			return false
		}
	}
	return true
}

// Tuple and Var

type VarKind int

const (
	VarValue VarKind = iota
	VarType          // $T: typeid or a bare type parameter
	VarConst         // $N: int, a compile-time constant parameter
)

// DefaultKind says what a parameter defaults to when omitted.
type DefaultKind int

const (
	NoDefault DefaultKind = iota
	DefaultConstant
	DefaultNil
	DefaultValue // a non-constant expression
)

type Var struct {
	Name     string
	Kind     VarKind
	Type     SemType
	Default  DefaultKind
	Value    consteval.Value // the default for DefaultConstant, the bound value for VarConst
	AutoCast bool
	Using    bool
}

func (v *Var) HasDefault() bool { return v.Default != NoDefault }
func (v *Var) IsBlank() bool    { return v.Name == "" || v.Name == "_" }

func (v *Var) String() string {
	var b strings.Builder
	if v.Using {
		b.WriteString("using ")
	}
	if v.AutoCast {
		b.WriteString("#any_int ")
	}
	if v.Name != "" {
		if v.Kind != VarValue {
			b.WriteString("$")
		}
		b.WriteString(v.Name)
		b.WriteString(": ")
	}
	if v.Type != nil {
		b.WriteString(v.Type.String())
	}
	return b.String()
}

// Tuple is an ordered list of parameters or results.
type Tuple struct {
	Vars []*Var
}

func NewTuple(vars ...*Var) *Tuple { return &Tuple{Vars: vars} }

func (t *Tuple) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Vars)
}

func (t *Tuple) At(i int) *Var { return t.Vars[i] }

// List is nil-safe access to the vars.
func (t *Tuple) List() []*Var {
	if t == nil {
		return nil
	}
	return t.Vars
}

func (t *Tuple) Types() []SemType {
	out := make([]SemType, t.Len())
	for i := range out {
		out[i] = t.Vars[i].Type
	}
	return out
}

func (t *Tuple) String() string {
	parts := make([]string, t.Len())
	for i := range parts {
		parts[i] = t.Vars[i].String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) isType() {}
func (t *Tuple) Equals(other SemType) bool {
	o, ok := other.(*Tuple)
	if !ok || t.Len() != o.Len() {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		a, b := t.Vars[i], o.Vars[i]
		if a.Kind != b.Kind {
			return false
		}
		if a.Kind == VarConst && a.Value.IsValid() && b.Value.IsValid() {
			if !consteval.Equal(a.Value, b.Value) {
				return false
			}
		}
		if !Identical(a.Type, b.Type) {
			return false
		}
	}
	return true
}

// Proc

// Proc is a procedure signature. When Variadic is set, the parameter at
// VariadicIndex has slice type and collects the trailing arguments.
type Proc struct {
	Params        *Tuple
	Results       *Tuple
	Variadic      bool
	VariadicIndex int
	CVararg       bool
	Polymorphic   bool
	Specialized   bool
}

func (p *Proc) ParamCount() int  { return p.Params.Len() }
func (p *Proc) ResultCount() int { return p.Results.Len() }

func (p *Proc) String() string {
	var b strings.Builder
	b.WriteString("proc(")
	for i := 0; i < p.Params.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		v := p.Params.Vars[i]
		if p.Variadic && i == p.VariadicIndex {
			name := v.Name
			if name != "" {
				name += ": "
			}
			elem := v.Type
			if s, ok := v.Type.(*Slice); ok {
				elem = s.Elem
			}
			fmt.Fprintf(&b, "%s..%s", name, elem)
			continue
		}
		b.WriteString(v.String())
	}
	b.WriteString(")")
	switch p.Results.Len() {
	case 0:
	case 1:
		if p.Results.Vars[0].Name == "" {
			fmt.Fprintf(&b, " -> %s", p.Results.Vars[0].Type)
			break
		}
		fallthrough
	default:
		fmt.Fprintf(&b, " -> %s", p.Results)
	}
	return b.String()
}
func (p *Proc) isType() {}
func (p *Proc) Equals(other SemType) bool {
	o, ok := other.(*Proc)
	if !ok {
		return false
	}
	if p.Variadic != o.Variadic || p.CVararg != o.CVararg {
		return false
	}
	if p.Variadic && p.VariadicIndex != o.VariadicIndex {
		return false
	}
	return p.Params.Equals(o.Params) && p.Results.Equals(o.Results)
}

// BitSet is bit_set[Lower..=Upper] over Elem, stored in Underlying when
// one is given.
type BitSet struct {
	Elem       SemType
	Lower      int64
	Upper      int64
	Underlying SemType
}

func (s *BitSet) String() string {
	var inner string
	if _, ok := s.Elem.(*Named); ok {
		inner = s.Elem.String()
	} else {
		inner = fmt.Sprintf("%d..=%d", s.Lower, s.Upper)
	}
	if s.Underlying != nil {
		return fmt.Sprintf("bit_set[%s; %s]", inner, s.Underlying)
	}
	return fmt.Sprintf("bit_set[%s]", inner)
}
func (s *BitSet) isType() {}
func (s *BitSet) Equals(other SemType) bool {
	o, ok := other.(*BitSet)
	if !ok || s.Lower != o.Lower || s.Upper != o.Upper {
		return false
	}
	if (s.Underlying == nil) != (o.Underlying == nil) {
		return false
	}
	if s.Underlying != nil && !Identical(s.Underlying, o.Underlying) {
		return false
	}
	return Identical(s.Elem, o.Elem)
}

// Opaque wraps a type so that it keeps the layout but none of the
// operations of its element.
type Opaque struct {
	Elem SemType
}

func (o *Opaque) String() string { return "opaque " + o.Elem.String() }
func (o *Opaque) isType()        {}
func (o *Opaque) Equals(other SemType) bool {
	x, ok := other.(*Opaque)
	return ok && Identical(o.Elem, x.Elem)
}

// Identical reports structural identity; nil is identical only to nil.
func Identical(a, b SemType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
