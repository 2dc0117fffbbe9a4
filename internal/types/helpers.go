package types

// Under strips Named layers. An unresolved Named is returned as is.
func Under(t SemType) SemType {
	for i := 0; i < 64; i++ {
		n, ok := t.(*Named)
		if !ok || n.underlying == nil {
			return t
		}
		t = n.underlying
	}
	return t
}

func basicOf(t SemType) (*Basic, bool) {
	b, ok := Under(t).(*Basic)
	return b, ok
}

func hasFlag(t SemType, f BasicFlags) bool {
	if b, ok := basicOf(t); ok {
		return b.Flags&f != 0
	}
	if e, ok := Under(t).(*Enum); ok {
		return hasFlag(e.Base, f)
	}
	return false
}

func isBasicKind(t SemType, k BasicKind) bool {
	b, ok := basicOf(t)
	return ok && b.Kind == k
}

func IsInvalid(t SemType) bool { return t == nil || isBasicKind(t, Invalid) }

func IsBoolean(t SemType) bool { return hasBasicFlag(t, FlagBoolean) }
func IsInteger(t SemType) bool { return hasBasicFlag(t, FlagInteger) }
func IsFloat(t SemType) bool   { return hasBasicFlag(t, FlagFloat) }
func IsComplex(t SemType) bool { return hasBasicFlag(t, FlagComplex) }
func IsNumeric(t SemType) bool { return hasBasicFlag(t, FlagNumeric) }
func IsRune(t SemType) bool    { return hasBasicFlag(t, FlagRune) }
func IsString(t SemType) bool  { return isBasicKind(t, String) || isBasicKind(t, UntypedString) }
func IsCstring(t SemType) bool { return isBasicKind(t, Cstring) }
func IsRawptr(t SemType) bool  { return isBasicKind(t, Rawptr) }
func IsUintptr(t SemType) bool { return isBasicKind(t, Uintptr) }
func IsAny(t SemType) bool     { return isBasicKind(t, Any) }
func IsTypeid(t SemType) bool  { return isBasicKind(t, Typeid) }

// IsUnsigned is true for unsigned integers, including enums backed by one.
func IsUnsigned(t SemType) bool { return hasFlag(t, FlagUnsigned) }

// IsStringLike covers string and cstring.
func IsStringLike(t SemType) bool { return hasBasicFlag(t, FlagString) }

func hasBasicFlag(t SemType, f BasicFlags) bool {
	b, ok := basicOf(t)
	return ok && b.Flags&f != 0
}

func IsUntyped(t SemType) bool {
	b, ok := t.(*Basic)
	return ok && b.Flags&FlagUntyped != 0
}

func IsTyped(t SemType) bool { return !IsUntyped(t) }

func IsUntypedNil(t SemType) bool   { b, ok := t.(*Basic); return ok && b.Kind == UntypedNil }
func IsUntypedUndef(t SemType) bool { b, ok := t.(*Basic); return ok && b.Kind == UntypedUndef }

// IsConstantType reports whether values of t can be compile-time constants.
func IsConstantType(t SemType) bool {
	if IsEnum(t) {
		return true
	}
	return hasBasicFlag(t, FlagConstantType)
}

// IsOrdered reports whether < and friends apply.
func IsOrdered(t SemType) bool {
	if IsEnum(t) {
		return true
	}
	if b, ok := basicOf(t); ok {
		return b.Flags&FlagOrdered != 0 && b.Kind != Rawptr
	}
	_, ok := Under(t).(*Pointer)
	return ok
}

// IsComparable reports whether == and != apply.
func IsComparable(t SemType) bool {
	switch u := Under(t).(type) {
	case *Basic:
		return u.Kind != UntypedUndef && u.Kind != Invalid
	case *Pointer, *Enum, *BitSet, *Proc, *Opaque:
		return true
	case *Array:
		return IsComparable(u.Elem)
	case *Struct:
		for _, f := range u.Fields {
			if !IsComparable(f.Type) {
				return false
			}
		}
		return true
	case *Union:
		for _, v := range u.Variants {
			if !IsComparable(v) {
				return false
			}
		}
		return true
	}
	return false
}

func IsPointer(t SemType) bool {
	_, ok := Under(t).(*Pointer)
	return ok
}

func IsArray(t SemType) bool {
	_, ok := Under(t).(*Array)
	return ok
}

func IsSlice(t SemType) bool {
	_, ok := Under(t).(*Slice)
	return ok
}

func IsDynamicArray(t SemType) bool {
	_, ok := Under(t).(*DynamicArray)
	return ok
}

func IsMap(t SemType) bool {
	_, ok := Under(t).(*Map)
	return ok
}

func IsStruct(t SemType) bool {
	_, ok := Under(t).(*Struct)
	return ok
}

func IsUnion(t SemType) bool {
	_, ok := Under(t).(*Union)
	return ok
}

func IsEnum(t SemType) bool {
	_, ok := Under(t).(*Enum)
	return ok
}

func IsProc(t SemType) bool {
	_, ok := Under(t).(*Proc)
	return ok
}

func IsBitSet(t SemType) bool {
	_, ok := Under(t).(*BitSet)
	return ok
}

func IsTuple(t SemType) bool {
	_, ok := t.(*Tuple)
	return ok
}

func IsGeneric(t SemType) bool {
	_, ok := t.(*Generic)
	return ok
}

// IsU8Slice matches []u8, the byte view of a string.
func IsU8Slice(t SemType) bool {
	s, ok := Under(t).(*Slice)
	return ok && isBasicKind(s.Elem, U8)
}

// IsIndexable covers the types x[i] applies to.
func IsIndexable(t SemType) bool {
	switch u := Under(t).(type) {
	case *Array, *Slice, *DynamicArray, *Map:
		return true
	case *Basic:
		return u.Kind == String || u.Kind == UntypedString
	case *Pointer:
		return IsArray(u.Elem)
	}
	return false
}

// HasNil reports whether nil is a value of t.
func HasNil(t SemType) bool {
	switch u := Under(t).(type) {
	case *Basic:
		switch u.Kind {
		case Rawptr, Any, Cstring, Typeid, UntypedNil:
			return true
		}
	case *Pointer, *Slice, *DynamicArray, *Map, *Proc:
		return true
	case *Union:
		return !u.NoNil
	}
	return false
}

// HasUndef reports whether `---` may initialise a value of t.
func HasUndef(t SemType) bool {
	if IsUntyped(t) {
		return false
	}
	return !IsInvalid(t)
}

// IsPolymorphic reports whether t still mentions a generic placeholder or
// is an uninstantiated record template.
func IsPolymorphic(t SemType) bool {
	return isPolymorphic(t, map[SemType]bool{})
}

func isPolymorphic(t SemType, seen map[SemType]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true
	switch u := t.(type) {
	case *Generic:
		return true
	case *Named:
		return isPolymorphic(u.underlying, seen)
	case *Pointer:
		return isPolymorphic(u.Elem, seen)
	case *Array:
		return u.CountParam != nil || isPolymorphic(u.Elem, seen)
	case *Slice:
		return isPolymorphic(u.Elem, seen)
	case *DynamicArray:
		return isPolymorphic(u.Elem, seen)
	case *Map:
		return isPolymorphic(u.Key, seen) || isPolymorphic(u.Value, seen)
	case *BitSet:
		return isPolymorphic(u.Elem, seen)
	case *Opaque:
		return isPolymorphic(u.Elem, seen)
	case *Struct:
		if u.PolyParams != nil || u.Polymorphic {
			return true
		}
		for _, f := range u.Fields {
			if isPolymorphic(f.Type, seen) {
				return true
			}
		}
	case *Union:
		if u.PolyParams != nil || u.Polymorphic {
			return true
		}
		for _, v := range u.Variants {
			if isPolymorphic(v, seen) {
				return true
			}
		}
	case *Proc:
		if u.Polymorphic && !u.Specialized {
			return true
		}
		for _, v := range u.Params.List() {
			if isPolymorphic(v.Type, seen) {
				return true
			}
		}
		for _, v := range u.Results.List() {
			if isPolymorphic(v.Type, seen) {
				return true
			}
		}
	case *Tuple:
		for _, v := range u.Vars {
			if isPolymorphic(v.Type, seen) {
				return true
			}
		}
	}
	return false
}

// IsPolyTemplate reports whether t is a record with compile-time parameters
// that has not been instantiated.
func IsPolyTemplate(t SemType) bool {
	switch u := Under(t).(type) {
	case *Struct:
		return u.PolyParams != nil
	case *Union:
		return u.PolyParams != nil
	}
	return false
}

// Default maps an untyped type to the type a value of it takes when
// nothing else decides.
func Default(t SemType) SemType {
	b, ok := t.(*Basic)
	if !ok {
		return t
	}
	switch b.Kind {
	case UntypedBool:
		return TypeBool
	case UntypedInteger:
		return TypeInt
	case UntypedFloat:
		return TypeF64
	case UntypedComplex:
		return TypeComplex128
	case UntypedRune:
		return TypeRune
	case UntypedString:
		return TypeString
	}
	return t
}

// Deref returns the element of a pointer, or t.
func Deref(t SemType) SemType {
	if p, ok := Under(t).(*Pointer); ok {
		return p.Elem
	}
	return t
}

// Elem returns the element type of a container, or nil.
func Elem(t SemType) SemType {
	switch u := Under(t).(type) {
	case *Pointer:
		return u.Elem
	case *Array:
		return u.Elem
	case *Slice:
		return u.Elem
	case *DynamicArray:
		return u.Elem
	case *Map:
		return u.Value
	case *BitSet:
		return u.Elem
	case *Basic:
		if u.Kind == String || u.Kind == UntypedString {
			return TypeU8
		}
	}
	return nil
}

// BaseArrayElem follows nested fixed arrays to the innermost element.
func BaseArrayElem(t SemType) SemType {
	for {
		a, ok := Under(t).(*Array)
		if !ok {
			return t
		}
		t = a.Elem
	}
}

// UnionTagSize is the byte size of the discriminant for n variants.
func UnionTagSize(n int) int64 {
	switch {
	case n == 0:
		return 0
	case n < 1<<8:
		return 1
	case n < 1<<16:
		return 2
	}
	return 4
}
