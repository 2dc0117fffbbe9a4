package types

import "golang.org/x/exp/slices"

// Selection is the result of a field lookup. Index is the path of field
// indices from the outer struct through any `using` fields.
type Selection struct {
	Field    *Field
	Index    []int
	Indirect bool
}

// Depth is the number of `using` hops taken to reach the field.
func (s Selection) Depth() int { return len(s.Index) - 1 }

// LookupField finds name in t, following pointers and `using` fields depth
// first. Direct fields shadow promoted ones.
func LookupField(t SemType, name string) (Selection, bool) {
	indirect := false
	if p, ok := Under(t).(*Pointer); ok {
		t = p.Elem
		indirect = true
	}
	return lookupField(t, name, nil, indirect, map[SemType]bool{})
}

func lookupField(t SemType, name string, path []int, indirect bool, seen map[SemType]bool) (Selection, bool) {
	st, ok := Under(t).(*Struct)
	if !ok || seen[st] {
		return Selection{}, false
	}
	seen[st] = true
	for i, f := range st.Fields {
		if f.Name == name {
			return Selection{Field: f, Index: append(slices.Clone(path), i), Indirect: indirect}, true
		}
	}
	for i, f := range st.Fields {
		if !f.Using {
			continue
		}
		ft, ind := f.Type, indirect
		if p, ok := Under(ft).(*Pointer); ok {
			ft, ind = p.Elem, true
		}
		if sel, ok := lookupField(ft, name, append(slices.Clone(path), i), ind, seen); ok {
			return sel, true
		}
	}
	return Selection{}, false
}

// UsingDepth reports how many `using` hops separate src from dst, or 0 when
// src does not embed dst. A pointer source may reach a pointer target
// through an embedded value.
func UsingDepth(src, dst SemType) int {
	return usingDepth(src, dst, 0, false)
}

func usingDepth(src, dst SemType, level int, srcIsPtr bool) int {
	if level > 32 {
		return 0
	}
	deref := Deref(src)
	if !srcIsPtr {
		srcIsPtr = deref != src
	}
	st, ok := Under(deref).(*Struct)
	if !ok {
		return 0
	}
	for _, f := range st.Fields {
		if !f.Using {
			continue
		}
		if Identical(f.Type, dst) {
			return level + 1
		}
		if srcIsPtr && IsPointer(dst) && Identical(f.Type, Deref(dst)) {
			return level + 1
		}
		if n := usingDepth(f.Type, dst, level+1, srcIsPtr); n > 0 {
			return n
		}
	}
	return 0
}
