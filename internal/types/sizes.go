package types

// Sizes computes layout for a target word size.
type Sizes struct {
	WordSize int64
}

func (s Sizes) word() int64 {
	if s.WordSize <= 0 {
		return 8
	}
	return s.WordSize
}

func (s Sizes) maxAlign() int64 { return 2 * s.word() }

// SizeOf returns the size in bytes of t, or 0 for types without storage.
func (s Sizes) SizeOf(t SemType) int64 {
	w := s.word()
	switch u := Under(t).(type) {
	case *Basic:
		if u.Flags&FlagUntyped != 0 {
			if d := Default(u); d != SemType(u) {
				return s.SizeOf(d)
			}
			return 0
		}
		if u.Size >= 0 {
			return u.Size
		}
		switch u.Kind {
		case String, Any:
			return 2 * w
		}
		return w
	case *Pointer, *Proc:
		return w
	case *Slice:
		return 2 * w
	case *DynamicArray:
		// data, len, cap, allocator
		return 5 * w
	case *Map:
		return 4 * w
	case *Array:
		return u.Count * s.SizeOf(u.Elem)
	case *Enum:
		return s.SizeOf(u.Base)
	case *Opaque:
		return s.SizeOf(u.Elem)
	case *BitSet:
		if u.Underlying != nil {
			return s.SizeOf(u.Underlying)
		}
		bits := u.Upper - u.Lower + 1
		switch {
		case bits <= 8:
			return 1
		case bits <= 16:
			return 2
		case bits <= 32:
			return 4
		case bits <= 64:
			return 8
		}
		return 16
	case *Struct:
		return s.recordSize(fieldTypes(u.Fields))
	case *Tuple:
		return s.recordSize(u.Types())
	case *Union:
		if len(u.Variants) == 0 {
			return 0
		}
		var max int64
		for _, v := range u.Variants {
			if sz := s.SizeOf(v); sz > max {
				max = sz
			}
		}
		tag := UnionTagSize(len(u.Variants))
		size := align(max, tag) + tag
		return align(size, s.AlignOf(u))
	}
	return 0
}

// AlignOf returns the alignment in bytes of t, at least 1.
func (s Sizes) AlignOf(t SemType) int64 {
	w := s.word()
	switch u := Under(t).(type) {
	case *Basic:
		switch u.Kind {
		case String, Any:
			return w
		case Complex64:
			return 4
		case Complex128:
			return 8
		}
		return clamp(s.SizeOf(u), 1, s.maxAlign())
	case *Array:
		return s.AlignOf(u.Elem)
	case *Enum:
		return s.AlignOf(u.Base)
	case *Opaque:
		return s.AlignOf(u.Elem)
	case *BitSet:
		return clamp(s.SizeOf(u), 1, s.maxAlign())
	case *Struct:
		return s.recordAlign(fieldTypes(u.Fields))
	case *Tuple:
		return s.recordAlign(u.Types())
	case *Union:
		a := UnionTagSize(len(u.Variants))
		for _, v := range u.Variants {
			if va := s.AlignOf(v); va > a {
				a = va
			}
		}
		return clamp(a, 1, s.maxAlign())
	}
	return w
}

func (s Sizes) recordSize(fields []SemType) int64 {
	var offset int64
	for _, f := range fields {
		offset = align(offset, s.AlignOf(f))
		offset += s.SizeOf(f)
	}
	return align(offset, s.recordAlign(fields))
}

func (s Sizes) recordAlign(fields []SemType) int64 {
	var a int64 = 1
	for _, f := range fields {
		if fa := s.AlignOf(f); fa > a {
			a = fa
		}
	}
	return a
}

func fieldTypes(fields []*Field) []SemType {
	out := make([]SemType, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

func align(n, a int64) int64 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
