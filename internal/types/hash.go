package types

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// Hash returns a structural hash of t. Identical types hash equal; Named
// and Generic types hash by identity.
func Hash(t SemType) uint64 {
	h := fnv.New64a()
	writeType(h, t, 0)
	return h.Sum64()
}

// HashTuple hashes a parameter list, including bound constant values.
func HashTuple(t *Tuple) uint64 {
	h := fnv.New64a()
	writeType(h, t, 0)
	return h.Sum64()
}

func writeInt(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeTag(h hash.Hash64, tag byte) { h.Write([]byte{tag}) }

func writeType(h hash.Hash64, t SemType, depth int) {
	if t == nil || depth > 32 {
		writeTag(h, 0)
		return
	}
	switch u := t.(type) {
	case *Basic:
		writeTag(h, 'B')
		writeInt(h, uint64(u.Kind))
	case *Named:
		writeTag(h, 'N')
		writeInt(h, u.id)
	case *Generic:
		writeTag(h, 'G')
		writeInt(h, u.id)
	case *Pointer:
		writeTag(h, '^')
		writeType(h, u.Elem, depth+1)
	case *Array:
		writeTag(h, 'A')
		if u.CountParam != nil {
			writeInt(h, u.CountParam.id)
		} else {
			writeInt(h, uint64(u.Count))
		}
		writeType(h, u.Elem, depth+1)
	case *Slice:
		writeTag(h, 'S')
		writeType(h, u.Elem, depth+1)
	case *DynamicArray:
		writeTag(h, 'D')
		writeType(h, u.Elem, depth+1)
	case *Map:
		writeTag(h, 'M')
		writeType(h, u.Key, depth+1)
		writeType(h, u.Value, depth+1)
	case *Struct:
		writeTag(h, '{')
		if u.Template != nil {
			writeInt(h, u.Template.id)
			writeArgs(h, u.Args, depth)
			return
		}
		for _, f := range u.Fields {
			h.Write([]byte(f.Name))
			writeType(h, f.Type, depth+1)
		}
	case *Union:
		writeTag(h, '|')
		if u.Template != nil {
			writeInt(h, u.Template.id)
			writeArgs(h, u.Args, depth)
			return
		}
		for _, v := range u.Variants {
			writeType(h, v, depth+1)
		}
	case *Enum:
		writeTag(h, 'E')
		writeType(h, u.Base, depth+1)
		for _, f := range u.Fields {
			h.Write([]byte(f.Name))
		}
	case *Tuple:
		writeTag(h, '(')
		writeInt(h, uint64(u.Len()))
		for _, v := range u.List() {
			writeInt(h, uint64(v.Kind))
			if v.Kind == VarConst && v.Value.IsValid() {
				h.Write([]byte(v.Value.String()))
			}
			writeType(h, v.Type, depth+1)
		}
	case *Proc:
		writeTag(h, 'P')
		var flags uint64
		if u.Variadic {
			flags |= 1 | uint64(u.VariadicIndex)<<8
		}
		if u.CVararg {
			flags |= 2
		}
		writeInt(h, flags)
		writeType(h, u.Params, depth+1)
		writeType(h, u.Results, depth+1)
	case *BitSet:
		writeTag(h, 'b')
		writeInt(h, uint64(u.Lower))
		writeInt(h, uint64(u.Upper))
		writeType(h, u.Elem, depth+1)
		writeType(h, u.Underlying, depth+1)
	case *Opaque:
		writeTag(h, 'O')
		writeType(h, u.Elem, depth+1)
	}
}

func writeArgs(h hash.Hash64, args []PolyArg, depth int) {
	for _, a := range args {
		if a.IsType() {
			writeType(h, a.Type, depth+1)
		} else {
			h.Write([]byte(a.Value.String()))
		}
	}
}
