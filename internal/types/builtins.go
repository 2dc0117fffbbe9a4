package types

type TYPE_NAME string

const (
	TYPE_BOOL       TYPE_NAME = "bool"
	TYPE_B8         TYPE_NAME = "b8"
	TYPE_B16        TYPE_NAME = "b16"
	TYPE_B32        TYPE_NAME = "b32"
	TYPE_B64        TYPE_NAME = "b64"
	TYPE_I8         TYPE_NAME = "i8"
	TYPE_I16        TYPE_NAME = "i16"
	TYPE_I32        TYPE_NAME = "i32"
	TYPE_I64        TYPE_NAME = "i64"
	TYPE_I128       TYPE_NAME = "i128"
	TYPE_U8         TYPE_NAME = "u8"
	TYPE_U16        TYPE_NAME = "u16"
	TYPE_U32        TYPE_NAME = "u32"
	TYPE_U64        TYPE_NAME = "u64"
	TYPE_U128       TYPE_NAME = "u128"
	TYPE_INT        TYPE_NAME = "int"
	TYPE_UINT       TYPE_NAME = "uint"
	TYPE_UINTPTR    TYPE_NAME = "uintptr"
	TYPE_F32        TYPE_NAME = "f32"
	TYPE_F64        TYPE_NAME = "f64"
	TYPE_COMPLEX64  TYPE_NAME = "complex64"
	TYPE_COMPLEX128 TYPE_NAME = "complex128"
	TYPE_RUNE       TYPE_NAME = "rune"
	TYPE_STRING     TYPE_NAME = "string"
	TYPE_CSTRING    TYPE_NAME = "cstring"
	TYPE_RAWPTR     TYPE_NAME = "rawptr"
	TYPE_TYPEID     TYPE_NAME = "typeid"
	TYPE_ANY        TYPE_NAME = "any"

	TYPE_UNTYPED_BOOL    TYPE_NAME = "untyped bool"
	TYPE_UNTYPED_INTEGER TYPE_NAME = "untyped integer"
	TYPE_UNTYPED_FLOAT   TYPE_NAME = "untyped float"
	TYPE_UNTYPED_COMPLEX TYPE_NAME = "untyped complex"
	TYPE_UNTYPED_RUNE    TYPE_NAME = "untyped rune"
	TYPE_UNTYPED_STRING  TYPE_NAME = "untyped string"
	TYPE_UNTYPED_NIL     TYPE_NAME = "untyped nil"
	TYPE_UNTYPED_UNDEF   TYPE_NAME = "untyped undefined"

	TYPE_INVALID TYPE_NAME = "invalid type"
)

// BasicKind enumerates the predeclared scalar types.
type BasicKind int

const (
	Invalid BasicKind = iota

	Bool
	B8
	B16
	B32
	B64

	I8
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	Int
	Uint
	Uintptr

	F32
	F64
	Complex64
	Complex128

	Rune
	String
	Cstring
	Rawptr
	Typeid
	Any

	UntypedBool
	UntypedInteger
	UntypedFloat
	UntypedComplex
	UntypedRune
	UntypedString
	UntypedNil
	UntypedUndef

	basicKindCount
)

// BasicFlags classify a basic kind.
type BasicFlags uint32

const (
	FlagBoolean BasicFlags = 1 << iota
	FlagInteger
	FlagUnsigned
	FlagFloat
	FlagComplex
	FlagString
	FlagRune
	FlagPointer
	FlagUntyped

	FlagNumeric      = FlagInteger | FlagFloat | FlagComplex
	FlagOrdered      = FlagInteger | FlagFloat | FlagString | FlagPointer | FlagRune
	FlagConstantType = FlagBoolean | FlagNumeric | FlagString | FlagPointer | FlagRune
)

// Size in bytes; -1 means it depends on the word size.
var basicTable = [basicKindCount]Basic{
	Invalid: {Invalid, 0, 0, TYPE_INVALID},

	Bool: {Bool, FlagBoolean, 1, TYPE_BOOL},
	B8:   {B8, FlagBoolean, 1, TYPE_B8},
	B16:  {B16, FlagBoolean, 2, TYPE_B16},
	B32:  {B32, FlagBoolean, 4, TYPE_B32},
	B64:  {B64, FlagBoolean, 8, TYPE_B64},

	I8:      {I8, FlagInteger, 1, TYPE_I8},
	I16:     {I16, FlagInteger, 2, TYPE_I16},
	I32:     {I32, FlagInteger, 4, TYPE_I32},
	I64:     {I64, FlagInteger, 8, TYPE_I64},
	I128:    {I128, FlagInteger, 16, TYPE_I128},
	U8:      {U8, FlagInteger | FlagUnsigned, 1, TYPE_U8},
	U16:     {U16, FlagInteger | FlagUnsigned, 2, TYPE_U16},
	U32:     {U32, FlagInteger | FlagUnsigned, 4, TYPE_U32},
	U64:     {U64, FlagInteger | FlagUnsigned, 8, TYPE_U64},
	U128:    {U128, FlagInteger | FlagUnsigned, 16, TYPE_U128},
	Int:     {Int, FlagInteger, -1, TYPE_INT},
	Uint:    {Uint, FlagInteger | FlagUnsigned, -1, TYPE_UINT},
	Uintptr: {Uintptr, FlagInteger | FlagUnsigned, -1, TYPE_UINTPTR},

	F32:        {F32, FlagFloat, 4, TYPE_F32},
	F64:        {F64, FlagFloat, 8, TYPE_F64},
	Complex64:  {Complex64, FlagComplex, 8, TYPE_COMPLEX64},
	Complex128: {Complex128, FlagComplex, 16, TYPE_COMPLEX128},

	Rune:    {Rune, FlagInteger | FlagRune, 4, TYPE_RUNE},
	String:  {String, FlagString, -1, TYPE_STRING},
	Cstring: {Cstring, FlagString, -1, TYPE_CSTRING},
	Rawptr:  {Rawptr, FlagPointer, -1, TYPE_RAWPTR},
	Typeid:  {Typeid, 0, -1, TYPE_TYPEID},
	Any:     {Any, 0, -1, TYPE_ANY},

	UntypedBool:    {UntypedBool, FlagBoolean | FlagUntyped, 0, TYPE_UNTYPED_BOOL},
	UntypedInteger: {UntypedInteger, FlagInteger | FlagUntyped, 0, TYPE_UNTYPED_INTEGER},
	UntypedFloat:   {UntypedFloat, FlagFloat | FlagUntyped, 0, TYPE_UNTYPED_FLOAT},
	UntypedComplex: {UntypedComplex, FlagComplex | FlagUntyped, 0, TYPE_UNTYPED_COMPLEX},
	UntypedRune:    {UntypedRune, FlagInteger | FlagRune | FlagUntyped, 0, TYPE_UNTYPED_RUNE},
	UntypedString:  {UntypedString, FlagString | FlagUntyped, 0, TYPE_UNTYPED_STRING},
	UntypedNil:     {UntypedNil, FlagUntyped, 0, TYPE_UNTYPED_NIL},
	UntypedUndef:   {UntypedUndef, FlagUntyped, 0, TYPE_UNTYPED_UNDEF},
}

// Typ holds the canonical *Basic for every kind. Basic types are compared by
// kind, so any *Basic with the same kind is identical to these.
var Typ = func() [basicKindCount]*Basic {
	var out [basicKindCount]*Basic
	for i := range basicTable {
		b := basicTable[i]
		out[i] = &b
	}
	return out
}()

var (
	TypeInvalid    = Typ[Invalid]
	TypeBool       = Typ[Bool]
	TypeI8         = Typ[I8]
	TypeI16        = Typ[I16]
	TypeI32        = Typ[I32]
	TypeI64        = Typ[I64]
	TypeI128       = Typ[I128]
	TypeU8         = Typ[U8]
	TypeU16        = Typ[U16]
	TypeU32        = Typ[U32]
	TypeU64        = Typ[U64]
	TypeU128       = Typ[U128]
	TypeInt        = Typ[Int]
	TypeUint       = Typ[Uint]
	TypeUintptr    = Typ[Uintptr]
	TypeF32        = Typ[F32]
	TypeF64        = Typ[F64]
	TypeComplex64  = Typ[Complex64]
	TypeComplex128 = Typ[Complex128]
	TypeRune       = Typ[Rune]
	TypeString     = Typ[String]
	TypeCstring    = Typ[Cstring]
	TypeRawptr     = Typ[Rawptr]
	TypeTypeid     = Typ[Typeid]
	TypeAny        = Typ[Any]

	TypeUntypedBool    = Typ[UntypedBool]
	TypeUntypedInteger = Typ[UntypedInteger]
	TypeUntypedFloat   = Typ[UntypedFloat]
	TypeUntypedComplex = Typ[UntypedComplex]
	TypeUntypedRune    = Typ[UntypedRune]
	TypeUntypedString  = Typ[UntypedString]
	TypeUntypedNil     = Typ[UntypedNil]
	TypeUntypedUndef   = Typ[UntypedUndef]

	// TypeU8Slice is []u8, the string reshape target for casts.
	TypeU8Slice = NewSlice(TypeU8)
)

// Universe lists the basic types that are nameable in source.
func Universe() []*Basic {
	var out []*Basic
	for _, b := range Typ {
		if b.Kind == Invalid || b.Flags&FlagUntyped != 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}
