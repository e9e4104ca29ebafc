// Package ast defines the node and type vocabulary shared by the parser,
// checker and code generator (spec §3 "Type", "AST node").
package ast

import "fmt"

// TypeTag is the closed set of type variants, per §3.
type TypeTag uint

const (
	TInt8 TypeTag = iota
	TInt16
	TInt32
	TInt64
	TUint8
	TUint16
	TUint32
	TUint64
	TFloat32
	TFloat64
	TBool
	TChar
	TVoid
	TPtr
	TArray
	TFn
	TStruct
	TUnion
	TOptional
	TStr
	TList
	TDict
	TTuple
)

// Type is a tagged variant describing the static type of an expression or
// declared storage location. Only the fields relevant to Tag are populated.
type Type struct {
	Tag    TypeTag
	Elem   *Type   // Ptr, Array, Optional, List element type
	Key    *Type   // Dict key type
	Len    int     // Array length
	Ret    *Type   // Fn return type
	Params []*Type // Fn parameter types, Tuple element types
	Name   string  // Struct/Union name
	Fields []Field // Struct/Union fields
	Packed bool    // Struct: disables natural-alignment padding
}

// Field is one member of a Struct or Union type, with its byte offset
// already computed by layout (§3 "Struct" / "Union").
type Field struct {
	Name   string
	Type   *Type
	Offset int
}

// Scalar primitive type singletons. Safe to share since Type carries no
// mutable per-use state for scalars.
var (
	Int8    = &Type{Tag: TInt8}
	Int16   = &Type{Tag: TInt16}
	Int32   = &Type{Tag: TInt32}
	Int64   = &Type{Tag: TInt64}
	Uint8   = &Type{Tag: TUint8}
	Uint16  = &Type{Tag: TUint16}
	Uint32  = &Type{Tag: TUint32}
	Uint64  = &Type{Tag: TUint64}
	Float32 = &Type{Tag: TFloat32}
	Float64 = &Type{Tag: TFloat64}
	Bool    = &Type{Tag: TBool}
	Char    = &Type{Tag: TChar}
	Void    = &Type{Tag: TVoid}
	Str     = &Type{Tag: TStr}
)

// PtrTo constructs Ptr(elem).
func PtrTo(elem *Type) *Type { return &Type{Tag: TPtr, Elem: elem} }

// ArrayOf constructs Array(n, elem).
func ArrayOf(n int, elem *Type) *Type { return &Type{Tag: TArray, Len: n, Elem: elem} }

// OptionalOf constructs Optional(elem).
func OptionalOf(elem *Type) *Type { return &Type{Tag: TOptional, Elem: elem} }

// ListOf constructs List(elem).
func ListOf(elem *Type) *Type { return &Type{Tag: TList, Elem: elem} }

// DictOf constructs Dict(key, value).
func DictOf(key, value *Type) *Type { return &Type{Tag: TDict, Key: key, Elem: value} }

// TupleOf constructs Tuple(elems...).
func TupleOf(elems ...*Type) *Type { return &Type{Tag: TTuple, Params: elems} }

// FnType constructs Fn(ret, params...).
func FnType(ret *Type, params ...*Type) *Type {
	return &Type{Tag: TFn, Ret: ret, Params: params}
}

// Size returns the byte size of t per §3's fixed scalar/pointer/array
// sizing rules. Struct/Union size is the furthest field end over the
// Fields the checker has already laid out, with no trailing padding; Size
// panics for List, Dict, Tuple and any other tag without a fixed size.
func (t *Type) Size() int {
	switch t.Tag {
	case TInt8, TUint8, TBool, TChar:
		return 1
	case TInt16, TUint16:
		return 2
	case TInt32, TUint32, TFloat32, TPtr, TFn, TStr:
		return 4
	case TInt64, TUint64, TFloat64:
		return 8
	case TVoid:
		return 0
	case TArray:
		return t.Len * t.Elem.Size()
	case TOptional:
		return t.Elem.Size()
	case TStruct, TUnion:
		size := 0

		for _, f := range t.Fields {
			end := f.Offset + f.Type.Size()
			if end > size {
				size = end
			}
		}

		return size
	default:
		panic(fmt.Sprintf("Size: unsupported type tag %v", t.Tag))
	}
}

// IsInteger reports whether t is one of the eight integer scalar types.
func (t *Type) IsInteger() bool {
	switch t.Tag {
	case TInt8, TInt16, TInt32, TInt64, TUint8, TUint16, TUint32, TUint64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is a signed integer type. Only meaningful
// when IsInteger(t) is true.
func (t *Type) IsSigned() bool {
	switch t.Tag {
	case TInt8, TInt16, TInt32, TInt64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is float32 or float64.
func (t *Type) IsFloat() bool {
	return t.Tag == TFloat32 || t.Tag == TFloat64
}

// IsPointerLike reports whether t decays to / behaves as a pointer for
// arithmetic and comparison purposes (§4.4 "Assignability").
func (t *Type) IsPointerLike() bool {
	return t.Tag == TPtr || t.Tag == TStr
}

// String renders a Type in the source surface syntax, used in diagnostics.
func (t *Type) String() string {
	switch t.Tag {
	case TInt8:
		return "int8"
	case TInt16:
		return "int16"
	case TInt32:
		return "int32"
	case TInt64:
		return "int64"
	case TUint8:
		return "uint8"
	case TUint16:
		return "uint16"
	case TUint32:
		return "uint32"
	case TUint64:
		return "uint64"
	case TFloat32:
		return "float32"
	case TFloat64:
		return "float64"
	case TBool:
		return "bool"
	case TChar:
		return "char"
	case TVoid:
		return "void"
	case TStr:
		return "str"
	case TPtr:
		return fmt.Sprintf("Ptr[%s]", t.Elem)
	case TArray:
		return fmt.Sprintf("Array[%d, %s]", t.Len, t.Elem)
	case TOptional:
		return fmt.Sprintf("Optional[%s]", t.Elem)
	case TList:
		return fmt.Sprintf("List[%s]", t.Elem)
	case TDict:
		return fmt.Sprintf("Dict[%s, %s]", t.Key, t.Elem)
	case TTuple:
		return fmt.Sprintf("Tuple%v", t.Params)
	case TFn:
		return fmt.Sprintf("Fn[%s, %v]", t.Ret, t.Params)
	case TStruct:
		return t.Name
	case TUnion:
		return t.Name
	default:
		return "<?>"
	}
}

// Equal reports structural equality between two types, used for the "Same
// type" assignability rule (§4.4).
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil || a.Tag != b.Tag {
		return false
	}

	switch a.Tag {
	case TPtr, TOptional, TList:
		return Equal(a.Elem, b.Elem)
	case TArray:
		return a.Len == b.Len && Equal(a.Elem, b.Elem)
	case TDict:
		return Equal(a.Key, b.Key) && Equal(a.Elem, b.Elem)
	case TTuple:
		return equalTypeSlices(a.Params, b.Params)
	case TFn:
		return Equal(a.Ret, b.Ret) && equalTypeSlices(a.Params, b.Params)
	case TStruct, TUnion:
		return a.Name == b.Name
	default:
		return true
	}
}

func equalTypeSlices(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
