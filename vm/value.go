package vm

import "fmt"

// Kind tags the payload carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
	KindChar
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt32:
		return "int"
	case KindInt64:
		return "long"
	case KindFloat32:
		return "float"
	case KindFloat64:
		return "double"
	case KindBool:
		return "boolean"
	case KindChar:
		return "char"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Value is the tagged union every register holds exactly one of. Every
// register starts out Null; reading an unwritten register yields Null
// rather than panicking.
type Value struct {
	kind  Kind
	i     int64   // backs Int32, Int64, BoolPrim (0/1), CharPrim (rune)
	f     float64 // backs Float32 (stored widened), Float64
	ref   ObjectID
	hasRef bool
}

func NullValue() Value { return Value{kind: KindNull} }

func Int32Value(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }
func Int64Value(v int64) Value { return Value{kind: KindInt64, i: v} }

func Float32Value(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }
func Float64Value(v float64) Value { return Value{kind: KindFloat64, f: v} }

func BoolValue(v bool) Value {
	i := int64(0)
	if v {
		i = 1
	}
	return Value{kind: KindBool, i: i}
}

func CharValue(v rune) Value { return Value{kind: KindChar, i: int64(v)} }

func RefValue(id ObjectID) Value { return Value{kind: KindRef, ref: id, hasRef: true} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool {
	return v.kind == KindNull || (v.kind == KindRef && !v.hasRef)
}

func (v Value) Int32() int32   { return int32(v.i) }
func (v Value) Int64() int64   { return v.i }
func (v Value) Float32() float32 { return float32(v.f) }
func (v Value) Float64() float64 { return v.f }
func (v Value) Bool() bool     { return v.i != 0 }
func (v Value) Char() rune     { return rune(v.i) }
func (v Value) Ref() ObjectID  { return v.ref }

// AsInt64 widens any numeric Value to an int64, used by opcode handlers
// that need to treat ints/longs/bools/chars uniformly (array indices,
// switch keys, comparisons).
func (v Value) AsInt64() int64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return int64(v.f)
	default:
		return v.i
	}
}

// AsFloat64 widens any numeric Value to a float64.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f
	default:
		return float64(v.i)
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt32:
		return fmt.Sprintf("%d", v.Int32())
	case KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case KindFloat32:
		return fmt.Sprintf("%g", v.Float32())
	case KindFloat64:
		return fmt.Sprintf("%g", v.Float64())
	case KindBool:
		return fmt.Sprintf("%v", v.Bool())
	case KindChar:
		return fmt.Sprintf("%c", v.Char())
	case KindRef:
		if !v.hasRef {
			return "null"
		}
		return v.ref.String()
	default:
		return "?"
	}
}
