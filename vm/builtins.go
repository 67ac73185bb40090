package vm

import (
	"strconv"
	"strings"
)

// registerBuiltins installs the java.lang.* surrogate table: the small
// set of host-provided classes and operations programs can invoke without
// a Smali source file of their own, plus the glue (stringOf, byte <->
// ArrayObj conversion) needed to make those operations composable with
// the rest of the object model.
func registerBuiltins(l *Loader) {
	registerStringBuiltins(l)
	registerStringBuilderBuiltins(l)
	registerBoxBuiltins(l)
	registerArrayReflectionBuiltins(l)
}

func key(name, args, ret string) MethodKey {
	return MethodKey{Name: name, Args: args, Return: ret}
}

// stringOf renders a Value the way Dalvik's append/valueOf/toString rules
// do: primitives become decimal text, object references defer to the
// referenced object's own decoded text when it is a StringObj, or a
// generic class-name placeholder otherwise.
func stringOf(e *Emulator, v Value) string {
	if v.IsNull() {
		return "null"
	}
	if v.Kind() == KindRef {
		obj, ok := e.Heap.Get(v.Ref())
		if !ok {
			return "null"
		}
		switch o := obj.(type) {
		case *StringObj:
			return o.Decoded()
		case *StringBuilderObj:
			return string(o.Buf)
		case *BoxObj:
			return stringOf(e, o.Prim)
		default:
			return obj.ClassName()
		}
	}
	return v.String()
}

func bytesFromArray(e *Emulator, v Value) ([]byte, error) {
	if v.IsNull() {
		return nil, NewNullPointerException("byte array is null")
	}
	obj, ok := e.Heap.Get(v.Ref())
	if !ok {
		return nil, NewNullPointerException("byte array is null")
	}
	arr, ok := obj.(*ArrayObj)
	if !ok {
		return nil, NewClassCastException("not a byte array")
	}
	out := make([]byte, len(arr.Elements))
	for i, el := range arr.Elements {
		out[i] = byte(el.AsInt64())
	}
	return out, nil
}

func registerStringBuiltins(l *Loader) {
	methods := BuiltinClass{
		key("<init>", "[B", "V"): func(e *Emulator, this Value, args []Value) (Value, error) {
			bytes, err := bytesFromArray(e, args[0])
			if err != nil {
				return NullValue(), err
			}
			obj, _ := e.Heap.Get(this.Ref())
			s := obj.(*StringObj)
			s.Bytes = bytes
			return NullValue(), nil
		},
		key("<init>", "[BLjava/lang/String;", "V"): func(e *Emulator, this Value, args []Value) (Value, error) {
			bytes, err := bytesFromArray(e, args[0])
			if err != nil {
				return NullValue(), err
			}
			obj, _ := e.Heap.Get(this.Ref())
			s := obj.(*StringObj)
			s.Bytes = bytes
			s.Encoding = stringOf(e, args[1])
			return NullValue(), nil
		},
		key("charAt", "I", "C"): func(e *Emulator, this Value, args []Value) (Value, error) {
			runes := []rune(stringOf(e, this))
			idx := args[0].AsInt64()
			if idx < 0 || idx >= int64(len(runes)) {
				return NullValue(), NewArrayIndexOutOfBoundsException(int(idx), len(runes))
			}
			return CharValue(runes[idx]), nil
		},
		key("length", "", "I"): func(e *Emulator, this Value, args []Value) (Value, error) {
			return Int32Value(int32(len([]rune(stringOf(e, this))))), nil
		},
		key("equals", "Ljava/lang/Object;", "Z"): func(e *Emulator, this Value, args []Value) (Value, error) {
			if args[0].IsNull() {
				return BoolValue(false), nil
			}
			obj, ok := e.Heap.Get(args[0].Ref())
			if !ok {
				return BoolValue(false), nil
			}
			if _, ok := obj.(*StringObj); !ok {
				return BoolValue(false), nil
			}
			return BoolValue(stringOf(e, this) == stringOf(e, args[0])), nil
		},
		key("getBytes", "", "[B"): func(e *Emulator, this Value, args []Value) (Value, error) {
			obj, _ := e.Heap.Get(this.Ref())
			s := obj.(*StringObj)
			elements := make([]Value, len(s.Bytes))
			for i, b := range s.Bytes {
				elements[i] = Int32Value(int32(int8(b)))
			}
			id := e.Heap.New(&ArrayObj{ElementType: "B", Elements: elements})
			return RefValue(id), nil
		},
	}
	for _, argType := range []string{"I", "J", "F", "D", "Z", "C", "Ljava/lang/Object;"} {
		argType := argType
		methods[key("valueOf", argType, "Ljava/lang/String;")] = func(e *Emulator, this Value, args []Value) (Value, error) {
			id := e.Heap.New(NewStringObj(stringOf(e, args[0])))
			return RefValue(id), nil
		}
	}
	l.registerBuiltin("java.lang.String", methods)
}

func registerStringBuilderBuiltins(l *Loader) {
	appendImpl := func(e *Emulator, this Value, args []Value) (Value, error) {
		obj, _ := e.Heap.Get(this.Ref())
		sb := obj.(*StringBuilderObj)
		sb.Buf = append(sb.Buf, []byte(stringOf(e, args[0]))...)
		return this, nil
	}
	methods := BuiltinClass{
		key("toString", "", "Ljava/lang/String;"): func(e *Emulator, this Value, args []Value) (Value, error) {
			obj, _ := e.Heap.Get(this.Ref())
			sb := obj.(*StringBuilderObj)
			id := e.Heap.New(&StringObj{Bytes: append([]byte(nil), sb.Buf...)})
			return RefValue(id), nil
		},
	}
	for _, argType := range []string{"Ljava/lang/String;", "I", "J", "F", "D", "Z", "C", "Ljava/lang/Object;"} {
		methods[key("append", argType, "Ljava/lang/StringBuilder;")] = appendImpl
	}
	l.registerBuiltin("java.lang.StringBuilder", methods)
}

// registerBoxBuiltins covers Integer/Long/Double/Float/Boolean/Character:
// valueOf(prim), the matching unbox accessor, and parseInt(String[,I])
// where the type supports parsing from a string.
func registerBoxBuiltins(l *Loader) {
	type boxSpec struct {
		class       string
		prim        string
		unboxName   string
		unboxRet    string
		parseName   string
		parsePrim   func(s string, radix int) (Value, error)
	}
	specs := []boxSpec{
		{"java.lang.Integer", "I", "intValue", "I", "parseInt", func(s string, radix int) (Value, error) {
			v, err := strconv.ParseInt(strings.TrimSpace(s), radix, 32)
			if err != nil {
				return Value{}, NewNumberFormatException(`For input string: "` + s + `"`)
			}
			return Int32Value(int32(v)), nil
		}},
		{"java.lang.Long", "J", "longValue", "J", "parseLong", func(s string, radix int) (Value, error) {
			v, err := strconv.ParseInt(strings.TrimSpace(s), radix, 64)
			if err != nil {
				return Value{}, NewNumberFormatException(`For input string: "` + s + `"`)
			}
			return Int64Value(v), nil
		}},
		{"java.lang.Double", "D", "doubleValue", "D", "parseDouble", func(s string, _ int) (Value, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return Value{}, NewNumberFormatException(`For input string: "` + s + `"`)
			}
			return Float64Value(v), nil
		}},
		{"java.lang.Float", "F", "floatValue", "F", "parseFloat", func(s string, _ int) (Value, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			if err != nil {
				return Value{}, NewNumberFormatException(`For input string: "` + s + `"`)
			}
			return Float32Value(float32(v)), nil
		}},
		{"java.lang.Boolean", "Z", "booleanValue", "Z", "", nil},
		{"java.lang.Character", "C", "charValue", "C", "", nil},
	}

	for _, spec := range specs {
		spec := spec
		methods := BuiltinClass{
			key("valueOf", spec.prim, "L"+strings.ReplaceAll(spec.class, ".", "/")+";"): func(e *Emulator, this Value, args []Value) (Value, error) {
				id := e.Heap.New(&BoxObj{Class: spec.class, Prim: args[0]})
				return RefValue(id), nil
			},
			key(spec.unboxName, "", spec.unboxRet): func(e *Emulator, this Value, args []Value) (Value, error) {
				obj, _ := e.Heap.Get(this.Ref())
				return obj.(*BoxObj).Prim, nil
			},
		}
		if spec.parseName != "" {
			parse := spec.parsePrim
			methods[key(spec.parseName, "Ljava/lang/String;", spec.prim)] = func(e *Emulator, this Value, args []Value) (Value, error) {
				return parse(stringOf(e, args[0]), 10)
			}
			methods[key(spec.parseName, "Ljava/lang/String;I", spec.prim)] = func(e *Emulator, this Value, args []Value) (Value, error) {
				return parse(stringOf(e, args[0]), int(args[1].AsInt64()))
			}
		}
		l.registerBuiltin(spec.class, methods)
	}
}

func registerArrayReflectionBuiltins(l *Loader) {
	methods := BuiltinClass{
		key("newInstance", "Ljava/lang/Class;I", "Ljava/lang/Object;"): func(e *Emulator, this Value, args []Value) (Value, error) {
			length := args[1].AsInt64()
			elemType := "Ljava/lang/Object;"
			if classObj, ok := e.Heap.Get(args[0].Ref()); ok {
				if inst, ok := classObj.(*UserInstance); ok {
					if nameVal, ok := inst.Fields["name"]; ok && !nameVal.IsNull() {
						elemType = stringOf(e, nameVal)
					}
				}
			}
			elements := make([]Value, length)
			for i := range elements {
				elements[i] = NullValue()
			}
			id := e.Heap.New(&ArrayObj{ElementType: elemType, Elements: elements})
			return RefValue(id), nil
		},
	}
	l.registerBuiltin("java.lang.reflect.Array", methods)
}
