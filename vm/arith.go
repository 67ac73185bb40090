package vm

import "math"

type binOpFunc func(a, b Value) (Value, error)
type unOpFunc func(a Value) Value

// registerBinaryFamily wires one arithmetic mnemonic's three Dalvik
// addressing shapes: the 3-register form ("add-int vA, vB, vC"), its
// /2addr compaction ("add-int/2addr vA, vB", where vA doubles as the first
// source), and leaves /lit8 and /lit16 to registerLiteralFamily since those
// take a literal instead of a third register.
func registerBinaryFamily(name string, fn binOpFunc) {
	h := func(f *Frame, operands string) (ExecResult, error) {
		parts := splitOperands(operands)
		switch len(parts) {
		case 2:
			res, err := fn(f.GetReg(parts[0]), f.GetReg(parts[1]))
			if err != nil {
				return Continue, err
			}
			f.SetReg(parts[0], res)
			return Continue, nil
		case 3:
			res, err := fn(f.GetReg(parts[1]), f.GetReg(parts[2]))
			if err != nil {
				return Continue, err
			}
			f.SetReg(parts[0], res)
			return Continue, nil
		default:
			return Continue, malformedOperands(name, operands)
		}
	}
	registerOpcode(name, h)
	registerOpcode(name+"/2addr", h)
}

func registerLiteralFamily(name string, fn binOpFunc) {
	h := func(f *Frame, operands string) (ExecResult, error) {
		parts := splitOperands(operands)
		if len(parts) != 3 {
			return Continue, malformedOperands(name, operands)
		}
		lit, err := parseIntLiteral(parts[2])
		if err != nil {
			return Continue, err
		}
		res, err := fn(f.GetReg(parts[1]), Int32Value(int32(lit)))
		if err != nil {
			return Continue, err
		}
		f.SetReg(parts[0], res)
		return Continue, nil
	}
	registerOpcode(name+"/lit8", h)
	registerOpcode(name+"/lit16", h)
}

func registerUnaryFamily(name string, fn unOpFunc) {
	registerOpcode(name, func(f *Frame, operands string) (ExecResult, error) {
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return Continue, malformedOperands(name, operands)
		}
		f.SetReg(parts[0], fn(f.GetReg(parts[1])))
		return Continue, nil
	})
}

func divZeroCheck(divisor int64) error {
	if divisor == 0 {
		return NewArithmeticException("divide by zero")
	}
	return nil
}

func init() {
	registerBinaryFamily("add-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) + int32(b.AsInt64())), nil
	})
	registerBinaryFamily("sub-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) - int32(b.AsInt64())), nil
	})
	registerBinaryFamily("mul-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) * int32(b.AsInt64())), nil
	})
	registerBinaryFamily("div-int", func(a, b Value) (Value, error) {
		bi := int32(b.AsInt64())
		if err := divZeroCheck(int64(bi)); err != nil {
			return Value{}, err
		}
		return Int32Value(int32(a.AsInt64()) / bi), nil
	})
	registerBinaryFamily("rem-int", func(a, b Value) (Value, error) {
		bi := int32(b.AsInt64())
		if err := divZeroCheck(int64(bi)); err != nil {
			return Value{}, err
		}
		return Int32Value(int32(a.AsInt64()) % bi), nil
	})
	registerBinaryFamily("and-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) & int32(b.AsInt64())), nil
	})
	registerBinaryFamily("or-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) | int32(b.AsInt64())), nil
	})
	registerBinaryFamily("xor-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) ^ int32(b.AsInt64())), nil
	})
	registerBinaryFamily("shl-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) << (uint(b.AsInt64()) & 31)), nil
	})
	registerBinaryFamily("shr-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) >> (uint(b.AsInt64()) & 31)), nil
	})
	registerBinaryFamily("ushr-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(uint32(a.AsInt64()) >> (uint(b.AsInt64()) & 31))), nil
	})

	registerLiteralFamily("add-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) + int32(b.AsInt64())), nil
	})
	registerLiteralFamily("rsub-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(b.AsInt64()) - int32(a.AsInt64())), nil
	})
	registerLiteralFamily("mul-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) * int32(b.AsInt64())), nil
	})
	registerLiteralFamily("div-int", func(a, b Value) (Value, error) {
		bi := int32(b.AsInt64())
		if err := divZeroCheck(int64(bi)); err != nil {
			return Value{}, err
		}
		return Int32Value(int32(a.AsInt64()) / bi), nil
	})
	registerLiteralFamily("rem-int", func(a, b Value) (Value, error) {
		bi := int32(b.AsInt64())
		if err := divZeroCheck(int64(bi)); err != nil {
			return Value{}, err
		}
		return Int32Value(int32(a.AsInt64()) % bi), nil
	})
	registerLiteralFamily("and-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) & int32(b.AsInt64())), nil
	})
	registerLiteralFamily("or-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) | int32(b.AsInt64())), nil
	})
	registerLiteralFamily("xor-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) ^ int32(b.AsInt64())), nil
	})
	registerLiteralFamily("shl-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) << (uint(b.AsInt64()) & 31)), nil
	})
	registerLiteralFamily("shr-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(a.AsInt64()) >> (uint(b.AsInt64()) & 31)), nil
	})
	registerLiteralFamily("ushr-int", func(a, b Value) (Value, error) {
		return Int32Value(int32(uint32(a.AsInt64()) >> (uint(b.AsInt64()) & 31))), nil
	})

	registerBinaryFamily("add-long", func(a, b Value) (Value, error) { return Int64Value(a.AsInt64() + b.AsInt64()), nil })
	registerBinaryFamily("sub-long", func(a, b Value) (Value, error) { return Int64Value(a.AsInt64() - b.AsInt64()), nil })
	registerBinaryFamily("mul-long", func(a, b Value) (Value, error) { return Int64Value(a.AsInt64() * b.AsInt64()), nil })
	registerBinaryFamily("div-long", func(a, b Value) (Value, error) {
		if err := divZeroCheck(b.AsInt64()); err != nil {
			return Value{}, err
		}
		return Int64Value(a.AsInt64() / b.AsInt64()), nil
	})
	registerBinaryFamily("rem-long", func(a, b Value) (Value, error) {
		if err := divZeroCheck(b.AsInt64()); err != nil {
			return Value{}, err
		}
		return Int64Value(a.AsInt64() % b.AsInt64()), nil
	})
	registerBinaryFamily("and-long", func(a, b Value) (Value, error) { return Int64Value(a.AsInt64() & b.AsInt64()), nil })
	registerBinaryFamily("or-long", func(a, b Value) (Value, error) { return Int64Value(a.AsInt64() | b.AsInt64()), nil })
	registerBinaryFamily("xor-long", func(a, b Value) (Value, error) { return Int64Value(a.AsInt64() ^ b.AsInt64()), nil })
	registerBinaryFamily("shl-long", func(a, b Value) (Value, error) {
		return Int64Value(a.AsInt64() << (uint(b.AsInt64()) & 63)), nil
	})
	registerBinaryFamily("shr-long", func(a, b Value) (Value, error) {
		return Int64Value(a.AsInt64() >> (uint(b.AsInt64()) & 63)), nil
	})
	registerBinaryFamily("ushr-long", func(a, b Value) (Value, error) {
		return Int64Value(int64(uint64(a.AsInt64()) >> (uint(b.AsInt64()) & 63))), nil
	})

	registerBinaryFamily("add-float", func(a, b Value) (Value, error) {
		return Float32Value(float32(a.AsFloat64()) + float32(b.AsFloat64())), nil
	})
	registerBinaryFamily("sub-float", func(a, b Value) (Value, error) {
		return Float32Value(float32(a.AsFloat64()) - float32(b.AsFloat64())), nil
	})
	registerBinaryFamily("mul-float", func(a, b Value) (Value, error) {
		return Float32Value(float32(a.AsFloat64()) * float32(b.AsFloat64())), nil
	})
	registerBinaryFamily("div-float", func(a, b Value) (Value, error) {
		return Float32Value(float32(a.AsFloat64()) / float32(b.AsFloat64())), nil
	})
	registerBinaryFamily("rem-float", func(a, b Value) (Value, error) {
		return Float32Value(float32(math.Mod(a.AsFloat64(), b.AsFloat64()))), nil
	})

	registerBinaryFamily("add-double", func(a, b Value) (Value, error) { return Float64Value(a.AsFloat64() + b.AsFloat64()), nil })
	registerBinaryFamily("sub-double", func(a, b Value) (Value, error) { return Float64Value(a.AsFloat64() - b.AsFloat64()), nil })
	registerBinaryFamily("mul-double", func(a, b Value) (Value, error) { return Float64Value(a.AsFloat64() * b.AsFloat64()), nil })
	registerBinaryFamily("div-double", func(a, b Value) (Value, error) { return Float64Value(a.AsFloat64() / b.AsFloat64()), nil })
	registerBinaryFamily("rem-double", func(a, b Value) (Value, error) {
		return Float64Value(math.Mod(a.AsFloat64(), b.AsFloat64())), nil
	})

	registerUnaryFamily("neg-int", func(a Value) Value { return Int32Value(-int32(a.AsInt64())) })
	registerUnaryFamily("neg-long", func(a Value) Value { return Int64Value(-a.AsInt64()) })
	registerUnaryFamily("neg-float", func(a Value) Value { return Float32Value(-float32(a.AsFloat64())) })
	registerUnaryFamily("neg-double", func(a Value) Value { return Float64Value(-a.AsFloat64()) })
	registerUnaryFamily("not-int", func(a Value) Value { return Int32Value(^int32(a.AsInt64())) })
	registerUnaryFamily("not-long", func(a Value) Value { return Int64Value(^a.AsInt64()) })

	registerUnaryFamily("int-to-long", func(a Value) Value { return Int64Value(int64(int32(a.AsInt64()))) })
	registerUnaryFamily("int-to-float", func(a Value) Value { return Float32Value(float32(int32(a.AsInt64()))) })
	registerUnaryFamily("int-to-double", func(a Value) Value { return Float64Value(float64(int32(a.AsInt64()))) })
	registerUnaryFamily("int-to-byte", func(a Value) Value { return Int32Value(int32(int8(a.AsInt64()))) })
	registerUnaryFamily("int-to-short", func(a Value) Value { return Int32Value(int32(int16(a.AsInt64()))) })
	registerUnaryFamily("int-to-char", func(a Value) Value { return CharValue(rune(uint16(a.AsInt64()))) })
	registerUnaryFamily("long-to-int", func(a Value) Value { return Int32Value(int32(a.AsInt64())) })
	registerUnaryFamily("long-to-float", func(a Value) Value { return Float32Value(float32(a.AsInt64())) })
	registerUnaryFamily("long-to-double", func(a Value) Value { return Float64Value(float64(a.AsInt64())) })
	registerUnaryFamily("float-to-int", func(a Value) Value { return Int32Value(int32(a.AsFloat64())) })
	registerUnaryFamily("float-to-long", func(a Value) Value { return Int64Value(int64(a.AsFloat64())) })
	registerUnaryFamily("float-to-double", func(a Value) Value { return Float64Value(a.AsFloat64()) })
	registerUnaryFamily("double-to-int", func(a Value) Value { return Int32Value(int32(a.AsFloat64())) })
	registerUnaryFamily("double-to-long", func(a Value) Value { return Int64Value(int64(a.AsFloat64())) })
	registerUnaryFamily("double-to-float", func(a Value) Value { return Float32Value(float32(a.AsFloat64())) })

	registerOpcode("cmp-long", execCmpLong)
	registerOpcode("cmpl-float", execCmp(false))
	registerOpcode("cmpg-float", execCmp(true))
	registerOpcode("cmpl-double", execCmp(false))
	registerOpcode("cmpg-double", execCmp(true))
}

func execCmpLong(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("cmp-long", operands)
	}
	a := f.GetReg(parts[1]).AsInt64()
	b := f.GetReg(parts[2]).AsInt64()
	f.SetReg(parts[0], Int32Value(int32(cmp64(a, b))))
	return Continue, nil
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// execCmp builds the float/double compare handler. nanIsGreater selects
// cmpg-* semantics (NaN compares as greater) over cmpl-* (NaN compares as
// less).
func execCmp(nanIsGreater bool) OpcodeHandler {
	return func(f *Frame, operands string) (ExecResult, error) {
		parts := splitOperands(operands)
		if len(parts) != 3 {
			return Continue, malformedOperands("cmp", operands)
		}
		a := f.GetReg(parts[1]).AsFloat64()
		b := f.GetReg(parts[2]).AsFloat64()
		var result int32
		switch {
		case math.IsNaN(a) || math.IsNaN(b):
			if nanIsGreater {
				result = 1
			} else {
				result = -1
			}
		case a < b:
			result = -1
		case a > b:
			result = 1
		default:
			result = 0
		}
		f.SetReg(parts[0], Int32Value(result))
		return Continue, nil
	}
}
