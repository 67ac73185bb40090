package vm

// valuesEqual implements the "object identity vs value equality" design
// note: two refs are if-eq-equal only when they name the same ObjectId (or
// are both null); numeric/char/bool Values compare by widened int64.
func valuesEqual(a, b Value) bool {
	if a.Kind() == KindRef || b.Kind() == KindRef {
		if a.IsNull() || b.IsNull() {
			return a.IsNull() && b.IsNull()
		}
		return a.Ref() == b.Ref()
	}
	return a.AsInt64() == b.AsInt64()
}

func compareValues(a, b Value) int {
	return cmp64(a.AsInt64(), b.AsInt64())
}

type branchTest func(a, b Value) bool

func registerBranchFamily(name string, test branchTest) {
	registerOpcode(name, func(f *Frame, operands string) (ExecResult, error) {
		parts := splitOperands(operands)
		if len(parts) != 3 {
			return Continue, malformedOperands(name, operands)
		}
		if test(f.GetReg(parts[0]), f.GetReg(parts[1])) {
			if err := jumpToLabel(f, parts[2]); err != nil {
				return Continue, err
			}
			return Jumped, nil
		}
		return Continue, nil
	})
	registerOpcode(name+"z", func(f *Frame, operands string) (ExecResult, error) {
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return Continue, malformedOperands(name+"z", operands)
		}
		if test(f.GetReg(parts[0]), NullOrZero(f.GetReg(parts[0]))) {
			if err := jumpToLabel(f, parts[1]); err != nil {
				return Continue, err
			}
			return Jumped, nil
		}
		return Continue, nil
	})
}

// NullOrZero returns the zero value a *z branch test should compare
// against: Null for a reference-kinded register, Int32(0) otherwise, so
// if-eqz/if-nez work uniformly for both object and primitive registers.
func NullOrZero(sample Value) Value {
	if sample.Kind() == KindRef || sample.Kind() == KindNull {
		return NullValue()
	}
	return Int32Value(0)
}

func jumpToLabel(f *Frame, label string) error {
	line, ok := f.Pre.Labels[label]
	if !ok {
		return malformedOperands("branch target", label)
	}
	f.PC = line
	return nil
}

func init() {
	registerBranchFamily("if-eq", valuesEqual)
	registerBranchFamily("if-ne", func(a, b Value) bool { return !valuesEqual(a, b) })
	registerBranchFamily("if-lt", func(a, b Value) bool { return compareValues(a, b) < 0 })
	registerBranchFamily("if-ge", func(a, b Value) bool { return compareValues(a, b) >= 0 })
	registerBranchFamily("if-gt", func(a, b Value) bool { return compareValues(a, b) > 0 })
	registerBranchFamily("if-le", func(a, b Value) bool { return compareValues(a, b) <= 0 })

	gotoHandler := func(f *Frame, operands string) (ExecResult, error) {
		label := operands
		if err := jumpToLabel(f, label); err != nil {
			return Continue, err
		}
		return Jumped, nil
	}
	registerOpcodes(gotoHandler, "goto", "goto/16", "goto/32")
}
