package vm

import "strings"

func init() {
	registerOpcode("new-array", execNewArray)
	registerOpcode("array-length", execArrayLength)
	registerOpcodes(execAget, "aget", "aget-wide", "aget-object", "aget-boolean", "aget-byte", "aget-char", "aget-short")
	registerOpcodes(execAput, "aput", "aput-wide", "aput-object", "aput-boolean", "aput-byte", "aput-char", "aput-short")
	registerOpcode("filled-new-array", execFilledNewArray)
	registerOpcode("filled-new-array/range", execFilledNewArray)
	registerOpcode("fill-array-data", execFillArrayData)
}

func arrayAt(f *Frame, reg string) (*ArrayObj, error) {
	v := f.GetReg(reg)
	if v.IsNull() {
		return nil, NewNullPointerException("array reference is null")
	}
	obj, ok := f.Emu.Heap.Get(v.Ref())
	if !ok {
		return nil, malformedOperands("array reference", reg)
	}
	arr, ok := obj.(*ArrayObj)
	if !ok {
		return nil, NewClassCastException("not an array")
	}
	return arr, nil
}

func execNewArray(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("new-array", operands)
	}
	length := f.GetReg(parts[1]).AsInt64()
	if length < 0 {
		return Continue, NewArrayIndexOutOfBoundsException(0, 0)
	}
	elements := make([]Value, length)
	for i := range elements {
		elements[i] = NullValue()
	}
	id := f.Emu.Heap.New(&ArrayObj{ElementType: parts[2], Elements: elements})
	f.SetReg(parts[0], RefValue(id))
	return Continue, nil
}

func execArrayLength(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("array-length", operands)
	}
	arr, err := arrayAt(f, parts[1])
	if err != nil {
		return Continue, err
	}
	f.SetReg(parts[0], Int32Value(int32(len(arr.Elements))))
	return Continue, nil
}

func execAget(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("aget", operands)
	}
	arr, err := arrayAt(f, parts[1])
	if err != nil {
		return Continue, err
	}
	idx := f.GetReg(parts[2]).AsInt64()
	if idx < 0 || idx >= int64(len(arr.Elements)) {
		return Continue, NewArrayIndexOutOfBoundsException(int(idx), len(arr.Elements))
	}
	f.SetReg(parts[0], arr.Elements[idx])
	return Continue, nil
}

func execAput(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("aput", operands)
	}
	arr, err := arrayAt(f, parts[1])
	if err != nil {
		return Continue, err
	}
	idx := f.GetReg(parts[2]).AsInt64()
	if idx < 0 || idx >= int64(len(arr.Elements)) {
		return Continue, NewArrayIndexOutOfBoundsException(int(idx), len(arr.Elements))
	}
	arr.Elements[idx] = f.GetReg(parts[0])
	return Continue, nil
}

// execFilledNewArray builds an array from an explicit register list and
// leaves it in ReturnV, the same way invoke-* leaves a call's result there
// for a following move-result-object to pick up.
func execFilledNewArray(f *Frame, operands string) (ExecResult, error) {
	idx := strings.LastIndex(operands, "}")
	if idx < 0 {
		return Continue, malformedOperands("filled-new-array", operands)
	}
	regsText := strings.TrimPrefix(strings.TrimSpace(operands[:idx+1]), "{")
	regsText = strings.TrimSuffix(regsText, "}")
	elemType := strings.TrimPrefix(strings.TrimSpace(operands[idx+1:]), ",")
	elemType = strings.TrimSpace(elemType)

	regs, err := expandInvokeRegisters(regsText)
	if err != nil {
		return Continue, err
	}
	elements := make([]Value, len(regs))
	for i, r := range regs {
		elements[i] = f.GetReg(r)
	}
	id := f.Emu.Heap.New(&ArrayObj{ElementType: elemType, Elements: elements})
	f.ReturnV = RefValue(id)
	f.HasReturn = true
	return Continue, nil
}

func execFillArrayData(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("fill-array-data", operands)
	}
	arr, err := arrayAt(f, parts[0])
	if err != nil {
		return Continue, err
	}
	table, ok := f.Pre.ArrayDataTables[strings.TrimSpace(parts[1])]
	if !ok {
		return Continue, malformedOperands("fill-array-data table", parts[1])
	}
	for i, raw := range table.Values {
		if i >= len(arr.Elements) {
			break
		}
		if table.ElementWidth == 8 {
			arr.Elements[i] = Int64Value(raw)
		} else {
			arr.Elements[i] = Int32Value(int32(raw))
		}
	}
	return Continue, nil
}
