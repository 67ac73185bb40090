package vm

import (
	"strings"
)

func init() {
	registerOpcodes(execConstInt, "const", "const/4", "const/16", "const/high16")
	registerOpcodes(execConstWide, "const-wide", "const-wide/16", "const-wide/32", "const-wide/high16")
	registerOpcode("const-string", execConstString)
	registerOpcode("const-string/jumbo", execConstString)
	registerOpcode("const-class", execConstClass)

	registerOpcodes(execReturn, "return", "return-wide", "return-object")
	registerOpcode("return-void", execReturnVoid)

	registerOpcode("monitor-enter", execNop)
	registerOpcode("monitor-exit", execNop)
	registerOpcode("nop", execNop)
	registerOpcode("check-cast", execCheckCast)
	registerOpcode("instance-of", execInstanceOf)
}

func execConstInt(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("const", operands)
	}
	lit, err := parseIntLiteral(parts[1])
	if err != nil {
		return Continue, err
	}
	f.SetReg(parts[0], Int32Value(int32(lit)))
	return Continue, nil
}

func execConstWide(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("const-wide", operands)
	}
	lit, err := parseIntLiteral(parts[1])
	if err != nil {
		return Continue, err
	}
	f.SetReg(parts[0], Int64Value(lit))
	return Continue, nil
}

// execConstString always builds a StringObj whose encoding is ASCII by
// default. A program that wants another encoding constructs a String via
// the <init>([BLjava/lang/String;)V builtin instead.
func execConstString(f *Frame, operands string) (ExecResult, error) {
	parts := strings.SplitN(operands, ",", 2)
	if len(parts) != 2 {
		return Continue, malformedOperands("const-string", operands)
	}
	reg := strings.TrimSpace(parts[0])
	literal := strings.TrimSpace(parts[1])
	literal = strings.Trim(literal, `"`)
	id := f.Emu.Heap.New(NewStringObj(literal))
	f.SetReg(reg, RefValue(id))
	return Continue, nil
}

func execConstClass(f *Frame, operands string) (ExecResult, error) {
	parts := strings.SplitN(operands, ",", 2)
	if len(parts) != 2 {
		return Continue, malformedOperands("const-class", operands)
	}
	reg := strings.TrimSpace(parts[0])
	name, err := ExtractClassName(strings.TrimSpace(parts[1]))
	if err != nil {
		return Continue, err
	}
	id := f.Emu.Heap.New(NewUserInstance("java.lang.Class", []string{"name"}))
	obj, _ := f.Emu.Heap.Get(id)
	inst := obj.(*UserInstance)
	strID := f.Emu.Heap.New(NewStringObj(name))
	inst.Fields["name"] = RefValue(strID)
	f.SetReg(reg, RefValue(id))
	return Continue, nil
}

func execReturn(f *Frame, operands string) (ExecResult, error) {
	regs := splitOperands(operands)
	if len(regs) != 1 {
		return Continue, malformedOperands("return", operands)
	}
	f.SetReturn(f.GetReg(regs[0]))
	return Returned, nil
}

func execReturnVoid(f *Frame, _ string) (ExecResult, error) {
	f.Stop = true
	return Returned, nil
}

func execNop(f *Frame, _ string) (ExecResult, error) {
	return Continue, nil
}

// execCheckCast is a documented no-op: this VM has no verification pass,
// so a failed cast is only ever observed if a later operation on the
// value actually requires the narrower type.
func execCheckCast(f *Frame, _ string) (ExecResult, error) {
	return Continue, nil
}

func execInstanceOf(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("instance-of", operands)
	}
	dst, src, descriptor := parts[0], parts[1], parts[2]
	want, err := ExtractClassName(descriptor)
	if err != nil {
		return Continue, err
	}
	v := f.GetReg(src)
	result := false
	if !v.IsNull() && v.Kind() == KindRef {
		if obj, ok := f.Emu.Heap.Get(v.Ref()); ok {
			result = obj.ClassName() == want
		}
	}
	f.SetReg(dst, BoolValue(result))
	return Continue, nil
}
