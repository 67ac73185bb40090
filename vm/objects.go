package vm

import "strings"

func init() {
	registerOpcode("new-instance", execNewInstance)
	registerOpcode("throw", execThrow)
}

// execNewInstance decides an object's runtime representation from its
// demangled class name: a loaded user class gets a field map seeded from
// its declared fields; java.lang.StringBuilder gets its dedicated buffer
// type; java.lang.String gets an empty StringObj; anything else (this is how the VM represents exception classes,
// which have no Smali source of their own) gets a generic instance with a
// single "message" field, which <init>(Ljava/lang/String;)V and the
// host-raised exception constructors both know how to fill in.
func execNewInstance(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("new-instance", operands)
	}
	className, err := ExtractClassName(strings.TrimSpace(parts[1]))
	if err != nil {
		return Continue, err
	}

	var id ObjectID
	switch {
	case className == "java.lang.StringBuilder":
		id = f.Emu.Heap.New(&StringBuilderObj{})
	case className == "java.lang.String":
		id = f.Emu.Heap.New(&StringObj{})
	default:
		if jc, ok := f.Emu.Loader.Class(className); ok {
			id = f.Emu.Heap.New(NewUserInstance(className, jc.DeclaredFieldNames()))
		} else {
			id = f.Emu.Heap.New(NewUserInstance(className, []string{"message"}))
		}
	}
	f.SetReg(parts[0], RefValue(id))
	return Continue, nil
}

func execThrow(f *Frame, operands string) (ExecResult, error) {
	reg := strings.TrimSpace(operands)
	v := f.GetReg(reg)
	if v.IsNull() {
		return Continue, NewNullPointerException("thrown reference is null")
	}
	f.Throw(v.Ref())
	return Threw, nil
}
