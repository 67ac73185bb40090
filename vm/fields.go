package vm

import (
	"regexp"
	"strings"
)

var fieldRefPattern = regexp.MustCompile(`^(L[\w/$]+;)->(\w+):(.+)$`)

// parseFieldRef splits "Lpkg/Cls;->name:Ltype;" into its demangled class
// name and field name; the type descriptor is parsed but unused since
// Value already carries its own Kind tag.
func parseFieldRef(descriptor string) (className, fieldName string, err error) {
	m := fieldRefPattern.FindStringSubmatch(strings.TrimSpace(descriptor))
	if m == nil {
		return "", "", newMalformedDescriptorError(descriptor)
	}
	className, err = ExtractClassName(m[1])
	if err != nil {
		return "", "", err
	}
	return className, m[2], nil
}

func init() {
	registerOpcodes(execIget, "iget", "iget-wide", "iget-object", "iget-boolean", "iget-byte", "iget-char", "iget-short")
	registerOpcodes(execIput, "iput", "iput-wide", "iput-object", "iput-boolean", "iput-byte", "iput-char", "iput-short")
	registerOpcodes(execSget, "sget", "sget-wide", "sget-object", "sget-boolean", "sget-byte", "sget-char", "sget-short")
	registerOpcodes(execSput, "sput", "sput-wide", "sput-object", "sput-boolean", "sput-byte", "sput-char", "sput-short")
}

func execIget(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("iget", operands)
	}
	objVal := f.GetReg(parts[1])
	if objVal.IsNull() {
		return Continue, NewNullPointerException("field read on null reference")
	}
	_, fieldName, err := parseFieldRef(parts[2])
	if err != nil {
		return Continue, err
	}
	obj, ok := f.Emu.Heap.Get(objVal.Ref())
	if !ok {
		return Continue, malformedOperands("field reference", parts[1])
	}
	inst, ok := obj.(*UserInstance)
	if !ok {
		return Continue, NewClassCastException("iget target is not a user instance")
	}
	f.SetReg(parts[0], inst.Fields[fieldName])
	return Continue, nil
}

func execIput(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Continue, malformedOperands("iput", operands)
	}
	objVal := f.GetReg(parts[1])
	if objVal.IsNull() {
		return Continue, NewNullPointerException("field write on null reference")
	}
	_, fieldName, err := parseFieldRef(parts[2])
	if err != nil {
		return Continue, err
	}
	obj, ok := f.Emu.Heap.Get(objVal.Ref())
	if !ok {
		return Continue, malformedOperands("field reference", parts[1])
	}
	inst, ok := obj.(*UserInstance)
	if !ok {
		return Continue, NewClassCastException("iput target is not a user instance")
	}
	inst.Fields[fieldName] = f.GetReg(parts[0])
	return Continue, nil
}

func execSget(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("sget", operands)
	}
	className, fieldName, err := parseFieldRef(parts[1])
	if err != nil {
		return Continue, err
	}
	f.SetReg(parts[0], f.Emu.Static.Get(className, fieldName))
	return Continue, nil
}

func execSput(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("sput", operands)
	}
	className, fieldName, err := parseFieldRef(parts[1])
	if err != nil {
		return Continue, err
	}
	f.Emu.Static.Set(className, fieldName, f.GetReg(parts[0]))
	return Continue, nil
}
