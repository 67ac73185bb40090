package vm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var invokeTargetPattern = regexp.MustCompile(`^\{([^}]*)\}\s*,\s*(L[\w/$]+;)->([^(]+)\(([^)]*)\)(.*)$`)

func init() {
	registerOpcodes(invokeHandler("invoke-static", true), "invoke-static", "invoke-static/range")
	registerOpcodes(invokeHandler("invoke-virtual", false), "invoke-virtual", "invoke-virtual/range")
	registerOpcodes(invokeHandler("invoke-direct", false), "invoke-direct", "invoke-direct/range")
	// invoke-super and invoke-direct are treated identically (direct
	// signature lookup, no vtable walk) until an inheritance model is
	// introduced.
	registerOpcodes(invokeHandler("invoke-super", false), "invoke-super", "invoke-super/range")
	registerOpcodes(invokeHandler("invoke-interface", false), "invoke-interface", "invoke-interface/range")
}

func parseInvokeOperands(operands string) (regsText, className, methodName, argDescStr, retDesc string, err error) {
	m := invokeTargetPattern.FindStringSubmatch(strings.TrimSpace(operands))
	if m == nil {
		err = malformedOperands("invoke", operands)
		return
	}
	className, err = ExtractClassName(m[2])
	if err != nil {
		return
	}
	return m[1], className, strings.TrimSpace(m[3]), m[4], m[5], nil
}

// expandInvokeRegisters turns an invoke's register-list text into an
// ordered register-name slice. It accepts the plain comma-separated form
// ("p0, p1, v2") and the /range block form ("p0 .. p5"), expanding the
// latter into consecutive names sharing the first register's prefix.
func expandInvokeRegisters(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if strings.Contains(text, "..") {
		bounds := strings.SplitN(text, "..", 2)
		if len(bounds) != 2 {
			return nil, malformedOperands("register range", text)
		}
		startTok := strings.TrimSpace(bounds[0])
		endTok := strings.TrimSpace(bounds[1])
		if len(startTok) < 2 || len(endTok) < 2 {
			return nil, malformedOperands("register range", text)
		}
		prefix := startTok[0:1]
		start, err := strconv.Atoi(startTok[1:])
		if err != nil {
			return nil, malformedOperands("register range", text)
		}
		end, err := strconv.Atoi(endTok[1:])
		if err != nil {
			return nil, malformedOperands("register range", text)
		}
		regs := make([]string, 0, end-start+1)
		for i := start; i <= end; i++ {
			regs = append(regs, fmt.Sprintf("%s%d", prefix, i))
		}
		return regs, nil
	}
	return splitOperands(text), nil
}

// invokeHandler builds the handler shared by every invoke-* mnemonic
// family: they differ only in whether the first bound register is an
// implicit receiver. Argument registers bind left-to-right to p0, p1, ...
// with p0 = this for non-static forms.
func invokeHandler(name string, isStatic bool) OpcodeHandler {
	return func(f *Frame, operands string) (ExecResult, error) {
		regsText, className, methodName, argDescStr, retDesc, err := parseInvokeOperands(operands)
		if err != nil {
			return Continue, err
		}
		argDescs := ParseArgumentList(argDescStr)
		regs, err := expandInvokeRegisters(regsText)
		if err != nil {
			return Continue, err
		}

		var this Value
		argRegs := regs
		if !isStatic {
			if len(regs) == 0 {
				return Continue, malformedOperands(name, operands)
			}
			this = f.GetReg(regs[0])
			argRegs = regs[1:]
			if this.IsNull() {
				raiseInFrame(f, NewNullPointerException("invoke on null reference"))
				return Threw, nil
			}
		}

		args := make([]Value, len(argRegs))
		for i, r := range argRegs {
			args[i] = f.GetReg(r)
		}

		key := newMethodKey(methodName, argDescs, retDesc)

		if bm, ok := f.Emu.Loader.ResolveBuiltin(className, key); ok {
			result, err := bm(f.Emu, this, args)
			if err != nil {
				if je, isJava := err.(*JavaException); isJava {
					raiseInFrame(f, je)
					return Threw, nil
				}
				return Continue, err
			}
			f.ReturnV = result
			f.HasReturn = true
			return Continue, nil
		}
		if f.Emu.Loader.IsBuiltin(className) {
			return Continue, newMethodError(ErrUnsupportedBuiltin, className, methodName)
		}

		jc, ok := f.Emu.Loader.Class(className)
		if !ok {
			if methodName == "<init>" {
				return execGenericInit(f, this, args)
			}
			return Continue, newClassError(ErrUnknownClass, className)
		}

		src, _, found := jc.FindMethod(methodName, argDescs)
		if !found {
			return Continue, newMethodError(ErrUnknownMethod, className, methodName)
		}

		if f.Depth+1 >= f.Emu.Config.MaxFrameDepth {
			return Continue, ErrStackOverflow
		}

		pre, err := f.Emu.preprocessTimed(src)
		if err != nil {
			return Continue, err
		}

		child := NewFrame(src, pre, jc, f.Emu, f.Depth+1)
		pIndex := 0
		if !isStatic {
			child.SetReg("p0", this)
			pIndex = 1
		}
		for _, a := range args {
			child.SetReg(fmt.Sprintf("p%d", pIndex), a)
			pIndex++
		}

		f.Emu.Stats.MethodsInvoked++
		if err := RunFrame(child); err != nil {
			return Continue, err
		}
		if child.Unwound {
			f.Thrown = child.Thrown
			f.HasThrown = true
			f.DispatchPending = true
			f.LastPC = f.PC - 1
			return Threw, nil
		}
		if child.HasReturn {
			f.ReturnV = child.ReturnV
			f.HasReturn = true
		}
		return Continue, nil
	}
}

// execGenericInit backs <init>(Ljava/lang/String;)V (and the no-arg form)
// on a class that carries no Smali source of its own. This is how every
// exception type's constructor is served, since the VM represents them as
// a generic UserInstance rather than a loaded class (see objects.go).
func execGenericInit(f *Frame, this Value, args []Value) (ExecResult, error) {
	if this.IsNull() {
		return Continue, malformedOperands("<init>", "null receiver")
	}
	obj, ok := f.Emu.Heap.Get(this.Ref())
	if !ok {
		return Continue, malformedOperands("<init>", "unallocated receiver")
	}
	inst, ok := obj.(*UserInstance)
	if !ok {
		return Continue, nil
	}
	if len(args) == 1 {
		inst.Fields["message"] = args[0]
	}
	return Continue, nil
}
