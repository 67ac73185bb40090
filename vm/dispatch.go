package vm

import (
	"fmt"
	"strings"
)

// OpcodeHandler parses and executes one instruction's operand text against
// frame state. The table below is closed and built at init time rather
// than discovered through reflection.
type OpcodeHandler func(f *Frame, operands string) (ExecResult, error)

var dispatchTable = make(map[string]OpcodeHandler)

// registerOpcode is called from each opcode family file's init(): one map
// built once, read many times.
func registerOpcode(mnemonic string, h OpcodeHandler) {
	dispatchTable[mnemonic] = h
}

// registerOpcodes registers the same handler under several aliases, used
// for the many width/addressing-mode suffixed variants of one family
// (move/16, move-wide/from16, goto/16, and so on).
func registerOpcodes(h OpcodeHandler, mnemonics ...string) {
	for _, m := range mnemonics {
		registerOpcode(m, h)
	}
}

// RunFrame is the main fetch loop: check stop, check a pending exception
// dispatch, otherwise fetch-skip-decode-execute one line, and repeat. It
// returns a non-nil error only for load-bearing
// failures (unknown opcode, malformed operand, budget/depth overruns);
// Java-visible exceptions are resolved into frame.Thrown and handled
// in-loop, never returned here.
func RunFrame(f *Frame) error {
	for {
		if f.Stop {
			return nil
		}

		if f.DispatchPending {
			f.DispatchPending = false
			if !dispatchException(f) {
				f.Unwound = true
				f.Stop = true
				return nil
			}
			continue
		}

		if f.PC > f.Source.Len() {
			f.Stop = true
			continue
		}

		if skipTo, ok := f.Pre.SkipTo(f.PC); ok {
			f.PC = skipTo
			continue
		}

		line, ok := f.Source.Get(f.PC)
		lastPC := f.PC
		f.PC++
		if !ok || ShouldSkipLine(line) {
			continue
		}

		f.Emu.steps++
		f.Emu.Stats.InstructionsExecuted++
		if budget := f.Emu.Config.StepBudget; budget > 0 && f.Emu.steps > budget {
			return ErrStepBudgetExceeded
		}

		op := GetOpCode(line)
		handler, known := dispatchTable[op]
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownOpcode, op)
		}

		if f.Emu.Config.Trace {
			log.Debugw("exec", "class", f.Class.Name, "depth", f.Depth, "pc", lastPC, "line", line)
		}

		operands := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), op))
		_, err := handler(f, operands)
		if err != nil {
			if je, isJava := err.(*JavaException); isJava {
				f.LastPC = lastPC
				raiseInFrame(f, je)
				continue
			}
			return err
		}
	}
}

// dispatchException scans try/catch regions in definition order for one
// covering the throwing instruction whose exception type matches (or is a
// catchall). It leaves Thrown set either way; the caller decides whether
// unmatched means "unwind this frame".
func dispatchException(f *Frame) bool {
	for _, region := range f.Pre.TryCatch {
		if !region.Covers(f.LastPC) {
			continue
		}
		if region.ExceptionType != "" {
			obj, ok := f.Emu.Heap.Get(f.Thrown)
			if !ok || obj.ClassName() != region.ExceptionType {
				continue
			}
		}
		f.PC = region.HandlerLine
		return true
	}
	return false
}

// raiseInFrame boxes a host-raised JavaException into a heap object and
// installs it as the frame's pending exception, the same representation
// new-instance+invoke-direct<init> produces for a program-constructed
// exception (see objects.go), so both paths are caught identically.
func raiseInFrame(f *Frame, je *JavaException) {
	msgID := f.Emu.Heap.New(NewStringObj(je.Message))
	inst := NewUserInstance(je.ClassName, []string{"message"})
	inst.Fields["message"] = RefValue(msgID)
	id := f.Emu.Heap.New(inst)
	f.Thrown = id
	f.HasThrown = true
	f.DispatchPending = true
	f.LastPC = f.PC - 1
}
