package vm

func init() {
	registerOpcodes(execMove, "move", "move/from16", "move/16", "move-wide", "move-wide/from16", "move-wide/16", "move-object", "move-object/from16", "move-object/16")
	registerOpcodes(execMoveResult, "move-result", "move-result-wide", "move-result-object")
	registerOpcode("move-exception", execMoveException)
}

// execMove handles every move/move-wide/move-object variant: they all
// reduce to "copy src register's Value into dst register" once wide
// values are collapsed into a single logical slot.
func execMove(f *Frame, operands string) (ExecResult, error) {
	regs := splitOperands(operands)
	if len(regs) != 2 {
		return Continue, malformedOperands("move", operands)
	}
	f.SetReg(regs[0], f.GetReg(regs[1]))
	return Continue, nil
}

func execMoveResult(f *Frame, operands string) (ExecResult, error) {
	regs := splitOperands(operands)
	if len(regs) != 1 {
		return Continue, malformedOperands("move-result", operands)
	}
	f.SetReg(regs[0], f.ReturnV)
	f.HasReturn = false
	f.ReturnV = NullValue()
	return Continue, nil
}

func execMoveException(f *Frame, operands string) (ExecResult, error) {
	regs := splitOperands(operands)
	if len(regs) != 1 {
		return Continue, malformedOperands("move-exception", operands)
	}
	f.SetReg(regs[0], RefValue(f.Thrown))
	f.ClearThrown()
	return Continue, nil
}
