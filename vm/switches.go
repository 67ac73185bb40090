package vm

import "strings"

func init() {
	registerOpcode("packed-switch", execPackedSwitch)
}

// execPackedSwitch implements "packed-switch vX, :label": look up the
// decoded table by its anchor label, and if vX falls inside
// [first_key, first_key+len(targets)) jump to the matching target,
// otherwise fall through to the next instruction.
func execPackedSwitch(f *Frame, operands string) (ExecResult, error) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Continue, malformedOperands("packed-switch", operands)
	}
	reg := strings.TrimSpace(parts[0])
	label := strings.TrimSpace(parts[1])

	table, ok := f.Pre.SwitchTables[label]
	if !ok {
		return Continue, malformedOperands("packed-switch table", label)
	}

	key := f.GetReg(reg).AsInt64()
	offset := key - table.FirstKey
	if offset < 0 || offset >= int64(len(table.Targets)) {
		return Continue, nil
	}

	target := table.Targets[offset]
	if err := jumpToLabel(f, target); err != nil {
		return Continue, err
	}
	return Jumped, nil
}
