package vm

import (
	"regexp"
	"strings"
)

var (
	packedSwitchStartPattern = regexp.MustCompile(`^\.packed-switch\s+(\S+)$`)
	packedSwitchEndPattern   = regexp.MustCompile(`^\.end packed-switch$`)
	arrayDataStartPattern    = regexp.MustCompile(`^\.array-data\s+(\d+)$`)
	arrayDataEndPattern      = regexp.MustCompile(`^\.end array-data$`)
	catchPattern             = regexp.MustCompile(`^\.catch\s+(\S+)\s*\{\s*(:\S+)\s*\.\.\s*(:\S+)\s*\}\s*(:\S+)$`)
	catchAllPattern          = regexp.MustCompile(`^\.catchall\s*\{\s*(:\S+)\s*\.\.\s*(:\S+)\s*\}\s*(:\S+)$`)
)

// SwitchTable is a decoded ".packed-switch" block: the key tested against
// the switch register is firstKey+i for Targets[i].
type SwitchTable struct {
	FirstKey int64
	Targets  []string
}

// ArrayDataTable is a decoded ".array-data" block, packed into a flat
// sequence of widened Values so fill-array-data can copy it straight into
// an ArrayObj's Elements.
type ArrayDataTable struct {
	ElementWidth int
	Values       []int64
}

// TryCatchRegion is one ".catch"/".catchall" entry, resolved from label
// names to line numbers once the label table is complete. ExceptionType is
// empty for a catchall.
type TryCatchRegion struct {
	ExceptionType string
	StartLine     int
	EndLine       int
	HandlerLine   int
}

// Covers reports whether a given line index falls within the protected
// range [StartLine, EndLine).
func (r *TryCatchRegion) Covers(line int) bool {
	return line >= r.StartLine && line < r.EndLine
}

// Preprocessed holds everything a single pass over a method body's Source
// discovers before execution begins: label positions, decoded switch and
// array-data tables, resolved try/catch regions, and the set of lines that
// belong to a data block's interior and must never be dispatched as an
// opcode on their own.
type Preprocessed struct {
	Labels          map[string]int
	SwitchTables    map[string]*SwitchTable
	ArrayDataTables map[string]*ArrayDataTable
	TryCatch        []*TryCatchRegion
	blockEnd        map[int]int // directive start line -> line after its ".end ..." line
}

// SkipTo reports whether line opens a data block whose body must be
// skipped whole, and if so, the line index execution should resume at.
func (p *Preprocessed) SkipTo(line int) (int, bool) {
	end, ok := p.blockEnd[line]
	return end, ok
}

// Preprocess walks a method body once, in original_source's style of
// reading directive blocks as atomic units: a ".packed-switch" or
// ".array-data" block is parsed from its opening directive through its
// matching ".end ..." line, its interior recorded as a single table rather
// than dispatched line by line. The line after the block is recorded (see
// SkipTo) so the main dispatch loop can skip over it entirely at run time.
func Preprocess(src *Source) (*Preprocessed, error) {
	lines := src.Lines()
	p := &Preprocessed{
		Labels:          make(map[string]int),
		SwitchTables:    make(map[string]*SwitchTable),
		ArrayDataTables: make(map[string]*ArrayDataTable),
		blockEnd:        make(map[int]int),
	}

	type pendingCatch struct {
		exceptionType string
		startLabel    string
		endLabel      string
		handlerLabel  string
	}
	var pendingCatches []pendingCatch

	n := len(lines)
	for i := 1; i <= n; i++ {
		line := lines[i-1]

		if strings.HasPrefix(line, ":") {
			p.Labels[line] = i
			continue
		}

		if m := catchPattern.FindStringSubmatch(line); m != nil {
			excName, err := ExtractClassName(m[1])
			if err != nil {
				return nil, newPreprocessingError("line %d: %v", i, err)
			}
			pendingCatches = append(pendingCatches, pendingCatch{
				exceptionType: excName,
				startLabel:    m[2],
				endLabel:      m[3],
				handlerLabel:  m[4],
			})
			continue
		}
		if m := catchAllPattern.FindStringSubmatch(line); m != nil {
			pendingCatches = append(pendingCatches, pendingCatch{
				exceptionType: "",
				startLabel:    m[1],
				endLabel:      m[2],
				handlerLabel:  m[3],
			})
			continue
		}

		if m := packedSwitchStartPattern.FindStringSubmatch(line); m != nil {
			firstKey, err := parseIntLiteral(m[1])
			if err != nil {
				return nil, newPreprocessingError("line %d: bad packed-switch first key: %v", i, err)
			}
			endIdx, targets, err := readUntilEnd(lines, i, packedSwitchEndPattern)
			if err != nil {
				return nil, newPreprocessingError("line %d: %v", i, err)
			}
			anchor := lastLabelBefore(lines, i)
			if anchor != "" {
				p.SwitchTables[anchor] = &SwitchTable{FirstKey: firstKey, Targets: targets}
			}
			p.blockEnd[i] = endIdx
			// The block's interior holds label *references*, not label
			// definitions; skip past it so the outer scan never mistakes
			// a "pswitch_data" target token for a real label here.
			i = endIdx - 1
			continue
		}

		if m := arrayDataStartPattern.FindStringSubmatch(line); m != nil {
			width, err := parseIntLiteral(m[1])
			if err != nil {
				return nil, newPreprocessingError("line %d: bad array-data width: %v", i, err)
			}
			endIdx, rawValues, err := readUntilEnd(lines, i, arrayDataEndPattern)
			if err != nil {
				return nil, newPreprocessingError("line %d: %v", i, err)
			}
			values := make([]int64, 0, len(rawValues))
			for _, tok := range rawValues {
				v, err := parseIntLiteral(tok)
				if err != nil {
					return nil, newPreprocessingError("line %d: bad array-data value %q: %v", i, tok, err)
				}
				values = append(values, v)
			}
			anchor := lastLabelBefore(lines, i)
			if anchor != "" {
				p.ArrayDataTables[anchor] = &ArrayDataTable{ElementWidth: int(width), Values: values}
			}
			p.blockEnd[i] = endIdx
			i = endIdx - 1
			continue
		}
	}

	for _, c := range pendingCatches {
		startLine, ok := p.Labels[c.startLabel]
		if !ok {
			return nil, newPreprocessingError("catch region references unknown label %q", c.startLabel)
		}
		endLine, ok := p.Labels[c.endLabel]
		if !ok {
			return nil, newPreprocessingError("catch region references unknown label %q", c.endLabel)
		}
		handlerLine, ok := p.Labels[c.handlerLabel]
		if !ok {
			return nil, newPreprocessingError("catch region references unknown handler label %q", c.handlerLabel)
		}
		p.TryCatch = append(p.TryCatch, &TryCatchRegion{
			ExceptionType: c.exceptionType,
			StartLine:     startLine,
			EndLine:       endLine,
			HandlerLine:   handlerLine,
		})
	}

	return p, nil
}

// readUntilEnd scans forward from a directive's opening line (1-based
// index start, exclusive) until endPattern matches, returning the 1-based
// index of the line immediately following the matched ".end ..." line (so
// a caller skipping straight there resumes execution past the block
// entirely) and the trimmed, non-empty interior lines in between.
func readUntilEnd(lines []string, start int, endPattern *regexp.Regexp) (int, []string, error) {
	var body []string
	for j := start; j < len(lines); j++ {
		line := lines[j]
		if endPattern.MatchString(line) {
			return j + 2, body, nil
		}
		if line != "" {
			body = append(body, line)
		}
	}
	return 0, nil, newPreprocessingError("unterminated block starting at line %d", start)
}

// lastLabelBefore finds the label line immediately preceding a directive's
// opening line, skipping only blank lines in between. This is the anchor
// a ":pswitch_data_*" / ":array_*" label attaches its table to.
func lastLabelBefore(lines []string, before int) string {
	for j := before - 2; j >= 0; j-- {
		line := lines[j]
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			return line
		}
		return ""
	}
	return ""
}
