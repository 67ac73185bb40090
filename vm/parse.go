package vm

import (
	"regexp"
	"strings"
)

// Pure, side-effect-free helpers for picking apart Smali source lines.
// The patterns mirror the ones the original Python emulator used
// (smali.parser), translated into Go's regexp package.
var (
	firstTokenPattern  = regexp.MustCompile(`[\w\-/]+`)
	fieldPattern       = regexp.MustCompile(`^\.field.*\s+(\w+):(.*)$`)
	classPattern       = regexp.MustCompile(`^(L?)([a-zA-Z][\w/]*);?$`)
	startMethodPattern = regexp.MustCompile(`^\.method.*\s+([^\s(]+)\((.*)\)(.*)$`)
	endMethodPattern   = regexp.MustCompile(`^\.end method$`)
	compositePattern   = regexp.MustCompile(`^(L[\w/$]+;)`)
)

// ExtractClassName converts a bare class descriptor such as "Lpkg/Name;"
// into its demangled dotted form "pkg.Name". It rejects anything that is
// not a *whole* class descriptor: an invocation target like
// "Lfoo/Bar;->baz()V" is not a class descriptor and must fail.
func ExtractClassName(descriptor string) (string, error) {
	match := classPattern.FindStringSubmatch(descriptor)
	if match == nil {
		return "", newMalformedDescriptorError(descriptor)
	}
	return strings.ReplaceAll(match[2], "/", "."), nil
}

// GetOpCode returns the first whitespace-delimited token of a line, which
// for an instruction line is its mnemonic (e.g. "if-ne", "cmpl-double").
func GetOpCode(line string) string {
	return firstTokenPattern.FindString(line)
}

// GetFieldDescriptor parses a ".field" directive into (name, type).
func GetFieldDescriptor(line string) (name, typeDescriptor string, ok bool) {
	match := fieldPattern.FindStringSubmatch(line)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}

// ParseArgumentList scans a method-signature argument-list string left to
// right and splits it into individual type descriptors: a primitive
// letter consumes one character, an "L...;" composite consumes through
// its terminating ';', and a leading '[' attaches to whatever follows.
func ParseArgumentList(arglist string) []string {
	var out []string
	rest := arglist
	for rest != "" {
		var current string
		prefix := ""
		for strings.HasPrefix(rest, "[") {
			prefix += "["
			rest = rest[1:]
		}
		if match := compositePattern.FindString(rest); match != "" {
			current = match
			rest = rest[len(match):]
		} else {
			current = rest[:1]
			rest = rest[1:]
		}
		out = append(out, prefix+current)
	}
	return out
}

// GetMethodSignature parses a ".method" directive into its name, argument
// descriptor list, and return-type descriptor.
func GetMethodSignature(line string) (name string, args []string, ret string, ok bool) {
	match := startMethodPattern.FindStringSubmatch(line)
	if match == nil {
		return "", nil, "", false
	}
	return match[1], ParseArgumentList(match[2]), match[3], true
}

// isEndMethodLine reports whether line closes a ".method" block.
func isEndMethodLine(line string) bool {
	return endMethodPattern.MatchString(line)
}

// isStartMethodLine reports whether line opens a ".method" block.
func isStartMethodLine(line string) bool {
	return startMethodPattern.MatchString(line)
}

// MethodKey uniquely identifies a method within a class: name plus its
// full signature, since Smali (like Java) allows overloading by argument
// list.
type MethodKey struct {
	Name    string
	Args    string // joined argument descriptors, used only for map keying
	Return  string
}

func newMethodKey(name string, args []string, ret string) MethodKey {
	return MethodKey{Name: name, Args: strings.Join(args, ""), Return: ret}
}

// ShouldSkipLine reports whether a line carries no opcode of its own:
// blank lines, comments, labels, and directives are all handled by the
// preprocessor or simply ignored by the dispatcher.
func ShouldSkipLine(line string) bool {
	if line == "" {
		return true
	}
	switch line[0] {
	case '#', ':', '.':
		return true
	default:
		return false
	}
}
