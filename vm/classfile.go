package vm

import "regexp"

var classDirectivePattern = regexp.MustCompile(`^\.class.*\s+(\S+)$`)

// FieldDecl is one ".field" declaration read out of a class listing.
type FieldDecl struct {
	Name string
	Type string
}

// JavaClass is a loaded-class record: its demangled name, its declared
// fields, and a method table keyed by signature. Methods are stored as a
// signature->source mapping; callers that want the original file order
// use MethodOrder, which is sorted by each method's starting line index.
type JavaClass struct {
	Name        string
	Fields      []FieldDecl
	Methods     map[MethodKey]*Source
	MethodOrder []MethodKey
}

// ParseJavaClass reads a whole class listing (as produced by disassembling
// a single class out of a dex file) and extracts its name, fields, and
// methods. It mirrors original_source's smali.parser.extract_methods /
// extract_attribute_names, generalized into a single pass.
func ParseJavaClass(source *Source) (*JavaClass, error) {
	lines := source.Lines()

	jc := &JavaClass{
		Methods: make(map[MethodKey]*Source),
	}

	for _, line := range lines {
		if match := classDirectivePattern.FindStringSubmatch(line); match != nil {
			name, err := ExtractClassName(match[1])
			if err == nil {
				jc.Name = name
			}
		}
		if name, typ, ok := GetFieldDescriptor(line); ok {
			jc.Fields = append(jc.Fields, FieldDecl{Name: name, Type: typ})
		}
	}

	type methodSpan struct {
		key        MethodKey
		startIndex int
		bodyLines  []string
	}
	var current *methodSpan

	for i, line := range lines {
		if name, args, ret, ok := GetMethodSignature(line); ok && current == nil {
			current = &methodSpan{key: newMethodKey(name, args, ret), startIndex: i}
		}
		if current != nil {
			current.bodyLines = append(current.bodyLines, line)
		}
		if isEndMethodLine(line) && current != nil {
			jc.Methods[current.key] = NewSourceFromLines(current.bodyLines)
			jc.MethodOrder = append(jc.MethodOrder, current.key)
			current = nil
		}
	}

	return jc, nil
}

// FindMethod resolves a method by name and exact argument descriptors (the
// return type is not compared). If no method matches both, it falls back to
// any method with that name; when several overloads share the name, which
// one the fallback returns is not defined.
func (jc *JavaClass) FindMethod(name string, argDescriptors []string) (*Source, MethodKey, bool) {
	want := newMethodKey(name, argDescriptors, "")
	for key, src := range jc.Methods {
		if key.Name == name && key.Args == want.Args {
			return src, key, true
		}
	}
	// Fall back to name-only match (covers call sites that only know the
	// mangled invoke target's name, not a fully resolved return type).
	for key, src := range jc.Methods {
		if key.Name == name {
			return src, key, true
		}
	}
	return nil, MethodKey{}, false
}

// DeclaredFieldNames returns just the names, for default-initializing a
// new-instance's field map.
func (jc *JavaClass) DeclaredFieldNames() []string {
	names := make([]string, len(jc.Fields))
	for i, f := range jc.Fields {
		names[i] = f.Name
	}
	return names
}
