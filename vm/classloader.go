package vm

// BuiltinMethod implements one host-provided method of a built-in class.
// this is Null for a static call. args are already bound left to right.
// Returning a *JavaException installs it as a catchable thrown exception
// in the caller's frame rather than aborting the whole exec_method call.
type BuiltinMethod func(e *Emulator, this Value, args []Value) (Value, error)

// BuiltinClass is a built-in's method table, keyed by the same MethodKey
// scheme user classes use so lookup code doesn't need two code paths.
type BuiltinClass map[MethodKey]BuiltinMethod

// Loader is the class table and built-ins registry: populated before
// execution begins and treated as read-only once any method starts
// running.
type Loader struct {
	classes  map[string]*JavaClass
	builtins map[string]BuiltinClass
}

func NewLoader() *Loader {
	l := &Loader{
		classes:  make(map[string]*JavaClass),
		builtins: make(map[string]BuiltinClass),
	}
	registerBuiltins(l)
	return l
}

// LoadClass parses a class listing and adds it to the table, failing with
// ErrDuplicateClass if the demangled name is already present.
func (l *Loader) LoadClass(src *Source) (*JavaClass, error) {
	jc, err := ParseJavaClass(src)
	if err != nil {
		return nil, err
	}
	if jc.Name == "" {
		return nil, newPreprocessingError("class listing has no .class directive")
	}
	if _, exists := l.classes[jc.Name]; exists {
		return nil, newClassError(ErrDuplicateClass, jc.Name)
	}
	l.classes[jc.Name] = jc
	return jc, nil
}

// LoadClassFile is a convenience wrapper reading a class listing straight
// from a Smali source file on disk.
func (l *Loader) LoadClassFile(path string) (*JavaClass, error) {
	src, err := NewSourceFromFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadClass(src)
}

func (l *Loader) Class(name string) (*JavaClass, bool) {
	jc, ok := l.classes[name]
	return jc, ok
}

func (l *Loader) IsBuiltin(className string) bool {
	_, ok := l.builtins[className]
	return ok
}

func (l *Loader) registerBuiltin(className string, methods BuiltinClass) {
	l.builtins[className] = methods
}

// ResolveBuiltin looks up a method on a registered built-in class. It
// reports ok=false both for a class absent from the registry and for a
// missing method on a registered class; IsBuiltin tells those two cases
// apart.
func (l *Loader) ResolveBuiltin(className string, key MethodKey) (BuiltinMethod, bool) {
	methods, ok := l.builtins[className]
	if !ok {
		return nil, false
	}
	bm, ok := methods[key]
	return bm, ok
}
