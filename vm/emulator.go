package vm

import "time"

// Stats mirrors the bookkeeping original_source's Stats class accumulated
// across a run: preprocessing wall time, plus instruction and invocation
// counts useful for a CLI "--stats" style report.
type Stats struct {
	ClassesLoaded        int
	MethodsInvoked       int
	InstructionsExecuted int
	PreprocessTime       time.Duration
}

// Emulator is the process-wide runtime shared by every frame spawned off
// one Loader: the heap, the static-field store, and the step/depth budget
// configuration. Static-field sharing between top-level ExecMethod calls
// happens because they all go through the same Emulator, not because a
// VM object is threaded opaquely between callers.
type Emulator struct {
	Loader  *Loader
	Heap    *Heap
	Static  *StaticStore
	Stats   Stats
	Config  Config
	steps   int
}

func NewEmulator(loader *Loader, cfg Config) *Emulator {
	return &Emulator{
		Loader: loader,
		Heap:   NewHeap(),
		Static: NewStaticStore(),
		Config: cfg,
	}
}

// VM exposes the shared runtime state so a caller can run a <clinit>
// method and then a second method that reads the static fields the first
// populated. This is the sole state-sharing contract between successive
// top-level calls.
func (e *Emulator) VM() *Emulator { return e }

// LoadClass parses a class listing through the Emulator's Loader, counting
// it in Stats.ClassesLoaded. Equivalent to calling e.Loader.LoadClass
// directly except for that bookkeeping.
func (e *Emulator) LoadClass(src *Source) (*JavaClass, error) {
	jc, err := e.Loader.LoadClass(src)
	if err != nil {
		return nil, err
	}
	e.Stats.ClassesLoaded++
	return jc, nil
}

// LoadClassFile is LoadClass reading straight from a file on disk.
func (e *Emulator) LoadClassFile(path string) (*JavaClass, error) {
	src, err := NewSourceFromFile(path)
	if err != nil {
		return nil, err
	}
	return e.LoadClass(src)
}

// preprocessTimed wraps Preprocess, accumulating wall time into
// Stats.PreprocessTime the way original_source's Stats class did.
func (e *Emulator) preprocessTimed(src *Source) (*Preprocessed, error) {
	start := time.Now()
	pre, err := Preprocess(src)
	e.Stats.PreprocessTime += time.Since(start)
	return pre, err
}

// ExecMethod resolves className/methodName against the loader, binds args
// into p0..pN, and runs the method to completion on a fresh top-level
// frame (depth 0).
func (e *Emulator) ExecMethod(className, methodName string, args map[string]Value) (Value, error) {
	jc, ok := e.Loader.Class(className)
	if !ok {
		return NullValue(), newClassError(ErrUnknownClass, className)
	}

	argDescs := argDescriptorsFromBindings(args)
	src, _, found := jc.FindMethod(methodName, argDescs)
	if !found {
		return NullValue(), newMethodError(ErrUnknownMethod, className, methodName)
	}

	pre, err := e.preprocessTimed(src)
	if err != nil {
		return NullValue(), err
	}

	frame := NewFrame(src, pre, jc, e, 0)
	for name, v := range args {
		frame.SetReg(name, v)
	}

	e.Stats.MethodsInvoked++
	if err := RunFrame(frame); err != nil {
		return NullValue(), err
	}
	if frame.Unwound {
		return NullValue(), uncaughtFromThrown(e, frame.Thrown)
	}
	if frame.HasReturn {
		return frame.ReturnV, nil
	}
	return NullValue(), nil
}

// argDescriptorsFromBindings returns one empty descriptor per binding, since
// top-level callers identify arguments by "pN" name rather than by type.
// FindMethod joins them into "", so its exact pass matches only a
// no-argument method of that name; any other method is found by its
// name-only fallback, and the argument count is not used.
func argDescriptorsFromBindings(args map[string]Value) []string {
	return make([]string, len(args))
}

func uncaughtFromThrown(e *Emulator, id ObjectID) error {
	className := "java.lang.Throwable"
	message := ""
	if obj, ok := e.Heap.Get(id); ok {
		className = obj.ClassName()
		if inst, ok := obj.(*UserInstance); ok {
			if m, ok := inst.Fields["message"]; ok && !m.IsNull() {
				if mo, ok := e.Heap.Get(m.Ref()); ok {
					if s, ok := mo.(*StringObj); ok {
						message = s.Decoded()
					}
				}
			}
		}
	}
	return &UncaughtJavaException{ClassName: className, Message: message}
}
