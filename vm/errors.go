package vm

import (
	"errors"
	"fmt"
)

// Load-time errors: these abort loading before any execution starts.
var (
	ErrMalformedDescriptor = errors.New("malformed class or member descriptor")
	ErrPreprocessing       = errors.New("preprocessing error")
	ErrDuplicateClass      = errors.New("duplicate class")
	ErrUnknownClass        = errors.New("unknown class")
	ErrUnknownMethod       = errors.New("unknown method")
)

// Dispatch-time errors: these abort the current top-level ExecMethod call.
var (
	ErrUnknownOpcode      = errors.New("unknown opcode")
	ErrMalformedOperand   = errors.New("malformed operand")
	ErrUnsupportedBuiltin = errors.New("unsupported builtin method")
	ErrStepBudgetExceeded = errors.New("step budget exceeded")
	ErrStackOverflow      = errors.New("stack overflow")
)

// JavaException is a Java-visible error. It is never returned directly from
// ExecMethod; instead it is boxed into an object and placed in Frame.Thrown,
// where it can be caught by a try/catch region. It only reaches the caller
// wrapped in UncaughtJavaException if nothing in the call chain handles it.
type JavaException struct {
	ClassName string
	Message   string
}

func (e *JavaException) Error() string {
	return fmt.Sprintf("%s: %s", e.ClassName, e.Message)
}

func NewNullPointerException(msg string) *JavaException {
	return &JavaException{ClassName: "java.lang.NullPointerException", Message: msg}
}

func NewArrayIndexOutOfBoundsException(index, length int) *JavaException {
	return &JavaException{
		ClassName: "java.lang.ArrayIndexOutOfBoundsException",
		Message:   fmt.Sprintf("length=%d; index=%d", length, index),
	}
}

func NewArithmeticException(msg string) *JavaException {
	return &JavaException{ClassName: "java.lang.ArithmeticException", Message: msg}
}

func NewClassCastException(msg string) *JavaException {
	return &JavaException{ClassName: "java.lang.ClassCastException", Message: msg}
}

func NewNumberFormatException(msg string) *JavaException {
	return &JavaException{ClassName: "java.lang.NumberFormatException", Message: msg}
}

// UncaughtJavaException is what ExecMethod returns when a JavaException
// unwinds all the way out of the top-level frame without being caught.
type UncaughtJavaException struct {
	ClassName string
	Message   string
}

func (e *UncaughtJavaException) Error() string {
	return fmt.Sprintf("uncaught %s: %s", e.ClassName, e.Message)
}

func newPreprocessingError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPreprocessing, fmt.Sprintf(format, args...))
}

func newMalformedDescriptorError(descriptor string) error {
	return fmt.Errorf("%w: %q", ErrMalformedDescriptor, descriptor)
}

// newClassError wraps one of the class-table sentinels (ErrDuplicateClass,
// ErrUnknownClass) with the offending class name.
func newClassError(sentinel error, className string) error {
	return fmt.Errorf("%w: %s", sentinel, className)
}

// newMethodError wraps ErrUnknownMethod / ErrUnsupportedBuiltin with the
// class and method signature involved.
func newMethodError(sentinel error, className, methodName string) error {
	return fmt.Errorf("%w: %s->%s", sentinel, className, methodName)
}

// malformedOperands names the opcode family whose operand text didn't
// match the shape its handler expected.
func malformedOperands(opcode, operands string) error {
	return fmt.Errorf("%w: %s %q", ErrMalformedOperand, opcode, operands)
}
