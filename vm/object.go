package vm

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Object is any heap-allocated Java-side entity. ClassName returns its
// demangled class name, used both for invoke-* resolution and for
// try/catch exception-type matching.
type Object interface {
	ClassName() string
}

// StringObj backs java.lang.String. Bytes holds the raw encoded payload;
// Encoding names a charset, with "" defaulting to ASCII. Decoded
// applies that encoding via golang.org/x/text so values built from a
// declared charset behave the same way java.lang.String(bytes, charsetName)
// would.
type StringObj struct {
	Bytes    []byte
	Encoding string
}

func (*StringObj) ClassName() string { return "java.lang.String" }

func namedEncoding(name string) (encoding.Encoding, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "ASCII", "US-ASCII":
		return nil, true // nil means "treat as raw ASCII/Latin-1 passthrough"
	case "UTF-8", "UTF8":
		return unicode.UTF8BOM, true
	case "UTF-16", "UTF16":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), true
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), true
	case "ISO-8859-1", "LATIN1":
		return charmap.ISO8859_1, true
	default:
		return nil, false
	}
}

// DecodeStringBytes decodes raw bytes per a (possibly empty) Java charset
// name, defaulting to ASCII. An unrecognized charset name falls back to
// treating the bytes as raw ASCII rather than failing the whole call:
// this VM has no verification pass, and charset mismatches are a program
// bug, not a host-side error worth aborting over.
func DecodeStringBytes(raw []byte, charsetName string) string {
	enc, ok := namedEncoding(charsetName)
	if !ok || enc == nil {
		return string(raw)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

func NewStringObj(s string) *StringObj {
	return &StringObj{Bytes: []byte(s)}
}

func (s *StringObj) Decoded() string {
	return DecodeStringBytes(s.Bytes, s.Encoding)
}

// StringBuilderObj backs java.lang.StringBuilder: a mutable byte buffer
// appended to by append(*) and read back by toString().
type StringBuilderObj struct {
	Buf []byte
}

func (*StringBuilderObj) ClassName() string { return "java.lang.StringBuilder" }

// ArrayObj backs every Smali array, whether allocated by new-array,
// filled-new-array, or java.lang.reflect.Array.newInstance.
type ArrayObj struct {
	ElementType string
	Elements    []Value
}

func (*ArrayObj) ClassName() string { return "array" }

// UserInstance is a new-instance of a user-defined Smali class: a mutable
// field map written by iput-* and read by iget-*.
type UserInstance struct {
	Class  string
	Fields map[string]Value
}

func (u *UserInstance) ClassName() string { return u.Class }

// BoxObj backs the usual java.lang.Integer/Long/Double/Float/Boolean/
// Character box types produced by valueOf.
type BoxObj struct {
	Class string
	Prim  Value
}

func (b *BoxObj) ClassName() string { return b.Class }

func (u *UserInstance) String() string {
	return fmt.Sprintf("%s%v", u.Class, u.Fields)
}

// NewUserInstance builds a zero-valued instance whose declared fields all
// start out Null, ready for a constructor to populate.
func NewUserInstance(className string, declaredFields []string) *UserInstance {
	fields := make(map[string]Value, len(declaredFields))
	for _, f := range declaredFields {
		fields[f] = NullValue()
	}
	return &UserInstance{Class: className, Fields: fields}
}
