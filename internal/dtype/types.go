// Package dtype is the element type registry of the IDX format.
//
// Each IDX file names the type of its elements with a single tag byte in the
// header. This package maps those tags to an element width and a big-endian
// conversion, and maps Go types back to tags for callers that know the
// element type at compile time.
//
// Format reference: http://yann.lecun.com/exdb/mnist/
package dtype

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedElementType is returned for a type tag outside the IDX set.
var ErrUnsupportedElementType = errors.New("unsupported element type")

// Type is the element type tag stored at offset 2 of an IDX header.
type Type uint8

// Element type tags as defined by the IDX format.
const (
	Uint8   Type = 0x08
	Int8    Type = 0x09
	Int16   Type = 0x0B
	Int32   Type = 0x0C
	Float32 Type = 0x0D
	Float64 Type = 0x0E
)

// Element is a constraint for the Go types an IDX element decodes into.
type Element interface {
	~uint8 | ~int8 | ~int16 | ~int32 | ~float32 | ~float64
}

// Trait describes how elements of one type are laid out.
type Trait struct {
	Type  Type
	Width int // Size in bytes of one element.
	Name  string
}

// traits is the registry. It is never written after init.
var traits = map[Type]Trait{
	Uint8:   {Type: Uint8, Width: 1, Name: "uint8"},
	Int8:    {Type: Int8, Width: 1, Name: "int8"},
	Int16:   {Type: Int16, Width: 2, Name: "int16"},
	Int32:   {Type: Int32, Width: 4, Name: "int32"},
	Float32: {Type: Float32, Width: 4, Name: "float32"},
	Float64: {Type: Float64, Width: 8, Name: "float64"},
}

// Lookup resolves a header tag byte.
func Lookup(tag byte) (Trait, error) {
	if trait, ok := traits[Type(tag)]; ok {
		return trait, nil
	}
	return Trait{}, fmt.Errorf("%w: tag 0x%02x", ErrUnsupportedElementType, tag)
}

// Types returns all supported types in tag order.
func Types() []Type {
	return []Type{Uint8, Int8, Int16, Int32, Float32, Float64}
}

// Valid reports whether t is a known tag.
func (t Type) Valid() bool {
	_, ok := traits[t]
	return ok
}

// Width returns the element size in bytes, or 0 for unknown tags.
func (t Type) Width() int {
	return traits[t].Width
}

// String returns the Go name of the element type.
func (t Type) String() string {
	if trait, ok := traits[t]; ok {
		return trait.Name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(t))
}

// TypeOf returns the tag matching the Go element type T. Named types are
// resolved through their underlying kind.
func TypeOf[T Element]() Type {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Uint8:
		return Uint8
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Float32:
		return Float32
	default:
		return Float64
	}
}
