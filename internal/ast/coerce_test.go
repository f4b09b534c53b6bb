package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoCastNoOpWhenNeitherSideIsAny(t *testing.T) {
	n := NewNumber("1")
	n.typ = NewBuiltinType("@int64")
	out := AutoCast(n, NewBuiltinType("@int64"))
	assert.Same(t, Value(n), out)
}

func TestAutoCastReadingOutOfAnyHasZeroDelta(t *testing.T) {
	// reading a @uint32 (any_memory_offset 1) out of an @any (offset 1):
	// fromAnyAligned(target=@uint32, source=@any, isCasting=true) == 1 - 1 == 0
	src := NewNumber("1")
	src.typ = NewBuiltinType("@any")
	out := AutoCast(src, NewBuiltinType("@uint32"))
	assert.Equal(t, src, out) // zero delta: no wrapper introduced
}

func TestAutoCastWritingStrIntoAnyNeedsNoWrapping(t *testing.T) {
	// @str already lives unboxed (any_memory_offset 0), so writing it into
	// `any` needs no address-of: RefOffset stays at 0.
	s := NewString("hi")
	out := s.AutoCast(NewBuiltinType("@any"))
	assert.Same(t, Value(s), out)
	assert.Equal(t, 0, s.RefOffset())
}

func TestAutoCastWrapsWritingUint32IntoAny(t *testing.T) {
	// @uint32 is boxed behind a pointer inside `any` (any_memory_offset 1),
	// so writing a plain value into `any` needs one address-of step.
	n := NewNumber("1")
	n.typ = NewBuiltinType("@uint32")
	out := AutoCast(n, NewBuiltinType("@any"))
	assert.Same(t, Value(n), out)
	assert.Equal(t, -1, n.RefOffset())
}

// TestAutoCastReadingRefIntFromAny reproduces the `any x; int* y = x;`
// scenario directly: reading a declared `int*` back out of an `any` records
// the read's shape on Cast and leaves RefOffset at 0, since the cast tree
// itself already carries the one reference layer the target calls for.
func TestAutoCastReadingRefIntFromAny(t *testing.T) {
	x := NewNumber("1")
	x.typ = NewBuiltinType("@any")

	target := &ReferenceType{Inner: NewBuiltinType("@int")}
	out := AutoCast(x, target)

	assert.Same(t, Value(x), out)
	assert.Equal(t, 0, x.RefOffset())

	cast, ok := x.Cast().(*ReferenceType)
	if assert.True(t, ok, "Cast() should be a reference type") {
		assert.Equal(t, "@int", cast.Inner.Name())
	}
}
