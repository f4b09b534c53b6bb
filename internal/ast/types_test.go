package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinTypeAnyMemoryOffset(t *testing.T) {
	assert.Equal(t, 1, NewBuiltinType("@uint32").AnyMemoryOffset())
	assert.Equal(t, 0, NewBuiltinType("@str").AnyMemoryOffset())
}

// TestArrayVsArrayTypeAnyMemoryOffsetAsymmetry pins the documented
// asymmetry: an Array value always reports 0 regardless of element type,
// while an ArrayType delegates to its element. Losing this distinction
// would make array-through-any coercion insert the wrong number of
// reference operators.
func TestArrayVsArrayTypeAnyMemoryOffsetAsymmetry(t *testing.T) {
	elem := NewBuiltinType("@uint32")

	arr := &Array{Container: Container{Child: elem}}
	assert.Equal(t, 0, arr.AnyMemoryOffset())

	arrType := &ArrayType{Elem: elem}
	assert.Equal(t, elem.AnyMemoryOffset(), arrType.AnyMemoryOffset())
	assert.Equal(t, 1, arrType.AnyMemoryOffset())
}

func TestReferenceTypeRefOffsetDelegatesAndIncrements(t *testing.T) {
	inner := NewBuiltinType("@char")
	ref := &ReferenceType{Inner: inner}
	assert.Equal(t, inner.RefOffset()+1, ref.RefOffset())

	nested := &ReferenceType{Inner: ref}
	assert.Equal(t, ref.RefOffset()+1, nested.RefOffset())
}

func TestContainerStructureIncompleteAccessFails(t *testing.T) {
	s := &ContainerStructure{Kind: "struct", TypeName: "Point"}
	_, d := s.GetInnerDeclaration("x")
	if assert.NotNil(t, d) {
		assert.Equal(t, "accessing incomplete struct Point", d.Message)
	}
}

func TestContainerStructureCompleteFieldLookup(t *testing.T) {
	x := NewVariableDeclaration("x", NewBuiltinType("@int32"), QualifierNone)
	s := &ContainerStructure{Kind: "struct", TypeName: "Point", Fields: []*VariableDeclaration{x}}
	decl, d := s.GetInnerDeclaration("x")
	assert.Nil(t, d)
	assert.Equal(t, x, decl)

	_, d = s.GetInnerDeclaration("y")
	assert.NotNil(t, d)
}
