package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRoot wires nodes under a fresh AST root without going through a
// Parser collaborator, for tests that only exercise the build pass.
func buildRoot(t *testing.T, nodes ...Node) *AST {
	t.Helper()
	root := NewAST(Options{Source: "test.eh"})
	root.BuildFromSource(nodes)
	return root
}

func TestVariadicCallLoweringMaterializesArray(t *testing.T) {
	decl := NewFunctionDeclaration("log", []*VariableDeclaration{
		NewVariableDeclaration("fmt", NewBuiltinType("@str"), QualifierNone),
	}, NewBuiltinType("@void"), true, NewBuiltinType("@any"), QualifierNone)

	call := &FunctionCall{
		Callee: NewIdentifier("log"),
		Args: []Value{
			NewString("%d %d"),
			NewNumber("1"),
			NewNumber("2"),
		},
	}
	body := []Node{NewStatement(call)}
	def := NewFunctionDefinition(
		NewFunctionDeclaration("main", nil, NewBuiltinType("@int32"), false, nil, QualifierNone),
		[]Node{NewStatement(decl), NewStatement(call)},
	)
	_ = body

	root := buildRoot(t, NewStatement(def))
	assert.False(t, root.HasErrors(), root.Diags.Strings())

	// the lowering must have inserted a synthetic array declaration ahead
	// of the call, and replaced the trailing variadic actuals with a
	// count and a reference to that array.
	require.Len(t, call.Args, 3)
	_, isNumber := call.Args[1].(*Number)
	assert.True(t, isNumber, "expected count argument")
	_, isRef := call.Args[2].(*Reference)
	assert.True(t, isRef, "expected array reference argument")

	require.Len(t, def.Body, 3)
	stmt, ok := def.Body[1].(*Statement)
	require.True(t, ok)
	arrDecl, ok := stmt.Inner.(*VariableDeclaration)
	require.True(t, ok)
	_, isArray := arrDecl.TypeSrc.(*ArrayType)
	assert.True(t, isArray)
}

func TestVariadicCallOnCDeclarationIsNotLowered(t *testing.T) {
	decl := NewFunctionDeclaration("printf", []*VariableDeclaration{
		NewVariableDeclaration("fmt", NewBuiltinType("@str"), QualifierNone),
	}, NewBuiltinType("@int32"), true, NewBuiltinType("@any"), QualifierNone)
	decl.Kind = DeclC

	call := &FunctionCall{
		Callee: NewIdentifier("printf"),
		Args:   []Value{NewString("%d"), NewNumber("1")},
	}
	def := NewFunctionDefinition(
		NewFunctionDeclaration("main", nil, NewBuiltinType("@int32"), false, nil, QualifierNone),
		[]Node{NewStatement(decl), NewStatement(call)},
	)

	buildRoot(t, NewStatement(def))

	require.Len(t, call.Args, 2)
	_, isNumber := call.Args[1].(*Number)
	assert.True(t, isNumber, "C variadic call keeps its actual argument unchanged")
}

func TestCallArityMismatchWarns(t *testing.T) {
	decl := NewFunctionDeclaration("add", []*VariableDeclaration{
		NewVariableDeclaration("a", NewBuiltinType("@int32"), QualifierNone),
		NewVariableDeclaration("b", NewBuiltinType("@int32"), QualifierNone),
	}, NewBuiltinType("@int32"), false, nil, QualifierNone)

	call := &FunctionCall{Callee: NewIdentifier("add"), Args: []Value{NewNumber("1")}}
	def := NewFunctionDefinition(
		NewFunctionDeclaration("main", nil, NewBuiltinType("@int32"), false, nil, QualifierNone),
		[]Node{NewStatement(decl), NewStatement(call)},
	)

	root := buildRoot(t, NewStatement(def))
	assert.False(t, root.HasErrors())
	assert.Equal(t, 1, root.Diags.Warnings())
}
