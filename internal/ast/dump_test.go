package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ehlit/ehlitc/testutil"
)

func TestDumpFunctionDefinition(t *testing.T) {
	ret := &Return{Expr: NewNumber("0")}
	def := NewFunctionDefinition(
		NewFunctionDeclaration("main", nil, NewBuiltinType("@int32"), false, nil, QualifierNone),
		[]Node{NewStatement(ret)},
	)

	out := Dump([]Node{def})
	assert.Contains(t, out, "FunctionDefinition(main)")
	assert.Contains(t, out, "Return")
	assert.Contains(t, out, "Number(0)")
}

// TestDumpDiffIsEmptyForIdenticalTrees exercises testutil's JSON diff
// helper directly rather than through a golden file on disk, since a
// golden file's embedded go_version/os/arch metadata would make this
// test's pass/fail depend on the environment it runs in.
func TestDumpDiffIsEmptyForIdenticalTrees(t *testing.T) {
	decl := NewVariableDeclaration("count", NewBuiltinType("@int32"), QualifierNone)
	decl.Value = NewNumber("42")
	out := Dump([]Node{decl})

	diff := testutil.DiffJSON(out, out)
	assert.Equal(t, "JSON Diff:\n", diff)
}
