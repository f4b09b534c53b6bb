package ast

import (
	"github.com/ehlit/ehlitc/internal/diag"
)

// Statement wraps a single top-level element of a FlowScope body — a
// declaration, an assignment, a bare call, a control structure, or
// a synthetic node inserted by DoBefore — so the body list is uniformly
// []Node regardless of what each entry actually is.
type Statement struct {
	Base
	Inner Node
}

func NewStatement(inner Node) *Statement { return &Statement{Inner: inner} }

func (s *Statement) Build(self Node) Node {
	s.Inner.SetParent(self)
	s.Inner = s.Inner.Build(s.Inner)
	return self
}

// Statement is otherwise a transparent wrapper in the scope chain:
// FindDeclaration and Declare fall through to Base's default upward
// delegation, exactly as if the wrapped node sat directly in the body.

// Return is `return expr;` or a bare `return;`. Build walks up to the
// enclosing FunctionDefinition and auto-casts Expr against its declared
// return type.
type Return struct {
	Base
	Expr Value // nil for a bare return
}

func (r *Return) Build(self Node) Node {
	fn, ok := ParentOfType[*FunctionDefinition](r)
	if !ok {
		r.Fail(diag.Error, r.Position(), diag.ShpNotCallable, "return outside of a function")
		return self
	}
	if r.Expr == nil {
		return self
	}
	r.Expr.SetParent(self)
	built := r.Expr.Build(r.Expr)
	if v, ok := built.(Value); ok {
		r.Expr = v.AutoCast(fn.Ret)
	}
	return self
}

// Condition is a single `if`/`else if` branch: a test expression plus a
// FlowScope body.
type Condition struct {
	FlowScope
	Test Value
}

func (c *Condition) Build(self Node) Node {
	if c.Test != nil {
		c.Test.SetParent(self)
		if built, ok := c.Test.Build(c.Test).(Value); ok {
			c.Test = built.AutoCast(NewBuiltinType("@bool"))
		}
	}
	return c.FlowScope.Build(self)
}

// ControlStructure is `if`/`else if`/`else`, modelled as an ordered list
// of Conditions (the final one may have a nil Test, standing for a bare
// `else`).
type ControlStructure struct {
	Base
	Branches []*Condition
}

func (c *ControlStructure) Build(self Node) Node {
	for _, b := range c.Branches {
		b.SetParent(self)
		b.Build(b)
	}
	return self
}

// SwitchCaseTest is one `case expr:` label of a switch, or a nil Expr
// standing for `default:`.
type SwitchCaseTest struct {
	Base
	Expr Value // nil for default
}

func (t *SwitchCaseTest) Build(self Node) Node {
	if t.Expr == nil {
		return self
	}
	t.Expr.SetParent(self)
	if built, ok := t.Expr.Build(t.Expr).(Value); ok {
		t.Expr = built
	}
	return self
}

// SwitchCaseBody is the FlowScope shared by every label that falls
// through to it.
type SwitchCaseBody struct {
	FlowScope
}

// SwitchCase pairs one or more SwitchCaseTests with the SwitchCaseBody
// they share (fallthrough grouping).
type SwitchCase struct {
	Base
	Tests []*SwitchCaseTest
	Body  *SwitchCaseBody
}

func (s *SwitchCase) Build(self Node) Node {
	for _, t := range s.Tests {
		t.SetParent(self)
		t.Build(t)
	}
	s.Body.SetParent(self)
	s.Body.Build(s.Body)
	return self
}

// Switch is the whole `switch (expr) { ... }` construct.
type Switch struct {
	Base
	Test  Value
	Cases []*SwitchCase
}

func (s *Switch) Build(self Node) Node {
	s.Test.SetParent(self)
	if built, ok := s.Test.Build(s.Test).(Value); ok {
		s.Test = built
	}
	for _, c := range s.Cases {
		c.SetParent(self)
		c.Build(c)
	}
	return self
}

// Operator is a binary operator joining two operands inside an
// Expression's flat operand list, e.g. `+`, `==`, `&&`.
type Operator struct {
	Base
	Op string
}

func (o *Operator) Build(self Node) Node { return self }

// VariableAssignment declares and immediately assigns in one statement:
// `T x = expr;`. It is represented directly as a VariableDeclaration with
// a non-nil Value; this type exists only to mirror the distinct statement
// shape the grammar recognises (plain `T x;` vs `T x = expr;`) for the
// writer/diagnostic layer, and Build simply delegates.
type VariableAssignment struct {
	*VariableDeclaration
}

// Assignment is `lhs = expr;` or a compound assignment (`lhs += expr;`
// etc.) against an already-declared variable.
type Assignment struct {
	Base
	Op   string // "=", "+=", "-=", ...
	LHS  Symbol
	RHS  Value
}

func (a *Assignment) Build(self Node) Node {
	a.LHS.SetParent(self)
	if built, ok := a.LHS.Build(a.LHS).(Symbol); ok {
		a.LHS = built
	}
	a.RHS.SetParent(self)
	built := a.RHS.Build(a.RHS)
	if v, ok := built.(Value); ok {
		a.RHS = v.AutoCast(a.LHS.Typ())
	}
	return self
}
