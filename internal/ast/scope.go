package ast

import (
	"strconv"

	"github.com/ehlit/ehlitc/internal/diag"
)

// ScopeHolder is the shared base of a node that owns a set of declarations
// and answers lookups against them before delegating outward. Two
// flavours embed it:
// UnorderedScope (modules, structs, unions — members are visible to each
// other regardless of textual order) and FlowScope (function bodies and
// control-structure bodies — only declarations appearing earlier in the
// body are visible, matching ordinary block-scoped execution).
type ScopeHolder struct {
	Base
	declarations    map[string]DeclarationBase
	predeclarations map[string]DeclarationBase
}

func (s *ScopeHolder) init() {
	if s.declarations == nil {
		s.declarations = make(map[string]DeclarationBase)
	}
	if s.predeclarations == nil {
		s.predeclarations = make(map[string]DeclarationBase)
	}
}

// Declare registers decl under its own name in this scope.
func (s *ScopeHolder) Declare(decl DeclarationBase) {
	s.init()
	s.declarations[decl.Name()] = decl
}

// Predeclare records a declaration that a lookup reached through an
// UnorderedScope's ScopeContents before it was built (a forward
// reference); later lookups of the same name find it here.
func (s *ScopeHolder) Predeclare(decl DeclarationBase) {
	s.init()
	s.predeclarations[decl.Name()] = decl
}

func (s *ScopeHolder) lookupOwn(sym string) (DeclarationBase, bool) {
	s.init()
	if d, ok := s.declarations[sym]; ok {
		return d, true
	}
	if d, ok := s.predeclarations[sym]; ok {
		return d, true
	}
	return nil, false
}

// UnorderedScope is a Scope whose members are all visible to one another
// regardless of declaration order: modules, struct bodies, union bodies.
// ScopeContents supplies the member list so FindDeclaration can search it
// before delegating to the parent scope.
type UnorderedScope struct {
	ScopeHolder
	// ScopeContents, set by the concrete embedding type, returns every
	// member declaration this scope owns. It stands in for the abstract
	// scope_contents property: Go has no way to call back into an
	// embedding type's override from the embedded type, so the concrete
	// node wires this closure once after construction.
	ScopeContents func() []DeclarationBase
}

// FindDeclaration first checks declarations already built and registered
// in this scope (lookupOwn), then asks every member of the raw syntactic
// ScopeContents list for its own GetDeclaration — a member found only this
// way has not been built yet (a forward reference), so it is additionally
// registered into Predeclarations: the emitter later uses that record to
// know it must forward-declare the symbol.
func (u *UnorderedScope) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if d, ok := u.lookupOwn(sym); ok {
		return d, nil
	}
	if u.ScopeContents != nil {
		for _, d := range u.ScopeContents() {
			found, derr := d.GetDeclaration(sym)
			if derr != nil {
				return nil, derr
			}
			if found != nil {
				u.Predeclare(found)
				return found, nil
			}
		}
	}
	if u.Parent() == nil {
		return nil, nil
	}
	return u.Parent().FindDeclaration(sym)
}

// FlowScope is a Scope with ordered, statement-by-statement visibility: a
// declaration is only visible to statements that follow it in the same
// body. Build walks the body in order, declaring each statement's result
// as it goes, and supports DoBefore so that a later pass (variadic-call
// lowering) can splice a synthetic statement immediately before the
// statement that needs it.
type FlowScope struct {
	ScopeHolder
	Body []Node
}

// Build runs every statement of Body through stmt.Build(stmt) in order.
// A statement that calls DoBefore(self, stmt, before) during its own Build gets
// to insert stmt immediately ahead of before in the still-unprocessed
// remainder of the walk.
func (f *FlowScope) Build(self Node) Node {
	i := 0
	for i < len(f.Body) {
		stmt := f.Body[i]
		stmt.SetParent(self)
		built := stmt.Build(stmt)
		// stmt's own Build may have called DoBefore, splicing one or more
		// synthetic statements into Body ahead of stmt itself (variadic
		// call lowering). Those are already built by DoBefore, so locate
		// stmt's current position rather than assuming it is still at i,
		// and resume just past it.
		idx := i
		for j := i; j < len(f.Body); j++ {
			if f.Body[j] == stmt {
				idx = j
				break
			}
		}
		f.Body[idx] = built
		i = idx + 1
	}
	return self
}

// DoBefore inserts do immediately before the element of Body equal to
// before, then builds do against self so it takes effect without waiting
// for another Build pass. Used by call-argument lowering to materialize a
// local array ahead of the call that consumes it.
func (f *FlowScope) DoBefore(self Node, do Node, before Node) {
	idx := -1
	for i, n := range f.Body {
		if n == before {
			idx = i
			break
		}
	}
	if idx < 0 {
		f.Body = append(f.Body, do)
		idx = len(f.Body) - 1
	} else {
		f.Body = append(f.Body, nil)
		copy(f.Body[idx+1:], f.Body[idx:])
		f.Body[idx] = do
	}
	do.SetParent(self)
	f.Body[idx] = do.Build(do)
}

func (f *FlowScope) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if d, ok := f.lookupOwn(sym); ok {
		return d, nil
	}
	if f.Parent() == nil {
		return nil, nil
	}
	return f.Parent().FindDeclaration(sym)
}

// FlowScope itself keeps no name counter and no override: only
// FunctionDefinition and the AST root do, so GenerateVarName falls
// through to Base's upward delegation for a plain control-structure body
// (if/switch).

func genName(kind string, n int) string {
	return "__gen_" + kind + "_" + strconv.Itoa(n)
}
