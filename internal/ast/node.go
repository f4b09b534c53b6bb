// Package ast is the semantic core: the node/declaration/symbol/value/scope
// tree produced by parsing, the two-phase build pass that resolves names
// and splices imports, the any-type coercion engine, and the rewrite pass
// that lowers variadic calls. The parser itself is out of scope; this
// package only consumes the tree a Parser collaborator hands it.
package ast

import (
	"fmt"

	"github.com/ehlit/ehlitc/internal/diag"
)

// Pos is a source location, identical in shape to diag.Pos so that nodes
// can hand positions straight to a Fail call without conversion.
type Pos = diag.Pos

// Qualifier is a bitset of the declaration qualifiers the grammar accepts
// on a variable or function declaration.
type Qualifier int

const (
	QualifierNone     Qualifier = 0
	QualifierConst    Qualifier = 1 << 0
	QualifierRestrict Qualifier = 1 << 1
	QualifierVolatile Qualifier = 1 << 2
	QualifierInline   Qualifier = 1 << 3
	QualifierStatic   Qualifier = 1 << 4
	QualifierPrivate  Qualifier = 1 << 5
)

func (q Qualifier) IsConst() bool    { return q&QualifierConst != 0 }
func (q Qualifier) IsRestrict() bool { return q&QualifierRestrict != 0 }
func (q Qualifier) IsVolatile() bool { return q&QualifierVolatile != 0 }
func (q Qualifier) IsInline() bool   { return q&QualifierInline != 0 }
func (q Qualifier) IsStatic() bool   { return q&QualifierStatic != 0 }
func (q Qualifier) IsPrivate() bool  { return q&QualifierPrivate != 0 }

// DeclKind distinguishes an Ehlit-native declaration from one that came in
// through a C header: C declarations are never mangled and never get
// variadic-call lowering applied to their call sites.
type DeclKind int

const (
	DeclEhlit DeclKind = iota
	DeclC
)

// Node is the shared interface of every element of the tree. Default,
// upward-delegating behaviour lives on Base; concrete node types embed it
// and override only what differs.
type Node interface {
	Position() Pos
	Parent() Node
	SetParent(Node)

	// Build runs the two-phase pass: name resolution and import/include
	// splicing. It is always called with the concrete node itself so that
	// default (Base) methods needing the concrete type can be reached
	// through the Node interface rather than a "self" field.
	Build(self Node) Node

	// FindDeclaration looks up sym starting at this node and walking
	// outward through enclosing scopes. The three-way contract is modelled
	// as a pair: (nil, nil) means not found, (decl, nil) means found, and
	// (nil, diagnostic) means the symbol exists but access is forbidden
	// (e.g. a private import symbol).
	FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic)

	// GetDeclaration is the downward counterpart of FindDeclaration: a
	// Scope asks each member it owns whether it exposes sym, instead of
	// comparing names itself. The default (nil, nil) means "no opinion,
	// keep searching"; a declaration overrides it to return itself when
	// sym matches its own name.
	GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic)

	// Declare registers decl in the nearest enclosing Scope.
	Declare(decl DeclarationBase)

	// Fail records a diagnostic against the AST root's accumulator.
	Fail(sev diag.Severity, pos Pos, code, msg string)

	// GenerateVarName produces a unique synthetic identifier, used by
	// variadic-call lowering to name the array it materializes.
	GenerateVarName() string
}

// Base implements the default Node behaviour every concrete node inherits:
// position tracking, parent-chain bookkeeping, and delegation of lookups,
// declarations, and diagnostics up to the enclosing node. Concrete types
// embed Base and override Build, FindDeclaration, Declare, etc. only where
// their own semantics differ.
type Base struct {
	pos    Pos
	parent Node
}

func (b *Base) Position() Pos      { return b.pos }
func (b *Base) SetPosition(p Pos)  { b.pos = p }
func (b *Base) Parent() Node       { return b.parent }
func (b *Base) SetParent(p Node)   { b.parent = p }

// Build's default is a no-op returning self unchanged; most leaf nodes
// (literals, identifiers with nothing to splice) never override it.
func (b *Base) Build(self Node) Node { return self }

// FindDeclaration delegates to the parent. The AST root overrides this to
// stop the walk and report "not found" instead of recursing into nil.
func (b *Base) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if b.parent == nil {
		return nil, nil
	}
	return b.parent.FindDeclaration(sym)
}

// GetDeclaration's default has no opinion: only a concrete Declaration
// overrides it, to expose itself when asked for its own name.
func (b *Base) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	return nil, nil
}

// Declare delegates to the parent; Scope overrides it to actually record
// the declaration.
func (b *Base) Declare(decl DeclarationBase) {
	if b.parent != nil {
		b.parent.Declare(decl)
	}
}

// Fail walks up to the AST root and records the diagnostic there.
func (b *Base) Fail(sev diag.Severity, pos Pos, code, msg string) {
	if b.parent != nil {
		b.parent.Fail(sev, pos, code, msg)
	}
}

// GenerateVarName delegates to the parent. The nearest FunctionDefinition
// (or, outside any function, the AST root) owns the counter, so generated
// names are unique within that owner.
func (b *Base) GenerateVarName() string {
	if b.parent != nil {
		return b.parent.GenerateVarName()
	}
	return "__gen"
}

// IsChildOf reports whether n is nested, at any depth, under a node whose
// concrete type is T. Implemented with a generic instead of Python's
// isinstance-based walk, since Go has no runtime supertype check on an
// arbitrary embedded Base.
func IsChildOf[T Node](n Node) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if _, ok := cur.(T); ok {
			return true
		}
	}
	return false
}

// ParentOfType returns the nearest enclosing node of concrete type T, or
// the zero value and false if none exists.
func ParentOfType[T Node](n Node) (T, bool) {
	var zero T
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if t, ok := cur.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// DeclarationBase is anything that can be the target of a FindDeclaration
// lookup: variables, functions, types, aliases, and imported symbols.
type DeclarationBase interface {
	Node
	// ResolveAlias resolves through aliasing indirection (an Alias
	// points at another DeclarationBase); most declarations return
	// themselves.
	ResolveAlias() DeclarationBase
	// GetInnerDeclaration resolves a dotted-member lookup one level down,
	// e.g. a struct field or the length field synthesized for a vargs
	// parameter. Plain declarations error with "no inner declaration".
	GetInnerDeclaration(name string) (DeclarationBase, *diag.Diagnostic)
	// Name is the symbol this declaration is registered under.
	Name() string
}

func notFoundf(format string, args ...interface{}) *diag.Diagnostic {
	return diag.New(diag.Error, Pos{}, diag.ResUndeclared, fmt.Sprintf(format, args...))
}
