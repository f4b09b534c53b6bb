package ast

import (
	"fmt"
	"strings"

	"github.com/ehlit/ehlitc/internal/diag"
)

// Symbol is a Value that additionally knows whether it names a type
// (as opposed to a variable or function), and can resolve itself to the
// DeclarationBase it denotes.
type Symbol interface {
	Value
	Name() string
	IsType() bool
	Decl() DeclarationBase
	// Canonical strips away Alias indirection, returning the declaration
	// an expression actually resolves to once every alias hop is
	// followed — used by call-shape checks that must see through a
	// renamed import.
	Canonical() DeclarationBase
}

// symBase centralises the decl slot, IsType/Canonical plumbing, and the
// Cast slot the any-coercion engine writes through, shared by every
// concrete Symbol.
type symBase struct {
	Base
	decl DeclarationBase
	cast Symbol
}

func (s *symBase) Decl() DeclarationBase { return s.decl }
func (s *symBase) SetDecl(d DeclarationBase) { s.decl = d }
func (s *symBase) Cast() Symbol     { return s.cast }
func (s *symBase) SetCast(c Symbol) { s.cast = c }
func (s *symBase) IsType() bool {
	if s.decl == nil {
		return false
	}
	_, ok := s.decl.(Type)
	return ok
}
func (s *symBase) Canonical() DeclarationBase {
	d := s.decl
	for {
		al, ok := d.(*Alias)
		if !ok || al.Src() == nil {
			return d
		}
		d = al.Src()
	}
}

// Identifier is a single-name reference such as `x` or `foo`.
type Identifier struct {
	symBase
	refOffset int
	IdentName string
}

func NewIdentifier(name string) *Identifier { return &Identifier{IdentName: name} }

func (i *Identifier) Build(self Node) Node {
	decl, d := i.Parent().FindDeclaration(i.IdentName)
	if d != nil {
		i.Fail(d.Severity, d.Pos, d.Code, d.Message)
		return self
	}
	if decl == nil {
		i.Fail(diag.Error, i.Position(), diag.ResUndeclared,
			fmt.Sprintf("use of undeclared identifier %s", i.IdentName))
		return self
	}
	i.decl = decl
	return self
}

func (i *Identifier) Name() string { return i.IdentName }
func (i *Identifier) RefOffset() int     { return i.refOffset }
func (i *Identifier) SetRefOffset(n int) { i.refOffset = n }

func (i *Identifier) Typ() Type {
	if i.decl == nil {
		return NewBuiltinType("@any") // unresolved: fall back to any
	}
	if t, ok := i.decl.(Type); ok {
		return t.Dup()
	}
	if vd, ok := i.decl.(*VariableDeclaration); ok {
		return vd.Typ()
	}
	return nil
}

func (i *Identifier) AutoCast(target Type) Value { return autoCastDefault(i, target) }

// CompoundIdentifier is a dotted chain, e.g. `foo.bar.baz`: the first
// element resolves through the enclosing scope chain, every subsequent
// element resolves through GetInnerDeclaration on the previous one.
type CompoundIdentifier struct {
	symBase
	Elements     []string
	refOffset    int
	refOffsetSet bool
}

func NewCompoundIdentifier(elems []string) *CompoundIdentifier {
	return &CompoundIdentifier{Elements: elems}
}

func (c *CompoundIdentifier) Name() string { return strings.Join(c.Elements, ".") }
func (c *CompoundIdentifier) RefOffset() int {
	if c.refOffsetSet {
		return c.refOffset
	}
	if d, ok := c.decl.(Type); ok {
		return d.RefOffset()
	}
	return 0
}
func (c *CompoundIdentifier) SetRefOffset(n int) {
	c.refOffset = n
	c.refOffsetSet = true
}

func (c *CompoundIdentifier) Build(self Node) Node {
	decl, elements, diagErr := c.findChildrenDeclarations()
	if diagErr != nil {
		c.Fail(diagErr.Severity, diagErr.Pos, diagErr.Code, diagErr.Message)
		return self
	}
	c.decl = decl
	c.Elements = elements
	return self
}

// findChildrenDeclarations walks c.Elements left to right: the first
// element is resolved via the enclosing scope chain (Parent().FindDeclaration),
// every subsequent element via GetInnerDeclaration on the previously
// resolved declaration. Resolving all the way down to a VArgsLength
// collapses whatever chain got there (`vargs.length`, or an aliased path
// to the same thing) down to the single synthesized name `@vargs_len`,
// matching the special-case in the implementation this is grounded on:
// vargs.length has no real struct behind it, so the chain that reached it
// is rewritten rather than kept around as dead path elements.
func (c *CompoundIdentifier) findChildrenDeclarations() (DeclarationBase, []string, *diag.Diagnostic) {
	if len(c.Elements) == 0 {
		return nil, nil, notFoundf("empty identifier")
	}
	var cur DeclarationBase
	decl, d := c.Parent().FindDeclaration(c.Elements[0])
	if d != nil {
		return nil, nil, d
	}
	if decl == nil {
		return nil, nil, diag.New(diag.Error, c.Position(), diag.ResUndeclared,
			fmt.Sprintf("use of undeclared identifier %s", c.Elements[0]))
	}
	cur = decl

	for _, elem := range c.Elements[1:] {
		if _, ok := cur.(*VArgsLength); ok {
			return cur, []string{"@vargs_len"}, nil
		}
		next, d := cur.GetInnerDeclaration(elem)
		if d != nil {
			return nil, nil, d
		}
		if next == nil {
			return nil, nil, diag.New(diag.Error, c.Position(), diag.ResUndeclared,
				fmt.Sprintf("use of undeclared identifier %s", elem))
		}
		cur = next
	}
	if _, ok := cur.(*VArgsLength); ok {
		return cur, []string{"@vargs_len"}, nil
	}
	return cur, c.Elements, nil
}

func (c *CompoundIdentifier) Typ() Type {
	if c.decl == nil {
		return NewBuiltinType("@any") // unresolved: fall back to any
	}
	if t, ok := c.decl.(Type); ok {
		return t.Dup()
	}
	if vd, ok := c.decl.(*VariableDeclaration); ok {
		return vd.Typ()
	}
	return nil
}

func (c *CompoundIdentifier) AutoCast(target Type) Value { return autoCastDefault(c, target) }

// TemplatedIdentifier is a parametrized type reference such as
// `func<@any, @size>`: a base name plus a list of Type arguments.
type TemplatedIdentifier struct {
	symBase
	Base2 string
	Args  []Type
}

func (t *TemplatedIdentifier) Name() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.Name()
	}
	return t.Base2 + "<" + strings.Join(parts, ", ") + ">"
}

// Build parents and builds every type argument, then resolves Base2
// against the enclosing scope chain (e.g. "func" resolving to the
// `@func<>` builtin's FunctionType) and records it as this identifier's
// decl, so Decl()/IsType()/Canonical() — all promoted from symBase — work
// the same way they do for a plain Identifier.
func (t *TemplatedIdentifier) Build(self Node) Node {
	for i, a := range t.Args {
		a.SetParent(self)
		if built, ok := a.Build(a).(Type); ok {
			t.Args[i] = built
		}
	}
	decl, d := t.Parent().FindDeclaration(t.Base2)
	if d != nil {
		t.Fail(d.Severity, d.Pos, d.Code, d.Message)
		return self
	}
	if decl == nil {
		t.Fail(diag.Error, t.Position(), diag.ResUndeclared,
			fmt.Sprintf("use of undeclared identifier %s", t.Base2))
		return self
	}
	t.decl = decl
	return self
}

func (t *TemplatedIdentifier) Typ() Type {
	if ty, ok := t.decl.(Type); ok {
		return ty.Dup()
	}
	return nil
}

func (t *TemplatedIdentifier) RefOffset() int       { return 0 }
func (t *TemplatedIdentifier) SetRefOffset(int)     {} // names a type, never relocated
func (t *TemplatedIdentifier) AutoCast(target Type) Value { return autoCastDefault(t, target) }

// Container wraps a single child Node, the shared shape behind Array,
// Reference, and ArrayAccess: a symbol whose meaning is defined in terms
// of exactly one contained symbol.
type Container struct {
	symBase
	Child Symbol
}

// InnerSymbol returns the wrapped child.
func (c *Container) InnerSymbol() Symbol { return c.Child }

// GetChild and SetChild expose the wrapped symbol generically across
// every Container-embedding type (Array, Reference, ArrayAccess and their
// own subtypes), letting FunctionCall.reorder walk and rewrite a chain of
// them without a type switch per level.
func (c *Container) GetChild() Symbol  { return c.Child }
func (c *Container) SetChild(s Symbol) { c.Child = s }

func (c *Container) Build(self Node) Node {
	c.Child.SetParent(self)
	built := c.Child.Build(c.Child)
	if sym, ok := built.(Symbol); ok {
		c.Child = sym
	}
	return self
}

// Array is a Container wrapping a type or value with an array
// subscript, e.g. `@uint8[4]`. AnyMemoryOffset is unconditionally 0: an
// array value, once read out of an `any`, always decays to a pointer in
// exactly one step regardless of what its element type itself costs. This
// is the documented asymmetry against ArrayType, which delegates to its
// child instead.
type Array struct {
	Container
	Length Value
}

func (a *Array) Name() string { return a.Child.Name() + "[]" }

func (a *Array) Typ() Type {
	if t, ok := a.Child.(Type); ok {
		return &ArrayType{Elem: t}
	}
	return &ArrayType{Elem: a.Child.Typ()}
}

func (a *Array) RefOffset() int       { return 1 }
func (a *Array) SetRefOffset(int)     {} // array shape is fixed, never relocated
func (a *Array) AnyMemoryOffset() int { return 0 }
func (a *Array) IsType() bool         { return true }
func (a *Array) AutoCast(target Type) Value { return autoCastDefault(a, target) }

// Reference is a Container wrapping `T@` (reference to a type) or
// `&x` (address of a value); Build dispatches between the two behaviours
// depending on whether the wrapped child denotes a type or a value.
type Reference struct {
	Container
}

func (r *Reference) Build(self Node) Node {
	r.Container.Build(self)
	if r.Child.IsType() {
		return (&ReferenceToType{Reference: *r}).Build(self)
	}
	return (&ReferenceToValue{Reference: *r}).Build(self)
}

func (r *Reference) Name() string { return r.Child.Name() + "@" }
func (r *Reference) Typ() Type {
	if t, ok := r.Child.(Type); ok {
		return &ReferenceType{Inner: t}
	}
	return &ReferenceType{Inner: r.Child.Typ()}
}
func (r *Reference) RefOffset() int       { return r.Child.RefOffset() + 1 }
func (r *Reference) SetRefOffset(n int)   { r.Child.SetRefOffset(n - 1) }
func (r *Reference) AutoCast(target Type) Value { return autoCastDefault(r, target) }

// ReferenceToValue is `&x`: taking the address of a value decrements its
// declared RefOffset by one (one fewer dereference is needed once you
// already hold the address).
type ReferenceToValue struct {
	Reference
}

func (r *ReferenceToValue) Build(self Node) Node { return self }
func (r *ReferenceToValue) RefOffset() int        { return r.Child.RefOffset() - 1 }
func (r *ReferenceToValue) SetRefOffset(n int)    { r.Child.SetRefOffset(n + 1) }
func (r *ReferenceToValue) AutoCast(target Type) Value { return r.Child.AutoCast(target) }

// ReferenceToType is `T@`: one more dereference than the wrapped type.
type ReferenceToType struct {
	Reference
}

func (r *ReferenceToType) Build(self Node) Node { return self }
func (r *ReferenceToType) RefOffset() int        { return r.Child.RefOffset() + 1 }
func (r *ReferenceToType) SetRefOffset(n int)    { r.Child.SetRefOffset(n - 1) }
func (r *ReferenceToType) IsType() bool          { return true }

// ArrayAccess is `arr[i]`: a Container around the array symbol plus
// an index expression, whose type is the element type of the array.
type ArrayAccess struct {
	Container
	Index Value
}

func (a *ArrayAccess) Name() string { return a.Child.Name() + "[]" }
func (a *ArrayAccess) Typ() Type {
	t := a.Child.Typ()
	if at, ok := t.(*ArrayType); ok {
		return at.Elem
	}
	if rt, ok := t.(*ReferenceType); ok {
		return rt.Inner
	}
	return t
}
func (a *ArrayAccess) RefOffset() int       { return a.Child.RefOffset() - 1 }
func (a *ArrayAccess) SetRefOffset(n int)   { a.Child.SetRefOffset(n + 1) }
func (a *ArrayAccess) AutoCast(target Type) Value { return autoCastDefault(a, target) }

// Alias is a DeclarationBase standing in for another one under a new
// name, used for renamed imports (`import foo as bar`). Every lookup
// property delegates to the source declaration except Name, which
// reports the alias's own name.
type Alias struct {
	symBase
	AliasName string
	src       DeclarationBase
}

func NewAlias(name string, src DeclarationBase) *Alias {
	return &Alias{AliasName: name, src: src}
}

func (a *Alias) Src() DeclarationBase { return a.src }
func (a *Alias) Name() string         { return a.AliasName }
func (a *Alias) ResolveAlias() DeclarationBase {
	if a.src == nil {
		return a
	}
	return a.src.ResolveAlias()
}
func (a *Alias) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == a.AliasName {
		return a, nil
	}
	return nil, nil
}
func (a *Alias) GetInnerDeclaration(name string) (DeclarationBase, *diag.Diagnostic) {
	return a.src.GetInnerDeclaration(name)
}
func (a *Alias) IsType() bool {
	_, ok := a.src.(Type)
	return ok
}
func (a *Alias) Typ() Type {
	if t, ok := a.src.(Type); ok {
		return t.Dup()
	}
	return nil
}
func (a *Alias) RefOffset() int {
	if t, ok := a.src.(Type); ok {
		return t.RefOffset()
	}
	return 0
}
func (a *Alias) SetRefOffset(n int) {
	if t, ok := a.src.(Type); ok {
		t.SetRefOffset(n)
	}
}
func (a *Alias) AutoCast(target Type) Value { return autoCastDefault(a, target) }
