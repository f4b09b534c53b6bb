package ast

import (
	"fmt"

	"github.com/ehlit/ehlitc/internal/diag"
)

// Type is a DeclarationBase specialised to represent a type rather than a
// value: it additionally knows how many reference steps separate it from
// the `any` representation (AnyMemoryOffset), how many reference steps it
// sits at within its own declaration chain (RefOffset), and how to
// reconstruct itself out of an `any` value (FromAny).
type Type interface {
	DeclarationBase
	// RefOffset is signed: positive N means N dereferences are needed to
	// reach a value of this type from its declared storage, -1 means
	// address-of, 0 means the value is used as-is.
	RefOffset() int
	// SetRefOffset overrides the computed RefOffset, used by the
	// any-coercion engine (C4) to record the dereference delta a use site
	// actually needs. A type whose RefOffset is derived from a wrapped
	// inner type delegates the write to that inner type instead of storing
	// it locally.
	SetRefOffset(int)
	// Cast is the symbol tree the any-coercion engine built to get from
	// this type's declared shape to the shape actually read out of (or
	// written into) an `any`; nil if no any-boundary crossing occurred.
	Cast() Symbol
	SetCast(Symbol)
	// AnyMemoryOffset is how many reference steps this type's `any`
	// representation already "spends" relative to a plain value. Builtins
	// other than @str spend one (they are boxed behind a pointer inside
	// `any`); @str spends none. This is a per-type constant, not derived
	// from RefOffset.
	AnyMemoryOffset() int
	// FromAny builds the Type that results from reading a value of this
	// type back out of an `any`.
	FromAny() Type
	// Dup returns an independent copy, since the same declared Type value
	// gets reused at every use site and RefOffset is mutated locally by
	// Reference handling.
	Dup() Type
}

// typeBase centralises the default AnyMemoryOffset == 1 shared by every
// Type that does not override it (BuiltinType for @str, ArrayType and
// ReferenceType do).
type typeBase struct {
	Base
	refOffset int
	cast      Symbol
}

func (t *typeBase) RefOffset() int       { return t.refOffset }
func (t *typeBase) SetRefOffset(n int)   { t.refOffset = n }
func (t *typeBase) Cast() Symbol         { return t.cast }
func (t *typeBase) SetCast(s Symbol)     { t.cast = s }
func (t *typeBase) AnyMemoryOffset() int { return 1 }
func (t *typeBase) GetInnerDeclaration(name string) (DeclarationBase, *diag.Diagnostic) {
	return nil, notFoundf("no inner declaration %s", name)
}

// BuiltinNames enumerates every builtin type name the AST root predeclares
// at the start of every build, mirroring the fixed builtin list the
// implementation this is grounded on installs before parsing begins.
var BuiltinNames = []string{
	"@any", "@bool", "@char", "@str", "@size",
	"@int", "@int8", "@int16", "@int32", "@int64",
	"@uint", "@uint8", "@uint16", "@uint32", "@uint64",
	"@float", "@double", "@decimal", "@void",
}

// BuiltinType represents one of the fixed set of primitive types the
// language predeclares. @str has @char as its child, so that `str[i]`
// and pointer arithmetic against a string decay consistently; it is also
// the one builtin whose `any` representation is unboxed.
type BuiltinType struct {
	typeBase
	name string
}

func NewBuiltinType(name string) *BuiltinType {
	b := &BuiltinType{name: name}
	return b
}

func (b *BuiltinType) Name() string { return b.name }

func (b *BuiltinType) ResolveAlias() DeclarationBase { return b }

func (b *BuiltinType) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == b.name {
		return b, nil
	}
	return nil, nil
}

// A Type value also satisfies Symbol directly, so it can be wrapped by
// Container (e.g. the element type of an Array literal `@uint32[4]`)
// without a separate adapter type.
func (b *BuiltinType) IsType() bool                { return true }
func (b *BuiltinType) Decl() DeclarationBase        { return b }
func (b *BuiltinType) Canonical() DeclarationBase   { return b }
func (b *BuiltinType) Typ() Type                    { return b }
func (b *BuiltinType) AutoCast(target Type) Value   { return autoCastDefault(b, target) }

func (b *BuiltinType) AnyMemoryOffset() int {
	if b.name == "@str" {
		return 0
	}
	return 1
}

// Child returns @char for @str and nil for every other builtin: @str is
// modelled as a reference-to-@char so that indexing it produces a @char.
func (b *BuiltinType) Child() *BuiltinType {
	if b.name == "@str" {
		return NewBuiltinType("@char")
	}
	return nil
}

// FromAny reconstructs the type as held inside an `any`: every builtin
// except @str comes back as a reference to itself, since its value lives
// behind a pointer inside the `any`'s storage; @str comes back unboxed.
func (b *BuiltinType) FromAny() Type {
	if b.name == "@str" {
		return NewBuiltinType("@str")
	}
	return &ReferenceType{Inner: NewBuiltinType(b.name)}
}

func (b *BuiltinType) Dup() Type {
	d := NewBuiltinType(b.name)
	d.refOffset = b.refOffset
	return d
}

func (b *BuiltinType) Equal(other Type) bool {
	ob, ok := other.(*BuiltinType)
	return ok && ob.name == b.name
}

// ArrayType is the type of a fixed-size array declaration: `T arr[N]`.
// Its AnyMemoryOffset delegates to the element type, so an ArrayType pays
// whatever boxing cost its element type pays. This asymmetry against
// Array's AnyMemoryOffset (which reports 0 unconditionally) is documented,
// not a bug.
type ArrayType struct {
	typeBase
	Elem   Type
	Length int
}

func (a *ArrayType) Name() string { return "@array" }

func (a *ArrayType) ResolveAlias() DeclarationBase { return a }

func (a *ArrayType) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	return nil, nil // array types are structural, never looked up by name
}

func (a *ArrayType) IsType() bool              { return true }
func (a *ArrayType) Decl() DeclarationBase      { return a }
func (a *ArrayType) Canonical() DeclarationBase { return a }
func (a *ArrayType) Typ() Type                  { return a }
func (a *ArrayType) AutoCast(target Type) Value { return autoCastDefault(a, target) }

func (a *ArrayType) RefOffset() int        { return a.Elem.RefOffset() + 1 }
func (a *ArrayType) SetRefOffset(n int)    { a.Elem.SetRefOffset(n - 1) }

func (a *ArrayType) AnyMemoryOffset() int { return a.Elem.AnyMemoryOffset() }

func (a *ArrayType) FromAny() Type {
	return &ArrayType{Elem: a.Elem.FromAny(), Length: a.Length}
}

func (a *ArrayType) Dup() Type {
	return &ArrayType{Elem: a.Elem.Dup(), Length: a.Length}
}

// ReferenceType is the type of a pointer declaration: `T@ p`. RefOffset
// and AnyMemoryOffset both delegate to Inner, one level deeper, since a
// reference to T is one more dereference away from a bare T than T itself.
type ReferenceType struct {
	typeBase
	Inner Type
}

func (r *ReferenceType) Name() string { return "@ref" }

func (r *ReferenceType) ResolveAlias() DeclarationBase { return r }

func (r *ReferenceType) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	return nil, nil // reference types are structural, never looked up by name
}

func (r *ReferenceType) IsType() bool              { return true }
func (r *ReferenceType) Decl() DeclarationBase      { return r }
func (r *ReferenceType) Canonical() DeclarationBase { return r }
func (r *ReferenceType) Typ() Type                  { return r }
func (r *ReferenceType) AutoCast(target Type) Value { return autoCastDefault(r, target) }

func (r *ReferenceType) RefOffset() int     { return r.Inner.RefOffset() + 1 }
func (r *ReferenceType) SetRefOffset(n int) { r.Inner.SetRefOffset(n - 1) }

func (r *ReferenceType) AnyMemoryOffset() int { return r.Inner.AnyMemoryOffset() }

func (r *ReferenceType) FromAny() Type {
	return &ReferenceType{Inner: r.Inner.FromAny()}
}

func (r *ReferenceType) Dup() Type {
	return &ReferenceType{Inner: r.Inner.Dup()}
}

// FunctionType is the type of a function declaration or a value bound to
// one: its parameter types, return type, and whether it accepts a trailing
// variadic tail (C declarations included; only native ones get lowered).
type FunctionType struct {
	typeBase
	Args         []Type
	Ret          Type
	IsVariadic   bool
	VariadicType Type   // element type of the synthesized vargs array, nil if not variadic
	NameOverride string // non-empty for the interned `@func<>` builtin; every other FunctionType reports "@func"
}

func (f *FunctionType) Name() string {
	if f.NameOverride != "" {
		return f.NameOverride
	}
	return "@func"
}

func (f *FunctionType) ResolveAlias() DeclarationBase { return f }

func (f *FunctionType) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == f.Name() {
		return f, nil
	}
	return nil, nil
}

func (f *FunctionType) IsType() bool              { return true }
func (f *FunctionType) Decl() DeclarationBase      { return f }
func (f *FunctionType) Canonical() DeclarationBase { return f }
func (f *FunctionType) Typ() Type                  { return f }
func (f *FunctionType) AutoCast(target Type) Value { return f }

// FromAny returns the function type itself, unchanged: a function value
// read out of `any` gets no extra reference layer.
func (f *FunctionType) FromAny() Type {
	return f
}

func (f *FunctionType) Dup() Type {
	args := make([]Type, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.Dup()
	}
	return &FunctionType{Args: args, Ret: f.Ret, IsVariadic: f.IsVariadic, VariadicType: f.VariadicType, NameOverride: f.NameOverride}
}

func (f *FunctionType) String() string {
	return fmt.Sprintf("func(%d args)->%v", len(f.Args), f.Ret)
}

// ContainerStructure is the shared type for struct and union declarations:
// a named scope of fields, either fully defined (Fields != nil) or merely
// forward-declared (Fields == nil), in which case any field access fails
// with "accessing incomplete struct/union NAME" rather than "undeclared".
type ContainerStructure struct {
	UnorderedScope
	refOffset int
	cast      Symbol
	Kind      string // "struct" or "union"
	TypeName  string
	Fields    []*VariableDeclaration // nil until the body is parsed
}

func (c *ContainerStructure) Name() string { return c.TypeName }

func (c *ContainerStructure) RefOffset() int       { return c.refOffset }
func (c *ContainerStructure) SetRefOffset(n int)   { c.refOffset = n }
func (c *ContainerStructure) Cast() Symbol         { return c.cast }
func (c *ContainerStructure) SetCast(s Symbol)     { c.cast = s }
func (c *ContainerStructure) AnyMemoryOffset() int { return 1 }

func (c *ContainerStructure) ResolveAlias() DeclarationBase { return c }

func (c *ContainerStructure) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == c.TypeName {
		return c, nil
	}
	return nil, nil
}

func (c *ContainerStructure) IsType() bool              { return true }
func (c *ContainerStructure) Decl() DeclarationBase      { return c }
func (c *ContainerStructure) Canonical() DeclarationBase { return c }
func (c *ContainerStructure) Typ() Type                  { return c }
func (c *ContainerStructure) AutoCast(target Type) Value { return autoCastDefault(c, target) }

func (c *ContainerStructure) FromAny() Type {
	return &ReferenceType{Inner: c}
}

func (c *ContainerStructure) Dup() Type {
	return c // struct/union identity is nominal; duplication shares fields
}

func (c *ContainerStructure) GetInnerDeclaration(name string) (DeclarationBase, *diag.Diagnostic) {
	if c.Fields == nil {
		return nil, diag.New(diag.Error, c.Position(), diag.ResIncomplete,
			fmt.Sprintf("accessing incomplete %s %s", c.Kind, c.TypeName))
	}
	for _, f := range c.Fields {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, notFoundf("no member named %s in %s %s", name, c.Kind, c.TypeName)
}
