package ast

import (
	"github.com/ehlit/ehlitc/internal/diag"
)

// declBase centralises the plumbing every concrete Declaration shares:
// its own name, qualifiers, and the default GetInnerDeclaration that most
// declarations never need to override.
type declBase struct {
	Base
	DeclName string
	Quals    Qualifier
	Kind     DeclKind
}

func (d *declBase) Name() string                     { return d.DeclName }
func (d *declBase) IsPrivate() bool                  { return d.Quals.IsPrivate() }
func (d *declBase) ResolveAlias() DeclarationBase    { return nil } // set per concrete type below
func (d *declBase) GetInnerDeclaration(name string) (DeclarationBase, *diag.Diagnostic) {
	return nil, notFoundf("no inner declaration %s", name)
}

// VariableDeclaration is `T name` or `T name = expr`, as a standalone
// statement, a function parameter, or a struct/union field.
type VariableDeclaration struct {
	declBase
	TypeSrc Type
	Value   Value // nil for a bare declaration with no initializer
}

func NewVariableDeclaration(name string, typ Type, quals Qualifier) *VariableDeclaration {
	return &VariableDeclaration{declBase: declBase{DeclName: name, Quals: quals}, TypeSrc: typ}
}

func (v *VariableDeclaration) ResolveAlias() DeclarationBase { return v }
func (v *VariableDeclaration) Typ() Type                     { return v.TypeSrc }

func (v *VariableDeclaration) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == v.DeclName {
		return v, nil
	}
	return nil, nil
}

func (v *VariableDeclaration) Build(self Node) Node {
	v.Declare(v)
	if v.Value != nil {
		v.Value.SetParent(self)
		built := v.Value.Build(v.Value)
		if val, ok := built.(Value); ok {
			v.Value = val.AutoCast(v.TypeSrc)
		}
	}
	return self
}

// FunctionDeclaration is a prototype with no body: `func name(args) ret;`.
// A C header import produces these exclusively, never a FunctionDefinition.
type FunctionDeclaration struct {
	declBase
	Params []*VariableDeclaration
	Ret    Type
	Typ_   *FunctionType
}

func NewFunctionDeclaration(name string, params []*VariableDeclaration, ret Type, variadic bool, variadicType Type, quals Qualifier) *FunctionDeclaration {
	args := make([]Type, len(params))
	for i, p := range params {
		args[i] = p.TypeSrc
	}
	return &FunctionDeclaration{
		declBase: declBase{DeclName: name, Quals: quals},
		Params:   params,
		Ret:      ret,
		Typ_:     &FunctionType{Args: args, Ret: ret, IsVariadic: variadic, VariadicType: variadicType},
	}
}

func (f *FunctionDeclaration) ResolveAlias() DeclarationBase { return f }
func (f *FunctionDeclaration) Typ() Type                     { return f.Typ_ }

func (f *FunctionDeclaration) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == f.DeclName {
		return f, nil
	}
	return nil, nil
}

func (f *FunctionDeclaration) Build(self Node) Node {
	f.Declare(f)
	return self
}

// FunctionDefinition is a FunctionDeclaration with a body: a FlowScope
// over its statements. A definition found while building the contents of
// an Import is never parsed for its body — the implementation this is
// grounded on skips body-parsing entirely in that case, since an imported
// module's callers only ever need its signature.
type FunctionDefinition struct {
	FunctionDeclaration
	FlowScope
	counter int
}

func NewFunctionDefinition(decl *FunctionDeclaration, body []Node) *FunctionDefinition {
	fd := &FunctionDefinition{FunctionDeclaration: *decl}
	fd.Body = body
	return fd
}

func (f *FunctionDefinition) ResolveAlias() DeclarationBase { return f }

// FunctionDefinition embeds both FunctionDeclaration and FlowScope, each
// of which carries its own Base; these forward explicitly to resolve the
// ambiguity Go would otherwise report on the promoted selector.
func (f *FunctionDefinition) Position() Pos    { return f.FlowScope.Position() }
func (f *FunctionDefinition) Parent() Node     { return f.FlowScope.Parent() }
func (f *FunctionDefinition) SetParent(p Node) { f.FlowScope.SetParent(p) }
func (f *FunctionDefinition) Fail(sev diag.Severity, pos Pos, code, msg string) {
	f.FlowScope.Fail(sev, pos, code, msg)
}

// GetDeclaration exposes the definition under its own function name,
// overriding explicitly since FunctionDeclaration and FlowScope both carry
// a Base-level default at the same embedding depth.
func (f *FunctionDefinition) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == f.DeclName {
		return f, nil
	}
	return nil, nil
}

func (f *FunctionDefinition) Build(self Node) Node {
	if f.Parent() != nil {
		f.Parent().Declare(f)
	}
	if IsChildOf[*Import](f) {
		return self
	}
	for _, p := range f.Params {
		p.SetParent(self)
		f.ScopeHolder.Declare(p)
	}
	return f.FlowScope.Build(self)
}

// FindDeclaration special-cases `vargs`: inside a variadic function it
// resolves to a synthetic VArgs declaration typed as an array of the
// function's variadic element type; inside a non-variadic function it
// fails with a dedicated diagnostic instead of falling through to
// "undeclared identifier".
func (f *FunctionDefinition) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == "vargs" {
		if !f.Typ_.IsVariadic {
			return nil, diag.New(diag.Error, f.Position(), diag.ResVargs,
				"use of vargs in a non variadic function")
		}
		return NewVArgs(f.Typ_.VariadicType), nil
	}
	return f.FlowScope.FindDeclaration(sym)
}

func (f *FunctionDefinition) GenerateVarName() string {
	f.counter++
	return genName("fun", f.counter)
}

// VArgs is the synthetic declaration `vargs` resolves to inside a
// variadic function body: an array of the function's variadic element
// type, with a single inner declaration `length` giving the number of
// trailing arguments actually passed.
type VArgs struct {
	declBase
	elemType Type
}

func NewVArgs(elemType Type) *VArgs {
	return &VArgs{declBase: declBase{DeclName: "vargs"}, elemType: elemType}
}

func (v *VArgs) ResolveAlias() DeclarationBase { return v }
func (v *VArgs) Typ() Type                     { return &ArrayType{Elem: v.elemType} }

func (v *VArgs) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == v.DeclName {
		return v, nil
	}
	return nil, nil
}

func (v *VArgs) GetInnerDeclaration(name string) (DeclarationBase, *diag.Diagnostic) {
	if name == "length" {
		return NewVArgsLength(), nil
	}
	return nil, notFoundf("no member named %s in vargs", name)
}

// VArgsLength is the synthetic declaration `vargs.length` resolves to,
// typed `@size`.
type VArgsLength struct {
	declBase
}

func NewVArgsLength() *VArgsLength {
	return &VArgsLength{declBase: declBase{DeclName: "length"}}
}

func (v *VArgsLength) ResolveAlias() DeclarationBase { return v }
func (v *VArgsLength) Typ() Type                     { return NewBuiltinType("@size") }

func (v *VArgsLength) GetDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	if sym == v.DeclName {
		return v, nil
	}
	return nil, nil
}
