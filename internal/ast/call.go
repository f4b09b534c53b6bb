package ast

import (
	"fmt"

	"github.com/ehlit/ehlitc/internal/diag"
)

// FunctionCall is `callee(args...)`. Build does four things in order:
//  1. if callee names a type, rewrite the whole node to a Cast instead —
//     `(T)(x)` and `T(x)` are the same call shape at parse time;
//  2. build every argument;
//  3. reorder so that a call threaded through a chain of Container
//     symbols (`(&x)->m(args)`) ends up with the call innermost, next to
//     the symbol it actually calls;
//  4. check argument count and auto-cast every argument against the
//     callee's declared parameter types, lowering a variadic tail into a
//     synthesized local array first.
type FunctionCall struct {
	Base
	Callee Symbol
	Args   []Value
}

func (c *FunctionCall) Typ() Type {
	ft, ok := c.Callee.Canonical().(*FunctionDeclaration)
	if !ok {
		return nil
	}
	return ft.Ret
}
func (c *FunctionCall) RefOffset() int   { return 0 }
func (c *FunctionCall) SetRefOffset(int) {} // a call's result is used as-is; wrapping happens via the caller's own AutoCast

// A FunctionCall also satisfies Symbol, purely so reorder can rotate it
// into a Container's Child slot when a call is threaded through a
// Container chain (e.g. a call made through a dereferenced value): it
// never names a type and has no declaration of its own.
func (c *FunctionCall) Cast() Symbol              { return nil }
func (c *FunctionCall) SetCast(Symbol)            {}
func (c *FunctionCall) IsType() bool              { return false }
func (c *FunctionCall) Decl() DeclarationBase      { return nil }
func (c *FunctionCall) Canonical() DeclarationBase { return nil }
func (c *FunctionCall) Name() string               { return c.Callee.Name() }
func (c *FunctionCall) AutoCast(target Type) Value { return autoCastDefault(c, target) }

func (c *FunctionCall) Build(self Node) Node {
	c.Callee.SetParent(self)
	calleeBuilt := c.Callee.Build(c.Callee)
	sym, ok := calleeBuilt.(Symbol)
	if !ok {
		c.Fail(diag.Error, c.Position(), diag.ShpNotCallable, "call target is not a symbol")
		return self
	}
	c.Callee = sym

	if c.Callee.IsType() {
		return (&Cast{Sym: c.Callee, Operand: c.singleArgOrFail()}).Build(self)
	}

	for i, a := range c.Args {
		a.SetParent(self)
		if built, ok := a.Build(a).(Value); ok {
			c.Args[i] = built
		}
	}

	root := c.reorder(self)

	decl, params, kind, fnType, ok := resolveCallable(c.Callee.Canonical())
	if !ok {
		c.Fail(diag.Error, c.Position(), diag.ShpNotCallable,
			fmt.Sprintf("calling non function type %s", c.Callee.Name()))
		return root
	}
	_ = decl

	c.checkArgs(params, fnType)
	c.autoCastArgs(self, fnType, kind)
	return root
}

// resolveCallable extracts the parameter declarations, FunctionType, and
// declaration kind a call target actually calls through, looking past a
// FunctionDefinition's embedded FunctionDeclaration.
func resolveCallable(canon DeclarationBase) (DeclarationBase, []*VariableDeclaration, DeclKind, *FunctionType, bool) {
	switch d := canon.(type) {
	case *FunctionDefinition:
		return d, d.Params, d.Kind, d.Typ_, true
	case *FunctionDeclaration:
		return d, d.Params, d.Kind, d.Typ_, true
	default:
		return nil, nil, DeclEhlit, nil, false
	}
}

func (c *FunctionCall) singleArgOrFail() Value {
	switch len(c.Args) {
	case 0:
		c.Fail(diag.Error, c.Position(), diag.ShpCastArity, "cast requires a value")
		return nil
	case 1:
		return c.Args[0]
	default:
		c.Fail(diag.Error, c.Position(), diag.ShpCastArity, "too many values for cast expression")
		return c.Args[0]
	}
}

// container is implemented by every Container-embedding symbol (Array,
// Reference, ArrayAccess and their own subtypes): the shape reorder walks
// to rotate a call threaded through a chain of them.
type container interface {
	Symbol
	GetChild() Symbol
	SetChild(Symbol)
}

// reorder rotates a call threaded through a chain of Container-like
// callees — e.g. a call made through a dereferenced or indexed value,
// `(*fn)(args)` or `fns[i](args)` — so that the FunctionCall ends up
// adjacent to the innermost symbol it actually calls, instead of sitting
// behind the whole container chain. self becomes the new Child at every
// level walked, and the outermost container in the chain, now re-parented
// to wherever the call itself used to sit, is returned as the new tree
// root in the call's place — ported directly from the original's loop,
// which walks every nested Container level, not just one.
func (c *FunctionCall) reorder(self Node) Node {
	callSym, ok := self.(Symbol)
	if !ok {
		return self
	}

	var outer Symbol
	for {
		cont, ok := c.Callee.(container)
		if !ok {
			break
		}
		if outer == nil {
			outer = cont
		}
		child := cont.GetChild()
		c.Callee = child
		child.SetParent(self)
		cont.SetChild(callSym)
		cont.SetParent(self.Parent())
		self.SetParent(cont)
	}
	if outer == nil {
		return self
	}
	// Avoid the innermost symbol writing ref offsets that would conflict
	// with the call's own.
	c.Callee.SetRefOffset(0)
	return outer
}

// checkArgs fills in missing trailing arguments from the callee's
// declared defaults, reading each unfilled parameter's own initializer
// expression in turn, then warns — non-fatally — on a remaining mismatch,
// matching the implementation this is grounded on treating arity
// mismatches as warnings rather than hard errors.
func (c *FunctionCall) checkArgs(params []*VariableDeclaration, typ *FunctionType) {
	for i := 0; i < len(typ.Args); i++ {
		if i < len(c.Args) {
			continue
		}
		if i >= len(params) || params[i].Value == nil {
			break
		}
		c.Args = append(c.Args, params[i].Value)
	}

	want := len(typ.Args)
	got := len(c.Args)
	if typ.IsVariadic {
		if got < want {
			c.Fail(diag.Warning, c.Position(), diag.AriMismatch,
				fmt.Sprintf("not enough arguments for call to %s: expected at least %d, got %d", c.Callee.Name(), want, got))
		}
		return
	}
	if got < want {
		c.Fail(diag.Warning, c.Position(), diag.AriMismatch,
			fmt.Sprintf("not enough arguments for call to %s: expected %d, got %d", c.Callee.Name(), want, got))
	} else if got > want {
		c.Fail(diag.Warning, c.Position(), diag.AriMismatch,
			fmt.Sprintf("too many arguments for call to %s: expected %d, got %d", c.Callee.Name(), want, got))
	}
}

// autoCastArgs auto-casts every positional argument against its declared
// parameter type. When typ is variadic and the callee is an Ehlit (not C)
// declaration, the trailing actuals beyond the fixed parameter list are
// lowered: a local array holding them is materialized as a statement
// inserted immediately before the call's own enclosing statement via
// DoBefore, and the call's actual argument list is replaced with the
// fixed arguments followed by the count and a reference to the generated
// array. A C declaration's variadic tail is passed through unchanged,
// since C's own calling convention handles it natively.
func (c *FunctionCall) autoCastArgs(self Node, typ *FunctionType, kind DeclKind) {
	fixed := len(typ.Args)
	for i := 0; i < fixed && i < len(c.Args); i++ {
		c.Args[i] = c.Args[i].AutoCast(typ.Args[i])
	}
	if !typ.IsVariadic || kind == DeclC || len(c.Args) <= fixed {
		return
	}

	vargs := append([]Value(nil), c.Args[fixed:]...)
	for i, v := range vargs {
		vargs[i] = v.AutoCast(typ.VariadicType)
	}

	name := c.GenerateVarName()
	arrDecl := NewVariableDeclaration(name, &ArrayType{Elem: typ.VariadicType, Length: len(vargs)}, QualifierNone)
	arrDecl.Value = NewInitializationList(vargs)
	stmt := NewStatement(arrDecl)

	// Any FlowScope-embedding node (FunctionDefinition, Condition,
	// SwitchCaseBody) is the scope to insert into, not only a bare FlowScope.
	type flowScope interface {
		Node
		DoBefore(self Node, do Node, before Node)
	}
	if scope, ok := ParentOfType[flowScope](self); ok {
		scope.DoBefore(scope, stmt, enclosingStatement(self))
	}

	c.Args = append(append([]Value{}, c.Args[:fixed]...),
		NewNumber(fmt.Sprintf("%d", len(vargs))),
		&Reference{Container: Container{Child: NewIdentifier(name)}},
	)
}

// enclosingStatement finds the nearest ancestor *Statement of n, the unit
// DoBefore inserts ahead of.
func enclosingStatement(n Node) Node {
	if s, ok := ParentOfType[*Statement](n); ok {
		return s
	}
	return n.Parent()
}
