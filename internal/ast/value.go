package ast

import (
	"fmt"

	"github.com/ehlit/ehlitc/internal/diag"
)

// Value is any node that produces a typed value: literals, identifiers,
// expressions, calls, casts. AutoCast is the entry point to the
// any-coercion engine (C4): given the type context the value is being
// used in, it returns a (possibly wrapped) Value of that type, or itself
// unchanged if no coercion is needed.
type Value interface {
	Node
	Typ() Type
	RefOffset() int
	// SetRefOffset overrides the computed RefOffset, written by the
	// any-coercion engine once it has decided how many reference or
	// dereference steps a use site needs.
	SetRefOffset(int)
	// Cast is the symbol tree the any-coercion engine built to read this
	// value's type back out of an `any`; nil if no any-boundary crossing
	// applies to this value.
	Cast() Symbol
	SetCast(Symbol)
	AutoCast(target Type) Value
}

// autoCastDefault is the fallback AutoCast behaviour shared by every
// value whose own type already matches most contexts unchanged: delegate
// to the coercion engine's general rule instead of handling `any` on both
// sides by hand in each node type.
func autoCastDefault(v Value, target Type) Value {
	return AutoCast(v, target)
}

// literalBase centralises the embedding every constant-valued literal
// shares: fixed type, a mutable RefOffset/Cast slot the any-coercion
// engine writes through AutoCast.
type literalBase struct {
	Base
	typ       Type
	refOffset int
	cast      Symbol
}

func (l *literalBase) Typ() Type          { return l.typ }
func (l *literalBase) RefOffset() int     { return l.refOffset }
func (l *literalBase) SetRefOffset(n int) { l.refOffset = n }
func (l *literalBase) Cast() Symbol       { return l.cast }
func (l *literalBase) SetCast(s Symbol)   { l.cast = s }

// Number is an integer literal.
type Number struct {
	literalBase
	Raw string
}

func NewNumber(raw string) *Number {
	return &Number{literalBase: literalBase{typ: NewBuiltinType("@int")}, Raw: raw}
}
func (n *Number) AutoCast(target Type) Value { return autoCastDefault(n, target) }

// DecimalNumber is a floating point literal.
type DecimalNumber struct {
	literalBase
	Raw string
}

func NewDecimalNumber(raw string) *DecimalNumber {
	return &DecimalNumber{literalBase: literalBase{typ: NewBuiltinType("@decimal")}, Raw: raw}
}
func (d *DecimalNumber) AutoCast(target Type) Value { return autoCastDefault(d, target) }

// String is a string literal.
type String struct {
	literalBase
	Raw string
}

func NewString(raw string) *String {
	return &String{literalBase: literalBase{typ: NewBuiltinType("@str")}, Raw: raw}
}
func (s *String) AutoCast(target Type) Value { return autoCastDefault(s, target) }

// Char is a character literal.
type Char struct {
	literalBase
	Raw byte
}

func NewChar(raw byte) *Char {
	return &Char{literalBase: literalBase{typ: NewBuiltinType("@char")}, Raw: raw}
}
func (c *Char) AutoCast(target Type) Value { return autoCastDefault(c, target) }

// BoolValue is a boolean literal.
type BoolValue struct {
	literalBase
	Raw bool
}

func NewBoolValue(raw bool) *BoolValue {
	return &BoolValue{literalBase: literalBase{typ: NewBuiltinType("@bool")}, Raw: raw}
}
func (b *BoolValue) AutoCast(target Type) Value { return autoCastDefault(b, target) }

// NullValue is the `null` literal, usable anywhere a reference type is
// expected.
type NullValue struct{ literalBase }

func NewNullValue() *NullValue {
	return &NullValue{literalBase{typ: NewBuiltinType("@null")}}
}
func (n *NullValue) AutoCast(target Type) Value { return autoCastDefault(n, target) }

// Sizeof is the `sizeof(T)` builtin, always typed `@size`.
type Sizeof struct {
	literalBase
	Of Type
}

func NewSizeof(of Type) *Sizeof {
	return &Sizeof{literalBase: literalBase{typ: NewBuiltinType("@size")}, Of: of}
}
func (s *Sizeof) AutoCast(target Type) Value { return autoCastDefault(s, target) }

// Expression is a flat parenthesised or unparenthesised list of operands
// joined by operators; auto-casting an Expression broadcasts the cast to
// every contained operand rather than wrapping the whole expression, since
// the expression's own type is derived from its operands, not declared.
type Expression struct {
	Base
	Contents     []Value
	Parenthesised bool
}

func (e *Expression) Typ() Type {
	if len(e.Contents) == 0 {
		return nil
	}
	return e.Contents[0].Typ()
}
func (e *Expression) RefOffset() int {
	if len(e.Contents) == 0 {
		return 0
	}
	return e.Contents[0].RefOffset()
}
func (e *Expression) SetRefOffset(n int) {
	if len(e.Contents) > 0 {
		e.Contents[0].SetRefOffset(n)
	}
}
func (e *Expression) Cast() Symbol {
	if len(e.Contents) == 0 {
		return nil
	}
	return e.Contents[0].Cast()
}
func (e *Expression) SetCast(s Symbol) {
	if len(e.Contents) > 0 {
		e.Contents[0].SetCast(s)
	}
}

func (e *Expression) Build(self Node) Node {
	for i, c := range e.Contents {
		c.SetParent(self)
		if built, ok := c.Build(c).(Value); ok {
			e.Contents[i] = built
		}
	}
	return self
}

func (e *Expression) AutoCast(target Type) Value {
	for i, c := range e.Contents {
		e.Contents[i] = c.AutoCast(target)
	}
	return e
}

// InitializationList is a brace-enclosed list literal, `{1, 2, 3}`. Its
// target must be an ArrayType; AutoCast broadcasts the element type to
// every member.
type InitializationList struct {
	Base
	Contents  []Value
	refOffset int
	cast      Symbol
}

// NewInitializationList builds a list literal with RefOffset defaulted to
// 1, matching a brace initializer's inherently address-like shape; the
// any-coercion engine overrides it per use site via AutoCast.
func NewInitializationList(contents []Value) *InitializationList {
	return &InitializationList{Contents: contents, refOffset: 1}
}

func (i *InitializationList) Typ() Type {
	if len(i.Contents) == 0 {
		return &ArrayType{Elem: NewBuiltinType("@any"), Length: 0}
	}
	return &ArrayType{Elem: i.Contents[0].Typ(), Length: len(i.Contents)}
}
func (i *InitializationList) RefOffset() int     { return i.refOffset }
func (i *InitializationList) SetRefOffset(n int) { i.refOffset = n }
func (i *InitializationList) Cast() Symbol       { return i.cast }
func (i *InitializationList) SetCast(s Symbol)   { i.cast = s }

func (i *InitializationList) Build(self Node) Node {
	for idx, c := range i.Contents {
		c.SetParent(self)
		if built, ok := c.Build(c).(Value); ok {
			i.Contents[idx] = built
		}
	}
	return self
}

func (i *InitializationList) AutoCast(target Type) Value {
	at, ok := target.(*ArrayType)
	if !ok {
		i.Fail(diag.Error, i.Position(), diag.ShpCastArity,
			fmt.Sprintf("cannot initialize non array type %s with a list", target.Name()))
		return i
	}
	for idx, c := range i.Contents {
		i.Contents[idx] = c.AutoCast(at.Elem)
	}
	return i
}

// Cast is an explicit `(T)x` cast expression: exactly one contained
// value. AutoCast delegates through the symbol the cast targets,
// preserving and restoring its RefOffset around the call so that casting
// through a reference type doesn't leak a stale offset.
type Cast struct {
	Base
	Sym     Symbol
	Operand Value
}

func (c *Cast) Typ() Type {
	if t, ok := c.Sym.(Type); ok {
		return t.Dup()
	}
	return nil
}
func (c *Cast) RefOffset() int     { return c.Sym.RefOffset() }
func (c *Cast) SetRefOffset(n int) { c.Sym.SetRefOffset(n) }
func (c *Cast) Cast() Symbol       { return c.Sym }
func (c *Cast) SetCast(s Symbol)   { c.Sym = s }

func (c *Cast) Build(self Node) Node {
	c.Operand.SetParent(self)
	if built, ok := c.Operand.Build(c.Operand).(Value); ok {
		c.Operand = built
	}
	return self
}

func (c *Cast) AutoCast(target Type) Value {
	return c.Operand.AutoCast(target)
}

// UnaryOperatorValue is a prefix or suffix unary operator applied to a
// value, e.g. `-x`, `!x`, `x++`.
type UnaryOperatorValue struct {
	Base
	Op      string
	Operand Value
	Suffix  bool
}

func (u *UnaryOperatorValue) Typ() Type          { return u.Operand.Typ() }
func (u *UnaryOperatorValue) RefOffset() int     { return u.Operand.RefOffset() }
func (u *UnaryOperatorValue) SetRefOffset(n int) { u.Operand.SetRefOffset(n) }
func (u *UnaryOperatorValue) Cast() Symbol       { return u.Operand.Cast() }
func (u *UnaryOperatorValue) SetCast(s Symbol)   { u.Operand.SetCast(s) }

func (u *UnaryOperatorValue) Build(self Node) Node {
	u.Operand.SetParent(self)
	if built, ok := u.Operand.Build(u.Operand).(Value); ok {
		u.Operand = built
	}
	return self
}

func (u *UnaryOperatorValue) AutoCast(target Type) Value {
	u.Operand = u.Operand.AutoCast(target)
	return u
}
