package ast

// This file implements the any-type coercion engine (C4): inserting the
// reference/dereference steps needed so that a value of one type can be
// used where another type, possibly `any` on either side, is expected.
// FromAny (in types.go, one implementation per Type) describes what a
// type looks like once pulled back out of an `any`; fromAnyAligned here
// builds the actual symbol tree a crossing produces, and AutoCast applies
// the resulting RefOffset delta to the value being coerced.

func isAny(t Type) bool {
	b, ok := t.(*BuiltinType)
	return ok && b.Name() == "@any"
}

// stripRefType peels every outer ReferenceType layer, down to the
// innermost non-reference type, for the purposes of the equality test
// AutoCast runs before deciding whether any coercion is needed at all.
func stripRefType(t Type) Type {
	for {
		rt, ok := t.(*ReferenceType)
		if !ok {
			return t
		}
		t = rt.Inner
	}
}

// typesEqual compares two types structurally rather than by identity,
// since the same declared type is duplicated at every use site.
func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *BuiltinType:
		y, ok := b.(*BuiltinType)
		return ok && x.Name() == y.Name()
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && typesEqual(x.Elem, y.Elem)
	case *ReferenceType:
		y, ok := b.(*ReferenceType)
		return ok && typesEqual(x.Inner, y.Inner)
	case *FunctionType:
		y, ok := b.(*FunctionType)
		if !ok || len(x.Args) != len(y.Args) || !typesEqual(x.Ret, y.Ret) {
			return false
		}
		for i := range x.Args {
			if !typesEqual(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *ContainerStructure:
		y, ok := b.(*ContainerStructure)
		return ok && x == y
	default:
		return a.Name() == b.Name()
	}
}

// refDepth counts the outer ReferenceType layers wrapping t.
func refDepth(t Type) int {
	d := 0
	for {
		rt, ok := t.(*ReferenceType)
		if !ok {
			return d
		}
		d++
		t = rt.Inner
	}
}

// adjustRefDepth wraps or peels ReferenceType layers around t until its
// depth equals want.
func adjustRefDepth(t Type, want int) Type {
	cur := refDepth(t)
	for cur < want {
		t = &ReferenceType{Inner: t}
		cur++
	}
	for cur > want {
		rt, ok := t.(*ReferenceType)
		if !ok {
			break
		}
		t = rt.Inner
		cur--
	}
	return t
}

// fromAnyAlignedCast builds the symbol tree a read out of `any` produces
// when the declared target is target: start from the target's innermost
// concrete type's own FromAny() (the shape a boxed value of that type
// actually has), then adjust its reference depth to match what the
// target's own declared shape calls for.
func fromAnyAlignedCast(target Type) Type {
	base := stripRefType(target)
	tree := base.FromAny()
	return adjustRefDepth(tree, target.RefOffset())
}

// fromAnyAlignedWrite computes the minimum-referencing tree a concrete
// value needs to present in order to be written into an `any`: its own
// FromAny() shape, with one extra reference layer stripped when its
// AnyMemoryOffset is already zero (e.g. @str, which needs no boxing at
// all).
func fromAnyAlignedWrite(v Value) Type {
	src := v.Typ()
	base := stripRefType(src)
	tree := base.FromAny()
	if base.AnyMemoryOffset() == 0 {
		if rt, ok := tree.(*ReferenceType); ok {
			tree = rt.Inner
		}
	}
	return tree
}

// countOuterReferenceToValue counts how many `&` operators the author
// wrote directly around v, by walking the parent chain Container.Build
// established: a ReferenceToValue wraps its Child and sets the Child's
// Parent to itself, so consecutive ReferenceToValue ancestors record
// exactly how many explicit address-of operators enclose v.
func countOuterReferenceToValue(v Value) int {
	n := 0
	var cur Node = v.Parent()
	for {
		if _, ok := cur.(*ReferenceToValue); !ok {
			break
		}
		n++
		cur = cur.Parent()
	}
	return n
}

// AutoCast is the general any-coercion rule applied when a node's own
// AutoCast override has nothing more specific to do. It implements the
// three-step algorithm the any-type engine is grounded on:
//
//  1. if the value's type and the target type are structurally unequal
//     once outer references are stripped, and exactly one side is `any`,
//     build the conversion tree for that crossing: fromAnyAlignedCast
//     when reading out of any (the conversion is recorded on v.Cast, so
//     later passes can see exactly what shape the read produced), or
//     fromAnyAlignedWrite when writing into any (only ever used to
//     compute the context's referencing level, below);
//  2. compute the context's referencing level: the target type's own
//     RefOffset, or — when writing into any — the write tree's RefOffset
//     minus however many explicit `&` the author already wrote;
//  3. set v's RefOffset to the gap between its (possibly rewritten) own
//     RefOffset and that context level.
func AutoCast(v Value, target Type) Value {
	if target == nil {
		return v
	}
	src := v.Typ()
	if src == nil {
		return v
	}

	targetRefLevel := target.RefOffset()

	if !typesEqual(stripRefType(src), stripRefType(target)) {
		switch {
		case isAny(src):
			cast := fromAnyAlignedCast(target)
			v.SetCast(cast.(Symbol))
			src = cast
		case isAny(target):
			rewritten := fromAnyAlignedWrite(v)
			targetRefLevel = rewritten.RefOffset() - countOuterReferenceToValue(v)
		}
	}

	v.SetRefOffset(src.RefOffset() - targetRefLevel)
	return v
}
