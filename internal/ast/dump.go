package ast

import (
	"fmt"
	"strings"
)

// Dumper renders a built tree as an indented, box-drawing tree, one node
// per line, for debugging and golden-file tests. The prefix/indent
// bookkeeping mirrors a conventional tree-printer shape: each level
// tracks whether it is the last sibling so the connector switches from
// "├─ " to "└─ ".
type Dumper struct {
	out    strings.Builder
	prefix string
}

// Dump renders nodes (typically a File's top-level Nodes, or an AST
// root's Root.Nodes) as a single multi-line string.
func Dump(nodes []Node) string {
	d := &Dumper{}
	for i, n := range nodes {
		d.printNode(n, i < len(nodes)-1)
	}
	return d.out.String()
}

func (d *Dumper) line(s string) {
	d.out.WriteString(d.prefix)
	d.out.WriteString(s)
	d.out.WriteByte('\n')
}

func (d *Dumper) push(isNext bool) {
	if isNext {
		d.prefix += "├─ "
	} else {
		d.prefix += "└─ "
	}
}

func (d *Dumper) pop(isNext bool) {
	n := len(d.prefix)
	d.prefix = d.prefix[:n-3]
	if isNext {
		d.prefix += "│  "
	} else {
		d.prefix += "   "
	}
}

// printNode renders one node and recurses into its children, if any.
// isNext says whether a sibling follows at the same level.
func (d *Dumper) printNode(n Node, isNext bool) {
	d.push(isNext)
	d.line(describe(n))
	d.pop(isNext)
	children := childrenOf(n)
	for i, c := range children {
		d.printNode(c, i < len(children)-1)
	}
	d.prefix = d.prefix[:len(d.prefix)-3]
}

func describe(n Node) string {
	switch v := n.(type) {
	case *Identifier:
		return fmt.Sprintf("Identifier(%s)", v.IdentName)
	case *CompoundIdentifier:
		return fmt.Sprintf("CompoundIdentifier(%s)", v.Name())
	case *Number:
		return fmt.Sprintf("Number(%s)", v.Raw)
	case *String:
		return fmt.Sprintf("String(%q)", v.Raw)
	case *VariableDeclaration:
		return fmt.Sprintf("VariableDeclaration(%s)", v.DeclName)
	case *FunctionDeclaration:
		return fmt.Sprintf("FunctionDeclaration(%s)", v.DeclName)
	case *FunctionDefinition:
		return fmt.Sprintf("FunctionDefinition(%s)", v.DeclName)
	case *FunctionCall:
		return fmt.Sprintf("FunctionCall(%s)", v.Callee.Name())
	case *Return:
		return "Return"
	case *Import:
		return fmt.Sprintf("Import(%s)", strings.Join(v.Lib, "."))
	case *Include:
		return fmt.Sprintf("Include(%s)", v.Path)
	case *ContainerStructure:
		return fmt.Sprintf("%s(%s)", strings.Title(v.Kind), v.TypeName)
	case *Statement:
		return describe(v.Inner)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// childrenOf returns a node's printable children, used only by Dump; it
// is intentionally partial, covering the node kinds that appear in
// practice at the top of a dumped tree — statements and declarations —
// rather than every leaf expression shape.
func childrenOf(n Node) []Node {
	switch v := n.(type) {
	case *FunctionDefinition:
		return v.Body
	case *Statement:
		return childrenOf(v.Inner)
	case *VariableDeclaration:
		if v.Value != nil {
			return []Node{v.Value}
		}
	case *Return:
		if v.Expr != nil {
			return []Node{v.Expr}
		}
	case *FunctionCall:
		out := make([]Node, len(v.Args))
		for i, a := range v.Args {
			out[i] = a
		}
		return out
	}
	return nil
}
