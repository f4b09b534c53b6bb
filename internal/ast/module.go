package ast

import (
	"fmt"
	"strings"

	"github.com/ehlit/ehlitc/internal/diag"
	"github.com/ehlit/ehlitc/internal/resolve"
)

// Parser is the black-box collaborator that turns source text into a
// tree of Nodes; the ast package never invokes a grammar itself.
// internal/parser declares the same collaborator interfaces; no concrete
// grammar ships in this module.
type Parser interface {
	Parse(path string, src []byte) ([]Node, error)
}

// HeaderImporter is the black-box collaborator that turns a C header path
// into a flat list of declarations, tagged DeclC so call-site lowering
// and name mangling skip them.
type HeaderImporter interface {
	ParseHeader(path string) ([]DeclarationBase, error)
}

// File is a single parsed source file: a module declaration plus the
// top-level nodes that follow it. It is itself an UnorderedScope, since
// every top-level declaration in a file is visible to every other one
// regardless of order.
type File struct {
	UnorderedScope
	Path    string
	Module  []string // dotted module path from the leading `module foo.bar;` line
	Nodes   []Node
}

func NewFile(path string, module []string, nodes []Node) *File {
	f := &File{Path: path, Module: module, Nodes: nodes}
	f.ScopeContents = func() []DeclarationBase {
		var out []DeclarationBase
		for _, n := range f.Nodes {
			if d, ok := n.(DeclarationBase); ok {
				out = append(out, d)
			}
		}
		return out
	}
	return f
}

func (f *File) Build(self Node) Node {
	for i, n := range f.Nodes {
		n.SetParent(self)
		f.Nodes[i] = n.Build(n)
	}
	return self
}

// GenericExternInclusion is the shared shape of Import and Include: a
// dotted library path plus the mechanics of parsing it exactly once
// across a whole build and exposing its top-level declarations as this
// node's scope contents.
type GenericExternInclusion struct {
	UnorderedScope
	Lib      []string
	resolved *File
}

func (g *GenericExternInclusion) scopeContents() []DeclarationBase {
	if g.resolved == nil {
		return nil
	}
	return g.resolved.ScopeContents()
}

// Import is `import foo.bar;` or `import foo.bar as baz;`. Build resolves
// Lib against the build's search paths, parses the target exactly once
// (sharing the result across every importer, tracked in the AST root's
// imported set), and recursively imports every file in a directory import.
// find_declaration additionally gates access to symbols the imported
// module marked QualifierPrivate.
type Import struct {
	GenericExternInclusion
	As string // alias name, "" if none
}

func (i *Import) Build(self Node) Node {
	root, ok := ParentOfType[*AST](i)
	if !ok {
		i.Fail(diag.Error, i.Position(), diag.ImpNotFound, "import outside of a build")
		return self
	}

	key := strings.Join(i.Lib, ".")
	if cached, ok := root.imported[key]; ok {
		i.resolved = cached
		return self
	}

	path, isDir, found := root.paths.Resolve(i.Lib)
	if !found {
		i.Fail(diag.Error, i.Position(), diag.ImpNotFound,
			fmt.Sprintf("%s: no such file or directory", strings.Join(i.Lib, "/")))
		return self
	}

	if isDir {
		nodes, err := i.importDir(root, path)
		if err != nil {
			i.Fail(diag.Error, i.Position(), diag.ImpNotFound, err.Error())
			return self
		}
		merged := NewFile(path, i.Lib, nodes)
		merged.SetParent(self)
		merged.Build(merged)
		root.imported[key] = merged
		i.resolved = merged
		return self
	}

	f, err := root.parseFile(path)
	if err != nil {
		i.Fail(diag.Error, i.Position(), diag.ImpNotFound, err.Error())
		return self
	}
	f.SetParent(self)
	f.Build(f)
	root.imported[key] = f
	i.resolved = f
	return self
}

// importDir recursively imports every .eh file in dir and in every
// subdirectory of dir, matching the original's import_dir walk: a
// directory import is not just its immediate children, it is the whole
// subtree.
func (i *Import) importDir(root *AST, dir string) ([]Node, error) {
	entries, err := resolve.ListDir(dir)
	if err != nil {
		return nil, err
	}
	var nodes []Node
	for _, e := range entries {
		if resolve.IsDir(e) {
			sub, err := i.importDir(root, e)
			if err != nil {
				i.Fail(diag.Error, i.Position(), diag.ImpNotFound, err.Error())
				continue
			}
			nodes = append(nodes, sub...)
			continue
		}
		if !strings.HasSuffix(e, resolve.SourceExt) {
			continue
		}
		f, err := root.parseFile(e)
		if err != nil {
			i.Fail(diag.Error, i.Position(), diag.ImpNotFound, err.Error())
			continue
		}
		nodes = append(nodes, f.Nodes...)
	}
	return nodes, nil
}

// FindDeclaration searches the imported module's top-level declarations,
// gating any QualifierPrivate one with a dedicated forbidden-access
// diagnostic instead of treating it as simply not found; anything not
// found locally is delegated outward as usual.
func (i *Import) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	name := sym
	if i.As != "" {
		if sym != i.As && !strings.HasPrefix(sym, i.As+".") {
			if i.Parent() == nil {
				return nil, nil
			}
			return i.Parent().FindDeclaration(sym)
		}
		name = strings.TrimPrefix(strings.TrimPrefix(sym, i.As), ".")
	}

	for _, d := range i.scopeContents() {
		if d.Name() != name {
			continue
		}
		if pd, ok := d.(interface{ IsPrivate() bool }); ok && pd.IsPrivate() {
			return nil, diag.New(diag.Error, i.Position(), diag.ResPrivate,
				fmt.Sprintf("accessing to private symbol `%s`", name))
		}
		return d, nil
	}
	if i.Parent() == nil {
		return nil, nil
	}
	return i.Parent().FindDeclaration(sym)
}

// Include is `include "header.h";`: a C header parsed exactly once per
// build via the HeaderImporter collaborator. Every declaration it yields
// is stamped DeclC so call-site lowering and mangling leave it alone.
type Include struct {
	GenericExternInclusion
	Path string
	decls []DeclarationBase
}

func (inc *Include) Build(self Node) Node {
	root, ok := ParentOfType[*AST](inc)
	if !ok {
		inc.Fail(diag.Error, inc.Position(), diag.IncNotFound, "include outside of a build")
		return self
	}
	if cached, ok := root.included[inc.Path]; ok {
		inc.decls = cached
		return self
	}
	if root.headers == nil {
		inc.Fail(diag.Error, inc.Position(), diag.IncNotFound,
			fmt.Sprintf("no header importer configured for %s", inc.Path))
		return self
	}
	decls, err := root.headers.ParseHeader(inc.Path)
	if err != nil {
		inc.Fail(diag.Error, inc.Position(), diag.IncNotFound, err.Error())
		return self
	}
	for _, d := range decls {
		switch cd := d.(type) {
		case *FunctionDeclaration:
			cd.Kind = DeclC
		case *VariableDeclaration:
			cd.Kind = DeclC
		}
	}
	root.included[inc.Path] = decls
	inc.decls = decls
	return self
}

func (inc *Include) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	for _, d := range inc.decls {
		if d.Name() == sym {
			return d, nil
		}
	}
	if inc.Parent() == nil {
		return nil, nil
	}
	return inc.Parent().FindDeclaration(sym)
}
