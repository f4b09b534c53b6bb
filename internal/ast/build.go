package ast

import (
	"fmt"

	"github.com/ehlit/ehlitc/internal/diag"
	"github.com/ehlit/ehlitc/internal/resolve"
)

// Options configures a single build: the entry source file, where the
// build's generated import artifact would be written (the third member
// of the import search order), and the collaborators that turn source
// text and header paths into trees.
type Options struct {
	Source           string
	OutputImportFile string
	Parser           Parser
	Headers          HeaderImporter
}

// AST is the root of the tree for one build: an UnorderedScope over the
// entry file's top-level declarations, plus the per-build state that the
// implementation this is grounded on kept as global/process-wide
// mutable lists — imported and included caches, the search-path list, the
// diagnostic accumulator, and the variable-name counter — all folded
// into this value instead, so that two builds (e.g. concurrent test
// cases) never share state through package-level globals.
type AST struct {
	UnorderedScope

	opts     Options
	paths    *resolve.Paths
	headers  HeaderImporter
	parser   Parser
	imported map[string]*File
	included map[string][]DeclarationBase
	builtins []DeclarationBase
	counter  int

	Root  *File
	Diags diag.Diagnostics
}

// NewAST constructs an empty build root; call Build to parse and resolve
// the entry file.
func NewAST(opts Options) *AST {
	a := &AST{
		opts:     opts,
		paths:    resolve.NewPaths(opts.Source, opts.OutputImportFile),
		headers:  opts.Headers,
		parser:   opts.Parser,
		imported: make(map[string]*File),
		included: make(map[string][]DeclarationBase),
	}
	a.builtins = makeBuiltins()
	a.ScopeContents = func() []DeclarationBase { return a.builtins }
	return a
}

// makeBuiltins installs the fixed builtin type list plus the `@func<>`
// family: a zero-argument FunctionType returning `@any`, the declaration
// TemplatedIdentifier.Build resolves "func" against when it builds a
// templated function-type reference such as `func<@int>`.
func makeBuiltins() []DeclarationBase {
	out := make([]DeclarationBase, 0, len(BuiltinNames)+1)
	for _, n := range BuiltinNames {
		out = append(out, NewBuiltinType(n))
	}
	out = append(out, &FunctionType{Ret: NewBuiltinType("@any"), NameOverride: "@func<>"})
	return out
}

// parseFile runs the Parser collaborator against path and wraps the
// result in a File node, ready to Build.
func (a *AST) parseFile(path string) (*File, error) {
	src, err := resolve.ReadSource(path)
	if err != nil {
		return nil, err
	}
	nodes, err := a.parser.Parse(path, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return NewFile(path, nil, nodes), nil
}

// BuildFromSource runs the whole two-phase build pass against already
// parsed top-level nodes, as when the entry file was parsed ahead of time
// by the driver. It is the primary entry point tests exercise directly,
// bypassing the Parser collaborator.
func (a *AST) BuildFromSource(nodes []Node) *AST {
	a.Root = NewFile(a.opts.Source, nil, nodes)
	a.Root.SetParent(a)
	a.Root.Build(a.Root)
	return a
}

// Build parses the entry file through the configured Parser and then runs
// the two-phase build pass, matching build_ast's behaviour in the
// implementation this is grounded on: reset the per-build caches (done at
// construction instead of via mutable globals), install the builtin
// declarations, compute the import search order, and build every
// top-level node, accumulating rather than aborting on the first failure.
func (a *AST) Build() *AST {
	f, err := a.parseFile(a.opts.Source)
	if err != nil {
		a.Diags.Add(diag.Fatal, Pos{File: a.opts.Source}, diag.ExtWrapped, err.Error())
		return a
	}
	return a.BuildFromSource(f.Nodes)
}

// FindDeclaration is the terminus of the lookup chain: search the
// builtins list, then the entry file's own top-level declarations. A Type
// result is duplicated before being handed back, since the same builtin
// Type value is shared across every use site and callers mutate RefOffset
// locally.
func (a *AST) FindDeclaration(sym string) (DeclarationBase, *diag.Diagnostic) {
	for _, d := range a.builtins {
		if d.Name() == sym {
			return dupIfType(d), nil
		}
	}
	if a.Root != nil {
		for _, d := range a.Root.ScopeContents() {
			if d.Name() == sym {
				return dupIfType(d), nil
			}
		}
	}
	return nil, nil
}

func dupIfType(d DeclarationBase) DeclarationBase {
	if t, ok := d.(Type); ok {
		return t.Dup().(DeclarationBase)
	}
	return d
}

func (a *AST) Declare(decl DeclarationBase) {
	a.UnorderedScope.Declare(decl)
}

func (a *AST) Fail(sev diag.Severity, pos Pos, code, msg string) {
	a.Diags.Add(sev, pos, code, msg)
}

func (a *AST) GenerateVarName() string {
	a.counter++
	return genName("ast", a.counter)
}

// HasErrors reports whether any diagnostic recorded during Build is at
// Error severity or above.
func (a *AST) HasErrors() bool { return a.Diags.HasErrors() }
