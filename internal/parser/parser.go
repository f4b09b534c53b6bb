// Package parser defines the black-box collaborator boundary the ast
// package builds against: turning source text into a tree of ast.Node
// values, and a C header path into a flat declaration list. Parsing
// itself — lexing, grammar, grammar-level diagnostics — is out of scope
// here; a concrete Parser is provided by whatever front end is wired into
// the driver.
package parser

import "github.com/ehlit/ehlitc/internal/ast"

// Parser turns the normalized source bytes of path into the top-level
// nodes of a file, in source order, ready to be wrapped in an ast.File
// and built.
type Parser interface {
	Parse(path string, src []byte) ([]ast.Node, error)
}

// FunctionBodyParser additionally parses the text of a single function
// body in isolation, mirroring FunctionDefinition's need (in the
// implementation this is grounded on) to defer body-parsing until the
// enclosing function's signature and scope are already built.
type FunctionBodyParser interface {
	ParseFunctionBody(text string, haveReturnValue bool) ([]ast.Node, error)
}

// HeaderImporter turns a C header at path into the flat list of
// declarations it exposes, each tagged ast.DeclC so the build pass never
// mangles or variadic-lowers a call through one of them.
type HeaderImporter interface {
	ParseHeader(path string) ([]ast.DeclarationBase, error)
}
