package main

import (
	"errors"

	"github.com/ehlit/ehlitc/internal/ast"
	"github.com/ehlit/ehlitc/internal/config"
	"github.com/ehlit/ehlitc/internal/parser"
)

// buildCollaborators wires the Parser and HeaderImporter collaborators the
// semantic core needs but never implements itself: turning source text
// into a node tree, and a C header into a declaration list. No grammar
// ships in this module, so both are stubs that fail clearly; a real
// front end plugs in here without the ast package changing at all.
func buildCollaborators(cfg *config.File) (parser.Parser, parser.HeaderImporter) {
	return unimplementedParser{}, unimplementedHeaders{}
}

type unimplementedParser struct{}

func (unimplementedParser) Parse(path string, src []byte) ([]ast.Node, error) {
	return nil, errors.New("no grammar front end is configured for this build")
}

type unimplementedHeaders struct{}

func (unimplementedHeaders) ParseHeader(path string) ([]ast.DeclarationBase, error) {
	return nil, errors.New("no C header importer is configured for this build")
}
