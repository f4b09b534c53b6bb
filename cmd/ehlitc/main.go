package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/ehlit/ehlitc/internal/ast"
	"github.com/ehlit/ehlitc/internal/config"
	"github.com/ehlit/ehlitc/internal/diag"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		configFlag  = flag.String("config", "ehlit.yaml", "Path to the project configuration file")
		outFlag     = flag.String("o", "", "Path of the generated import artifact")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "%s: missing source file\nUsage: ehlitc [flags] <file.eh>\n", red("error"))
		os.Exit(1)
	}

	source := flag.Arg(0)
	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	outputImportFile := *outFlag
	if outputImportFile == "" {
		outputImportFile = filepath.Join(filepath.Dir(source), "import.eh")
	}

	parser, headers := buildCollaborators(cfg)
	root := ast.NewAST(ast.Options{
		Source:           source,
		OutputImportFile: outputImportFile,
		Parser:           parser,
		Headers:          headers,
	})
	root.Build()

	printDiagnostics(root.Diags.All())
	fmt.Println(bold(root.Diags.Summary()))

	if root.HasErrors() {
		os.Exit(1)
	}
}

func printDiagnostics(items []diag.Diagnostic) {
	for _, d := range items {
		label := yellow(d.Severity.String())
		if d.Severity >= diag.Error {
			label = red(d.Severity.String())
		}
		fmt.Printf("%s: %s [%s]\n", label, d.Message, d.Code)
	}
}

func printVersion() {
	fmt.Printf("ehlitc %s (%s, built %s)\n", green(Version), Commit, BuildTime)
}
