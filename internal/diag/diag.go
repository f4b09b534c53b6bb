// Package diag implements the diagnostic taxonomy for the semantic core:
// severities, source positions, per-phase error codes, and an accumulator
// that collects failures across a whole build instead of aborting on the
// first one.
package diag

import "fmt"

// Severity classifies a diagnostic. Only Error and Fatal make a build
// unsuccessful; Warning alone does not.
type Severity int

const (
	Warning Severity = iota + 1
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Pos is a source location. File is empty until a diagnostic is attributed
// to a concrete file by the module loader.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Error code taxonomy, grouped by phase. These are machine-readable tags
// layered on top of the diagnostic message; they do not change resolution
// semantics.
const (
	ResUndeclared = "RES001" // use of undeclared identifier
	ResPrivate    = "RES002" // access to private symbol
	ResIncomplete = "RES003" // access to incomplete struct/union
	ResVargs      = "RES004" // vargs used in a non-variadic function

	ShpNotCallable = "SHP001" // calling a non-function type
	ShpCastArity   = "SHP002" // cast with zero or multiple arguments

	AriMismatch = "ARI001" // too many / not enough call arguments

	ImpNotFound  = "IMP001" // import path could not be resolved
	IncNotFound  = "INC001" // C header could not be resolved
	ExtWrapped   = "EXT001" // wrapped failure from a parser/header collaborator
)

// Diagnostic is a single reported failure or warning.
type Diagnostic struct {
	Severity Severity
	Pos      Pos
	Code     string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

func New(sev Severity, pos Pos, code, msg string) *Diagnostic {
	return &Diagnostic{Severity: sev, Pos: pos, Code: code, Message: msg}
}

// Diagnostics accumulates diagnostics for a whole AST build, never
// aborting mid-build. It is owned by the AST root and reached from any
// node through Node.Fail.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Add(sev Severity, pos Pos, code, msg string) {
	d.items = append(d.items, Diagnostic{Severity: sev, Pos: pos, Code: code, Message: msg})
}

func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

func (d *Diagnostics) Errors() int {
	n := 0
	for _, it := range d.items {
		if it.Severity >= Error {
			n++
		}
	}
	return n
}

func (d *Diagnostics) Warnings() int {
	n := 0
	for _, it := range d.items {
		if it.Severity == Warning {
			n++
		}
	}
	return n
}

func (d *Diagnostics) HasErrors() bool {
	return d.Errors() > 0
}

func (d *Diagnostics) Empty() bool {
	return len(d.items) == 0
}

// Summary renders the one-line footer the driver prints after a build.
// The original implementation's equivalent (ParseError.summary) is
// syntactically broken in its source and unreachable; this is a working
// replacement, not a reproduction of that bug.
func (d *Diagnostics) Summary() string {
	errs, warns := d.Errors(), d.Warnings()
	switch {
	case warns == 0:
		return fmt.Sprintf("build finished with %d errors", errs)
	case errs == 0:
		return fmt.Sprintf("build finished with %d warnings", warns)
	default:
		return fmt.Sprintf("build finished with %d errors and %d warnings", errs, warns)
	}
}

func (d *Diagnostics) Strings() []string {
	out := make([]string, len(d.items))
	for i, it := range d.items {
		out[i] = it.String()
	}
	return out
}

// Report is a structured error carrying a code, an originating phase, and
// an optional source position, so that collaborator failures (parser,
// header importer) survive being wrapped with fmt.Errorf("...: %w", err)
// and can still be inspected with AsReport.
type Report struct {
	Code    string
	Phase   string
	Message string
	Pos     *Pos
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// WrapReport wraps r as an error implementing the standard error interface.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// AsReport extracts a Report from an error chain, if any link in the chain
// is a *ReportError.
func AsReport(err error) (*Report, bool) {
	for err != nil {
		if re, ok := err.(*ReportError); ok {
			return re.Rep, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
