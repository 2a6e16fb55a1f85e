package grammar

import (
	"os"
	"strings"

	"github.com/npillmayer/bearsolve"
	"github.com/pkg/errors"
)

// Translator runs the full pipeline from infix text to prefix form:
// substitution, parsing, variable resolution and rewriting.
type Translator struct {
	table     SubstitutionTable
	variables map[string]bool // nil: declared variables of package bearsolve
}

// NewTranslator creates a translator using a substitution table. If no
// variables are given, the declared variables of package bearsolve are used.
func NewTranslator(table SubstitutionTable, variables ...string) *Translator {
	tr := &Translator{table: table}
	if len(variables) == 0 {
		return tr
	}
	tr.variables = make(map[string]bool, len(variables))
	for _, v := range variables {
		tr.variables[v] = true
	}
	return tr
}

// Table returns the substitution table of tr.
func (tr *Translator) Table() SubstitutionTable {
	return tr.table
}

// Parse preprocesses and parses an infix expression. Every variable of the
// resulting tree is one of the translator's variables.
func (tr *Translator) Parse(expr string) (Node, error) {
	pre := Preprocess(expr, tr.table)
	tracer().P("table", tr.table.ID()).Debugf("preprocessed %q", pre)
	n, err := Parse(pre)
	if err != nil {
		return nil, err
	}
	if err := tr.Resolve(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Resolve checks that every variable of n is known to tr.
func (tr *Translator) Resolve(n Node) error {
	for _, name := range Variables(n) {
		if !tr.knows(name) {
			return bearsolve.Unsupported("Variable", name)
		}
	}
	return nil
}

func (tr *Translator) knows(name string) bool {
	if tr.variables == nil {
		return bearsolve.IsDeclared(name)
	}
	return tr.variables[name]
}

// Translate translates an infix expression into prefix form.
func (tr *Translator) Translate(expr string) (string, error) {
	n, err := tr.Parse(expr)
	if err != nil {
		return "", err
	}
	prefix := Prefix(n)
	tracer().Infof("translated to %s", prefix)
	return prefix, nil
}

// --- Input files -----------------------------------------------------------

// ReadInputFile reads a file which must contain a single-line expression.
// Surrounding white space is removed. Missing files, empty files and files
// with more than one line are reported as *bearsolve.InputFormatError.
func ReadInputFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", bearsolve.NewInputFormatError(path, bearsolve.ErrMissingInput, "")
		}
		return "", bearsolve.NewInputFormatError(path, errors.Wrap(err, "cannot read input"), "")
	}
	expr := strings.TrimSpace(string(data))
	if expr == "" {
		return "", bearsolve.NewInputFormatError(path, bearsolve.ErrEmptyInput, "")
	}
	if strings.ContainsAny(expr, "\r\n") {
		return "", bearsolve.NewInputFormatError(path, bearsolve.ErrMultiLineInput, "")
	}
	return expr, nil
}

// WriteOutputFile writes a prefix expression as a single line.
func WriteOutputFile(path string, prefix string) error {
	if err := os.WriteFile(path, []byte(prefix+"\n"), 0644); err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}
	return nil
}
