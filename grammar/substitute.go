package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/width"
)

// ErrUnknownTable is returned when a substitution table cannot be found.
var ErrUnknownTable = errors.New("unknown substitution table")

// Substitution is a single textual replacement rule.
type Substitution struct {
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// SubstitutionTable is an ordered, versioned list of textual replacements
// applied to an expression before parsing. Rules are applied one after the
// other, each to the result of its predecessor.
//
// Tables are identified by "name/version", e.g. "symbols/1". A table must
// never change its rules without changing its version.
type SubstitutionTable struct {
	Name    string         `koanf:"name"`
	Version int            `koanf:"version"`
	Rules   []Substitution `koanf:"rules"`
}

// ID returns the identifier "name/version" of a table.
func (t SubstitutionTable) ID() string {
	return t.Name + "/" + strconv.Itoa(t.Version)
}

// Apply applies all rules of t to expr.
func (t SubstitutionTable) Apply(expr string) string {
	for _, r := range t.Rules {
		if r.From == "" || !strings.Contains(expr, r.From) {
			continue
		}
		expr = strings.ReplaceAll(expr, r.From, r.To)
		tracer().P("table", t.ID()).Debugf("applied %q → %q", r.From, r.To)
	}
	return expr
}

// Validate checks a table for empty names or rules without a pattern.
func (t SubstitutionTable) Validate() error {
	if t.Name == "" || strings.Contains(t.Name, "/") {
		return errors.Errorf("invalid table name %q", t.Name)
	}
	if t.Version < 1 {
		return errors.Errorf("table %s: version must be >= 1", t.Name)
	}
	for i, r := range t.Rules {
		if r.From == "" {
			return errors.Errorf("table %s: rule %d has an empty pattern", t.ID(), i)
		}
	}
	return nil
}

func (t SubstitutionTable) String() string {
	return fmt.Sprintf("%s (%d rules)", t.ID(), len(t.Rules))
}

// symbolRules map the operator shorthands and spellings users tend to write
// onto the expression grammar.
var symbolRules = []Substitution{
	{From: "&", To: " and "},
	{From: "|", To: " or "},
	{From: "^", To: "**"},
	{From: "false", To: "False"},
	{From: "true", To: "True"},
	{From: "range", To: "Range"},
	{From: "≤", To: "<="},
	{From: "≥", To: ">="},
	{From: "≠", To: "!="},
}

// Symbols is the default table. It only remaps symbols and spellings.
var Symbols = SubstitutionTable{
	Name:    "symbols",
	Version: 1,
	Rules:   symbolRules,
}

// Legacy reproduces the rewriting of the first version of the translator,
// including its admission-specific numeric replacements (squared thresholds
// for 300 and 285, and dropping 'sqrt'). Use it only for inputs written for
// that version.
var Legacy = SubstitutionTable{
	Name:    "legacy",
	Version: 1,
	Rules: append(append([]Substitution{}, symbolRules...),
		Substitution{From: "300", To: "90000"},
		Substitution{From: "285", To: "81225"},
		Substitution{From: "sqrt", To: ""},
	),
}

// None applies no substitution at all.
var None = SubstitutionTable{Name: "none", Version: 1}

var builtinTables = []SubstitutionTable{Symbols, Legacy, None}

// Tables returns all built-in substitution tables, sorted by ID.
func Tables() []SubstitutionTable {
	tables := append([]SubstitutionTable{}, builtinTables...)
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID() < tables[j].ID() })
	return tables
}

// LookupTable finds a table by its ID in the built-in tables and in
// additional tables.
func LookupTable(id string, additional ...SubstitutionTable) (SubstitutionTable, error) {
	for _, t := range append(additional, builtinTables...) {
		if t.ID() == id {
			return t, nil
		}
	}
	return SubstitutionTable{}, errors.Wrapf(ErrUnknownTable, "%q", id)
}

// Preprocess folds fullwidth characters to their ASCII counterparts and
// applies table to expr.
func Preprocess(expr string, table SubstitutionTable) string {
	return table.Apply(width.Fold.String(expr))
}
