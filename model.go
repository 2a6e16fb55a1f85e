package bearsolve

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// --- Model -----------------------------------------------------------------

// Model is an assignment of exact values to the declared variables, as
// produced by a single satisfiability check. Models are immutable; the
// enumerator copies every value out of the decision procedure before asking
// for the next one.
type Model struct {
	names  []string // sorted
	values map[string]decimal.Decimal
}

// NewModel creates a model from an assignment. The assignment is copied.
func NewModel(assignment map[string]decimal.Decimal) Model {
	m := Model{
		names:  make([]string, 0, len(assignment)),
		values: make(map[string]decimal.Decimal, len(assignment)),
	}
	for name, v := range assignment {
		m.names = append(m.names, name)
		m.values[name] = v
	}
	sort.Strings(m.names)
	return m
}

// Len returns the number of variables assigned by m.
func (m Model) Len() int {
	return len(m.names)
}

// IsEmpty is a predicate: does m assign no variable at all?
func (m Model) IsEmpty() bool {
	return len(m.names) == 0
}

// Names returns the names of all variables assigned by m, sorted.
func (m Model) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Value returns the value of variable name, if assigned.
func (m Model) Value(name string) (decimal.Decimal, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Float returns the value of variable name as a float64, or 0.
func (m Model) Float(name string) float64 {
	f, _ := m.values[name].Float64()
	return f
}

// Equal is a predicate: do m and other agree on every variable?
func (m Model) Equal(other Model) bool {
	if len(m.names) != len(other.names) {
		return false
	}
	for _, name := range m.names {
		w, ok := other.values[name]
		if !ok || !w.Equal(m.values[name]) {
			return false
		}
	}
	return true
}

// Key returns a canonical string for m. Two models have the same key if and
// only if they are Equal.
func (m Model) Key() string {
	var b strings.Builder
	for i, name := range m.names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(m.values[name].String())
	}
	return b.String()
}

func (m Model) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, name := range m.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(m.values[name].String())
	}
	b.WriteByte(']')
	return b.String()
}
