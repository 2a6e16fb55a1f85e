package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutionTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		table  SubstitutionTable
		input  string
		output string
	}{
		{Symbols, "range<=5 & bearing^2>1", "Range<=5  and  bearing**2>1"},
		{Symbols, "true | false", "True  or  False"},
		{Symbols, "Range ≤ 5", "Range <= 5"},
		{Symbols, "sqrt(Range) < 300", "sqrt(Range) < 300"},
		{Legacy, "sqrt(Range^2) < 300", "(Range**2) < 90000"},
		{Legacy, "Range < 285", "Range < 81225"},
		{None, "range & x", "range & x"},
	} {
		if out := Preprocess(x.input, x.table); out != x.output {
			t.Errorf("test %d: table %s: expected %q, have %q", i, x.table.ID(), x.output, out)
		}
	}
}

func TestPreprocessFoldsWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	assert.Equal(t, "Range <= 5", Preprocess("Range ＜= ５", Symbols))
}

func TestLookupTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	tbl, err := LookupTable("legacy/1")
	require.NoError(t, err)
	assert.Equal(t, "legacy", tbl.Name)
	assert.Len(t, tbl.Rules, len(Symbols.Rules)+3)
	custom := SubstitutionTable{Name: "site", Version: 2, Rules: []Substitution{{From: "R", To: "Range"}}}
	tbl, err = LookupTable("site/2", custom)
	require.NoError(t, err)
	assert.Equal(t, custom.Rules, tbl.Rules)
	_, err = LookupTable("symbols/9")
	assert.True(t, errors.Is(err, ErrUnknownTable))
	assert.Error(t, SubstitutionTable{Name: "bad", Version: 1, Rules: []Substitution{{}}}.Validate())
	assert.NoError(t, Legacy.Validate())
}

func TestTranslator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	tr := NewTranslator(Symbols)
	prefix, err := tr.Translate("range <= 5 & -8 <= bearing <= 8")
	require.NoError(t, err)
	assert.Equal(t, "And((Range <= 5), (-8 <= bearing), (bearing <= 8))", prefix)
	//
	_, err = tr.Translate("Range < elevation")
	var uc *bearsolve.UnsupportedConstruct
	require.True(t, errors.As(err, &uc))
	assert.Equal(t, "Variable", uc.Kind)
	assert.Equal(t, "elevation", uc.Text)
	//
	for i, x := range []struct {
		tr    *Translator
		name  string
		known bool
	}{
		{tr, bearsolve.RangeVar, true},
		{tr, bearsolve.BearingVar, true},
		{tr, "range", false},
		{NewTranslator(Symbols, "x"), "x", true},
		{NewTranslator(Symbols, "x"), bearsolve.RangeVar, false},
	} {
		err := x.tr.Resolve(Variable{Name: x.name})
		if (err == nil) != x.known {
			t.Errorf("test %d: expected %q to be known=%v, have %v", i, x.name, x.known, err)
		}
	}
}

func TestReadInputFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	dir := t.TempDir()
	single := filepath.Join(dir, "single.txt")
	multi := filepath.Join(dir, "multi.txt")
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(single, []byte("  Range <= 5\n"), 0644))
	require.NoError(t, os.WriteFile(multi, []byte("Range <= 5\nbearing > 0\n"), 0644))
	require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0644))
	//
	expr, err := ReadInputFile(single)
	require.NoError(t, err)
	assert.Equal(t, "Range <= 5", expr)
	for i, x := range []struct {
		path     string
		sentinel error
	}{
		{multi, bearsolve.ErrMultiLineInput},
		{empty, bearsolve.ErrEmptyInput},
		{filepath.Join(dir, "missing.txt"), bearsolve.ErrMissingInput},
	} {
		_, err := ReadInputFile(x.path)
		var ife *bearsolve.InputFormatError
		if !errors.As(err, &ife) || !errors.Is(err, x.sentinel) {
			t.Errorf("test %d: expected input format error %v, got %v", i, x.sentinel, err)
			continue
		}
		if ife.Path != x.path {
			t.Errorf("test %d: expected error to name %s", i, x.path)
		}
	}
	//
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, WriteOutputFile(out, "(Range <= 5)"))
	back, err := ReadInputFile(out)
	require.NoError(t, err)
	assert.Equal(t, "(Range <= 5)", back)
}
