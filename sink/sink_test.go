package sink

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/domain"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/bearsolve/smt/gridsat"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func model(bearing, rng string) bearsolve.Model {
	return bearsolve.NewModel(map[string]decimal.Decimal{
		bearsolve.BearingVar: decimal.RequireFromString(bearing),
		bearsolve.RangeVar:   decimal.RequireFromString(rng),
	})
}

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

// plain removes terminal colours.
func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func grids(t *testing.T) (domain.Grid, domain.Grid) {
	b, err := domain.New(bearsolve.BearingVar, decimal.NewFromInt(-8), decimal.NewFromInt(8), decimal.NewFromInt(8))
	require.NoError(t, err)
	r, err := domain.New(bearsolve.RangeVar, decimal.Zero, decimal.NewFromInt(4), decimal.NewFromInt(4))
	require.NoError(t, err)
	return b, r
}

func TestCollect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.sink")
	defer teardown()
	//
	c := &Collect{}
	require.NoError(t, c.Accept(model("8", "0")))
	assert.False(t, c.Complete())
	require.NoError(t, c.Close(enumerate.Failed))
	assert.False(t, c.Complete(), "failed enumeration must not look complete")
	assert.True(t, errors.Is(c.Accept(model("0", "0")), ErrClosed))
	assert.Len(t, c.Models, 1)
}

func TestTableIsOrdered(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.sink")
	defer teardown()
	//
	var out bytes.Buffer
	tab := NewTable(&out, "models")
	for _, m := range []bearsolve.Model{model("8", "4"), model("-8", "4"), model("0", "0"), model("-8", "0")} {
		require.NoError(t, tab.Accept(m))
	}
	require.NoError(t, tab.Close(enumerate.Exhausted))
	text := out.String()
	t.Logf("\n%s", text)
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(strings.ReplaceAll(line, "│", " "))
		if len(fields) == 3 && fields[0] >= "1" && fields[0] <= "9" && !strings.HasPrefix(fields[2], "(") {
			rows = append(rows, fields)
		}
	}
	expected := [][]string{{"1", "-8", "0"}, {"2", "-8", "4"}, {"3", "0", "0"}, {"4", "8", "4"}}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("rows are not ordered by (bearing, Range):\n%s", diff)
	}
	assert.Contains(t, strings.ToLower(text), "4 models (complete)")
	//
	out.Reset()
	tab = NewTable(&out, "")
	require.NoError(t, tab.Close(enumerate.Failed))
	assert.Contains(t, strings.ToLower(out.String()), "0 models (failed, incomplete)")
}

func TestPlot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.sink")
	defer teardown()
	//
	b, r := grids(t)
	var out bytes.Buffer
	plot := NewPlot(&out, b, r)
	require.NoError(t, plot.Accept(model("-8", "4")))
	require.NoError(t, plot.Accept(model("8", "0")))
	assert.Error(t, plot.Accept(model("4", "0")), "4 is not a bearing of the grid")
	require.NoError(t, plot.Close(enumerate.Exhausted))
	text := plain(out.String())
	t.Logf("\n%s", text)
	assert.Equal(t, 2, strings.Count(text, HitGlyph))
	assert.Equal(t, 4, strings.Count(text, MissGlyph))
	// Range 4 is the top row
	top := strings.Index(text, HitGlyph+MissGlyph+MissGlyph)
	bottom := strings.Index(text, MissGlyph+MissGlyph+HitGlyph)
	if top < 0 || bottom < 0 || top > bottom {
		t.Errorf("rows are not plotted top to bottom by decreasing Range")
	}
}

func TestCSV(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.sink")
	defer teardown()
	//
	var out bytes.Buffer
	c := NewCSV(&out)
	require.NoError(t, c.Accept(model("-8", "0.4")))
	require.NoError(t, c.Accept(model("16", "10")))
	require.NoError(t, c.Close(enumerate.Exhausted))
	assert.Equal(t, "bearing,Range\n-8,0.4\n16,10\n", out.String())
	//
	out.Reset()
	c = NewCSV(&out)
	require.NoError(t, c.Close(enumerate.Exhausted))
	assert.Equal(t, "bearing,Range\n", out.String())
}

type failing struct{ closed int }

func (f *failing) Accept(bearsolve.Model) error { return errors.New("full") }

func (f *failing) Close(enumerate.State) error {
	f.closed++
	return errors.New("broken")
}

func TestMulti(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.sink")
	defer teardown()
	//
	c, d := &Collect{}, &Discard{}
	m := Multi(c, d)
	require.NoError(t, m.Accept(model("0", "0")))
	require.NoError(t, m.Close(enumerate.Exhausted))
	assert.Len(t, c.Models, 1)
	assert.Equal(t, 1, d.Count)
	assert.True(t, c.Complete())
	//
	f, c := &failing{}, &Collect{}
	m = Multi(f, c)
	assert.Error(t, m.Accept(model("0", "0")))
	assert.Empty(t, c.Models, "forwarding stops at the first error")
	assert.Error(t, m.Close(enumerate.Exhausted))
	assert.Equal(t, 1, f.closed)
	assert.True(t, c.Complete(), "every sink is closed")
}

func TestDrainIntoSinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.sink")
	defer teardown()
	//
	b, r := grids(t)
	eq := smt.LessEq(smt.NewVar(bearsolve.RangeVar), smt.Int(5))
	e := enumerate.New(gridsat.New(), eq, []domain.Grid{b, r})
	var out bytes.Buffer
	c := &Collect{}
	state, err := enumerate.Drain(context.Background(), e, Multi(c, NewPlot(&out, b, r)))
	require.NoError(t, err)
	assert.Equal(t, enumerate.Exhausted, state)
	assert.Len(t, c.Models, 6)
	assert.True(t, c.Complete())
	assert.Equal(t, 6, strings.Count(plain(out.String()), HitGlyph))
	assert.Equal(t, 0, strings.Count(plain(out.String()), MissGlyph))
}
