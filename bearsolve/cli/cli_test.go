package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small restricts the grids to bearing ∈ {-8,0,8} × Range ∈ {0,4}.
var small = []string{
	"--bearing-min=-8", "--bearing-max=8", "--bearing-step=8",
	"--range-min=0", "--range-max=4", "--range-step=4",
}

func writeInput(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the command line without user configuration and tracing setup.
func execute(args ...string) (string, string, error) {
	root := newRootCmd(&app{})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func csvLines(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	body := lines[1:]
	sort.Strings(body)
	return append(lines[:1], body...)
}

func TestSolveSmallGrid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	input := writeInput(t, "eq.txt", "Range <= 5\n")
	stdout, stderr, err := execute(append([]string{"solve", input, "--format", "csv"}, small...)...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bearing,Range",
		"-8,0", "-8,4", "0,0", "0,4", "8,0", "8,4",
	}, csvLines(stdout))
	assert.Contains(t, stderr, "6 models, 7 checks")
	assert.Contains(t, stderr, "Exhausted")
}

func TestSolveFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		args  []string
		code  int
	}{
		{"Range <= 5\nbearing > 0", nil, ExitInput},
		{"   ", nil, ExitInput},
		{`Range <= "5"`, nil, ExitUnsupported},
		{"Range <= speed", nil, ExitUnsupported},
		{"tan(bearing) > 0", nil, ExitUnsupported},
		{"Range <= 5", []string{"--max-checks", "2"}, ExitIncomplete},
		{"Range <= 5", []string{"--range-step=0"}, ExitUsage},
		{"Range <= 5", []string{"--format", "pie"}, ExitUsage},
		{"Range <= 5", []string{"--range-max=1e30", "--range-step=1e-10"}, ExitUsage},
		{"Range <= ", nil, ExitInput},
	} {
		input := writeInput(t, "eq.txt", x.input)
		args := append(append([]string{"solve", input, "--format", "none"}, small...), x.args...)
		_, _, err := execute(args...)
		if err == nil {
			t.Errorf("test %d: expected %q to fail", i, x.input)
			continue
		}
		if code := ExitCode(err); code != x.code {
			t.Errorf("test %d: expected exit code %d, have %d (%v)", i, x.code, code, err)
		}
	}
	_, _, err := execute("solve", filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, bearsolve.ErrMissingInput))
}

func TestIncompleteRunIsReported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	input := writeInput(t, "eq.txt", "Range <= 5")
	stdout, stderr, err := execute(append([]string{"solve", input, "--max-checks=3"}, small...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bearsolve.ErrBudgetExhausted))
	assert.Contains(t, strings.ToLower(stdout), "incomplete")
	assert.Contains(t, stderr, "Failed")
}

func TestSolveSharded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	input := writeInput(t, "eq.txt", "Range * 4 <= abs(bearing) & Range > 1")
	single, _, err := execute("solve", input, "--format", "csv", "--range-step=2")
	require.NoError(t, err)
	sharded, stderr, err := execute("solve", input, "--format", "csv", "--range-step=2", "-j", "4", "--metrics")
	require.NoError(t, err)
	assert.Equal(t, csvLines(single), csvLines(sharded))
	assert.Contains(t, stderr, "(4 shards)")
	assert.Contains(t, stderr, "bearsolve_models_total")
}

func TestTranslateThenSolvePrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	input := writeInput(t, "eq.txt", "range <= 5 & true")
	output := filepath.Join(t.TempDir(), "eq.pre")
	stdout, _, err := execute("translate", input, output)
	require.NoError(t, err)
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(written))
	assert.Equal(t, 1, strings.Count(string(written), "\n"), "prefix form is a single line")
	//
	fromInfix, _, err := execute(append([]string{"solve", input, "--format", "csv"}, small...)...)
	require.NoError(t, err)
	fromPrefix, _, err := execute(append([]string{"solve", output, "--prefix", "--format", "csv"}, small...)...)
	require.NoError(t, err)
	assert.Equal(t, csvLines(fromInfix), csvLines(fromPrefix))
	assert.Len(t, csvLines(fromPrefix), 7)
}

func TestPlotAndTableFormats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	input := writeInput(t, "eq.txt", "Range == 4 & bearing >= 0")
	stdout, _, err := execute(append([]string{"solve", input, "--format", "plot"}, small...)...)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "●"))
	stdout, _, err = execute(append([]string{"solve", input}, small...)...)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(stdout), "2 models (complete)")
}

func TestTablesAndBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	stdout, _, err := execute("tables")
	require.NoError(t, err)
	assert.Contains(t, stdout, "configured table: symbols/1")
	assert.Contains(t, stdout, "legacy/1")
	//
	stdout, _, err = execute("bounds", "--upto", "6", "-p", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 ◀")
	assert.Contains(t, stdout, "6")
}

func TestLoadConfigLayers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	yaml := writeInput(t, "conf.yaml", `range-step: 0.5
precision-order: 7
timeout: 30s
tables:
  - name: words
    version: 2
    rules:
      - from: " lte "
        to: " <= "
`)
	t.Setenv("BEARSOLVETEST_PRECISION_ORDER", "6")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addConfigFlags(flags)
	require.NoError(t, flags.Parse([]string{"--config", yaml, "--shards=2"}))
	konf, err := loadConfig(flags, "BEARSOLVETEST")
	require.NoError(t, err)
	conf, err := ConfigFrom(konf.Koanf())
	require.NoError(t, err)
	assert.True(t, conf.RangeStep.Equal(decimal.RequireFromString("0.5")), "from file")
	assert.Equal(t, 6, conf.PrecisionOrder, "environment overrides file")
	assert.Equal(t, 2, conf.Shards, "flags override defaults")
	assert.Equal(t, 30*time.Second, conf.Timeout)
	assert.True(t, conf.RangeMax.Equal(decimal.NewFromInt(10)), "default")
	table, err := SubstitutionTable(konf.Koanf(), "words/2")
	require.NoError(t, err)
	assert.Equal(t, " <= ", table.Rules[0].To)
	_, err = SubstitutionTable(konf.Koanf(), "words/1")
	assert.Error(t, err)
}

func TestConfigFileLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	paths, err := DefaultAppPaths("BEARSOLVETEST")
	require.NoError(t, err)
	dir := paths.ConfigDir()
	require.NoError(t, os.MkdirAll(dir, 0755))
	inConfigDir := filepath.Join(dir, "grid.yaml")
	require.NoError(t, os.WriteFile(inConfigDir, []byte("range-step: 2\n"), 0644))
	//
	assert.Equal(t, inConfigDir, configFile("grid.yaml", "BEARSOLVETEST"))
	assert.Equal(t, "other.yaml", configFile("other.yaml", "BEARSOLVETEST"))
	assert.Equal(t, "grid.yaml", configFile("grid.yaml", ""), "no lookup without app tag")
	//
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addConfigFlags(flags)
	require.NoError(t, flags.Parse([]string{"--config", "grid.yaml"}))
	konf, err := loadConfig(flags, "BEARSOLVETEST")
	require.NoError(t, err)
	conf, err := ConfigFrom(konf.Koanf())
	require.NoError(t, err)
	assert.True(t, conf.RangeStep.Equal(decimal.NewFromInt(2)))
}

func TestExitCodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.cli")
	defer teardown()
	//
	for i, x := range []struct {
		err  error
		code int
	}{
		{nil, ExitOK},
		{errors.New("flag"), ExitUsage},
		{bearsolve.NewInputFormatError("x", bearsolve.ErrEmptyInput, ""), ExitInput},
		{errors.Wrap(bearsolve.Unsupported("Call", "tan"), "context"), ExitUnsupported},
		{&bearsolve.DecisionProcedureUnknown{Reason: "budget exhausted"}, ExitIncomplete},
	} {
		if code := ExitCode(x.err); code != x.code {
			t.Errorf("test %d: expected exit code %d, have %d", i, x.code, code)
		}
	}
}
