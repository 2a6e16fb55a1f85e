package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/grammar"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/appender"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// AppTag identifies the application's configuration files and environment.
const AppTag = "BEARSOLVE"

// Configuration keys. Flags carry the same names.
const (
	keyRangeMin       = "range-min"
	keyRangeMax       = "range-max"
	keyRangeStep      = "range-step"
	keyBearingMin     = "bearing-min"
	keyBearingMax     = "bearing-max"
	keyBearingStep    = "bearing-step"
	keyPrecisionOrder = "precision-order"
	keyPi             = "pi"
	keyMaxChecks      = "max-checks"
	keyTimeout        = "timeout"
	keyShards         = "shards"
	keyTable          = "table"
	keyTables         = "tables" // user-defined substitution tables
	keyConfigFile     = "config"
	keyLogfile        = "logfile"
)

// defaults flattens a configuration into koanf keys.
func defaults(conf bearsolve.Config) map[string]interface{} {
	return map[string]interface{}{
		keyRangeMin:       conf.RangeMin.String(),
		keyRangeMax:       conf.RangeMax.String(),
		keyRangeStep:      conf.RangeStep.String(),
		keyBearingMin:     conf.BearingMin.String(),
		keyBearingMax:     conf.BearingMax.String(),
		keyBearingStep:    conf.BearingStep.String(),
		keyPrecisionOrder: conf.PrecisionOrder,
		keyPi:             conf.Pi.String(),
		keyMaxChecks:      conf.MaxChecks,
		keyTimeout:        conf.Timeout.String(),
		keyShards:         conf.Shards,
		keyTable:          conf.Table,
		"trace.root":      "Error",
	}
}

// addConfigFlags defines a persistent flag for every configuration option.
func addConfigFlags(flags *pflag.FlagSet) {
	d := bearsolve.DefaultConfig()
	flags.String(keyConfigFile, "", "YAML configuration file")
	flags.String(keyLogfile, "stderr", "URL of log output location")
	flags.String(keyRangeMin, d.RangeMin.String(), "lowest Range value")
	flags.String(keyRangeMax, d.RangeMax.String(), "highest Range value")
	flags.String(keyRangeStep, d.RangeStep.String(), "distance of Range values")
	flags.String(keyBearingMin, d.BearingMin.String(), "lowest bearing value, in degrees")
	flags.String(keyBearingMax, d.BearingMax.String(), "highest bearing value, in degrees")
	flags.String(keyBearingStep, d.BearingStep.String(), "distance of bearing values, in degrees")
	flags.IntP(keyPrecisionOrder, "p", d.PrecisionOrder, "number of terms of the sin/cos polynomials")
	flags.String(keyPi, d.Pi.String(), "approximation of π")
	flags.Int(keyMaxChecks, d.MaxChecks, "maximum number of satisfiability checks (0: no limit)")
	flags.Duration(keyTimeout, d.Timeout, "wall-clock budget of an enumeration (0: no limit)")
	flags.IntP(keyShards, "j", d.Shards, "number of sub-domains searched in parallel")
	flags.String(keyTable, d.Table, "substitution table applied before parsing")
}

// loadConfig layers all configuration sources, lowest precedence first:
// defaults, the user's NestedText file (if appTag is set), a YAML file given
// by --config, BEARSOLVE_* environment variables, and flags.
func loadConfig(flags *pflag.FlagSet, appTag string) (*koanfadapter.KConf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(bearsolve.DefaultConfig()), "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}
	konf := koanfadapter.New(k, appTag, []string{"nt"})
	konf.InitDefaults()
	if path, _ := flags.GetString(keyConfigFile); path != "" {
		path = configFile(path, appTag)
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading configuration file %s", path)
		}
	}
	if appTag != "" {
		if err := k.Load(env.Provider(appTag+"_", ".", envKey(appTag)), nil); err != nil {
			return nil, errors.Wrap(err, "loading environment")
		}
	}
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, errors.Wrap(err, "loading flags")
	}
	if logname := konf.GetString(keyLogfile); logname != "" && logname != "stderr" {
		paths, _ := DefaultAppPaths(appTag)
		konf.Set("tracing.destination", paths.(appPaths).resolve(logname))
	}
	return konf, nil
}

// configFile locates a configuration file. A relative path which does not
// exist in the working directory is looked up in the user's configuration
// directory.
func configFile(path, appTag string) string {
	if filepath.IsAbs(path) || appTag == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	paths, _ := DefaultAppPaths(appTag)
	if dir := paths.ConfigDir(); dir != "" {
		if _, err := os.Stat(filepath.Join(dir, path)); err == nil {
			return filepath.Join(dir, path)
		}
	}
	return path
}

// envKey maps BEARSOLVE_RANGE_STEP to range-step and BEARSOLVE_TRACE__ROOT
// to trace.root.
func envKey(appTag string) func(string) string {
	return func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, appTag+"_"))
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ReplaceAll(s, "_", "-")
	}
}

// ConfigFrom creates a validated configuration from koanf values.
func ConfigFrom(k *koanf.Koanf) (bearsolve.Config, error) {
	var err error
	dec := func(key string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		d, e := decimal.NewFromString(k.String(key))
		if e != nil {
			err = errors.Wrapf(bearsolve.ErrInvalidConfig, "%s: %v", key, e)
		}
		return d
	}
	conf := bearsolve.Config{
		RangeMin:       dec(keyRangeMin),
		RangeMax:       dec(keyRangeMax),
		RangeStep:      dec(keyRangeStep),
		BearingMin:     dec(keyBearingMin),
		BearingMax:     dec(keyBearingMax),
		BearingStep:    dec(keyBearingStep),
		PrecisionOrder: k.Int(keyPrecisionOrder),
		Pi:             dec(keyPi),
		MaxChecks:      k.Int(keyMaxChecks),
		Timeout:        k.Duration(keyTimeout),
		Shards:         k.Int(keyShards),
		Table:          k.String(keyTable),
	}
	if err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

// UserTables reads the user-defined substitution tables of key 'tables'.
func UserTables(k *koanf.Koanf) ([]grammar.SubstitutionTable, error) {
	if !k.Exists(keyTables) {
		return nil, nil
	}
	var user []grammar.SubstitutionTable
	if err := k.Unmarshal(keyTables, &user); err != nil {
		return nil, errors.Wrap(err, "reading substitution tables")
	}
	for _, t := range user {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// SubstitutionTable finds a table by its ID, searching user-defined tables
// first.
func SubstitutionTable(k *koanf.Koanf, id string) (grammar.SubstitutionTable, error) {
	user, err := UserTables(k)
	if err != nil {
		return grammar.SubstitutionTable{}, err
	}
	return grammar.LookupTable(id, user...)
}

// configureTracing sets up the root tracer from the configuration. Adapter
// types 'go' and 'logrus' are supported.
func configureTracing(konf *koanfadapter.KConf) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	switch a := konf.GetString("tracing.adapter"); a {
	case "go", "logrus":
	default:
		tracing.Errorf("tracing adapter type '%s' currently not supported", a)
		konf.Set("tracing.adapter", "go")
	}
	if dest := konf.GetString("tracing.destination"); strings.HasPrefix(dest, "file:") {
		w, err := appender.Destination(dest)
		if err != nil {
			return errors.Wrapf(err, "opening log file %s", dest)
		}
		bearsolve.Tracefile = w
	}
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Infof("configuration: %s", konf.Koanf().Sprint())
	return nil
}
