package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// AppPaths is an interface to determine application specific paths for configuration
// and logging/tracing.
type AppPaths interface {
	ConfigDir() string
	LogDir() string
}

// DefaultAppPaths returns an AppPaths instance with platform-dependent defaults
// set, given appTag. appTag is a string specific to a client's application to identify it.
func DefaultAppPaths(appTag string) (AppPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return appPaths{tag: strings.ToLower(appTag)}, err
	}
	return appPaths{tag: strings.ToLower(appTag), home: home}, nil
}

type appPaths struct {
	tag  string
	home string
}

var _ AppPaths = appPaths{}

// ConfigDir is the place of the user's configuration files, e.g.
// ~/.config/bearsolve.
func (a appPaths) ConfigDir() string {
	c, err := os.UserConfigDir()
	if err != nil {
		if a.home == "" {
			return ""
		}
		c = filepath.Join(a.home, ".config")
	}
	return filepath.Join(c, a.tag)
}

// LogDir is the default place of log files.
func (a appPaths) LogDir() string {
	c, err := os.UserCacheDir()
	if err != nil {
		c = a.home
	}
	if c == "" {
		return ""
	}
	return filepath.Join(c, "logs", a.tag)
}

// resolve makes a log destination absolute. Plain file names are placed into
// the log directory; URIs and absolute paths are left alone.
func (a appPaths) resolve(dest string) string {
	switch {
	case dest == "" || strings.EqualFold(dest, "stderr") || strings.EqualFold(dest, "stdout"):
		return dest
	case strings.Contains(dest, ":/"):
		return dest
	case filepath.IsAbs(dest):
		return "file://" + dest
	}
	if dir := a.LogDir(); dir != "" {
		return "file://" + filepath.Join(dir, dest)
	}
	return "file://" + dest
}
