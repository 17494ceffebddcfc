// Package config loads the run configuration. Every field degrades
// individually: a malformed value falls back to that key's default with a
// warning, and the file is never rejected wholesale.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/winddown/winddown/internal/proc"
	"github.com/winddown/winddown/pkg/log"
)

const (
	defaultTimeoutMS = 5000
	minTimeoutMS     = 1000

	configDirName  = ".winddown"
	configFileName = "winddown"
)

// Config is the immutable per-run configuration. It is constructed once at
// startup and passed by value; there is no package-level singleton.
type Config struct {
	// TimeoutMS is the shared graceful-close budget in milliseconds, never
	// below minTimeoutMS.
	TimeoutMS int
	// AlwaysForce makes every run behave as if --force was passed.
	AlwaysForce bool
	// NoGraceful skips the graceful-close phase.
	NoGraceful bool
	// ExcludedProcesses are user-supplied names never offered for closure,
	// on top of the hard-coded core set.
	ExcludedProcesses []string
	// Colors maps report elements to color names. Cosmetic only.
	Colors map[string]string
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		TimeoutMS: defaultTimeoutMS,
		Colors:    map[string]string{},
	}
}

// Timeout returns the graceful budget as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Exclusions builds the effective exclusion list, always unioned with the
// hard-coded core set.
func (c Config) Exclusions() proc.ExclusionList {
	return proc.NewExclusionList(c.ExcludedProcesses)
}

// recognized keys; anything else in the file earns a warning.
var knownKeys = map[string]struct{}{
	"timeoutms":         {},
	"alwaysforce":       {},
	"nograceful":        {},
	"excludedprocesses": {},
	"colors":            {},
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, configFileName+".yaml")
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file is not an error; defaults apply. Malformed
// fields are logged and defaulted individually (ConfigWarning semantics).
func Load(path string) Config {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		p := DefaultPath()
		if p == "" {
			return cfg
		}
		v.SetConfigFile(p)
	}

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return cfg
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg
		}
		log.Warnw("config file unreadable, using defaults", "file", v.ConfigFileUsed(), "error", err)
		return cfg
	}

	warnUnknownKeys(v)

	if v.IsSet("timeoutMS") {
		ms, err := cast.ToIntE(v.Get("timeoutMS"))
		switch {
		case err != nil:
			log.Warnw("invalid timeoutMS, using default", "value", v.Get("timeoutMS"), "default", defaultTimeoutMS)
		case ms < minTimeoutMS:
			log.Warnw("timeoutMS below minimum, clamping", "value", ms, "minimum", minTimeoutMS)
			cfg.TimeoutMS = minTimeoutMS
		default:
			cfg.TimeoutMS = ms
		}
	}

	if v.IsSet("alwaysForce") {
		b, err := cast.ToBoolE(v.Get("alwaysForce"))
		if err != nil {
			log.Warnw("invalid alwaysForce, using default", "value", v.Get("alwaysForce"))
		} else {
			cfg.AlwaysForce = b
		}
	}

	if v.IsSet("noGraceful") {
		b, err := cast.ToBoolE(v.Get("noGraceful"))
		if err != nil {
			log.Warnw("invalid noGraceful, using default", "value", v.Get("noGraceful"))
		} else {
			cfg.NoGraceful = b
		}
	}

	if v.IsSet("excludedProcesses") {
		names, err := cast.ToStringSliceE(v.Get("excludedProcesses"))
		if err != nil {
			log.Warnw("invalid excludedProcesses, using default", "value", v.Get("excludedProcesses"))
		} else {
			for _, n := range names {
				n = strings.ToLower(strings.TrimSpace(n))
				if n != "" {
					cfg.ExcludedProcesses = append(cfg.ExcludedProcesses, n)
				}
			}
		}
	}

	if v.IsSet("colors") {
		colors, err := cast.ToStringMapStringE(v.Get("colors"))
		if err != nil {
			log.Warnw("invalid colors map, ignoring", "value", v.Get("colors"))
		} else {
			cfg.Colors = colors
		}
	}

	return cfg
}

func warnUnknownKeys(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		root := key
		if i := strings.Index(key, "."); i >= 0 {
			root = key[:i]
		}
		if _, ok := knownKeys[strings.ToLower(root)]; !ok {
			log.Warnw("unknown configuration key ignored", "key", key)
		}
	}
}
