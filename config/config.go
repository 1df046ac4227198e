// Package config loads the exposure CLI configuration.
//
// Precedence (highest to lowest):
//  1. CLI flags bound with BindFlags
//  2. Environment variables (EXPOSURE_PROBE_RADIUS, EXPOSURE_HTTP_TIMEOUT, etc.)
//  3. config.yaml values
//  4. Defaults from NewDefaultConfig()
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tikz/exposure/sasa"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "EXPOSURE"

// Config holds the parameters of a run.
type Config struct {
	ProbeRadius          float64
	SampleCount          int
	ExposureThreshold    float64
	DefaultElementRadius *float64
	Workers              int
	Hetatm               bool

	HTTP  HTTPConfig
	Cache CacheConfig
	Log   LogConfig
}

// HTTPConfig holds the client settings used to download structures.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// CacheConfig holds the location of the structure download cache.
type CacheConfig struct {
	Path string
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Debug  bool
	Pretty bool
	JSON   bool
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"probe":          "probe_radius",
	"samples":        "sample_count",
	"threshold":      "exposure_threshold",
	"default-radius": "default_element_radius",
	"workers":        "workers",
	"hetatm":         "hetatm",
	"cache":          "cache.path",
	"debug":          "log.debug",
	"pretty":         "log.pretty",
	"json-log":       "log.json",
}

// InitViper returns a viper instance with defaults registered, the config file read
// (if configFile is empty, config.yaml is looked up in the working directory) and
// environment variables bound.
func InitViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config.yaml is fine, defaults apply. An explicit file must exist.
		if configFile != "" || !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default exists for the fallback radius, so AutomaticEnv alone would not see it.
	if err := v.BindEnv("default_element_radius"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	return v, nil
}

func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("probe_radius", d.ProbeRadius)
	v.SetDefault("sample_count", d.SampleCount)
	v.SetDefault("exposure_threshold", d.ExposureThreshold)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("hetatm", d.Hetatm)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)

	v.SetDefault("cache.path", d.Cache.Path)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.pretty", d.Log.Pretty)
	v.SetDefault("log.json", d.Log.JSON)
}

// BindFlags binds the registered CLI flags present in fs to their configuration keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration out of v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		ProbeRadius:       v.GetFloat64("probe_radius"),
		SampleCount:       v.GetInt("sample_count"),
		ExposureThreshold: v.GetFloat64("exposure_threshold"),
		Workers:           v.GetInt("workers"),
		Hetatm:            v.GetBool("hetatm"),
		HTTP: HTTPConfig{
			Timeout:   v.GetDuration("http.timeout"),
			UserAgent: v.GetString("http.user_agent"),
		},
		Cache: CacheConfig{
			Path: v.GetString("cache.path"),
		},
		Log: LogConfig{
			Debug:  v.GetBool("log.debug"),
			Pretty: v.GetBool("log.pretty"),
			JSON:   v.GetBool("log.json"),
		},
	}

	if v.IsSet("default_element_radius") {
		r := v.GetFloat64("default_element_radius")
		c.DefaultElementRadius = &r
	}

	if err := c.Engine(nil).Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine returns the surface engine parameters, logging to log.
func (c *Config) Engine(log *slog.Logger) sasa.Config {
	return sasa.Config{
		ProbeRadius:          c.ProbeRadius,
		SampleCount:          c.SampleCount,
		ExposureThreshold:    c.ExposureThreshold,
		DefaultElementRadius: c.DefaultElementRadius,
		Workers:              c.Workers,
		Logger:               log,
	}
}
