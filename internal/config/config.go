package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/perspectshift/internal/backend"
)

// EnvPrefix is prepended to every config key to form its environment variable
const EnvPrefix = "PERSPECTSHIFT"

// Environment variables read by Load
const (
	EnvAPIURL    = EnvPrefix + "_API_URL"
	EnvSkin      = EnvPrefix + "_SKIN"
	EnvPort      = EnvPrefix + "_PORT"
	EnvTimeout   = EnvPrefix + "_TIMEOUT"
	EnvLogLevel  = EnvPrefix + "_LOG_LEVEL"
	EnvLogFormat = EnvPrefix + "_LOG_FORMAT"
)

// Skins are the presentation variants shared by the web and terminal surfaces
var Skins = []string{"plain", "decorated"}

// Config holds the client settings
type Config struct {
	APIURL    string        `mapstructure:"api_url"`
	Skin      string        `mapstructure:"skin"`
	Port      string        `mapstructure:"port"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"api-url":    "api_url",
	"skin":       "skin",
	"port":       "port",
	"timeout":    "timeout",
	"log-level":  "log_level",
	"log-format": "log_format",
}

// Default returns the built-in settings. A zero Timeout disables request timeouts.
func Default() *Config {
	return &Config{
		APIURL:    backend.DefaultBaseURL,
		Skin:      "decorated",
		Port:      "5173",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("skin", d.Skin)
	v.SetDefault("port", d.Port)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load resolves the settings from flags, then PERSPECTSHIFT_* environment
// variables, then the optional YAML file at path, then the defaults. Only
// flags that were set on the command line take part; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings before any surface starts
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid api url %q: %w", c.APIURL, err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("invalid api url %q: scheme must be http or https", c.APIURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("invalid api url %q: missing host", c.APIURL))
	}

	if !knownSkin(c.Skin) {
		errs = append(errs, fmt.Errorf("unknown skin %q (expected plain or decorated)", c.Skin))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q (expected text or json)", c.LogFormat))
	}

	return errors.Join(errs...)
}

func knownSkin(name string) bool {
	for _, s := range Skins {
		if s == name {
			return true
		}
	}
	return false
}
