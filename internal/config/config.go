// Package config loads cratelore settings from TOML files, environment
// variables, and defaults, and owns the on-disk cache layout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	IndexFile string `mapstructure:"index_file"`
	FullFile  string `mapstructure:"full_file"`
}

type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type CargoConfig struct {
	Toolchain string `mapstructure:"toolchain"`
}

type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Cargo  CargoConfig  `mapstructure:"cargo"`
}

// cacheBase returns the base cache directory for cratelore.
// Checks XDG_CACHE_HOME, then ~/.cache, then a tmp fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "cratelore")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "cratelore")
	}
	return filepath.Join(os.TempDir(), "cratelore")
}

// DBPath returns the path to the DuckDB corpus store.
func DBPath() string {
	return filepath.Join(cacheBase(), "corpora.db")
}

// CASDir returns the path to the content-addressable storage directory.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

// JSONCacheDir returns the path to the rustdoc JSON cache directory.
func JSONCacheDir() string {
	return filepath.Join(cacheBase(), "json")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "cratelore"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "cratelore"))
	}

	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.index_file", "llms.txt")
	viper.SetDefault("output.full_file", "llms-full.txt")
	viper.SetDefault("fetch.timeout", "60s")
	viper.SetDefault("cargo.toolchain", "")

	viper.SetEnvPrefix("CRATELORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// durationHookFunc decodes durations given either as Go duration
// strings ("90s", "2m") or as plain integer seconds.
func durationHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch f.Kind() {
		case reflect.String:
			s := data.(string)
			if secs, err := strconv.Atoi(s); err == nil {
				return time.Duration(secs) * time.Second, nil
			}
			return time.ParseDuration(s)
		case reflect.Int, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Float64:
			return time.Duration(data.(float64) * float64(time.Second)), nil
		}
		return data, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: durationHookFunc(),
		Result:     &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
