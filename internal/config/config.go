// Package config loads snapping options from mapsnap.cfg.json through viper.
package config

import (
	"fmt"
	"strings"

	"github.com/OCAP2/mapsnap/internal/snap"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "mapsnap.cfg.json"

// EnvPrefix marks the dotenv keys that override configuration values.
const EnvPrefix = "MAPSNAP_"

func setDefaults() {
	d := snap.DefaultOptions()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("snap", d.Snap)
	viper.SetDefault("guides", d.Guides)
	viper.SetDefault("snapOptions.snapPx", d.SnapOptions.SnapPx)
	viper.SetDefault("snapOptions.snapVertexPriorityDistance", d.SnapOptions.SnapVertexPriorityDistance)
	viper.SetDefault("snapOptions.snapToMidPoints", d.SnapOptions.SnapToMidPoints)
}

// Load sets default values and reads the JSON file from configDir. An empty
// configDir leaves only the defaults in place.
func Load(configDir string) error {
	setDefaults()
	if configDir == "" {
		return nil
	}

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// LoadEnv applies overrides from a dotenv file on top of what Load read.
// Keys are the upper-cased config keys with dots as underscores behind
// EnvPrefix, e.g. MAPSNAP_SNAPOPTIONS_SNAPPX=20. Other keys are ignored.
func LoadEnv(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("error reading env file: %w", err)
	}
	for k, v := range vars {
		if !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(k, EnvPrefix), "_", "."))
		viper.Set(key, v)
	}
	return nil
}

// Options decodes the current snapping options.
func Options() (snap.Options, error) {
	var opts snap.Options
	if err := viper.Unmarshal(&opts); err != nil {
		return snap.Options{}, fmt.Errorf("decoding options: %w", err)
	}
	return opts, nil
}

// LogLevel returns the configured log level name.
func LogLevel() string {
	return viper.GetString("logLevel")
}

// LogsDir returns the directory for log files, empty for console logging.
func LogsDir() string {
	return viper.GetString("logsDir")
}

// Watch re-reads the file on change and hands the decoded options to fn.
// A file that fails to decode is reported to fn as an error and the
// previous options stay in effect on the caller's side.
func Watch(fn func(snap.Options, error)) {
	viper.OnConfigChange(changeHandler(fn))
	viper.WatchConfig()
}

func changeHandler(fn func(snap.Options, error)) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		opts, err := Options()
		if err != nil {
			fn(snap.Options{}, fmt.Errorf("%s: %w", e.Name, err))
			return
		}
		fn(opts, nil)
	}
}
