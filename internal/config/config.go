package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Data DataConfig `mapstructure:"data"`
	Log  LogConfig  `mapstructure:"log"`
	UI   UIConfig   `mapstructure:"ui"`
}

// DataConfig locates the records database and UI state.
type DataConfig struct {
	// Dir is empty until resolved; see store.DefaultDir.
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error off"`
	// File defaults to <data dir>/dayplanner.log when empty.
	File string `mapstructure:"file"`
}

type UIConfig struct {
	// StartDate is YYYY-MM-DD; empty means today.
	StartDate       string `mapstructure:"start_date" validate:"omitempty,datetime=2006-01-02"`
	RestoreLastDate bool   `mapstructure:"restore_last_date"`
	ASCII           bool   `mapstructure:"ascii"`
}

const envPrefix = "DAYPLANNER"

// Load reads defaults, then the config file (if any), then DAYPLANNER_* env overrides.
// path overrides the config file location; a missing default file is fine,
// a missing explicit file is an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("data.dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.start_date", "")
	v.SetDefault("ui.restore_last_date", false)
	v.SetDefault("ui.ascii", false)

	v.SetConfigType("yaml")
	if path == "" {
		path = strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG"))
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s=%q (%s)", fieldKey(fe.Namespace()), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// fieldKey maps a validator namespace (Config.UI.StartDate) to its config key (ui.start_date).
func fieldKey(ns string) string {
	switch ns {
	case "Config.Log.Level":
		return "log.level"
	case "Config.UI.StartDate":
		return "ui.start_date"
	default:
		return ns
	}
}

// configDir is $XDG_CONFIG_HOME/dayplanner (or the platform equivalent).
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "dayplanner"), nil
}

// LogFile resolves the log path against the data directory.
func (c Config) LogFile(dataDir string) string {
	if f := strings.TrimSpace(c.Log.File); f != "" {
		return f
	}
	return filepath.Join(dataDir, "dayplanner.log")
}
