// Package config loads settings from defaults, an optional YAML file and
// LISTE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const EnvPrefix = "LISTE"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Touch   TouchConfig   `mapstructure:"touch"`
	Gesture GestureConfig `mapstructure:"gesture"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
	Serve   ServeConfig   `mapstructure:"serve"`
}

// ServerConfig is where the client finds the list service.
type ServerConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TouchConfig scales terminal cells to touch coordinates.
type TouchConfig struct {
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`
}

type GestureConfig struct {
	TapThreshold  float64       `mapstructure:"tap_threshold"`
	LockThreshold float64       `mapstructure:"lock_threshold"`
	CommitRatio   float64       `mapstructure:"commit_ratio"`
	SnapBack      time.Duration `mapstructure:"snap_back"`
	Settle        time.Duration `mapstructure:"settle"`
	Frame         time.Duration `mapstructure:"frame"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ServeConfig configures `liste serve`.
type ServeConfig struct {
	Addr            string        `mapstructure:"addr"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	data := filepath.Join(home, ".liste")

	v.SetDefault("server.url", "http://localhost:9000")
	v.SetDefault("server.username", "listclient")
	v.SetDefault("server.password", "")
	v.SetDefault("server.timeout", 4*time.Second)

	v.SetDefault("touch.cell_width", 8.0)
	v.SetDefault("touch.cell_height", 16.0)

	v.SetDefault("gesture.tap_threshold", 10.0)
	v.SetDefault("gesture.lock_threshold", 2.0)
	v.SetDefault("gesture.commit_ratio", 0.3)
	v.SetDefault("gesture.snap_back", 100*time.Millisecond)
	v.SetDefault("gesture.settle", 100*time.Millisecond)
	v.SetDefault("gesture.frame", 16*time.Millisecond)

	v.SetDefault("ui.theme", "classic")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(data, "liste.log"))

	v.SetDefault("serve.addr", "0.0.0.0:9000")
	v.SetDefault("serve.database", filepath.Join(data, "server.db"))
	v.SetDefault("serve.username", "listclient")
	v.SetDefault("serve.password", "")
	v.SetDefault("serve.request_timeout", 4*time.Second)
	v.SetDefault("serve.ping_timeout", 4*time.Second)
	v.SetDefault("serve.idle_timeout", 60*time.Second)
	v.SetDefault("serve.broadcast_buffer", 32)
}

// New returns a viper instance with defaults and env overrides set up and
// the config file read. file may be empty, in which case $LISTE_CONFIG or
// ~/.config/liste/config.yaml is used when present. An explicitly named file
// must exist.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if file == "" {
		file = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := file != ""
	if explicit {
		v.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "liste"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals the current settings of v.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func Load(file string) (Config, error) {
	v, err := New(file)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}

// Watch calls fn with the new settings whenever the config file changes.
// It does nothing when no config file was read.
func Watch(v *viper.Viper, fn func(Config, error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(fsnotify.Event) {
		fn(Decode(v))
	})
	v.WatchConfig()
}
