package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	DB struct {
		Path string
	} `mapstructure:"db"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Log struct {
		Path string
	} `mapstructure:"log"`

	Scanner struct {
		// Device is the serial/HID scanner device path. Empty means no
		// scanner attached; camera mode then fails to start and manual
		// entry remains available.
		Device    string `mapstructure:"device"`
		Facing    string `mapstructure:"facing"`
		FrameRate int    `mapstructure:"frame_rate"`
		Region    struct {
			Width  int
			Height int
		} `mapstructure:"region"`
	} `mapstructure:"scanner"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

// Load reads configuration from an optional YAML file with INVENTURA_*
// environment overrides and built-in defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("db.path", "inventura.sqlite3")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.path", "")
	v.SetDefault("scanner.device", "")
	v.SetDefault("scanner.facing", "environment")
	v.SetDefault("scanner.frame_rate", 10)
	v.SetDefault("scanner.region.width", 250)
	v.SetDefault("scanner.region.height", 250)
	v.SetDefault("metrics.enabled", true)

	v.SetEnvPrefix("INVENTURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
