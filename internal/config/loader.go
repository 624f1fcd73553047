package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scancam/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr    string        `json:"addr" yaml:"addr" toml:"addr"`
	Device  string        `json:"device" yaml:"device" toml:"device"`
	Camera  CameraConfig  `json:"camera" yaml:"camera" toml:"camera"`
	Screen  ScreenConfig  `json:"screen" yaml:"screen" toml:"screen"`
	Ambient AmbientConfig `json:"ambient" yaml:"ambient" toml:"ambient"`
	Decode  DecodeConfig  `json:"decode" yaml:"decode" toml:"decode"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
	CORS    CORSConfig    `json:"cors" yaml:"cors" toml:"cors"`
}

type CameraConfig struct {
	FramingFraction     float64  `json:"framing_fraction" yaml:"framing_fraction" toml:"framing_fraction"`
	ManualFramingWidth  int      `json:"manual_framing_width" yaml:"manual_framing_width" toml:"manual_framing_width"`
	ManualFramingHeight int      `json:"manual_framing_height" yaml:"manual_framing_height" toml:"manual_framing_height"`
	AutoFocusInterval   Duration `json:"autofocus_interval" yaml:"autofocus_interval" toml:"autofocus_interval"`
}

type ScreenConfig struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

type AmbientConfig struct {
	FrontLightMode  string  `json:"front_light_mode" yaml:"front_light_mode" toml:"front_light_mode"`
	TooDarkLux      float64 `json:"too_dark_lux" yaml:"too_dark_lux" toml:"too_dark_lux"`
	BrightEnoughLux float64 `json:"bright_enough_lux" yaml:"bright_enough_lux" toml:"bright_enough_lux"`
	// SimReadings feeds the simulated light sensor when Device is "sim".
	SimReadings []float64 `json:"sim_readings" yaml:"sim_readings" toml:"sim_readings"`
}

// DecodeConfig mirrors the stored decode preferences. The booleans are
// pointers so an absent key can default to true.
type DecodeConfig struct {
	Decode1D         *bool    `json:"decode_1d" yaml:"decode_1d" toml:"decode_1d"`
	DecodeQR         *bool    `json:"decode_qr" yaml:"decode_qr" toml:"decode_qr"`
	DecodeDataMatrix *bool    `json:"decode_data_matrix" yaml:"decode_data_matrix" toml:"decode_data_matrix"`
	CharacterSet     string   `json:"character_set" yaml:"character_set" toml:"character_set"`
	Formats          []string `json:"formats" yaml:"formats" toml:"formats"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
}

type CORSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
}

// Duration is a time.Duration written as "2s" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults.
const (
	DefaultAddr            = ":8090"
	DefaultDevice          = "sim"
	DefaultFramingFraction = 2.0 / 3.0
	DefaultAutoFocus       = 2 * time.Second
	DefaultScreenWidth     = 1080
	DefaultScreenHeight    = 1920
	DefaultFrontLightMode  = "auto"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)

// WithDefaults returns a copy with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.Camera.FramingFraction <= 0 || c.Camera.FramingFraction > 1 {
		c.Camera.FramingFraction = DefaultFramingFraction
	}
	if c.Camera.AutoFocusInterval <= 0 {
		c.Camera.AutoFocusInterval = Duration(DefaultAutoFocus)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		c.Screen.Width, c.Screen.Height = DefaultScreenWidth, DefaultScreenHeight
	}
	if c.Ambient.FrontLightMode == "" {
		c.Ambient.FrontLightMode = DefaultFrontLightMode
	}
	t := true
	if c.Decode.Decode1D == nil {
		c.Decode.Decode1D = &t
	}
	if c.Decode.DecodeQR == nil {
		c.Decode.DecodeQR = &t
	}
	if c.Decode.DecodeDataMatrix == nil {
		f := false
		c.Decode.DecodeDataMatrix = &f
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.Resolve(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
