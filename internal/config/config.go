package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTickRate     = 60
	DefaultDt           = 0.016
	DefaultGalacticRate = 0.002
	DefaultSegments     = 200
	EnvPrefix           = "ORRERY"
)

type Config struct {
	TickRate     int          `yaml:"tick_rate" mapstructure:"tick_rate"`
	Dt           float64      `yaml:"dt" mapstructure:"dt"`
	TimeScale    float64      `yaml:"time_scale" mapstructure:"time_scale"`
	Seed         int64        `yaml:"seed" mapstructure:"seed"`
	GalacticRate float64      `yaml:"galactic_rate" mapstructure:"galactic_rate"`
	PathSegments int          `yaml:"path_segments" mapstructure:"path_segments"`
	LogLevel     string       `yaml:"log_level" mapstructure:"log_level"`
	Camera       CameraConfig `yaml:"camera" mapstructure:"camera"`
	Focus        FocusConfig  `yaml:"focus" mapstructure:"focus"`
	Server       ServerConfig `yaml:"server" mapstructure:"server"`
}

type CameraConfig struct {
	Position      []float64 `yaml:"position" mapstructure:"position"`
	FOV           float64   `yaml:"fov" mapstructure:"fov"`
	Damping       bool      `yaml:"damping" mapstructure:"damping"`
	DampingFactor float64   `yaml:"damping_factor" mapstructure:"damping_factor"`
	MinDistance   float64   `yaml:"min_distance" mapstructure:"min_distance"`
	MaxDistance   float64   `yaml:"max_distance" mapstructure:"max_distance"`
	MinPolar      float64   `yaml:"min_polar" mapstructure:"min_polar"`
	MaxPolar      float64   `yaml:"max_polar" mapstructure:"max_polar"`
	RotateSpeed   float64   `yaml:"rotate_speed" mapstructure:"rotate_speed"`
	PanSpeed      float64   `yaml:"pan_speed" mapstructure:"pan_speed"`
}

type FocusConfig struct {
	Duration       time.Duration `yaml:"duration" mapstructure:"duration"`
	DistanceFactor float64       `yaml:"distance_factor" mapstructure:"distance_factor"`
	MinDistance    float64       `yaml:"min_distance" mapstructure:"min_distance"`
	Direction      []float64     `yaml:"direction" mapstructure:"direction"`
	ClickRearm     time.Duration `yaml:"click_rearm" mapstructure:"click_rearm"`
}

type ServerConfig struct {
	Addr  string  `yaml:"addr" mapstructure:"addr"`
	Rate  float64 `yaml:"rate" mapstructure:"rate"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

func DefaultConfig() *Config {
	return &Config{
		TickRate:     DefaultTickRate,
		Dt:           DefaultDt,
		TimeScale:    1,
		GalacticRate: DefaultGalacticRate,
		PathSegments: DefaultSegments,
		LogLevel:     "info",
		Camera: CameraConfig{
			Position:      []float64{0, 200, 400},
			FOV:           75,
			Damping:       true,
			DampingFactor: 0.05,
			MinDistance:   1,
			MaxDistance:   2000,
			MinPolar:      0,
			MaxPolar:      math.Pi,
			RotateSpeed:   0.2,
			PanSpeed:      0.3,
		},
		Focus: FocusConfig{
			Duration:       2 * time.Second,
			DistanceFactor: 6,
			MinDistance:    5,
			Direction:      []float64{0.7, 0.3, 0.7},
			ClickRearm:     100 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:  ":8080",
			Rate:  30,
			Burst: 10,
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("tick_rate", d.TickRate)
	v.SetDefault("dt", d.Dt)
	v.SetDefault("time_scale", d.TimeScale)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("galactic_rate", d.GalacticRate)
	v.SetDefault("path_segments", d.PathSegments)
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("camera.position", d.Camera.Position)
	v.SetDefault("camera.fov", d.Camera.FOV)
	v.SetDefault("camera.damping", d.Camera.Damping)
	v.SetDefault("camera.damping_factor", d.Camera.DampingFactor)
	v.SetDefault("camera.min_distance", d.Camera.MinDistance)
	v.SetDefault("camera.max_distance", d.Camera.MaxDistance)
	v.SetDefault("camera.min_polar", d.Camera.MinPolar)
	v.SetDefault("camera.max_polar", d.Camera.MaxPolar)
	v.SetDefault("camera.rotate_speed", d.Camera.RotateSpeed)
	v.SetDefault("camera.pan_speed", d.Camera.PanSpeed)

	v.SetDefault("focus.duration", d.Focus.Duration)
	v.SetDefault("focus.distance_factor", d.Focus.DistanceFactor)
	v.SetDefault("focus.min_distance", d.Focus.MinDistance)
	v.SetDefault("focus.direction", d.Focus.Direction)
	v.SetDefault("focus.click_rearm", d.Focus.ClickRearm)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate", d.Server.Rate)
	v.SetDefault("server.burst", d.Server.Burst)
}

// Load reads a YAML file on top of the defaults. ORRERY_* environment
// variables override both, e.g. ORRERY_CAMERA_FOV=60. An empty path loads
// defaults and environment only.
func Load(path string) (*Config, error) {
	return LoadFrom(DefaultConfig(), path)
}

// LoadFrom is Load with base supplying the defaults, typically a preset.
func LoadFrom(base *Config, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, base)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", ErrInvalid, c.TickRate)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt %v", ErrInvalid, c.Dt)
	case c.TimeScale <= 0:
		return fmt.Errorf("%w: time_scale %v", ErrInvalid, c.TimeScale)
	case c.PathSegments <= 0:
		return fmt.Errorf("%w: path_segments %d", ErrInvalid, c.PathSegments)
	case len(c.Camera.Position) != 3:
		return fmt.Errorf("%w: camera.position needs 3 components", ErrInvalid)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera.fov %v", ErrInvalid, c.Camera.FOV)
	case c.Camera.DampingFactor < 0 || c.Camera.DampingFactor > 1:
		return fmt.Errorf("%w: camera.damping_factor %v", ErrInvalid, c.Camera.DampingFactor)
	case c.Camera.MinDistance < 0 || c.Camera.MaxDistance < c.Camera.MinDistance:
		return fmt.Errorf("%w: camera distance range [%v, %v]", ErrInvalid, c.Camera.MinDistance, c.Camera.MaxDistance)
	case c.Camera.MinPolar < 0 || c.Camera.MaxPolar > math.Pi || c.Camera.MaxPolar-c.Camera.MinPolar <= 0.02:
		return fmt.Errorf("%w: camera polar range [%v, %v]", ErrInvalid, c.Camera.MinPolar, c.Camera.MaxPolar)
	case c.Focus.Duration < 0:
		return fmt.Errorf("%w: focus.duration %v", ErrInvalid, c.Focus.Duration)
	case len(c.Focus.Direction) != 3:
		return fmt.Errorf("%w: focus.direction needs 3 components", ErrInvalid)
	case c.Server.Rate < 0 || c.Server.Burst < 0:
		return fmt.Errorf("%w: server rate %v burst %d", ErrInvalid, c.Server.Rate, c.Server.Burst)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Camera.Position = append([]float64(nil), c.Camera.Position...)
	out.Focus.Direction = append([]float64(nil), c.Focus.Direction...)
	return &out
}

// TickInterval is the wall-clock period of one tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
