package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the dashboard configuration.
const (
	DefaultHTTPPort      = 8050
	DefaultLogLevel      = "info"
	DefaultDataSource    = "spacex_launch_dash.csv"
	DefaultChartWidth    = 800
	DefaultChartHeight   = 500
	DefaultPingPeriod    = 54 * time.Second
	DefaultWriteTimeout  = 10 * time.Second
	DefaultSliderMax     = 10000
	DefaultSliderStep    = 1000
	DefaultAuthHeader    = "x-api-key"
	DefaultS3Region      = "us-east-1"
	defaultSliderMarkGap = 2500
)

// Config is the full launchdash configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Chart   ChartConfig   `yaml:"chart"`
	Slider  SliderConfig  `yaml:"slider"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// HTTPPort is the port the dashboard, REST API and WebSocket session listen on.
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error. Hot-reloadable.
	LogLevel string `yaml:"log_level"`

	// UIDir, when set, serves static UI files from this directory instead of
	// the embedded dashboard page.
	UIDir string `yaml:"ui_dir"`

	// Auth configures how REST and WebSocket clients authenticate.
	Auth AuthConfig `yaml:"auth"`

	// WebSocket tunes the session keepalive.
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from. Defaults to "x-api-key".
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAuthHeader
}

// WebSocketConfig controls session keepalive timing.
type WebSocketConfig struct {
	// PingPeriod is how often the server pings a client. The read deadline is
	// 10/9 of this value.
	PingPeriod time.Duration `yaml:"ping_period"`

	// WriteTimeout bounds a single write to a client.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatasetConfig names the launch table.
type DatasetConfig struct {
	// Source is a local path or an s3://bucket/key URI.
	Source string `yaml:"source"`

	// S3 configures access for s3:// sources.
	S3 S3Config `yaml:"s3"`
}

// S3Config holds S3-compatible endpoint settings.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`

	// AccessKeyEnv and SecretKeyEnv name environment variables holding static
	// credentials. When unset the default AWS credential chain is used.
	AccessKeyEnv string `yaml:"access_key_env"`
	SecretKeyEnv string `yaml:"secret_key_env"`
}

// AccessKeyID returns the access key resolved from the environment.
func (s S3Config) AccessKeyID() string {
	if s.AccessKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.AccessKeyEnv)
}

// SecretAccessKey returns the secret key resolved from the environment.
func (s S3Config) SecretAccessKey() string {
	if s.SecretKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.SecretKeyEnv)
}

// ChartConfig sets the rendered chart canvas size in pixels.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SliderConfig describes the payload range slider shown by the UI.
type SliderConfig struct {
	Min   float64   `yaml:"min"`
	Max   float64   `yaml:"max"`
	Step  float64   `yaml:"step"`
	Marks []float64 `yaml:"marks"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
			WebSocket: WebSocketConfig{
				PingPeriod:   DefaultPingPeriod,
				WriteTimeout: DefaultWriteTimeout,
			},
		},
		Dataset: DatasetConfig{
			Source: DefaultDataSource,
			S3:     S3Config{Region: DefaultS3Region},
		},
		Chart: ChartConfig{
			Width:  DefaultChartWidth,
			Height: DefaultChartHeight,
		},
		Slider: SliderConfig{
			Min:   0,
			Max:   DefaultSliderMax,
			Step:  DefaultSliderStep,
			Marks: []float64{0, defaultSliderMarkGap, 2 * defaultSliderMarkGap, 3 * defaultSliderMarkGap, DefaultSliderMax},
		},
	}
}

// SlogLevel maps LogLevel to a slog.Level. Unknown names map to Info;
// validate rejects them before they get here.
func (s ServerConfig) SlogLevel() slog.Level {
	lvl, _ := parseLevel(s.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if _, ok := parseLevel(cfg.Server.LogLevel); !ok {
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.WebSocket.PingPeriod <= 0 {
		return fmt.Errorf("server.websocket.ping_period must be positive")
	}
	if cfg.Server.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("server.websocket.write_timeout must be positive")
	}
	if strings.TrimSpace(cfg.Dataset.Source) == "" {
		return fmt.Errorf("dataset.source is required")
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return fmt.Errorf("chart size %dx%d must be positive", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Slider.Max <= cfg.Slider.Min {
		return fmt.Errorf("slider.max %g must be greater than slider.min %g", cfg.Slider.Max, cfg.Slider.Min)
	}
	if cfg.Slider.Step <= 0 {
		return fmt.Errorf("slider.step must be positive")
	}
	return nil
}
