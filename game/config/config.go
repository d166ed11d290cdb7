package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/relay"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	DefaultAddr           = "localhost:12345"
	DefaultReceiveTimeout = 10 * time.Minute
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultMaxMessageSize = 512
	DefaultSendBuffer     = 256
	DefaultLogLevel       = "info"
)

// Config is the server configuration
type Config struct {
	Addr      string          `yaml:"addr" json:"addr"`
	Board     engine.Variant  `yaml:"board" json:"board"`
	Relay     RelayConfig     `yaml:"relay" json:"relay"`
	Transport TransportConfig `yaml:"transport" json:"transport"`
	LogLevel  string          `yaml:"log_level" json:"log_level"`
}

// RelayConfig sizes the links between the players of a session
type RelayConfig struct {
	Capacity       int           `yaml:"capacity" json:"capacity"`
	ReceiveTimeout time.Duration `yaml:"receive_timeout" json:"receive_timeout"`
}

// TransportConfig tunes websocket connections
type TransportConfig struct {
	WriteWait      time.Duration `yaml:"write_wait" json:"write_wait"`
	PongWait       time.Duration `yaml:"pong_wait" json:"pong_wait"`
	MaxMessageSize int64         `yaml:"max_message_size" json:"max_message_size"`
	SendBuffer     int           `yaml:"send_buffer" json:"send_buffer"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Addr:  DefaultAddr,
		Board: engine.DefaultVariant(),
		Relay: RelayConfig{
			Capacity:       relay.DefaultCapacity,
			ReceiveTimeout: DefaultReceiveTimeout,
		},
		Transport: TransportConfig{
			WriteWait:      DefaultWriteWait,
			PongWait:       DefaultPongWait,
			MaxMessageSize: DefaultMaxMessageSize,
			SendBuffer:     DefaultSendBuffer,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errs = append(errs, fmt.Errorf("addr %q: %v", c.Addr, err))
	}
	if err := c.Board.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("board: %w", err))
	}
	if c.Relay.Capacity < 1 {
		errs = append(errs, fmt.Errorf("relay.capacity must be at least 1, got %d", c.Relay.Capacity))
	}
	if c.Relay.ReceiveTimeout < 0 {
		errs = append(errs, fmt.Errorf("relay.receive_timeout must not be negative, got %s", c.Relay.ReceiveTimeout))
	}
	if c.Transport.WriteWait <= 0 {
		errs = append(errs, fmt.Errorf("transport.write_wait must be positive, got %s", c.Transport.WriteWait))
	}
	if c.Transport.PongWait <= 0 {
		errs = append(errs, fmt.Errorf("transport.pong_wait must be positive, got %s", c.Transport.PongWait))
	}
	if c.Transport.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("transport.max_message_size must be positive, got %d", c.Transport.MaxMessageSize))
	}
	if c.Transport.SendBuffer < 1 {
		errs = append(errs, fmt.Errorf("transport.send_buffer must be at least 1, got %d", c.Transport.SendBuffer))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
