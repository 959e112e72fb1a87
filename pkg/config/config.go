// Package config loads client settings from a YAML or TOML file and
// HUBCLIENT_* environment variables.
//
// Values are layered: defaults, then the file, then the environment.
// Environment keys are HUBCLIENT_ plus the field name in upper snake case,
// e.g. HUBCLIENT_SEND_TIMEOUT or HUBCLIENT_BACKOFF_ENABLED.
//
//	endpoint: wss://hub.example.com/hub
//	identity: alice@example.com
//	password: secret
//	send_timeout: 30s
//	backoff:
//	  enabled: true
//	  max: 1m
//
// Files ending in .toml are decoded as TOML with the same keys; anything
// else is YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/msghub/hubclient-go/pkg/channel"
	"github.com/msghub/hubclient-go/pkg/connection"
	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/transport"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HUBCLIENT"

// Config errors.
var (
	ErrMissingEndpoint = errors.New("endpoint is required")
	ErrMissingIdentity = errors.New("identity is required")
	ErrConflictingAuth = errors.New("password and access key are mutually exclusive")
)

// Config is the file and environment representation of a client.
type Config struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint" split_words:"true"`
	Identity string `yaml:"identity" toml:"identity" split_words:"true"`
	Instance string `yaml:"instance" toml:"instance" split_words:"true"`

	// Password selects plain authentication, AccessKey key authentication.
	// With neither the client connects as a guest.
	Password  string `yaml:"password" toml:"password" split_words:"true"`
	AccessKey string `yaml:"access_key" toml:"access_key" split_words:"true"`

	SendTimeout      time.Duration `yaml:"send_timeout" toml:"send_timeout" split_words:"true"`
	WatchdogInterval time.Duration `yaml:"watchdog_interval" toml:"watchdog_interval" split_words:"true"`
	ReconnectDelay   time.Duration `yaml:"reconnect_delay" toml:"reconnect_delay" split_words:"true"`
	FinishTimeout    time.Duration `yaml:"finish_timeout" toml:"finish_timeout" split_words:"true"`

	AutoReplyPings         bool `yaml:"auto_reply_pings" toml:"auto_reply_pings" split_words:"true"`
	AutoNotifyReceipt      bool `yaml:"auto_notify_receipt" toml:"auto_notify_receipt" split_words:"true"`
	FillEnvelopeRecipients bool `yaml:"fill_envelope_recipients" toml:"fill_envelope_recipients" split_words:"true"`

	// BufferSize is the per-kind receive queue capacity.
	BufferSize int `yaml:"buffer_size" toml:"buffer_size" split_words:"true"`

	Backoff   Backoff   `yaml:"backoff" toml:"backoff" split_words:"true"`
	KeepAlive KeepAlive `yaml:"keep_alive" toml:"keep_alive" split_words:"true"`
	TLS       TLS       `yaml:"tls" toml:"tls" split_words:"true"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level" split_words:"true"`

	// ProtocolLog is a file receiving CBOR protocol events. Empty disables it.
	ProtocolLog string `yaml:"protocol_log" toml:"protocol_log" split_words:"true"`
}

// Backoff replaces the fixed reconnect delay with exponential backoff.
type Backoff struct {
	Enabled    bool          `yaml:"enabled" toml:"enabled" split_words:"true"`
	Initial    time.Duration `yaml:"initial" toml:"initial" split_words:"true"`
	Max        time.Duration `yaml:"max" toml:"max" split_words:"true"`
	Multiplier float64       `yaml:"multiplier" toml:"multiplier" split_words:"true"`
	Jitter     float64       `yaml:"jitter" toml:"jitter" split_words:"true"`
}

// KeepAlive configures WebSocket ping monitoring.
type KeepAlive struct {
	Enabled        bool          `yaml:"enabled" toml:"enabled" split_words:"true"`
	PingInterval   time.Duration `yaml:"ping_interval" toml:"ping_interval" split_words:"true"`
	PongTimeout    time.Duration `yaml:"pong_timeout" toml:"pong_timeout" split_words:"true"`
	MaxMissedPongs int           `yaml:"max_missed_pongs" toml:"max_missed_pongs" split_words:"true"`
}

// TLS configures wss:// endpoints.
type TLS struct {
	CAFile             string `yaml:"ca_file" toml:"ca_file" split_words:"true"`
	CertFile           string `yaml:"cert_file" toml:"cert_file" split_words:"true"`
	KeyFile            string `yaml:"key_file" toml:"key_file" split_words:"true"`
	ServerName         string `yaml:"server_name" toml:"server_name" split_words:"true"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" toml:"insecure_skip_verify" split_words:"true"`
}

// Default returns the built-in settings.
func Default() Config {
	bo := connection.DefaultBackoffConfig()
	ka := transport.DefaultKeepAliveConfig()
	return Config{
		SendTimeout:      channel.DefaultSendTimeout,
		WatchdogInterval: channel.DefaultWatchdogInterval,
		ReconnectDelay:   channel.DefaultReconnectDelay,
		FinishTimeout:    channel.DefaultFinishTimeout,
		AutoReplyPings:   true,
		BufferSize:       transport.DefaultBufferSize,
		Backoff: Backoff{
			Initial:    bo.Initial,
			Max:        bo.Max,
			Multiplier: bo.Multiplier,
			Jitter:     bo.Jitter,
		},
		KeepAlive: KeepAlive{
			Enabled:        true,
			PingInterval:   ka.PingInterval,
			PongTimeout:    ka.PongTimeout,
			MaxMissedPongs: ka.MaxMissedPongs,
		},
		LogLevel: "info",
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that layer more overrides
// on top, such as command-line flags.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		parse := Parse
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			parse = ParseTOML
		}
		if err := parse(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Parse decodes YAML into cfg. Keys missing from data keep their value.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

// ParseTOML decodes TOML into cfg. Keys missing from data keep their value.
func ParseTOML(data []byte, cfg *Config) error {
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("parse TOML: %w", err)
	}
	return nil
}

// applyDefaults restores defaults for values an override zeroed.
func (c *Config) applyDefaults() {
	d := Default()
	if c.SendTimeout == 0 {
		c.SendTimeout = d.SendTimeout
	}
	if c.WatchdogInterval == 0 {
		c.WatchdogInterval = d.WatchdogInterval
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = d.ReconnectDelay
	}
	if c.FinishTimeout == 0 {
		c.FinishTimeout = d.FinishTimeout
	}
	if c.BufferSize == 0 {
		c.BufferSize = d.BufferSize
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate checks the settings without touching the network or files.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	if _, err := c.endpointURL(); err != nil {
		return err
	}
	if c.Identity == "" {
		return ErrMissingIdentity
	}
	if _, err := envelope.ParseIdentity(c.Identity); err != nil {
		return err
	}
	if c.Password != "" && c.AccessKey != "" {
		return ErrConflictingAuth
	}
	if c.SendTimeout < 0 || c.WatchdogInterval < 0 || c.ReconnectDelay < 0 || c.FinishTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	if c.BufferSize < 0 {
		return errors.New("buffer_size must not be negative")
	}
	if c.Backoff.Enabled && c.Backoff.Max > 0 && c.Backoff.Initial > c.Backoff.Max {
		return errors.New("backoff initial exceeds max")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("tls cert_file and key_file must be set together")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) endpointURL() (*url.URL, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("endpoint: scheme must be ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("endpoint: missing host")
	}
	return u, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Authentication returns the configured credentials; nil means guest.
func (c *Config) Authentication() envelope.Authentication {
	switch {
	case c.Password != "":
		return envelope.PlainAuthentication{Password: c.Password}
	case c.AccessKey != "":
		return envelope.KeyAuthentication{Key: c.AccessKey}
	default:
		return nil
	}
}

// RetryPolicy returns a Backoff when enabled, nil otherwise so the
// channel falls back to the fixed reconnect delay.
func (c *Config) RetryPolicy() connection.RetryPolicy {
	if !c.Backoff.Enabled {
		return nil
	}
	return connection.NewBackoff(connection.BackoffConfig{
		Initial:    c.Backoff.Initial,
		Max:        c.Backoff.Max,
		Multiplier: c.Backoff.Multiplier,
		Jitter:     c.Backoff.Jitter,
	})
}

// WebSocketConfig returns the transport settings.
func (c *Config) WebSocketConfig() transport.WebSocketConfig {
	ws := transport.DefaultWebSocketConfig()
	ws.BufferSize = c.BufferSize
	ws.TLS = transport.TLSConfig{
		CAFile:             c.TLS.CAFile,
		CertFile:           c.TLS.CertFile,
		KeyFile:            c.TLS.KeyFile,
		ServerName:         c.TLS.ServerName,
		InsecureSkipVerify: c.TLS.InsecureSkipVerify,
	}
	if c.KeepAlive.Enabled {
		ws.KeepAlive = &transport.KeepAliveConfig{
			PingInterval:   c.KeepAlive.PingInterval,
			PongTimeout:    c.KeepAlive.PongTimeout,
			MaxMissedPongs: c.KeepAlive.MaxMissedPongs,
		}
	} else {
		ws.KeepAlive = nil
	}
	return ws
}

// ChannelConfig converts the settings into a channel.Config.
func (c *Config) ChannelConfig(logger *slog.Logger, plog log.Logger) (channel.Config, error) {
	endpoint, err := c.endpointURL()
	if err != nil {
		return channel.Config{}, err
	}
	id, err := envelope.ParseIdentity(c.Identity)
	if err != nil {
		return channel.Config{}, err
	}

	ws := c.WebSocketConfig()
	return channel.Config{
		Endpoint:               endpoint,
		Identity:               id,
		Instance:               c.Instance,
		Authentication:         c.Authentication(),
		SendTimeout:            c.SendTimeout,
		WatchdogInterval:       c.WatchdogInterval,
		ReconnectDelay:         c.ReconnectDelay,
		RetryPolicy:            c.RetryPolicy(),
		FinishTimeout:          c.FinishTimeout,
		AutoReplyPings:         c.AutoReplyPings,
		AutoNotifyReceipt:      c.AutoNotifyReceipt,
		FillEnvelopeRecipients: c.FillEnvelopeRecipients,
		WebSocket:              &ws,
		Logger:                 logger,
		ProtocolLogger:         plog,
	}, nil
}
