package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msghub/hubclient-go/pkg/config"
	"github.com/msghub/hubclient-go/pkg/connection"
	"github.com/msghub/hubclient-go/pkg/envelope"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hubclient.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
endpoint: wss://hub.example.com/hub
identity: alice@example.com
instance: laptop
password: secret
send_timeout: 10s
reconnect_delay: 500ms
auto_notify_receipt: true
backoff:
  enabled: true
  max: 1m
keep_alive:
  enabled: false
tls:
  server_name: hub.internal
log_level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://hub.example.com/hub", cfg.Endpoint)
	assert.Equal(t, "laptop", cfg.Instance)
	assert.Equal(t, 10*time.Second, cfg.SendTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectDelay)
	assert.True(t, cfg.AutoNotifyReceipt)
	assert.True(t, cfg.Backoff.Enabled)
	assert.Equal(t, time.Minute, cfg.Backoff.Max)
	assert.False(t, cfg.KeepAlive.Enabled)
	assert.Equal(t, "hub.internal", cfg.TLS.ServerName)

	// Unset keys keep their defaults.
	assert.True(t, cfg.AutoReplyPings)
	assert.Equal(t, config.Default().WatchdogInterval, cfg.WatchdogInterval)
	assert.Equal(t, config.Default().Backoff.Initial, cfg.Backoff.Initial)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hubclient.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint = "ws://localhost:8080/hub"
identity = "bob@example.com"
access_key = "a2V5"
send_timeout = "5s"

[backoff]
enabled = true
initial = "200ms"

[keep_alive]
max_missed_pongs = 5
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8080/hub", cfg.Endpoint)
	assert.Equal(t, "a2V5", cfg.AccessKey)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
	assert.True(t, cfg.Backoff.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Backoff.Initial)
	assert.Equal(t, 5, cfg.KeepAlive.MaxMissedPongs)
	assert.True(t, cfg.KeepAlive.Enabled)
}

func TestParseTOML_Invalid(t *testing.T) {
	cfg := config.Default()
	err := config.ParseTOML([]byte("endpoint = "), &cfg)
	assert.ErrorContains(t, err, "parse TOML")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, `
endpoint: ws://localhost:8080/hub
identity: alice@example.com
send_timeout: 10s
`)
	t.Setenv("HUBCLIENT_SEND_TIMEOUT", "3s")
	t.Setenv("HUBCLIENT_ACCESS_KEY", "k-123")
	t.Setenv("HUBCLIENT_BACKOFF_ENABLED", "true")
	t.Setenv("HUBCLIENT_KEEP_ALIVE_MAX_MISSED_PONGS", "7")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.SendTimeout)
	assert.Equal(t, "k-123", cfg.AccessKey)
	assert.True(t, cfg.Backoff.Enabled)
	assert.Equal(t, 7, cfg.KeepAlive.MaxMissedPongs)
	assert.Equal(t, "ws://localhost:8080/hub", cfg.Endpoint)
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	t.Setenv("HUBCLIENT_ENDPOINT", "ws://localhost:8080/hub")
	t.Setenv("HUBCLIENT_IDENTITY", "bob@example.com")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", cfg.Identity)
	assert.Equal(t, config.Default().SendTimeout, cfg.SendTimeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad YAML", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "endpoint: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("bad environment value", func(t *testing.T) {
		path := writeFile(t, "endpoint: ws://h/hub\nidentity: a@b\n")
		t.Setenv("HUBCLIENT_SEND_TIMEOUT", "soon")
		_, err := config.Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		c := config.Default()
		c.Endpoint = "wss://hub.example.com/hub"
		c.Identity = "alice@example.com"
		return c
	}

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{"valid", func(*config.Config) {}, nil},
		{"missing endpoint", func(c *config.Config) { c.Endpoint = "" }, config.ErrMissingEndpoint},
		{"http endpoint", func(c *config.Config) { c.Endpoint = "http://hub.example.com" }, nil},
		{"missing host", func(c *config.Config) { c.Endpoint = "ws:///hub" }, nil},
		{"missing identity", func(c *config.Config) { c.Identity = "" }, config.ErrMissingIdentity},
		{"both credentials", func(c *config.Config) { c.Password, c.AccessKey = "p", "k" }, config.ErrConflictingAuth},
		{"negative duration", func(c *config.Config) { c.ReconnectDelay = -time.Second }, nil},
		{"cert without key", func(c *config.Config) { c.TLS.CertFile = "client.pem" }, nil},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, nil},
		{"backoff inverted", func(c *config.Config) {
			c.Backoff.Enabled = true
			c.Backoff.Initial = time.Minute
			c.Backoff.Max = time.Second
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)
			err := c.Validate()
			switch {
			case tt.name == "valid":
				assert.NoError(t, err)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.Error(t, err)
			}
		})
	}
}

func TestChannelConfig(t *testing.T) {
	c := config.Default()
	c.Endpoint = "wss://hub.example.com/hub"
	c.Identity = "alice@example.com"
	c.Instance = "laptop"
	c.Password = "secret"
	c.BufferSize = 16
	c.FillEnvelopeRecipients = true

	cc, err := c.ChannelConfig(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "hub.example.com", cc.Endpoint.Host)
	assert.Equal(t, envelope.Identity{Name: "alice", Domain: "example.com"}, cc.Identity)
	assert.Equal(t, "laptop", cc.Instance)
	assert.Equal(t, envelope.PlainAuthentication{Password: "secret"}, cc.Authentication)
	assert.Nil(t, cc.RetryPolicy, "fixed delay unless backoff is enabled")
	assert.True(t, cc.AutoReplyPings)
	assert.True(t, cc.FillEnvelopeRecipients)
	require.NotNil(t, cc.WebSocket)
	assert.Equal(t, 16, cc.WebSocket.BufferSize)
	require.NotNil(t, cc.WebSocket.KeepAlive)
	assert.Equal(t, c.KeepAlive.PingInterval, cc.WebSocket.KeepAlive.PingInterval)
	assert.NoError(t, cc.Validate())
}

func TestAuthentication(t *testing.T) {
	c := config.Default()
	assert.Nil(t, c.Authentication())

	c.AccessKey = "k"
	assert.Equal(t, envelope.KeyAuthentication{Key: "k"}, c.Authentication())
}

func TestRetryPolicy(t *testing.T) {
	c := config.Default()
	c.Backoff.Enabled = true
	c.Backoff.Initial = 100 * time.Millisecond
	c.Backoff.Max = time.Second
	c.Backoff.Jitter = -1

	p := c.RetryPolicy()
	b, ok := p.(*connection.Backoff)
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, b.Next())
	assert.Equal(t, 200*time.Millisecond, b.Next())
}

func TestSlogLevel(t *testing.T) {
	c := config.Default()
	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		c.LogLevel = level
		_, err := c.SlogLevel()
		assert.NoError(t, err, level)
	}
}

func TestKeepAliveDisabled(t *testing.T) {
	c := config.Default()
	c.KeepAlive.Enabled = false
	assert.Nil(t, c.WebSocketConfig().KeepAlive)
}

func TestRead_SkipsValidation(t *testing.T) {
	cfg, err := config.Read(writeFile(t, "send_timeout: 5s\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
	assert.ErrorIs(t, cfg.Validate(), config.ErrMissingEndpoint)
}
