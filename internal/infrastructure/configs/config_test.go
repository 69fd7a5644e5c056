package configs_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hilthontt/plugdj/internal/infrastructure/configs"
	"github.com/stretchr/testify/require"
)

const sample = `
plug:
  request_timeout: 3s
bot:
  room: chill-room
  greeting: "welcome, {username}"
  chat_limit: 5
status:
  port: 9090
logger:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenDefaults(t *testing.T) {
	req := require.New(t)

	cfg, err := configs.Load(writeConfig(t, sample))

	req.NoError(err)
	req.Equal(3*time.Second, cfg.Plug.RequestTimeout)
	req.Equal("https://plug.dj/_/", cfg.Plug.BaseURL)
	req.Equal(2, cfg.Plug.MaxRetries)
	req.Equal("chill-room", cfg.Bot.Room)
	req.Equal("welcome, {username}", cfg.Bot.Greeting)
	req.Equal(5, cfg.Bot.ChatLimit)
	req.Equal(5*time.Second, cfg.Bot.ChatWindow)
	req.True(cfg.Bot.AutoWoot)
	req.Equal(uint(200), cfg.Bot.ChatLogCapacity)
	req.Equal(uint16(9090), cfg.Status.Port)
	req.Equal("debug", cfg.Logger.Level)
	req.False(cfg.Tracing.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	req := require.New(t)
	t.Setenv("PLUGDJ_ROOM", "other-room")
	t.Setenv("PLUGDJ_EMAIL", "dj@example.com")
	t.Setenv("PLUGDJ_PASSWORD", "secret")
	t.Setenv("PLUGDJ_MAX_RETRIES", "0")
	t.Setenv("STATUS_PORT", "7070")
	t.Setenv("TRACING_ENDPOINT", "http://collector:4318/v1/traces")

	cfg, err := configs.Load(writeConfig(t, sample))

	req.NoError(err)
	req.Equal("other-room", cfg.Bot.Room)
	req.Equal("dj@example.com", cfg.Credentials.Email)
	req.Equal("secret", cfg.Credentials.Password)
	req.Equal(0, cfg.Plug.MaxRetries)
	req.Equal(uint16(7070), cfg.Status.Port)
	req.True(cfg.Tracing.Enabled)
	req.Equal("http://collector:4318/v1/traces", cfg.Tracing.Endpoint)
}

func TestLoad_WithoutFile(t *testing.T) {
	cfg, err := configs.Load("")

	require.NoError(t, err)
	require.Equal(t, "wss://godj.plug.dj:443/socket", cfg.Plug.SocketURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := configs.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
}

func TestDetermineConfigPath(t *testing.T) {
	path := writeConfig(t, sample)

	got := configs.DetermineConfigPath(flag.NewFlagSet("test", flag.ContinueOnError), []string{"--config", path})
	require.Equal(t, path, got)

	t.Setenv("PLUGDJ_CONFIG", path)
	got = configs.DetermineConfigPath(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.Equal(t, path, got)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown log level", body: "logger:\n  level: loud\n"},
		{name: "negative chat limit", body: "bot:\n  chat_limit: -1\n"},
		{name: "bad email", body: "credentials:\n  email: not-an-email\n"},
		{name: "tracing without endpoint", body: "tracing:\n  enabled: true\n  endpoint: \"\"\n"},
		{name: "unknown exporter", body: "tracing:\n  exporter: zipkin\n"},
		{name: "sample rate above one", body: "sentry:\n  sample_rate: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := configs.Load(writeConfig(t, tt.body))
			require.ErrorContains(t, err, "invalid config")
		})
	}
}
