package configs

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hilthontt/plugdj/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Plug        PlugConfig        `koanf:"plug"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Bot         BotConfig         `koanf:"bot"`
	Status      StatusConfig      `koanf:"status"`
	Logger      LoggerConfig      `koanf:"logger"`
	Tracing     TracingConfig     `koanf:"tracing"`
	Sentry      SentryConfig      `koanf:"sentry"`
}

type PlugConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	SocketURL      string        `koanf:"socket_url" validate:"required,url"`
	UserAgent      string        `koanf:"user_agent"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gte=0"`
	MaxRetries     int           `koanf:"max_retries" validate:"gte=0,lte=10"`
	// RequestsPerSecond throttles REST calls; zero disables the throttle.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`
	RequestBurst      int     `koanf:"request_burst" validate:"gte=0"`
}

// CredentialsConfig is normally left out of the file and set through
// PLUGDJ_EMAIL and PLUGDJ_PASSWORD.
type CredentialsConfig struct {
	Email    string `koanf:"email" validate:"omitempty,email"`
	Password string `koanf:"password"`
}

type BotConfig struct {
	Room            string        `koanf:"room"`
	AutoWoot        bool          `koanf:"auto_woot"`
	Greeting        string        `koanf:"greeting"`
	ChatLogCapacity uint          `koanf:"chat_log_capacity" validate:"gt=0"`
	HistoryCapacity uint          `koanf:"history_capacity" validate:"gt=0"`
	ChatLimit       int           `koanf:"chat_limit" validate:"gt=0"`
	ChatWindow      time.Duration `koanf:"chat_window" validate:"gt=0"`
	ReconnectDelay  time.Duration `koanf:"reconnect_delay" validate:"gt=0"`
}

type StatusConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Host         string        `koanf:"host"`
	Port         uint16        `koanf:"port" validate:"required_if=Enabled true"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type LoggerConfig struct {
	Level    string `koanf:"level" validate:"oneof=debug info warn error"`
	Encoding string `koanf:"encoding" validate:"oneof=console json"`
	FilePath string `koanf:"file_path"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter" validate:"oneof=otlp jaeger"`
	Endpoint    string `koanf:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	ServiceName string `koanf:"service_name"`
	Environment string `koanf:"environment"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN        string  `koanf:"dsn" validate:"omitempty,url"`
	SampleRate float64 `koanf:"sample_rate" validate:"gte=0,lte=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "plug.base_url", "https://plug.dj/_/")
	setDefault(k, "plug.socket_url", "wss://godj.plug.dj:443/socket")
	setDefault(k, "plug.request_timeout", 15*time.Second)
	setDefault(k, "plug.max_retries", 2)

	setDefault(k, "bot.auto_woot", true)
	setDefault(k, "bot.chat_log_capacity", 200)
	setDefault(k, "bot.history_capacity", 50)
	setDefault(k, "bot.chat_limit", 3)
	setDefault(k, "bot.chat_window", 5*time.Second)
	setDefault(k, "bot.reconnect_delay", 5*time.Second)

	setDefault(k, "status.enabled", true)
	setDefault(k, "status.host", "127.0.0.1")
	setDefault(k, "status.port", 8080)
	setDefault(k, "status.read_timeout", 10*time.Second)
	setDefault(k, "status.write_timeout", 30*time.Second)

	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.encoding", "console")

	setDefault(k, "tracing.exporter", "otlp")
	setDefault(k, "tracing.endpoint", "http://localhost:4318/v1/traces")
	setDefault(k, "tracing.service_name", "plugbot")
	setDefault(k, "tracing.environment", "development")

	setDefault(k, "sentry.sample_rate", 1.0)
}

func applyEnvOverrides(k *koanf.Koanf) {
	if base := env.GetString("PLUGDJ_BASE_URL", ""); base != "" {
		k.Set("plug.base_url", base)
	}
	if socket := env.GetString("PLUGDJ_SOCKET_URL", ""); socket != "" {
		k.Set("plug.socket_url", socket)
	}
	if ua := env.GetString("PLUGDJ_USER_AGENT", ""); ua != "" {
		k.Set("plug.user_agent", ua)
	}
	if timeout := env.GetDuration("PLUGDJ_REQUEST_TIMEOUT", 0); timeout > 0 {
		k.Set("plug.request_timeout", timeout)
	}
	if retries := env.GetInt("PLUGDJ_MAX_RETRIES", -1); retries >= 0 {
		k.Set("plug.max_retries", retries)
	}

	if email := env.GetString("PLUGDJ_EMAIL", ""); email != "" {
		k.Set("credentials.email", email)
	}
	if password := env.GetString("PLUGDJ_PASSWORD", ""); password != "" {
		k.Set("credentials.password", password)
	}

	if room := env.GetString("PLUGDJ_ROOM", ""); room != "" {
		k.Set("bot.room", room)
	}
	if greeting := env.GetString("PLUGDJ_GREETING", ""); greeting != "" {
		k.Set("bot.greeting", greeting)
	}
	if capacity := env.GetInt("PLUGDJ_CHAT_LOG_CAPACITY", 0); capacity > 0 {
		k.Set("bot.chat_log_capacity", uint(capacity))
	}

	if host := env.GetString("STATUS_HOST", ""); host != "" {
		k.Set("status.host", host)
	}
	if port := env.GetInt("STATUS_PORT", 0); port > 0 {
		k.Set("status.port", port)
	}

	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if encoding := env.GetString("LOGGER_ENCODING", ""); encoding != "" {
		k.Set("logger.encoding", encoding)
	}
	if path := env.GetString("LOGGER_FILE_PATH", ""); path != "" {
		k.Set("logger.file_path", path)
	}

	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
		k.Set("tracing.enabled", true)
	}
	if exporter := env.GetString("TRACING_EXPORTER", ""); exporter != "" {
		k.Set("tracing.exporter", exporter)
	}
	if environment := env.GetString("ENVIRONMENT", ""); environment != "" {
		k.Set("tracing.environment", environment)
	}

	if dsn := env.GetString("SENTRY_DSN", ""); dsn != "" {
		k.Set("sentry.dsn", dsn)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
