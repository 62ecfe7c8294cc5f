package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the client, the UI server and its stores.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServiceConfig points at the QA service API root.
type ServiceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
}

type ServerConfig struct {
	ListenAddr         string        `mapstructure:"listen_addr"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
}

type UIConfig struct {
	ErrorBannerDuration time.Duration `mapstructure:"error_banner_duration"`
	HealthTimeout       time.Duration `mapstructure:"health_timeout"`
	DefaultTopK         int           `mapstructure:"default_top_k"`
	MaxUploadSize       int64         `mapstructure:"max_upload_size"`
	MaxUploadWorkers    int           `mapstructure:"max_upload_workers"`
}

// RedisConfig controls the session view store. When disabled or offline the
// in-memory store is used.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	ViewTTL  time.Duration `mapstructure:"view_ttl"`
}

type LogConfig struct {
	Prod  bool   `mapstructure:"prod"`
	Level string `mapstructure:"level"`
}

func Default() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:             ServiceBaseURL,
			Timeout:             ServiceRequestTimeout,
			MaxIdleConns:        MaxIdleConns,
			MaxIdleConnsPerHost: MaxIdleConnsPerHost,
			IdleConnTimeout:     IdleConnTimeout,
		},
		Server: ServerConfig{
			ListenAddr:         ServerListenAddr,
			ReadTimeout:        ReadTimeout,
			WriteTimeout:       WriteTimeout,
			IdleTimeout:        IdleTimeout,
			ShutdownTimeout:    ShutdownContextTimeout,
			RateLimitPerSecond: RATE_LIMIT_PER_SECOND,
			RateLimitBurst:     BURST_RATE_LIMIT_PER_SECOND,
		},
		UI: UIConfig{
			ErrorBannerDuration: ErrorBannerDuration,
			HealthTimeout:       HealthCheckTimeout,
			DefaultTopK:         DefaultTopK,
			MaxUploadSize:       MaxUploadSize,
			MaxUploadWorkers:    MaxUploadWorkers,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    RedisAddr,
			DB:      RedisViewStore,
			ViewTTL: RedisViewStoreTTL,
		},
		Log: LogConfig{
			Prod:  IS_PROD,
			Level: LOG_LEVEL_DEV.String(),
		},
	}
}

// Load reads configuration from path (json/yaml/toml by extension) layered over
// the defaults. An empty path looks for docqa.* in the working directory and
// ./config and is fine to miss. DOCQA_* environment variables win over both,
// e.g. DOCQA_SERVICE_BASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("docqa")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DOCQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("service.base_url", d.Service.BaseURL)
	v.SetDefault("service.timeout", d.Service.Timeout)
	v.SetDefault("service.max_idle_conns", d.Service.MaxIdleConns)
	v.SetDefault("service.max_idle_conns_per_host", d.Service.MaxIdleConnsPerHost)
	v.SetDefault("service.idle_conn_timeout", d.Service.IdleConnTimeout)

	v.SetDefault("server.listen_addr", d.Server.ListenAddr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit_per_second", d.Server.RateLimitPerSecond)
	v.SetDefault("server.rate_limit_burst", d.Server.RateLimitBurst)

	v.SetDefault("ui.error_banner_duration", d.UI.ErrorBannerDuration)
	v.SetDefault("ui.health_timeout", d.UI.HealthTimeout)
	v.SetDefault("ui.default_top_k", d.UI.DefaultTopK)
	v.SetDefault("ui.max_upload_size", d.UI.MaxUploadSize)
	v.SetDefault("ui.max_upload_workers", d.UI.MaxUploadWorkers)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.view_ttl", d.Redis.ViewTTL)

	v.SetDefault("log.prod", d.Log.Prod)
	v.SetDefault("log.level", d.Log.Level)
}

func (c Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil {
		return fmt.Errorf("service.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("service.base_url must be http(s), got %q", c.Service.BaseURL)
	}
	if c.UI.DefaultTopK <= 0 {
		return fmt.Errorf("ui.default_top_k must be > 0")
	}
	if c.UI.MaxUploadWorkers <= 0 {
		return fmt.Errorf("ui.max_upload_workers must be > 0")
	}
	if c.UI.ErrorBannerDuration <= 0 {
		return fmt.Errorf("ui.error_banner_duration must be > 0")
	}
	if c.UI.HealthTimeout <= 0 {
		return fmt.Errorf("ui.health_timeout must be > 0")
	}
	return nil
}

// TraceID returns the trace id stored on ctx, or "" when there is none.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(TRACE_ID_KEY).(string)
	return id
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(SESSION_ID_KEY).(string)
	return id
}
