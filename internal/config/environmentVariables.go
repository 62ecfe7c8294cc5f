package config

import (
	"log/slog"
	"time"
)

type contextKey string

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	LOG_LEVEL_DEV  = slog.LevelDebug

	TRACE_ID_KEY   contextKey = "traceId"
	SESSION_ID_KEY contextKey = "sessionId"

	TraceHeader       = "X-Trace-Id"
	SessionCookieName = "docqa_session"
	SessionCookieTTL  = 24 * time.Hour

	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 10

	//QA service
	ServiceBaseURL        = "http://localhost:8000/api"
	ServiceRequestTimeout = 60 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//serverTimeouts - write must outlive an upstream call
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 90 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ui
	ErrorBannerDuration = 6 * time.Second
	HealthCheckTimeout  = 2 * time.Second
	DefaultTopK         = 3
	SourceExcerptLimit  = 200
	MaxUploadSize       = 32 << 20 //32mb
	MaxUploadWorkers    = 4

	//notification sessions idle longer than this are dropped
	NotificationIdleTimeout = 30 * time.Minute
	NotificationSweepPeriod = 5 * time.Minute

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisViewStore = 2

	RedisViewStoreTTL = 1 * time.Hour
)
