package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SNSRegion string

	// Voice gateway (IVR) client options. The engine never reads
	// ambient state; everything the gateway client needs is here.
	VoiceGatewayURL string
	VoiceAPIKey     string

	DeliveryTimeout time.Duration

	CodeLength      int
	CodeExpiry      time.Duration
	CodeMaxAttempts int

	IssueCooldown  time.Duration // min gap between codes per target
	IssueHourlyMax int
	VerifyWindow   time.Duration
	VerifyMax      int

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	RedisAddr     string // empty: in-memory revocation registry
	RedisPassword string

	AuditRetention time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Verifications string
	Counters      string
	AuditEvents   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verification_codes"),
			Counters:      getEnv("DYNAMO_TABLE_COUNTERS", "rate_counters"),
			AuditEvents:   getEnv("DYNAMO_TABLE_AUDIT_EVENTS", "audit_events"),
		},

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		VoiceGatewayURL: getEnv("VOICE_GATEWAY_URL", ""),
		VoiceAPIKey:     getEnv("VOICE_GATEWAY_API_KEY", ""),

		DeliveryTimeout: getEnvDuration("DELIVERY_TIMEOUT_SECONDS", 10*time.Second),

		CodeLength:      getEnvInt("CODE_LENGTH", 6),
		CodeExpiry:      getEnvDuration("CODE_EXPIRY_MINUTES", 5*time.Minute),
		CodeMaxAttempts: getEnvInt("CODE_MAX_ATTEMPTS", 5),

		IssueCooldown:  getEnvDuration("ISSUE_COOLDOWN_SECONDS", 60*time.Second),
		IssueHourlyMax: getEnvInt("ISSUE_HOURLY_MAX", 20),
		VerifyWindow:   getEnvDuration("VERIFY_WINDOW_MINUTES", 5*time.Minute),
		VerifyMax:      getEnvInt("VERIFY_MAX_PER_WINDOW", 10),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		AccessTokenTTL:     getEnvDuration("ACCESS_TOKEN_TTL_MINUTES", 15*time.Minute),
		RefreshTokenTTL:    getEnvDuration("REFRESH_TOKEN_TTL_DAYS", 30*24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AuditRetention: getEnvDuration("AUDIT_RETENTION_DAYS", 90*24*time.Hour),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration reads an integer env var and scales it by the unit
// implied in the key suffix (SECONDS, MINUTES, DAYS).
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	switch {
	case strings.HasSuffix(key, "_SECONDS"):
		return time.Duration(n) * time.Second
	case strings.HasSuffix(key, "_MINUTES"):
		return time.Duration(n) * time.Minute
	case strings.HasSuffix(key, "_DAYS"):
		return time.Duration(n) * 24 * time.Hour
	}
	return fallback
}
