package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvProduction は本番環境を示すAPP_ENVの値。
const EnvProduction = "production"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Token
	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string

	// Password
	BcryptCost int

	// Google
	GoogleClientID      string
	GoogleTokenInfoURL  string
	GoogleVerifyTimeout time.Duration

	// Server
	Port   string
	AppEnv string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.JWTTTL = getEnvDuration("JWT_TTL", 30*24*time.Hour)
	cfg.JWTIssuer = getEnvString("JWT_ISSUER", "taskman")
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", 10)
	cfg.GoogleTokenInfoURL = getEnvString("GOOGLE_TOKENINFO_URL", "")
	cfg.GoogleVerifyTimeout = getEnvDuration("GOOGLE_VERIFY_TIMEOUT", 10*time.Second)
	cfg.Port = getEnvString("PORT", "5001")
	cfg.AppEnv = getEnvString("APP_ENV", "development")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")

	return cfg, nil
}

// IsProduction は本番環境で動作しているかを返す。
// 本番環境ではエラーレスポンスに内部情報を含めない。
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
