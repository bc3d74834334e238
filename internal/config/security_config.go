package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	// GetSessionKey returns the symmetric signing key for session tokens.
	// An empty key must abort startup; there is no per-request fallback.
	GetSessionKey() []byte
	GetSessionIssuer() string
	GetSessionTTL() time.Duration
	GetEnableRateLimiting() bool
	GetMaxLoginAttempts() int
	GetLoginCooldown() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionKey() []byte {
	key := GetEnv("SESSION_KEY", "")
	if key == "" {
		return nil
	}
	return []byte(key)
}

func (Security) GetSessionIssuer() string {
	return GetEnv("SESSION_ISSUER", "com.jobmatch")
}

func (Security) GetSessionTTL() time.Duration {
	days, err := strconv.Atoi(GetEnv("SESSION_TTL_DAYS", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func (Security) GetEnableRateLimiting() bool {
	return GetEnv("ENABLE_RATE_LIMITING", "false") == "true"
}

func (Security) GetMaxLoginAttempts() int {
	attempts, err := strconv.Atoi(GetEnv("MAX_LOGIN_ATTEMPTS", "10"))
	if err != nil || attempts <= 0 {
		attempts = 10
	}
	return attempts
}

func (Security) GetLoginCooldown() time.Duration {
	minutes, err := strconv.Atoi(GetEnv("LOGIN_COOLDOWN_MINUTES", "15"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}
