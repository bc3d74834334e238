package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	dbPathVar     = "DATABASE_PATH"
	redisAddrVar  = "REDIS_ADDR"
	corsOriginVar = "ALLOWED_ORIGINS"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "JobMatch")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

func (EnvVars) GetDatabasePath() string {
	return GetEnv(dbPathVar, "./data/jobmatch.db")
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetAllowedOrigins() []string {
	raw := GetEnv(corsOriginVar, "")
	if raw == "" {
		return nil
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
