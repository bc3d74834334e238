package config

type Config interface {
	EnvConfig
	SecurityConfig
	SSOConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDatabasePath() string
	GetRedisAddr() string
	GetAllowedOrigins() []string
}

type mainConfig struct {
	EnvVars
	Security
	SSO
}

func New() Config {
	return mainConfig{}
}
