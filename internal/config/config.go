package config

type Config interface {
	EnvConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetStorageBackend() string
	GetDataFolder() string
	GetRedisAddr() string
	GetRedisDB() int
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
