package api

import (
	"os"
	"strconv"
	"strings"
)

// Config controls HTTP adapter behavior.
type Config struct {
	MaxBodyBytes int64
	MaxBioLen    int
}

// LoadConfigFromEnv loads the API config from environment variables with
// safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		MaxBodyBytes: envInt64("PADRON_API_MAX_BODY_BYTES", 1<<20), // 1 MiB
		MaxBioLen:    envInt("PADRON_API_MAX_BIO_LEN", 500),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.MaxBioLen <= 0 {
		cfg.MaxBioLen = 500
	}

	return cfg
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
