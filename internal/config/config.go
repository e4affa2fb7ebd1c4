package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Alwanly/service-remote-update/internal/models"
)

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ControllerConfig struct {
	ServerAddr    string
	DatabasePath  string
	AdminUsername string
	AdminPassword string
	// AgentRequestTimeout bounds one call to an agent. Update calls can
	// legitimately run for minutes.
	AgentRequestTimeout time.Duration
	AgentAPIPrefix      string
	InsecureSkipVerify  bool
	CheckConcurrency    int
	LogLimit            int
	Redis               *RedisConfig
}

type AgentConfig struct {
	ServerAddr   string
	DatabasePath string
	APIPrefix    string
	// Debug lifts the HTTPS requirement on the update API.
	Debug       bool
	TLSCertFile string
	TLSKeyFile  string
	// TrustedProxies may report the original scheme via X-Forwarded-Proto.
	TrustedProxies []string

	WPPath      string
	WPCLIBin    string
	WPAllowRoot bool

	HostProbeMaxRetries     int
	HostProbeInitialBackoff time.Duration
	HostProbeMaxBackoff     time.Duration
}

// LoadEnvFile preloads variables from ENV_FILE (default ".env") when the
// file exists. Variables already set in the environment win.
func LoadEnvFile() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
}

// LoadControllerConfig reads controller config from environment or returns defaults
func LoadControllerConfig() (*ControllerConfig, error) {
	LoadEnvFile()

	cfg := &ControllerConfig{
		ServerAddr:          envOrDefault("CONTROLLER_ADDR", ":8080"),
		DatabasePath:        envOrDefault("DATABASE_PATH", "./data/controller.db"),
		AdminUsername:       envOrDefault("ADMIN_USER", "admin"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		AgentRequestTimeout: envSeconds("AGENT_REQUEST_TIMEOUT", 300*time.Second),
		AgentAPIPrefix:      envOrDefault("AGENT_API_PREFIX", models.DefaultAPIPrefix),
		InsecureSkipVerify:  envBool("INSECURE_SKIP_VERIFY", false),
		CheckConcurrency:    envInt("CHECK_CONCURRENCY", 4),
		LogLimit:            envInt("LOG_LIMIT", 50),
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be set")
	}
	if cfg.CheckConcurrency < 1 {
		cfg.CheckConcurrency = 1
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis = &RedisConfig{
			Host:     host,
			Port:     envInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		}
	}

	return cfg, nil
}

// LoadAgentConfig reads agent config from environment or returns defaults
func LoadAgentConfig() (*AgentConfig, error) {
	LoadEnvFile()

	cfg := &AgentConfig{
		ServerAddr:              envOrDefault("AGENT_ADDR", ":8443"),
		DatabasePath:            envOrDefault("AGENT_DATABASE_PATH", "./data/agent.db"),
		APIPrefix:               envOrDefault("AGENT_API_PREFIX", models.DefaultAPIPrefix),
		Debug:                   envBool("AGENT_DEBUG", false),
		TLSCertFile:             os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:              os.Getenv("TLS_KEY_FILE"),
		TrustedProxies:          envList("AGENT_TRUSTED_PROXIES"),
		WPPath:                  envOrDefault("WP_PATH", "/var/www/html"),
		WPCLIBin:                envOrDefault("WP_CLI_BIN", "wp"),
		WPAllowRoot:             envBool("WP_CLI_ALLOW_ROOT", false),
		HostProbeMaxRetries:     envInt("HOST_PROBE_MAX_RETRIES", 5),
		HostProbeInitialBackoff: envSeconds("HOST_PROBE_INITIAL_BACKOFF", time.Second),
		HostProbeMaxBackoff:     envSeconds("HOST_PROBE_MAX_BACKOFF", 30*time.Second),
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
