package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for roomgate
type Config struct {
	Server     ServerConfig     `json:"server"`
	LiveKit    LiveKitConfig    `json:"livekit"`
	Credential CredentialConfig `json:"credential"`
	Dispatch   DispatchConfig   `json:"dispatch"`
	Telemetry  TelemetryConfig  `json:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	CORSOrigins     []string `json:"cors_origins"`
	AdminToken      string   `json:"admin_token"` // bearer token for /api/v1; empty leaves it open
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

// LiveKitConfig holds LiveKit server configuration
type LiveKitConfig struct {
	URL             string   `json:"url"`        // server URL (e.g., ws://localhost:7880)
	APIKey          string   `json:"api_key"`    // LiveKit API key
	APISecret       string   `json:"api_secret"` // LiveKit API secret
	AgentName       string   `json:"agent_name"` // agent worker to dispatch; empty picks the default worker
	AgentMetadata   string   `json:"agent_metadata"`
	EmptyTimeout    int      `json:"empty_timeout"` // seconds
	MaxParticipants int      `json:"max_participants"`
	BreakerFailures int      `json:"breaker_failures"`
	BreakerTimeout  Duration `json:"breaker_timeout"`
	MaxRetries      int      `json:"max_retries"` // extra attempts for transient server API failures
}

// CredentialConfig holds participant credential policy
type CredentialConfig struct {
	TTL Duration `json:"ttl"`
}

// DispatchConfig holds agent dispatch deduplication settings
type DispatchConfig struct {
	Retention     Duration `json:"retention"`
	SweepInterval Duration `json:"sweep_interval"`
	Async         bool     `json:"async"`
}

// TelemetryConfig holds logging and OpenTelemetry settings
type TelemetryConfig struct {
	ServiceName  string `json:"service_name"`
	Environment  string `json:"environment"`
	OTLPEndpoint string `json:"otlp_endpoint"`
	Stdout       bool   `json:"stdout"` // print spans to stdout when no endpoint is set
	LogLevel     string `json:"log_level"`
}

// Duration reads "90s" style strings from the config file
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var seconds float64
		if err := json.Unmarshal(data, &seconds); err != nil {
			return fmt.Errorf("duration must be a string like \"1h\" or a number of seconds")
		}
		*d = Duration(seconds * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			CORSOrigins:     []string{"http://localhost:3000"}, // Default development origin
			ShutdownTimeout: Duration(15 * time.Second),
		},
		LiveKit: LiveKitConfig{
			URL:             "ws://localhost:7880",
			EmptyTimeout:    300,
			BreakerFailures: 5,
			BreakerTimeout:  Duration(30 * time.Second),
			MaxRetries:      2,
		},
		Credential: CredentialConfig{
			TTL: Duration(time.Hour),
		},
		Dispatch: DispatchConfig{
			Retention:     Duration(time.Hour),
			SweepInterval: Duration(time.Minute),
			Async:         true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "roomgate",
			Environment: "development",
			LogLevel:    "info",
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// envBool loads a boolean environment variable into the target pointer if set and valid
func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

// envDuration loads a duration ("90s", "1h") environment variable if set and valid
func envDuration(key string, target *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = Duration(d)
		}
	}
}

// envStringSlice loads a comma-separated environment variable into a string slice
func envStringSlice(key string, target *[]string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load loads configuration from the default config file and environment variables
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads configuration from the given file, then applies environment
// overrides. A missing file is not an error.
func LoadFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				slog.Warn("failed to parse config file", "path", configPath, "error", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	// Plain LIVEKIT_* and PORT first so ROOMGATE_* can override them
	envString("LIVEKIT_URL", &cfg.LiveKit.URL)
	envString("LIVEKIT_API_KEY", &cfg.LiveKit.APIKey)
	envString("LIVEKIT_API_SECRET", &cfg.LiveKit.APISecret)
	envInt("PORT", &cfg.Server.Port)

	envString("ROOMGATE_SERVER_HOST", &cfg.Server.Host)
	envInt("ROOMGATE_SERVER_PORT", &cfg.Server.Port)
	envStringSlice("ROOMGATE_CORS_ORIGINS", &cfg.Server.CORSOrigins)
	envString("ROOMGATE_ADMIN_TOKEN", &cfg.Server.AdminToken)
	envDuration("ROOMGATE_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	envString("ROOMGATE_LIVEKIT_URL", &cfg.LiveKit.URL)
	envString("ROOMGATE_LIVEKIT_API_KEY", &cfg.LiveKit.APIKey)
	envString("ROOMGATE_LIVEKIT_API_SECRET", &cfg.LiveKit.APISecret)
	envString("ROOMGATE_AGENT_NAME", &cfg.LiveKit.AgentName)
	envString("ROOMGATE_AGENT_METADATA", &cfg.LiveKit.AgentMetadata)
	envInt("ROOMGATE_ROOM_EMPTY_TIMEOUT", &cfg.LiveKit.EmptyTimeout)
	envInt("ROOMGATE_ROOM_MAX_PARTICIPANTS", &cfg.LiveKit.MaxParticipants)
	envInt("ROOMGATE_BREAKER_FAILURES", &cfg.LiveKit.BreakerFailures)
	envDuration("ROOMGATE_BREAKER_TIMEOUT", &cfg.LiveKit.BreakerTimeout)
	envInt("ROOMGATE_LIVEKIT_MAX_RETRIES", &cfg.LiveKit.MaxRetries)

	envDuration("ROOMGATE_CREDENTIAL_TTL", &cfg.Credential.TTL)

	envDuration("ROOMGATE_DISPATCH_RETENTION", &cfg.Dispatch.Retention)
	envDuration("ROOMGATE_DISPATCH_SWEEP_INTERVAL", &cfg.Dispatch.SweepInterval)
	envBool("ROOMGATE_DISPATCH_ASYNC", &cfg.Dispatch.Async)

	envString("ROOMGATE_SERVICE_NAME", &cfg.Telemetry.ServiceName)
	envString("ROOMGATE_ENVIRONMENT", &cfg.Telemetry.Environment)
	envString("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	envString("ROOMGATE_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	envBool("ROOMGATE_TRACE_STDOUT", &cfg.Telemetry.Stdout)
	envString("ROOMGATE_LOG_LEVEL", &cfg.Telemetry.LogLevel)
}

// IsLiveKitConfigured returns true if LiveKit is properly configured
func (c *Config) IsLiveKitConfigured() bool {
	return c.LiveKit.URL != "" && c.LiveKit.APIKey != "" && c.LiveKit.APISecret != ""
}

// SlogLevel maps the configured log level onto slog, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Telemetry.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, "shutdown timeout must not be negative")
	}

	// LiveKit validation
	if c.LiveKit.URL == "" {
		errs = append(errs, "LiveKit URL is required")
	} else if !isValidURL(c.LiveKit.URL) {
		errs = append(errs, "LiveKit URL must be a valid URL")
	}
	if c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "" {
		errs = append(errs, "LiveKit API key and secret are required")
	}
	if c.LiveKit.EmptyTimeout < 0 {
		errs = append(errs, "room empty timeout must not be negative")
	}
	if c.LiveKit.MaxParticipants < 0 {
		errs = append(errs, "room max participants must not be negative")
	}
	if c.LiveKit.BreakerFailures < 1 {
		errs = append(errs, "circuit breaker failures must be at least 1")
	}
	if c.LiveKit.BreakerTimeout <= 0 {
		errs = append(errs, "circuit breaker timeout must be positive")
	}
	if c.LiveKit.MaxRetries < 0 {
		errs = append(errs, "LiveKit max retries must not be negative")
	}

	// Credential validation
	if c.Credential.TTL <= 0 {
		errs = append(errs, "credential TTL must be positive")
	}

	// Dispatch validation
	if c.Dispatch.Retention <= 0 {
		errs = append(errs, "dispatch retention must be positive")
	}
	if c.Dispatch.SweepInterval <= 0 {
		errs = append(errs, "dispatch sweep interval must be positive")
	}

	// Telemetry validation (optional but validate if set)
	if c.Telemetry.OTLPEndpoint != "" && !isValidURL(c.Telemetry.OTLPEndpoint) {
		errs = append(errs, "OTLP endpoint must be a valid URL")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("ROOMGATE_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	return filepath.Join(homeDir, ".config", "roomgate", "config.json")
}
