package config

import "time"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// PublicURL is the externally reachable base URL, advertised on agent
	// cards. Defaults to http://{host}:{port}.
	PublicURL string `yaml:"public_url,omitempty"`

	// AllowedOrigins for CORS on the SSE and RPC endpoints.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// DefaultServerConfig returns the built-in server defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host: "0.0.0.0",
		Port: 8080,
	}
}

// TemporalConfig holds durable-scheduler connection settings.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`

	// MaxConcurrentActivities bounds the worker's activity pool.
	MaxConcurrentActivities int `yaml:"max_concurrent_activities"`
}

// DefaultTemporalConfig returns the built-in scheduler defaults.
func DefaultTemporalConfig() *TemporalConfig {
	return &TemporalConfig{
		HostPort:                "localhost:7233",
		Namespace:               "default",
		TaskQueue:               "drover-tasks",
		MaxConcurrentActivities: 10,
	}
}

// AuthConfig holds JWT validation settings.
type AuthConfig struct {
	// JWTSecretEnv names the environment variable holding the HMAC secret.
	JWTSecretEnv string `yaml:"jwt_secret_env"`
}

// DefaultAuthConfig returns the built-in auth defaults.
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		JWTSecretEnv: "DROVER_JWT_SECRET",
	}
}

// BudgetConfig holds task budget defaults.
type BudgetConfig struct {
	// DefaultBudgetUSD applies when a task is submitted without a budget.
	DefaultBudgetUSD float64 `yaml:"default_budget_usd"`
}

// DefaultBudgetConfig returns the built-in budget defaults.
func DefaultBudgetConfig() *BudgetConfig {
	return &BudgetConfig{
		DefaultBudgetUSD: 1.0,
	}
}

// RetentionConfig controls event log retention and cleanup behavior.
type RetentionConfig struct {
	// TaskRetentionDays is how many days to keep terminal tasks (and their
	// events, via cascade) before deletion.
	TaskRetentionDays int `yaml:"task_retention_days"`

	// EventTTL is the maximum age of orphaned Event rows before deletion.
	// Cascade delete handles the normal case; this is a safety net.
	EventTTL time.Duration `yaml:"event_ttl"`

	// CleanupInterval is how often the cleanup loop runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		TaskRetentionDays: 90,
		EventTTL:          1 * time.Hour,
		CleanupInterval:   12 * time.Hour,
	}
}
