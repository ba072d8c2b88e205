// Package config provides hierarchical configuration loading for RouteForge.
// Precedence: defaults < YAML file < environment variables.
//
// Loaded values are plain data: components receive the sections they need at
// construction and never observe later mutation. Offline tuning derives a new
// Config value per trial instead of touching shared state.
package config

import "time"

// Config holds all runtime configuration for the RouteForge core.
type Config struct {
	Router    Router    `yaml:"router"`
	LiteLLM   LiteLLM   `yaml:"litellm"`
	Cache     Cache     `yaml:"cache"`
	NATS      NATS      `yaml:"nats"`
	Recovery  Recovery  `yaml:"recovery"`
	Policy    Policy    `yaml:"policy"`
	Logging   Logging   `yaml:"logging"`
	Breaker   Breaker   `yaml:"breaker"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Router holds ensemble generation and escalation configuration.
type Router struct {
	EnsembleSize         int     `yaml:"ensemble_size"`          // Candidates per ensemble (default: 3)
	MaxParallel          int     `yaml:"max_parallel"`           // Max concurrent generation calls (default: ensemble_size)
	ConfidenceThreshold  float64 `yaml:"confidence_threshold"`   // Min avg confidence to accept (default: 50)
	ReliabilityThreshold float64 `yaml:"reliability_threshold"`  // Min group-low confidence to accept (default: 40)
	Baseline             bool    `yaml:"baseline"`               // Bypass ensembling with one minimal-cost call
	LocalModel           string  `yaml:"local_model"`            // Model for local ensemble candidates
	RemoteModel          string  `yaml:"remote_model"`           // High-trust model for escalation
	MaxTokens            int     `yaml:"max_tokens"`             // Max tokens per generation (default: 2048)
	BaselineMaxTokens    int     `yaml:"baseline_max_tokens"`    // Max tokens in baseline mode (default: 512)
}

// WithConfidenceThreshold returns a copy of r with the threshold replaced.
// Offline tuning uses this to build one immutable config per trial.
func (r Router) WithConfidenceThreshold(v float64) Router {
	r.ConfidenceThreshold = v
	return r
}

// LiteLLM holds LiteLLM proxy configuration for the generation backend.
type LiteLLM struct {
	URL       string `yaml:"url"`
	MasterKey string `yaml:"master_key"`
}

// Cache holds graph-query cache configuration.
type Cache struct {
	L1MaxCostBytes int64         `yaml:"l1_max_cost_bytes"`
	L1Expire       time.Duration `yaml:"l1_expire"`
	TTL            time.Duration `yaml:"ttl"`
	Bucket         string        `yaml:"bucket"` // NATS KV bucket for the L2 tier; empty disables L2
}

// NATS holds NATS JetStream configuration.
type NATS struct {
	URL string `yaml:"url"`
}

// Recovery holds checkpoint persistence configuration.
type Recovery struct {
	CheckpointPath string `yaml:"checkpoint_path"`
}

// Policy holds HITL policy gate configuration.
type Policy struct {
	ProfileFile string `yaml:"profile_file"` // YAML profile path; empty uses the checkpoint-guard preset
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`  // Buffer log records off the hot path
	Buffer  int    `yaml:"buffer"` // Async buffer capacity (default: 1024)
}

// Breaker holds circuit breaker configuration for backend HTTP calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Telemetry holds OpenTelemetry exporter configuration.
type Telemetry struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Router: Router{
			EnsembleSize:         3,
			MaxParallel:          0, // 0 = ensemble_size
			ConfidenceThreshold:  50,
			ReliabilityThreshold: 40,
			LocalModel:           "ollama/qwen2.5-coder",
			RemoteModel:          "openai/gpt-4o",
			MaxTokens:            2048,
			BaselineMaxTokens:    512,
		},
		LiteLLM: LiteLLM{
			URL: "http://localhost:4000",
		},
		Cache: Cache{
			L1MaxCostBytes: 64 << 20,
			L1Expire:       5 * time.Minute,
			TTL:            30 * time.Minute,
		},
		NATS: NATS{
			URL: "nats://localhost:4222",
		},
		Recovery: Recovery{
			CheckpointPath: "routeforge_checkpoint.json",
		},
		Logging: Logging{
			Level:   "info",
			Service: "routeforge-core",
			Buffer:  1024,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Telemetry: Telemetry{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
		},
	}
}
