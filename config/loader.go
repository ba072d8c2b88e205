package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "routeforge.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setInt(&cfg.Router.EnsembleSize, "ROUTEFORGE_ENSEMBLE_SIZE")
	setInt(&cfg.Router.MaxParallel, "ROUTEFORGE_MAX_PARALLEL")
	setFloat64(&cfg.Router.ConfidenceThreshold, "ROUTEFORGE_CONFIDENCE_THRESHOLD")
	setFloat64(&cfg.Router.ReliabilityThreshold, "ROUTEFORGE_RELIABILITY_THRESHOLD")
	setBool(&cfg.Router.Baseline, "ROUTEFORGE_BASELINE")
	setString(&cfg.Router.LocalModel, "ROUTEFORGE_LOCAL_MODEL")
	setString(&cfg.Router.RemoteModel, "ROUTEFORGE_REMOTE_MODEL")
	setInt(&cfg.Router.MaxTokens, "ROUTEFORGE_MAX_TOKENS")
	setInt(&cfg.Router.BaselineMaxTokens, "ROUTEFORGE_BASELINE_MAX_TOKENS")

	setString(&cfg.LiteLLM.URL, "LITELLM_URL")
	setString(&cfg.LiteLLM.MasterKey, "LITELLM_MASTER_KEY")

	setInt64(&cfg.Cache.L1MaxCostBytes, "ROUTEFORGE_CACHE_L1_MAX_COST_BYTES")
	setDuration(&cfg.Cache.L1Expire, "ROUTEFORGE_CACHE_L1_EXPIRE")
	setDuration(&cfg.Cache.TTL, "ROUTEFORGE_CACHE_TTL")
	setString(&cfg.Cache.Bucket, "ROUTEFORGE_CACHE_BUCKET")

	setString(&cfg.NATS.URL, "NATS_URL")

	setString(&cfg.Recovery.CheckpointPath, "ROUTEFORGE_CHECKPOINT_PATH")
	setString(&cfg.Policy.ProfileFile, "ROUTEFORGE_POLICY_FILE")

	setString(&cfg.Logging.Level, "ROUTEFORGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "ROUTEFORGE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "ROUTEFORGE_LOG_ASYNC")
	setInt(&cfg.Logging.Buffer, "ROUTEFORGE_LOG_BUFFER")

	setInt(&cfg.Breaker.MaxFailures, "ROUTEFORGE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "ROUTEFORGE_BREAKER_TIMEOUT")

	setBool(&cfg.Telemetry.Enabled, "ROUTEFORGE_TELEMETRY_ENABLED")
	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Router.EnsembleSize < 1 {
		return errors.New("router.ensemble_size must be >= 1")
	}
	if cfg.Router.MaxParallel < 0 {
		return errors.New("router.max_parallel must be >= 0")
	}
	if cfg.Router.ConfidenceThreshold < 0 || cfg.Router.ConfidenceThreshold > 100 {
		return errors.New("router.confidence_threshold must be in [0,100]")
	}
	if cfg.Router.ReliabilityThreshold < 0 || cfg.Router.ReliabilityThreshold > 100 {
		return errors.New("router.reliability_threshold must be in [0,100]")
	}
	if cfg.Router.MaxTokens < 1 {
		return errors.New("router.max_tokens must be >= 1")
	}
	if cfg.Recovery.CheckpointPath == "" {
		return errors.New("recovery.checkpoint_path is required")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Cache.Bucket != "" && cfg.NATS.URL == "" {
		return errors.New("nats.url is required when cache.bucket is set")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
