// Package config provides the process-level configuration: defaults,
// optional YAML file, then environment overrides. Core packages never read
// the environment themselves; they receive these values as constructor
// parameters.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/arnavzz/Conversation-Management/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// CONVOMGR_LLM_API_KEY.
const EnvPrefix = "CONVOMGR"

// Config is the full process configuration.
type Config struct {
	LLM          LLMConfig          `yaml:"llm"`
	Conversation ConversationConfig `yaml:"conversation"`
	Log          LogConfig          `yaml:"log"`
}

// LLMConfig configures the model gateway.
type LLMConfig struct {
	// APIKey authenticates against the hosted API. Usually supplied via
	// CONVOMGR_LLM_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string `yaml:"base_url"`
	// Model is the default model identifier.
	Model string `yaml:"model"`
	// Timeout bounds each gateway call.
	Timeout time.Duration `yaml:"timeout"`
}

// ConversationConfig configures the conversation manager.
type ConversationConfig struct {
	SystemPrompt       string  `yaml:"system_prompt"`
	SummarizeEveryK    int     `yaml:"summarize_every_k"`
	Temperature        float32 `yaml:"temperature"`
	SummaryTemperature float32 `yaml:"summary_temperature"`
	RollbackOnError    bool    `yaml:"rollback_on_error"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format: json or console.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Model:   "llama-3.3-70b-versatile",
			Timeout: 30 * time.Second,
		},
		Conversation: ConversationConfig{
			SystemPrompt:    "You are a helpful assistant. Be concise and factual.",
			SummarizeEveryK: 3,
			Temperature:     0.2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays CONVOMGR_* environment variables.
func (c *Config) applyEnv() {
	if v := envVar("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := envVar("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := envVar("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := envVar("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LLM.Timeout = d
		}
	}
	if v := envVar("CONVERSATION_SYSTEM_PROMPT"); v != "" {
		c.Conversation.SystemPrompt = v
	}
	if v := envVar("CONVERSATION_SUMMARIZE_EVERY_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.Conversation.SummarizeEveryK = k
		}
	}
	if v := envVar("CONVERSATION_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Conversation.Temperature = float32(f)
		}
	}
	if v := envVar("CONVERSATION_SUMMARY_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Conversation.SummaryTemperature = float32(f)
		}
	}
	if v := envVar("CONVERSATION_ROLLBACK_ON_ERROR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Conversation.RollbackOnError = b
		}
	}
	if v := envVar("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := envVar("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func envVar(suffix string) string {
	return os.Getenv(EnvPrefix + "_" + suffix)
}

// Validate enforces construction-time configuration rules eagerly.
func (c *Config) Validate() error {
	if c.Conversation.SummarizeEveryK < 0 {
		return types.NewError(types.ErrInvalidConfiguration, "conversation.summarize_every_k must not be negative")
	}
	if c.Conversation.Temperature < 0 || c.Conversation.SummaryTemperature < 0 {
		return types.NewError(types.ErrInvalidConfiguration, "temperatures must not be negative")
	}
	if c.LLM.Timeout < 0 {
		return types.NewError(types.ErrInvalidConfiguration, "llm.timeout must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return types.NewError(types.ErrInvalidConfiguration,
			fmt.Sprintf("log.level %q is not one of debug/info/warn/error", c.Log.Level))
	}
	return nil
}

// BuildLogger constructs the zap logger described by the Log section.
func (c LogConfig) BuildLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch strings.ToLower(c.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "", "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	zcfg := zap.NewProductionConfig()
	if c.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
