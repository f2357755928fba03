package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavzz/Conversation-Management/types"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.Conversation.SummarizeEveryK)
	assert.InDelta(t, 0.2, cfg.Conversation.Temperature, 1e-6)
	assert.Zero(t, cfg.Conversation.SummaryTemperature)
	assert.False(t, cfg.Conversation.RollbackOnError)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: llama-3.1-8b-instant
  timeout: 10s
conversation:
  summarize_every_k: 5
  system_prompt: "be brief"
  rollback_on_error: true
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.Conversation.SummarizeEveryK)
	assert.Equal(t, "be brief", cfg.Conversation.SystemPrompt)
	assert.True(t, cfg.Conversation.RollbackOnError)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONVOMGR_LLM_API_KEY", "gsk_test")
	t.Setenv("CONVOMGR_LLM_MODEL", "mixtral-8x7b-32768")
	t.Setenv("CONVOMGR_CONVERSATION_SUMMARIZE_EVERY_K", "7")
	t.Setenv("CONVOMGR_CONVERSATION_TEMPERATURE", "0.5")
	t.Setenv("CONVOMGR_CONVERSATION_SUMMARY_TEMPERATURE", "0.1")
	t.Setenv("CONVOMGR_CONVERSATION_ROLLBACK_ON_ERROR", "true")
	t.Setenv("CONVOMGR_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", cfg.LLM.APIKey)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.LLM.Model)
	assert.Equal(t, 7, cfg.Conversation.SummarizeEveryK)
	assert.InDelta(t, 0.5, cfg.Conversation.Temperature, 1e-6)
	assert.InDelta(t, 0.1, cfg.Conversation.SummaryTemperature, 1e-6)
	assert.True(t, cfg.Conversation.RollbackOnError)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: from-file\n"), 0o600))
	t.Setenv("CONVOMGR_LLM_MODEL", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.Model)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Conversation.SummarizeEveryK = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidConfiguration, types.GetErrorCode(err))

	cfg = Default()
	cfg.Conversation.Temperature = -0.1
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "verbose"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Timeout = -time.Second
	require.Error(t, cfg.Validate())
}

func TestBuildLogger(t *testing.T) {
	t.Parallel()

	for _, lc := range []LogConfig{
		{Level: "debug", Format: "console"},
		{Level: "info", Format: "json"},
		{Level: "", Format: ""},
	} {
		logger, err := lc.BuildLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}
