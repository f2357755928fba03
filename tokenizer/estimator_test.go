package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavzz/Conversation-Management/types"
)

func TestEstimator_CountTokens(t *testing.T) {
	t.Parallel()
	e := NewEstimator("generic", 0)

	n, err := e.CountTokens("")
	require.NoError(t, err)
	assert.Zero(t, n)

	// 40 ASCII chars at ~4 chars per token.
	n, err = e.CountTokens("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	// Short text never rounds down to zero.
	n, err = e.CountTokens("hi")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// CJK text is denser than ASCII: 6 chars at ~1.5 chars per token.
	n, err = e.CountTokens("你好世界你好")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestEstimator_CountMessages(t *testing.T) {
	t.Parallel()
	e := NewEstimator("generic", 0)

	n, err := e.CountMessages(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "conversation-end overhead only")

	msgs := []types.Message{
		types.NewUserMessage("aaaaaaaa"),      // 2 tokens + 4 overhead
		types.NewAssistantMessage("bbbbbbbb"), // 2 tokens + 4 overhead
	}
	n, err = e.CountMessages(msgs)
	require.NoError(t, err)
	assert.Equal(t, 15, n)
}

func TestEstimator_MaxTokensDefault(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 8192, NewEstimator("m", 0).MaxTokens())
	assert.Equal(t, 4096, NewEstimator("m", 4096).MaxTokens())
}

func TestForModel(t *testing.T) {
	// Not parallel: mutates the package registry.

	// Unknown models fall back to the estimator.
	tok := ForModel("entirely-unknown-model")
	assert.Equal(t, "estimator", tok.Name())

	registered := NewEstimator("custom-model", 65536)
	Register("custom-model", registered)

	// Exact and prefix matches resolve to the registered tokenizer.
	assert.Same(t, Tokenizer(registered), ForModel("custom-model"))
	assert.Same(t, Tokenizer(registered), ForModel("custom-model-32k"))
	assert.Equal(t, 65536, ForModel("custom-model-32k").MaxTokens())
}

func TestForModel_KnownModelsResolveToTiktoken(t *testing.T) {
	// Not parallel: reads the package registry populated at init.

	tok := ForModel("llama-3.3-70b-versatile")
	assert.Equal(t, "tiktoken/cl100k_base", tok.Name())
	assert.Equal(t, 131072, tok.MaxTokens())

	tok = ForModel("gpt-4o")
	assert.Equal(t, "tiktoken/o200k_base", tok.Name())

	// Prefix matching covers dated model variants.
	tok = ForModel("gpt-4o-2024-08-06")
	assert.Equal(t, "tiktoken/o200k_base", tok.Name())
}

func TestTiktoken_EncodingSelection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tiktoken/cl100k_base", NewTiktoken("llama-3.3-70b-versatile").Name())
	assert.Equal(t, 131072, NewTiktoken("llama-3.3-70b-versatile").MaxTokens())
	assert.Equal(t, "tiktoken/o200k_base", NewTiktoken("gpt-4o").Name())
	// Unknown models fall back to cl100k_base.
	assert.Equal(t, "tiktoken/cl100k_base", NewTiktoken("mystery-model").Name())
	assert.Equal(t, 8192, NewTiktoken("mystery-model").MaxTokens())

	// Empty text never touches the encoder.
	n, err := NewTiktoken("gpt-4").CountTokens("")
	require.NoError(t, err)
	assert.Zero(t, n)
}
