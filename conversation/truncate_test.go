package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavzz/Conversation-Management/tokenizer"
	"github.com/arnavzz/Conversation-Management/types"
)

func exchangePair(user, assistant string) []types.Message {
	return []types.Message{
		types.NewUserMessage(user),
		types.NewAssistantMessage(assistant),
	}
}

func sampleHistory() []types.Message {
	var msgs []types.Message
	msgs = append(msgs, exchangePair("first question", "first answer")...)
	msgs = append(msgs, exchangePair("second question", "second answer")...)
	msgs = append(msgs, exchangePair("third question", "third answer")...)
	return msgs
}

func TestLastNTurns(t *testing.T) {
	t.Parallel()

	t.Run("keeps last n exchanges", func(t *testing.T) {
		t.Parallel()
		kept, err := LastNTurns(2)(sampleHistory())
		require.NoError(t, err)
		require.Len(t, kept, 4)
		assert.Equal(t, "second question", kept[0].Content)
		assert.Equal(t, "third answer", kept[3].Content)
	})

	t.Run("zero empties the history", func(t *testing.T) {
		t.Parallel()
		kept, err := LastNTurns(0)(sampleHistory())
		require.NoError(t, err)
		assert.Empty(t, kept)
	})

	t.Run("negative is a configuration error", func(t *testing.T) {
		t.Parallel()
		_, err := LastNTurns(-1)(sampleHistory())
		require.Error(t, err)
		assert.Equal(t, types.ErrInvalidConfiguration, types.GetErrorCode(err))
	})

	t.Run("fewer turns than requested returns everything", func(t *testing.T) {
		t.Parallel()
		history := sampleHistory()
		kept, err := LastNTurns(10)(history)
		require.NoError(t, err)
		assert.Equal(t, history, kept)
	})

	t.Run("unanswered user turns older than the window are dropped", func(t *testing.T) {
		t.Parallel()
		history := []types.Message{
			types.NewUserMessage("never answered"),
			types.NewUserMessage("first question"),
			types.NewAssistantMessage("first answer"),
		}
		kept, err := LastNTurns(1)(history)
		require.NoError(t, err)
		require.Len(t, kept, 2)
		assert.Equal(t, "first question", kept[0].Content)
		assert.Equal(t, "first answer", kept[1].Content)
	})

	t.Run("trailing user turn stays with the last window", func(t *testing.T) {
		t.Parallel()
		history := append(sampleHistory(), types.NewUserMessage("pending"))
		kept, err := LastNTurns(1)(history)
		require.NoError(t, err)
		require.Len(t, kept, 3)
		assert.Equal(t, "third question", kept[0].Content)
		assert.Equal(t, "pending", kept[2].Content)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		kept, err := LastNTurns(3)(nil)
		require.NoError(t, err)
		assert.Empty(t, kept)
	})
}

func TestMaxChars(t *testing.T) {
	t.Parallel()

	history := []types.Message{
		types.NewUserMessage("aaaaaaaaaa"), // 10 chars
		types.NewAssistantMessage("bbbbb"), // 5 chars
		types.NewUserMessage("ccc"),        // 3 chars
	}

	t.Run("keeps maximal suffix within budget", func(t *testing.T) {
		t.Parallel()
		kept, err := MaxChars(8)(history)
		require.NoError(t, err)
		require.Len(t, kept, 2)
		assert.Equal(t, "bbbbb", kept[0].Content)
		assert.Equal(t, "ccc", kept[1].Content)
	})

	t.Run("never splits a turn", func(t *testing.T) {
		t.Parallel()
		kept, err := MaxChars(7)(history)
		require.NoError(t, err)
		require.Len(t, kept, 1)
		assert.Equal(t, "ccc", kept[0].Content)
	})

	t.Run("everything fits", func(t *testing.T) {
		t.Parallel()
		kept, err := MaxChars(100)(history)
		require.NoError(t, err)
		assert.Equal(t, history, kept)
	})

	t.Run("zero budget keeps nothing", func(t *testing.T) {
		t.Parallel()
		kept, err := MaxChars(0)(history)
		require.NoError(t, err)
		assert.Empty(t, kept)
	})

	t.Run("negative budget is a configuration error", func(t *testing.T) {
		t.Parallel()
		_, err := MaxChars(-5)(history)
		require.Error(t, err)
		assert.Equal(t, types.ErrInvalidConfiguration, types.GetErrorCode(err))
	})
}

func TestMaxWords(t *testing.T) {
	t.Parallel()

	history := []types.Message{
		types.NewUserMessage("one two three four"),
		types.NewAssistantMessage("five six"),
		types.NewUserMessage("seven"),
	}

	kept, err := MaxWords(3)(history)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "five six", kept[0].Content)

	kept, err = MaxWords(2)(history)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "seven", kept[0].Content)
}

func TestMaxTokens(t *testing.T) {
	t.Parallel()

	// The estimator charges roughly one token per four ASCII characters.
	history := []types.Message{
		types.NewUserMessage("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), // ~10 tokens
		types.NewAssistantMessage("bbbbbbbb"),                             // ~2 tokens
	}

	tok := tokenizer.NewEstimator("", 0)
	kept, err := MaxTokens(3, tok)(history)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, types.RoleAssistant, kept[0].Role)

	// Nil tokenizer falls back to the estimator.
	kept, err = MaxTokens(100, nil)(history)
	require.NoError(t, err)
	assert.Equal(t, history, kept)
}

func TestHistory_RejectsSystemTurns(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	err := h.Append(types.NewSystemMessage("you are helpful"))
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
	assert.Zero(t, h.Len())

	require.NoError(t, h.Append(types.NewUserMessage("hi")))
	assert.Equal(t, 1, h.Len())
}

func TestHistory_ReplaceAndRemoveLast(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	require.NoError(t, h.Append(types.NewUserMessage("a")))
	require.NoError(t, h.Append(types.NewAssistantMessage("b")))

	h.RemoveLast()
	require.Equal(t, 1, h.Len())
	assert.Equal(t, "a", h.Messages()[0].Content)

	h.Replace([]types.Message{types.NewSummaryMessage("the gist")})
	require.Equal(t, 1, h.Len())
	assert.True(t, h.Messages()[0].IsSummary())

	h.RemoveLast()
	h.RemoveLast() // no-op on empty
	assert.Zero(t, h.Len())
}
