package conversation

import (
	"strings"

	"github.com/arnavzz/Conversation-Management/tokenizer"
	"github.com/arnavzz/Conversation-Management/types"
)

// Strategy is a pure reduction over a history: old turns in, kept turns
// out, original relative order preserved. Strategies never call the model
// gateway and never consult the exchange counter.
type Strategy func([]types.Message) ([]types.Message, error)

// LastNTurns keeps the most recent n conversational turns, where an
// assistant message marks the end of one turn and the user message that
// produced it is kept with it. Older turns beyond the n-th assistant are
// dropped, including any unanswered user messages preceding its own user
// turn. n == 0 yields an empty history; a history with fewer than n
// assistant turns is returned unchanged.
func LastNTurns(n int) Strategy {
	return func(msgs []types.Message) ([]types.Message, error) {
		if n < 0 {
			return nil, types.NewError(types.ErrInvalidConfiguration, "turn count must not be negative")
		}
		if n == 0 {
			return []types.Message{}, nil
		}

		assistants := 0
		start := len(msgs)
		for i := len(msgs) - 1; i >= 0; i-- {
			start = i
			if msgs[i].Role != types.RoleAssistant {
				continue
			}
			assistants++
			if assistants == n {
				if i > 0 && msgs[i-1].Role == types.RoleUser {
					start = i - 1
				}
				break
			}
		}
		return append([]types.Message{}, msgs[start:]...), nil
	}
}

// MaxChars keeps the maximal suffix whose concatenated content length does
// not exceed limit. A single turn is never split.
func MaxChars(limit int) Strategy {
	return maxSuffix(limit, func(m types.Message) (int, error) {
		return len(m.Content), nil
	})
}

// MaxWords keeps the maximal suffix whose whitespace-delimited word count
// does not exceed limit. A single turn is never split.
func MaxWords(limit int) Strategy {
	return maxSuffix(limit, func(m types.Message) (int, error) {
		return len(strings.Fields(m.Content)), nil
	})
}

// MaxTokens keeps the maximal suffix whose token count does not exceed
// limit, using the given tokenizer. A nil tokenizer falls back to the
// character-ratio estimator.
func MaxTokens(limit int, tok tokenizer.Tokenizer) Strategy {
	if tok == nil {
		tok = tokenizer.NewEstimator("", 0)
	}
	return maxSuffix(limit, func(m types.Message) (int, error) {
		return tok.CountTokens(m.Content)
	})
}

// maxSuffix walks the history from the newest turn backwards, keeping
// turns while the accumulated cost stays within limit.
func maxSuffix(limit int, cost func(types.Message) (int, error)) Strategy {
	return func(msgs []types.Message) ([]types.Message, error) {
		if limit < 0 {
			return nil, types.NewError(types.ErrInvalidConfiguration, "limit must not be negative")
		}

		used := 0
		start := len(msgs)
		for i := len(msgs) - 1; i >= 0; i-- {
			c, err := cost(msgs[i])
			if err != nil {
				return nil, err
			}
			if used+c > limit {
				break
			}
			used += c
			start = i
		}
		return append([]types.Message{}, msgs[start:]...), nil
	}
}
