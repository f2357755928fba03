// Package tokenizer provides token counting for prompt-size estimates and
// token-bounded history truncation. A real tiktoken encoder is used for
// models it knows; everything else falls back to a character-ratio
// estimator.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/arnavzz/Conversation-Management/types"
)

// Tokenizer is the unified token counting interface.
type Tokenizer interface {
	// CountTokens returns the token count for the given text.
	CountTokens(text string) (int, error)

	// CountMessages returns the total token count for a message list,
	// including per-message overhead (role markers, separators).
	CountMessages(messages []types.Message) (int, error)

	// MaxTokens returns the model's maximum context length.
	MaxTokens() int

	// Name returns the tokenizer's name.
	Name() string
}

var (
	modelTokenizers   = make(map[string]Tokenizer)
	modelTokenizersMu sync.RWMutex
)

// Register registers a tokenizer for the given model name.
func Register(model string, t Tokenizer) {
	modelTokenizersMu.Lock()
	defer modelTokenizersMu.Unlock()
	modelTokenizers[model] = t
}

// ForModel returns the tokenizer registered for the model, trying prefix
// matches before falling back to the estimator. The longest registered
// prefix wins, so "gpt-4o-2024-08-06" resolves to "gpt-4o", not "gpt-4".
func ForModel(model string) Tokenizer {
	modelTokenizersMu.RLock()
	defer modelTokenizersMu.RUnlock()

	if t, ok := modelTokenizers[model]; ok {
		return t
	}
	var best Tokenizer
	bestLen := 0
	for registered, t := range modelTokenizers {
		if strings.HasPrefix(model, registered) && len(registered) > bestLen {
			best = t
			bestLen = len(registered)
		}
	}
	if best != nil {
		return best
	}
	return NewEstimator(model, 0)
}
