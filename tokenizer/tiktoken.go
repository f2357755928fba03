package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/arnavzz/Conversation-Management/types"
)

// Tiktoken wraps a tiktoken encoding for OpenAI-family tokenization.
// Groq's hosted models are served behind an OpenAI-compatible API, so the
// cl100k family is a close fit for their tokenization.
type Tiktoken struct {
	model     string
	encoding  string
	maxTokens int

	once    sync.Once
	enc     *tiktoken.Tiktoken
	initErr error
}

// modelEncodings maps model names to tiktoken encodings and context sizes.
var modelEncodings = map[string]struct {
	encoding  string
	maxTokens int
}{
	"gpt-4o":                  {encoding: "o200k_base", maxTokens: 128000},
	"gpt-4o-mini":             {encoding: "o200k_base", maxTokens: 128000},
	"gpt-4":                   {encoding: "cl100k_base", maxTokens: 8192},
	"gpt-3.5-turbo":           {encoding: "cl100k_base", maxTokens: 16385},
	"llama-3.3-70b-versatile": {encoding: "cl100k_base", maxTokens: 131072},
	"llama-3.1-8b-instant":    {encoding: "cl100k_base", maxTokens: 131072},
	"mixtral-8x7b-32768":      {encoding: "cl100k_base", maxTokens: 32768},
}

// RegisterKnownModels registers a tiktoken-backed tokenizer for every model
// in modelEncodings, so ForModel resolves a real encoding for the models it
// knows. Encoding data is loaded lazily on first count, not here.
func RegisterKnownModels() {
	for model := range modelEncodings {
		Register(model, NewTiktoken(model))
	}
}

func init() {
	RegisterKnownModels()
}

// NewTiktoken creates a tiktoken-backed tokenizer for the given model.
// Unknown models fall back to cl100k_base.
func NewTiktoken(model string) *Tiktoken {
	info, ok := modelEncodings[model]
	if !ok {
		for prefix, i := range modelEncodings {
			if strings.HasPrefix(model, prefix) {
				info = i
				ok = true
				break
			}
		}
	}
	if !ok {
		info = struct {
			encoding  string
			maxTokens int
		}{encoding: "cl100k_base", maxTokens: 8192}
	}
	return &Tiktoken{
		model:     model,
		encoding:  info.encoding,
		maxTokens: info.maxTokens,
	}
}

// init lazily loads the encoding; loading pulls the BPE ranks into memory
// so it should happen at most once per tokenizer.
func (t *Tiktoken) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("failed to load encoding %q: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

func (t *Tiktoken) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := t.init(); err != nil {
		return 0, err
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

func (t *Tiktoken) CountMessages(messages []types.Message) (int, error) {
	total := 0
	for _, msg := range messages {
		tokens, err := t.CountTokens(msg.Content)
		if err != nil {
			return 0, err
		}
		total += tokens + 4
	}
	total += 3
	return total, nil
}

func (t *Tiktoken) MaxTokens() int { return t.maxTokens }

func (t *Tiktoken) Name() string { return "tiktoken/" + t.encoding }
