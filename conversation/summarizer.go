package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/arnavzz/Conversation-Management/llm"
	"github.com/arnavzz/Conversation-Management/types"
)

// summarizeInstruction is the trailing user turn of a summarization
// request. It asks for compression, not creativity; facts, constraints,
// and decisions must survive.
const summarizeInstruction = "Summarize the conversation so far in a short paragraph. " +
	"Preserve every concrete fact, name, number, constraint, and decision that was mentioned. " +
	"Omit pleasantries and repetition. Respond with the summary only."

// summarizeLocked replaces the history with a single tagged summary turn.
// The caller must hold m.mu. The history is only mutated after the gateway
// call succeeds, so a failed or cancelled call leaves it exactly as it was.
func (m *Manager) summarizeLocked(ctx context.Context) error {
	request := append(m.outboundLocked(), types.NewUserMessage(summarizeInstruction))

	resp, err := m.gateway.Complete(ctx, &llm.ChatRequest{
		Model:       m.cfg.Model,
		Messages:    request,
		Temperature: m.cfg.SummaryTemperature,
		MaxTokens:   m.cfg.MaxTokens,
	})
	if err != nil {
		return types.NewError(types.ErrSummarization, "summarization call failed").
			WithProvider(m.gateway.Name()).
			WithCause(err)
	}
	summary := resp.FirstContent()
	if summary == "" {
		return types.NewError(types.ErrSummarization, "summarization returned empty content").
			WithProvider(m.gateway.Name())
	}

	before := m.history.Len()
	m.history.Replace([]types.Message{types.NewSummaryMessage(summary)})
	m.logger.Info("history compressed",
		zap.Int("turns_compressed", before),
		zap.Int("summary_chars", len(summary)),
	)
	return nil
}
