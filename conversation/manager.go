package conversation

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/arnavzz/Conversation-Management/internal/metrics"
	"github.com/arnavzz/Conversation-Management/llm"
	"github.com/arnavzz/Conversation-Management/tokenizer"
	"github.com/arnavzz/Conversation-Management/types"
)

const (
	// defaultTemperature keeps normal replies deterministic-leaning but
	// natural. Summarization runs at 0; the asymmetry is deliberate.
	defaultTemperature float32 = 0.2
)

// Config configures a conversation Manager.
type Config struct {
	// Model is the model identifier sent with every gateway call.
	Model string `json:"model"`

	// SystemPrompt is prepended to every outbound message list. It is
	// never stored in the history.
	SystemPrompt string `json:"system_prompt"`

	// SummarizeEveryK triggers history summarization after every k-th
	// completed exchange. Zero disables periodic summarization.
	SummarizeEveryK int `json:"summarize_every_k"`

	// Temperature for normal exchanges. Defaults to 0.2 when zero.
	Temperature float32 `json:"temperature"`

	// SummaryTemperature for summarization calls. Compression should be
	// maximally deterministic, so this stays 0 unless overridden.
	SummaryTemperature float32 `json:"summary_temperature"`

	// MaxTokens caps the completion length. Zero leaves it to the model.
	MaxTokens int `json:"max_tokens"`

	// RollbackOnError removes the already-appended user turn when the
	// gateway call fails. The default (false) keeps it, so re-sending
	// context after a failure includes the unanswered message.
	RollbackOnError bool `json:"rollback_on_error"`
}

func (c *Config) validate() error {
	if c.SummarizeEveryK < 0 {
		return types.NewError(types.ErrInvalidConfiguration, "summarize_every_k must not be negative")
	}
	if c.Temperature < 0 || c.SummaryTemperature < 0 {
		return types.NewError(types.ErrInvalidConfiguration, "temperature must not be negative")
	}
	return nil
}

// Manager owns one conversation: it accumulates turns, replays them to the
// model gateway, and applies the retention policy. All operations are
// serialized; an exchange, including any triggered summarization, completes
// fully before the next begins.
type Manager struct {
	cfg     Config
	gateway llm.Gateway
	history *History
	tok     tokenizer.Tokenizer
	logger  *zap.Logger
	metrics *metrics.Collector

	mu             sync.Mutex
	turns          int
	lastSummaryErr error
}

// NewManager creates a Manager. The gateway is required; configuration is
// validated eagerly.
func NewManager(cfg Config, gateway llm.Gateway, logger *zap.Logger) (*Manager, error) {
	if gateway == nil {
		return nil, types.NewError(types.ErrInvalidConfiguration, "gateway must not be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		gateway: gateway,
		history: NewHistory(),
		tok:     tokenizer.ForModel(cfg.Model),
		logger:  logger.With(zap.String("component", "conversation_manager")),
	}, nil
}

// WithMetrics attaches a metrics collector. Optional.
func (m *Manager) WithMetrics(c *metrics.Collector) *Manager {
	m.metrics = c
	return m
}

// WithTokenizer overrides the token counter used for prompt-size logging.
func (m *Manager) WithTokenizer(t tokenizer.Tokenizer) *Manager {
	if t != nil {
		m.tok = t
	}
	return m
}

// Send performs one exchange: it appends the user turn, replays the full
// context to the gateway, appends the assistant turn, and advances the
// exchange counter. When the counter hits a multiple of SummarizeEveryK
// the history is compressed before returning; that side effect never
// alters the returned reply and its failure never fails the exchange.
func (m *Manager) Send(ctx context.Context, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", types.NewError(types.ErrInvalidRequest, "user text must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.history.Append(types.NewUserMessage(userText)); err != nil {
		return "", err
	}

	outbound := m.outboundLocked()
	if est, err := m.tok.CountMessages(outbound); err == nil {
		m.logger.Debug("sending exchange",
			zap.Int("history_len", m.history.Len()),
			zap.Int("estimated_prompt_tokens", est),
		)
	}

	resp, err := m.gateway.Complete(ctx, &llm.ChatRequest{
		Model:       m.cfg.Model,
		Messages:    outbound,
		Temperature: m.cfg.Temperature,
		MaxTokens:   m.cfg.MaxTokens,
	})
	if err != nil {
		return "", m.failExchangeLocked(err, "gateway call failed")
	}
	reply := resp.FirstContent()
	if reply == "" {
		return "", m.failExchangeLocked(nil, "gateway returned empty content")
	}

	if err := m.history.Append(types.NewAssistantMessage(reply)); err != nil {
		return "", err
	}
	m.turns++
	m.metrics.IncExchange(metrics.OutcomeOK)

	if m.cfg.SummarizeEveryK > 0 && m.turns%m.cfg.SummarizeEveryK == 0 {
		if err := m.summarizeLocked(ctx); err != nil {
			// Best effort: losing a compression pass is acceptable,
			// losing the exchange is not.
			m.lastSummaryErr = err
			m.metrics.IncSummarization(metrics.OutcomeError)
			m.logger.Warn("periodic summarization failed",
				zap.Int("turns", m.turns),
				zap.Error(err),
			)
		} else {
			m.lastSummaryErr = nil
			m.metrics.IncSummarization(metrics.OutcomeOK)
		}
	}

	return reply, nil
}

// failExchangeLocked handles a failed gateway call: optional rollback of
// the user turn, metrics, and the wrapped gateway error.
func (m *Manager) failExchangeLocked(cause error, msg string) error {
	if m.cfg.RollbackOnError {
		m.history.RemoveLast()
	}
	m.metrics.IncExchange(metrics.OutcomeError)
	e := types.NewError(types.ErrGateway, msg).WithProvider(m.gateway.Name())
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}

// Summarize compresses the entire history into a single tagged summary
// turn via one extra gateway call at the summary temperature. On failure
// the history is left untouched. Summarizing an already-summarized history
// is permitted and simply re-summarizes the summary.
func (m *Manager) Summarize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summarizeLocked(ctx)
}

// Truncate applies a truncation strategy to the history in place. The
// strategy is a pure function; it never calls the gateway and never
// touches the exchange counter.
func (m *Manager) Truncate(strategy func([]types.Message) ([]types.Message, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept, err := strategy(m.history.Messages())
	if err != nil {
		return err
	}
	m.history.Replace(kept)
	return nil
}

// Turns returns the number of completed exchanges.
func (m *Manager) Turns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns
}

// Messages returns a copy of the current history.
func (m *Manager) Messages() []types.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Messages()
}

// LastSummarizationError returns the side-channel error of the most recent
// periodic summarization, or nil if it succeeded.
func (m *Manager) LastSummarizationError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSummaryErr
}

// Reset clears the history and the exchange counter.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history.Clear()
	m.turns = 0
	m.lastSummaryErr = nil
}

// outboundLocked builds the message list replayed to the model: system
// prompt first, then the stored history.
func (m *Manager) outboundLocked() []types.Message {
	out := make([]types.Message, 0, m.history.Len()+1)
	if m.cfg.SystemPrompt != "" {
		out = append(out, types.NewSystemMessage(m.cfg.SystemPrompt))
	}
	return append(out, m.history.Messages()...)
}
