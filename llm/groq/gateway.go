// Package groq implements the model gateway over Groq's OpenAI-compatible
// chat-completions API. It is the only place in the module that knows
// about HTTP; everything above it sees llm.Gateway.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arnavzz/Conversation-Management/internal/metrics"
	"github.com/arnavzz/Conversation-Management/internal/tlsutil"
	"github.com/arnavzz/Conversation-Management/llm"
	"github.com/arnavzz/Conversation-Management/types"
)

const (
	defaultBaseURL        = "https://api.groq.com/openai"
	defaultModel          = "llama-3.3-70b-versatile"
	defaultEndpointPath   = "/v1/chat/completions"
	defaultModelsEndpoint = "/v1/models"
)

// Config holds the gateway configuration.
type Config struct {
	// APIKey is the bearer token for the Groq API.
	APIKey string

	// BaseURL overrides the API base URL. Defaults to the hosted Groq API.
	BaseURL string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// Timeout is the HTTP client timeout. Defaults to 30s if zero.
	Timeout time.Duration

	// EndpointPath is the chat completions path. Defaults to "/v1/chat/completions".
	EndpointPath string

	// ModelsEndpoint is the models list path used by health checks.
	ModelsEndpoint string

	// BuildHeaders optionally replaces the default bearer-token headers.
	BuildHeaders func(req *http.Request, apiKey string)
}

// Gateway is the Groq implementation of llm.Gateway.
type Gateway struct {
	cfg     Config
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Collector
}

// New creates a Groq gateway with the given config.
func New(cfg Config, logger *zap.Logger) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = defaultEndpointPath
	}
	if cfg.ModelsEndpoint == "" {
		cfg.ModelsEndpoint = defaultModelsEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(cfg.Timeout),
		logger: logger.With(zap.String("component", "groq_gateway")),
	}
}

// WithMetrics attaches a metrics collector. Optional.
func (g *Gateway) WithMetrics(c *metrics.Collector) *Gateway {
	g.metrics = c
	return g
}

// Name returns the gateway identifier.
func (g *Gateway) Name() string { return "groq" }

// SupportsNativeFunctionCalling reports tool-calling support.
func (g *Gateway) SupportsNativeFunctionCalling() bool { return true }

func (g *Gateway) buildHeaders(req *http.Request) {
	if g.cfg.BuildHeaders != nil {
		g.cfg.BuildHeaders(req, g.cfg.APIKey)
		return
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

func (g *Gateway) endpoint(path string) string {
	return strings.TrimRight(g.cfg.BaseURL, "/") + path
}

// HealthCheck verifies the API is reachable.
func (g *Gateway) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint(g.cfg.ModelsEndpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.buildHeaders(httpReq)

	resp, err := g.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := readErrorMessage(resp.Body)
		return &llm.HealthStatus{Healthy: false, Latency: latency},
			fmt.Errorf("groq health check failed: status=%d msg=%s", resp.StatusCode, msg)
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

// Complete performs a non-streaming chat completion.
func (g *Gateway) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = g.cfg.DefaultModel
	}

	body := wireRequest{
		Model:       model,
		Messages:    toWireMessages(req.Messages),
		Tools:       toWireTools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stop:        req.Stop,
	}
	if req.ToolChoice != "" {
		body.ToolChoice = req.ToolChoice
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(g.cfg.EndpointPath), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.buildHeaders(httpReq)

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.metrics.ObserveGatewayRequest(g.Name(), metrics.OutcomeError, time.Since(start))
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(g.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		g.metrics.ObserveGatewayRequest(g.Name(), metrics.OutcomeError, time.Since(start))
		msg := readErrorMessage(resp.Body)
		g.logger.Warn("completion request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("model", model),
		)
		return nil, mapHTTPError(resp.StatusCode, msg, g.Name())
	}

	var wr wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		g.metrics.ObserveGatewayRequest(g.Name(), metrics.OutcomeError, time.Since(start))
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(g.Name())
	}
	g.metrics.ObserveGatewayRequest(g.Name(), metrics.OutcomeOK, time.Since(start))

	result := wr.toChatResponse(g.Name())
	g.logger.Debug("completion ok",
		zap.String("model", result.Model),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
	)
	return result, nil
}
