package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arnavzz/Conversation-Management/internal/metrics"
	"github.com/arnavzz/Conversation-Management/llm"
	"github.com/arnavzz/Conversation-Management/types"
)

// extractionSystemPrompt instructs the model to infer conservatively:
// fields the text does not state are left null, never guessed.
const extractionSystemPrompt = "You extract structured fields from free text by calling the provided tool. " +
	"Fill in only the fields that are explicitly present in the text. " +
	"If a field is not mentioned, set it to null. Never guess or fabricate values."

// Extractor pulls schema-described fields out of free text with one
// tool-calling gateway exchange. It is stateless; a single Extractor may
// serve many texts.
type Extractor struct {
	gateway   llm.Gateway
	schema    *types.JSONSchema
	tool      types.ToolSchema
	model     string
	validator *Validator
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// NewExtractor creates an Extractor for the given object schema. The
// gateway must support native function calling.
func NewExtractor(gateway llm.Gateway, schema *types.JSONSchema, toolName, model string, logger *zap.Logger) (*Extractor, error) {
	if gateway == nil {
		return nil, types.NewError(types.ErrInvalidConfiguration, "gateway must not be nil")
	}
	if !gateway.SupportsNativeFunctionCalling() {
		return nil, types.NewError(types.ErrInvalidConfiguration,
			fmt.Sprintf("gateway %q does not support function calling", gateway.Name()))
	}
	if schema == nil || schema.Type != types.SchemaTypeObject {
		return nil, types.NewError(types.ErrInvalidConfiguration, "schema must be an object schema")
	}
	if toolName == "" {
		toolName = "record_fields"
	}
	tool, err := types.NewToolSchema(toolName, "Record the fields found in the input text.", schema)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidConfiguration, "schema is not serializable").WithCause(err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		gateway:   gateway,
		schema:    schema,
		tool:      tool,
		model:     model,
		validator: NewValidator(),
		logger:    logger.With(zap.String("component", "extractor")),
	}, nil
}

// WithMetrics attaches a metrics collector. Optional.
func (e *Extractor) WithMetrics(c *metrics.Collector) *Extractor {
	e.metrics = c
	return e
}

// Extract runs one stateless exchange and returns the validated record.
// Optional fields absent from the text are dropped from the result; a
// missing or mistyped required field fails with a SCHEMA_VALIDATION error
// naming the offending fields.
func (e *Extractor) Extract(ctx context.Context, text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "input text must not be empty")
	}

	resp, err := e.gateway.Complete(ctx, &llm.ChatRequest{
		Model: e.model,
		Messages: []types.Message{
			types.NewSystemMessage(extractionSystemPrompt),
			types.NewUserMessage(text),
		},
		Tools:       []types.ToolSchema{e.tool},
		ToolChoice:  "auto",
		Temperature: 0,
	})
	if err != nil {
		e.metrics.IncExtraction(metrics.OutcomeError)
		return nil, types.NewError(types.ErrGateway, "extraction call failed").
			WithProvider(e.gateway.Name()).
			WithCause(err)
	}

	calls := resp.FirstToolCalls()
	if len(calls) == 0 {
		e.metrics.IncExtraction(metrics.OutcomeError)
		return nil, types.NewError(types.ErrGateway, "model did not call the extraction tool").
			WithProvider(e.gateway.Name())
	}

	record, err := e.decodeAndValidate(calls[0].Arguments)
	if err != nil {
		e.metrics.IncExtraction(metrics.OutcomeError)
		return nil, err
	}
	e.metrics.IncExtraction(metrics.OutcomeOK)
	e.logger.Debug("extraction ok",
		zap.String("tool", e.tool.Name),
		zap.Int("fields", len(record)),
	)
	return record, nil
}

// decodeAndValidate parses the tool arguments, strips null optional
// fields, and enforces the schema.
func (e *Extractor) decodeAndValidate(raw json.RawMessage) (map[string]any, error) {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, types.NewError(types.ErrSchemaValidation, "tool arguments are not a JSON object").
			WithCause(err)
	}

	if err := e.validator.ValidateValue(record, e.schema); err != nil {
		var ve *ValidationErrors
		if errors.As(err, &ve) {
			return nil, types.NewError(types.ErrSchemaValidation,
				fmt.Sprintf("invalid fields: %s", strings.Join(ve.Fields(), ", "))).
				WithCause(ve)
		}
		return nil, types.NewError(types.ErrSchemaValidation, "record does not conform to schema").
			WithCause(err)
	}

	// Conservative extraction reports absent optional fields as null;
	// drop them so the record only carries fields found in the text.
	for name, val := range record {
		if val == nil && !e.schema.IsRequired(name) {
			delete(record, name)
		}
	}
	return record, nil
}
