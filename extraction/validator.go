package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/arnavzz/Conversation-Management/types"
)

// FieldError is one validation failure, anchored to a field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates the validation failures of one record.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return e.Errors[0].Error()
	default:
		msgs := make([]string, 0, len(e.Errors))
		for i := range e.Errors {
			msgs = append(msgs, e.Errors[i].Error())
		}
		return fmt.Sprintf("validation failed with %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
	}
}

// Fields returns the offending field names, in error order.
func (e *ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for i := range e.Errors {
		fields = append(fields, e.Errors[i].Field)
	}
	return fields
}

// Validator evaluates a value against a declarative types.JSONSchema.
// Adding an extraction target means writing a new schema value, not new
// validation code.
type Validator struct {
	formatValidators map[types.StringFormat]func(string) bool
}

// NewValidator creates a Validator with the built-in format checks.
func NewValidator() *Validator {
	v := &Validator{
		formatValidators: make(map[types.StringFormat]func(string) bool),
	}
	v.registerBuiltinFormats()
	return v
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	uriRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func (v *Validator) registerBuiltinFormats() {
	v.formatValidators[types.FormatEmail] = emailRe.MatchString
	v.formatValidators[types.FormatURI] = uriRe.MatchString
	v.formatValidators[types.FormatDate] = dateRe.MatchString
}

// RegisterFormat registers a custom format validator.
func (v *Validator) RegisterFormat(format types.StringFormat, fn func(string) bool) {
	v.formatValidators[format] = fn
}

// Validate checks raw JSON against the schema. It returns a
// *ValidationErrors when the data does not conform.
func (v *Validator) Validate(data []byte, schema *types.JSONSchema) error {
	if schema == nil {
		return nil
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &ValidationErrors{
			Errors: []FieldError{{Message: fmt.Sprintf("invalid JSON: %v", err)}},
		}
	}
	return v.ValidateValue(value, schema)
}

// ValidateValue checks a decoded value against the schema.
func (v *Validator) ValidateValue(value any, schema *types.JSONSchema) error {
	var errs []FieldError
	v.validateValue(value, schema, "", &errs)
	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func (v *Validator) validateValue(value any, schema *types.JSONSchema, path string, errs *[]FieldError) {
	if schema == nil {
		return
	}

	if len(schema.Enum) > 0 {
		found := false
		for _, enumVal := range schema.Enum {
			if equalValues(value, enumVal) {
				found = true
				break
			}
		}
		if !found {
			*errs = append(*errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("value must be one of: %v", schema.Enum),
			})
		}
	}

	switch schema.Type {
	case types.SchemaTypeString:
		v.validateString(value, schema, path, errs)
	case types.SchemaTypeNumber:
		v.validateNumber(value, schema, path, errs, false)
	case types.SchemaTypeInteger:
		v.validateNumber(value, schema, path, errs, true)
	case types.SchemaTypeBoolean:
		if _, ok := value.(bool); !ok {
			*errs = append(*errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("expected boolean, got %T", value),
			})
		}
	case types.SchemaTypeNull:
		if value != nil {
			*errs = append(*errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("expected null, got %T", value),
			})
		}
	case types.SchemaTypeObject:
		v.validateObject(value, schema, path, errs)
	case types.SchemaTypeArray:
		v.validateArray(value, schema, path, errs)
	}
}

func (v *Validator) validateString(value any, schema *types.JSONSchema, path string, errs *[]FieldError) {
	str, ok := value.(string)
	if !ok {
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("expected string, got %T", value),
		})
		return
	}

	if schema.Pattern != "" {
		matched, err := regexp.MatchString(schema.Pattern, str)
		if err != nil {
			*errs = append(*errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("invalid pattern %q: %v", schema.Pattern, err),
			})
		} else if !matched {
			*errs = append(*errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("string does not match pattern %q", schema.Pattern),
			})
		}
	}

	if schema.Format != "" {
		if check, ok := v.formatValidators[schema.Format]; ok && !check(str) {
			*errs = append(*errs, FieldError{
				Field:   path,
				Message: fmt.Sprintf("string does not match format %q", schema.Format),
			})
		}
	}
}

func (v *Validator) validateNumber(value any, schema *types.JSONSchema, path string, errs *[]FieldError, integer bool) {
	num, ok := toFloat64(value)
	if !ok {
		want := "number"
		if integer {
			want = "integer"
		}
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("expected %s, got %T", want, value),
		})
		return
	}

	if integer && num != math.Trunc(num) {
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("expected integer, got %v", num),
		})
		return
	}

	if schema.Minimum != nil && num < *schema.Minimum {
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("value %v is less than minimum %v", num, *schema.Minimum),
		})
	}
	if schema.Maximum != nil && num > *schema.Maximum {
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("value %v exceeds maximum %v", num, *schema.Maximum),
		})
	}
}

func (v *Validator) validateObject(value any, schema *types.JSONSchema, path string, errs *[]FieldError) {
	obj, ok := value.(map[string]any)
	if !ok {
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("expected object, got %T", value),
		})
		return
	}

	for _, req := range schema.Required {
		val, exists := obj[req]
		if !exists {
			*errs = append(*errs, FieldError{
				Field:   joinPath(path, req),
				Message: "required field is missing",
			})
		} else if val == nil {
			*errs = append(*errs, FieldError{
				Field:   joinPath(path, req),
				Message: "required field must not be null",
			})
		}
	}

	for name, propValue := range obj {
		propPath := joinPath(path, name)
		propSchema, known := schema.Properties[name]
		if !known {
			if schema.AdditionalProperties != nil && !*schema.AdditionalProperties {
				*errs = append(*errs, FieldError{
					Field:   propPath,
					Message: "additional property not allowed",
				})
			}
			continue
		}
		// Absent optional fields are represented as null by conservative
		// extraction; null only fails validation for required fields.
		if propValue == nil {
			continue
		}
		v.validateValue(propValue, propSchema, propPath, errs)
	}
}

func (v *Validator) validateArray(value any, schema *types.JSONSchema, path string, errs *[]FieldError) {
	arr, ok := value.([]any)
	if !ok {
		*errs = append(*errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("expected array, got %T", value),
		})
		return
	}
	if schema.Items != nil {
		for i, item := range arr {
			v.validateValue(item, schema.Items, fmt.Sprintf("%s[%d]", path, i), errs)
		}
	}
}

func toFloat64(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func equalValues(a, b any) bool {
	aNum, aIsNum := toFloat64(a)
	bNum, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		return aNum == bNum
	}
	if aStr, ok := a.(string); ok {
		bStr, ok2 := b.(string)
		return ok2 && aStr == bStr
	}
	if aBool, ok := a.(bool); ok {
		bBool, ok2 := b.(bool)
		return ok2 && aBool == bBool
	}
	if a == nil && b == nil {
		return true
	}
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	return string(aJSON) == string(bJSON)
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
