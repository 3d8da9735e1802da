package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	fallbackMessage           = "Error en la solicitud"
	fallbackValidationMessage = "Error de validación"
)

// ErrEmptyBody is returned when the API answers without any envelope.
var ErrEmptyBody = errors.New("empty response body")

// FieldError is one entry of a field-keyed validation message.
type FieldError struct {
	Field  string
	Errors []string
}

func (f FieldError) String() string {
	return f.Field + ": " + strings.Join(f.Errors, ", ")
}

// APIError is returned when the envelope status is not "success".
type APIError struct {
	Op         string
	HTTPStatus int
	Message    string
	// Fields is set when the API sent a field-keyed message, in the order
	// the API listed the fields.
	Fields []FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

// FieldMessages returns the field errors as a map, for forms that show them
// next to their inputs.
func (e *APIError) FieldMessages() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = strings.Join(f.Errors, ", ")
	}
	return out
}

// newAPIError builds the failure for a non-success envelope. message may be a
// string, a mapping of field to error list, or absent; legacy carries the
// "errors" member some endpoints use instead.
func newAPIError(op string, httpStatus int, message, legacy json.RawMessage) *APIError {
	apiErr := &APIError{Op: op, HTTPStatus: httpStatus}

	raw := bytes.TrimSpace(message)
	if isBlank(raw) {
		raw = bytes.TrimSpace(legacy)
	}

	switch {
	case isBlank(raw):
		apiErr.Message = fallbackMessage
	case raw[0] == '{':
		fields, err := decodeFieldErrors(raw)
		if err != nil {
			apiErr.Message = fallbackValidationMessage
			break
		}
		apiErr.Fields = fields
		apiErr.Message = joinFieldErrors(fields)
		if apiErr.Message == "" {
			apiErr.Message = fallbackValidationMessage
		}
	default:
		apiErr.Message = flattenValue(raw)
		if apiErr.Message == "" {
			apiErr.Message = fallbackMessage
		}
	}
	return apiErr
}

func isBlank(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`))
}

// decodeFieldErrors walks the object token by token so the field order of the
// response is kept.
func decodeFieldErrors(raw []byte) ([]FieldError, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var fields []FieldError
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields = append(fields, FieldError{Field: key, Errors: fieldMessages(value)})
	}
	return fields, nil
}

// fieldMessages accepts ["a", "b"], "a" or anything else printable.
func fieldMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return []string{flattenValue(raw)}
}

func joinFieldErrors(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}

func flattenValue(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return string(raw)
}
