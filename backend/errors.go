package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// NetworkFailure - the request never reached the backend or got no response.
	NetworkFailure Kind = iota + 1
	// ValidationFailure - 422 with per-field messages.
	ValidationFailure
	// AuthenticationFailure - 401; token missing or expired.
	AuthenticationFailure
	// NotFound - 404; the record was deleted concurrently.
	NotFound
	// ServerFailure - 5xx or anything unclassified.
	ServerFailure
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ValidationFailure:
		return "validation failure"
	case AuthenticationFailure:
		return "authentication failure"
	case NotFound:
		return "not found"
	case ServerFailure:
		return "server failure"
	}
	return "unknown failure"
}

// APIError is the normalized error for any failed backend call.
type APIError struct {
	Kind    Kind
	Status  int // 0 for network failures
	Message string
	// Fields maps field names to ordered validation messages (422 only).
	Fields map[string][]string
	// fieldOrder preserves the wire order of Fields keys.
	fieldOrder []string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// FirstFieldError returns the first message of the first failed field,
// in the order the backend reported them. Empty when no field messages exist.
func (e *APIError) FirstFieldError() string {
	for _, fld := range e.fieldOrder {
		if msgs := e.Fields[fld]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

func IsAuthFailure(err error) bool     { return isKind(err, AuthenticationFailure) }
func IsNotFound(err error) bool        { return isKind(err, NotFound) }
func IsValidationError(err error) bool { return isKind(err, ValidationFailure) }
func IsNetworkFailure(err error) bool  { return isKind(err, NetworkFailure) }

func isKind(err error, k Kind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == k
	}
	return false
}

func newNetworkError(err error) *APIError {
	return &APIError{Kind: NetworkFailure, Err: errors.Wrap(err, "backend unreachable")}
}

// laravelErrorBody is the backend's error envelope.
type laravelErrorBody struct {
	Message string                 `json:"message"`
	Errors  map[string]interface{} `json:"errors"`
}

// newStatusError normalizes a non-2xx response into an APIError.
func newStatusError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	switch {
	case status == http.StatusUnprocessableEntity:
		apiErr.Kind = ValidationFailure
	case status == http.StatusUnauthorized:
		apiErr.Kind = AuthenticationFailure
	case status == http.StatusNotFound:
		apiErr.Kind = NotFound
	default:
		apiErr.Kind = ServerFailure
	}

	var envelope laravelErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Message
		if len(envelope.Errors) > 0 {
			apiErr.Fields, apiErr.fieldOrder = decodeFieldErrors(body)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("%s (HTTP %d)", http.StatusText(status), status)
	}
	return apiErr
}

// decodeFieldErrors re-reads the `errors` object with a token decoder so the
// backend's field order survives (a plain map loses it).
func decodeFieldErrors(body []byte) (map[string][]string, []string) {
	var outer struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &outer); err != nil || len(outer.Errors) == 0 {
		return nil, nil
	}

	fields := make(map[string][]string)
	var order []string

	dec := json.NewDecoder(bytes.NewReader(outer.Errors))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := keyTok.(string)
		if !ok {
			break
		}

		var msgs []string
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			break
		}
		switch val := raw.(type) {
		case []interface{}:
			for _, m := range val {
				if s, ok := m.(string); ok {
					msgs = append(msgs, s)
				}
			}
		case string:
			msgs = append(msgs, val)
		}

		if len(msgs) > 0 {
			fields[key] = msgs
			order = append(order, key)
		}
	}
	return fields, order
}
