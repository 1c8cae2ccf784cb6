package serviceclients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Error kinds returned by the analyzer and judge clients. Client failures are
// values, not raised errors: the pipeline absorbs them into per-row outcomes
// and the batch keeps going.
const (
	ErrKindTimeout     = "timeout"
	ErrKindHTTPError   = "http_error"
	ErrKindNoChoices   = "no_choices"
	ErrKindInvalidJSON = "invalid_json"
	ErrKindUnexpected  = "unexpected"
)

// ClientError is the failure arm of a client call. Only the fields relevant
// to the kind are populated: StatusCode/Body for http_error, Raw for
// no_choices, RawText for invalid_json, Detail for timeout/unexpected.
type ClientError struct {
	Kind       string          `json:"error"`
	StatusCode int             `json:"status_code,omitempty"`
	Body       string          `json:"body,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	RawText    string          `json:"raw_text,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

func (e *ClientError) Error() string {
	switch e.Kind {
	case ErrKindHTTPError:
		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	case ErrKindUnexpected:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return e.Kind
	}
}

// AsMap renders the error as the tagged mapping recorded in result columns.
func (e *ClientError) AsMap() map[string]any {
	m := map[string]any{"error": e.Kind}
	if e.StatusCode != 0 {
		m["status_code"] = e.StatusCode
	}
	if e.Body != "" {
		m["body"] = e.Body
	}
	if len(e.Raw) > 0 {
		m["raw"] = json.RawMessage(e.Raw)
	}
	if e.RawText != "" {
		m["raw_text"] = e.RawText
	}
	if e.Detail != "" {
		m["detail"] = e.Detail
	}
	return m
}

// classifyTransportError maps a transport-level failure onto the taxonomy:
// deadline exhaustion becomes timeout, anything else unexpected.
func classifyTransportError(err error) *ClientError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &ClientError{Kind: ErrKindTimeout}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Kind: ErrKindTimeout}
	}
	return &ClientError{Kind: ErrKindUnexpected, Detail: err.Error()}
}
