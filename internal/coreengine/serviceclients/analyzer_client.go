package serviceclients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalyzerClient sends built payloads to the external transcript analyzer
// service and returns the decoded response. Failures never propagate as
// errors; they come back as tagged ClientError values.
type AnalyzerClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAnalyzerClient creates a client for the configured analyzer endpoint
// with a per-call timeout.
func NewAnalyzerClient(baseURL string, timeout time.Duration) *AnalyzerClient {
	return &AnalyzerClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Analyze POSTs the payload as JSON and returns the analyzer's decoded
// response body. The response schema is analyzer-defined, so the result is
// left dynamically typed for ExtractPredictedText to pick apart.
func (c *AnalyzerClient) Analyze(ctx context.Context, payload map[string]any) (any, *ClientError) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to encode analyzer payload: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to create analyzer request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.HTTPClient.Do(req)
	if err != nil {
		cerr := classifyTransportError(err)
		logrus.WithField("component", "analyzer_client").WithError(err).Warnf("Transcript analyzer call failed: %s", cerr.Kind)
		return nil, cerr
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to read analyzer response: " + err.Error()}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		logrus.WithField("component", "analyzer_client").Warnf("Transcript analyzer returned status %d", httpResp.StatusCode)
		return nil, &ClientError{Kind: ErrKindHTTPError, StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to decode analyzer response as JSON: " + err.Error()}
	}
	return decoded, nil
}

// ExtractPredictedText pulls the predicted assistant response out of an
// analyzer response of unknown shape. Preference order: the first
// channel_response entry's text, then a top-level text or message field, then
// empty. Plain-string responses are used directly. Shape mismatches yield an
// empty string, never an error.
func ExtractPredictedText(resp any) string {
	switch r := resp.(type) {
	case string:
		return r
	case map[string]any:
		if cr, ok := r["channel_response"].([]any); ok && len(cr) > 0 {
			if entry, ok := cr[0].(map[string]any); ok {
				if text, ok := entry["text"].(string); ok {
					return text
				}
			}
			return ""
		}
		if text, ok := r["text"].(string); ok && text != "" {
			return text
		}
		if message, ok := r["message"].(string); ok && message != "" {
			return message
		}
	}
	return ""
}
