package serviceclients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// judgeSystemPrompt pins the judge to a single JSON object with exactly the
// scoring keys the result schema expects.
const judgeSystemPrompt = "You are an evaluator. Compare a predicted assistant response to an expected reference. " +
	"Return a single valid JSON object (no surrounding text) with keys:\n" +
	"  - accuracy: number (0.0-1.0)\n" +
	"  - completeness: number (0.0-1.0)\n" +
	"  - relevance: number (0.0-1.0)\n" +
	"  - overall: number (0.0-1.0)\n" +
	"  - reasoning: string (brief explanation)\n" +
	"  - differences: list of strings (what differs)\n" +
	"  - pass_fail: string ('pass' or 'fail')\n" +
	"Be concise and output only JSON.\n"

// scoreKeys are coerced to float64 when the judge returns them in a
// coercible form; non-coercible values are preserved as delivered.
var scoreKeys = []string{"accuracy", "completeness", "relevance", "overall"}

// JudgeClient scores a predicted response against an expected reference via
// a chat-completion shaped LLM endpoint. Like the analyzer client, failures
// are tagged values rather than raised errors.
type JudgeClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewJudgeClient creates a client for the configured judge endpoint/model
// with a per-call timeout.
func NewJudgeClient(baseURL, apiKey, model string, timeout time.Duration) *JudgeClient {
	return &JudgeClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type judgeRequest struct {
	Model       string         `json:"model"`
	Messages    []judgeMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
}

type judgeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type judgeCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// Score sends expected/predicted/transcript to the judge and returns the
// parsed scoring mapping. Numeric score fields are coerced to float64 when
// possible; everything else in the judge's object passes through untouched.
func (c *JudgeClient) Score(ctx context.Context, expected, predicted, transcript string) (map[string]any, *ClientError) {
	var userParts []string
	if transcript != "" {
		userParts = append(userParts, "Transcript:\n"+transcript+"\n")
	}
	userParts = append(userParts,
		"Expected Response:\n"+expected+"\n",
		"Predicted Response:\n"+predicted+"\n",
	)

	reqBody := judgeRequest{
		Model: c.Model,
		Messages: []judgeMessage{
			{Role: "system", Content: judgeSystemPrompt},
			{Role: "user", Content: strings.Join(userParts, "\n")},
		},
		Temperature: 0.0,
		MaxTokens:   512,
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to encode judge request: " + err.Error()}
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to create judge request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpResp, err := c.HTTPClient.Do(req)
	if err != nil {
		cerr := classifyTransportError(err)
		logrus.WithField("component", "judge_client").WithError(err).Warnf("Judge call failed: %s", cerr.Kind)
		return nil, cerr
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to read judge response: " + err.Error()}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		logrus.WithField("component", "judge_client").Warnf("Judge returned status %d", httpResp.StatusCode)
		return nil, &ClientError{Kind: ErrKindHTTPError, StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var completion judgeCompletion
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, &ClientError{Kind: ErrKindUnexpected, Detail: "failed to decode judge response: " + err.Error()}
	}
	if len(completion.Choices) == 0 {
		return nil, &ClientError{Kind: ErrKindNoChoices, Raw: json.RawMessage(respBody)}
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		content = completion.Choices[0].Text
	}

	parsed := map[string]any{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, &ClientError{Kind: ErrKindInvalidJSON, RawText: content}
	}
	// A literal JSON null decodes into a nil map without error; that is not
	// a scoring object either.
	if parsed == nil {
		return nil, &ClientError{Kind: ErrKindInvalidJSON, RawText: content}
	}

	for _, key := range scoreKeys {
		if value, present := parsed[key]; present {
			parsed[key] = coerceScore(value)
		}
	}
	return parsed, nil
}

// coerceScore converts a judge score to float64 when the value allows it.
// A failed coercion hands back the original value unchanged.
func coerceScore(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return v
	default:
		return v
	}
}
