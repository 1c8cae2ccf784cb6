package serviceclients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// judgeServer returns an httptest server answering chat-completion requests
// with the given message content.
func judgeServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "judge-model", req["model"])
		assert.Equal(t, 0.0, req["temperature"])
		assert.Equal(t, 512.0, req["max_tokens"])

		resp := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestJudge(url string) *JudgeClient {
	return NewJudgeClient(url, "test-key", "judge-model", 5*time.Second)
}

func TestJudgeClientScore(t *testing.T) {
	t.Run("parses scores and coerces numerics", func(t *testing.T) {
		content := `{"accuracy":0.9,"completeness":"0.8","relevance":1,"overall":0.85,` +
			`"reasoning":"close match","differences":["tone"],"pass_fail":"pass"}`
		server := judgeServer(t, content)
		defer server.Close()

		result, cerr := newTestJudge(server.URL).Score(context.Background(), "expected", "predicted", "transcript")
		require.Nil(t, cerr)
		assert.Equal(t, 0.9, result["accuracy"])
		assert.Equal(t, 0.8, result["completeness"], "string score coerced to float")
		assert.Equal(t, 1.0, result["relevance"])
		assert.Equal(t, 0.85, result["overall"])
		assert.Equal(t, "close match", result["reasoning"])
		assert.Equal(t, "pass", result["pass_fail"])
	})

	t.Run("non-coercible score left as delivered", func(t *testing.T) {
		server := judgeServer(t, `{"accuracy":"high","pass_fail":"fail"}`)
		defer server.Close()

		result, cerr := newTestJudge(server.URL).Score(context.Background(), "e", "p", "")
		require.Nil(t, cerr)
		assert.Equal(t, "high", result["accuracy"])
	})

	t.Run("malformed content becomes invalid_json", func(t *testing.T) {
		server := judgeServer(t, "not json")
		defer server.Close()

		result, cerr := newTestJudge(server.URL).Score(context.Background(), "e", "p", "")
		assert.Nil(t, result)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindInvalidJSON, cerr.Kind)
		assert.Equal(t, "not json", cerr.RawText)
	})

	t.Run("literal null content becomes invalid_json", func(t *testing.T) {
		// json.Unmarshal turns "null" into a nil map without an error; the
		// row must still be annotated instead of silently unscored.
		server := judgeServer(t, "null")
		defer server.Close()

		result, cerr := newTestJudge(server.URL).Score(context.Background(), "e", "p", "")
		assert.Nil(t, result)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindInvalidJSON, cerr.Kind)
		assert.Equal(t, "null", cerr.RawText)
	})

	t.Run("empty choices becomes no_choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		result, cerr := newTestJudge(server.URL).Score(context.Background(), "e", "p", "")
		assert.Nil(t, result)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindNoChoices, cerr.Kind)
		assert.NotEmpty(t, cerr.Raw)
	})

	t.Run("non-2xx becomes http_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("rate limited"))
		}))
		defer server.Close()

		result, cerr := newTestJudge(server.URL).Score(context.Background(), "e", "p", "")
		assert.Nil(t, result)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindHTTPError, cerr.Kind)
		assert.Equal(t, http.StatusTooManyRequests, cerr.StatusCode)
		assert.Equal(t, "rate limited", cerr.Body)
	})

	t.Run("slow judge becomes timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		client := NewJudgeClient(server.URL, "k", "m", 30*time.Millisecond)
		result, cerr := client.Score(context.Background(), "e", "p", "")
		assert.Nil(t, result)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindTimeout, cerr.Kind)
	})

	t.Run("user message includes transcript, expected and predicted", func(t *testing.T) {
		var captured judgeRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			fmt.Fprint(w, `{"choices":[{"message":{"content":"{}"}}]}`)
		}))
		defer server.Close()

		_, cerr := newTestJudge(server.URL).Score(context.Background(), "the expected", "the predicted", "user: hello")
		require.Nil(t, cerr)

		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Contains(t, captured.Messages[0].Content, "pass_fail")

		user := captured.Messages[1].Content
		assert.True(t, strings.Contains(user, "Transcript:\nuser: hello"))
		assert.True(t, strings.Contains(user, "Expected Response:\nthe expected"))
		assert.True(t, strings.Contains(user, "Predicted Response:\nthe predicted"))
	})

	t.Run("transcript omitted from the prompt when empty", func(t *testing.T) {
		var captured judgeRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			fmt.Fprint(w, `{"choices":[{"message":{"content":"{}"}}]}`)
		}))
		defer server.Close()

		_, cerr := newTestJudge(server.URL).Score(context.Background(), "e", "p", "")
		require.Nil(t, cerr)
		assert.NotContains(t, captured.Messages[1].Content, "Transcript:")
	})
}

func TestCoerceScore(t *testing.T) {
	assert.Equal(t, 0.5, coerceScore(0.5))
	assert.Equal(t, 0.5, coerceScore("0.5"))
	assert.Equal(t, 1.0, coerceScore(" 1 "))
	assert.Equal(t, "n/a", coerceScore("n/a"))
	assert.Equal(t, true, coerceScore(true))
	assert.Nil(t, coerceScore(nil))
}
