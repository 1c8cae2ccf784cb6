package serviceclients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerClientAnalyze(t *testing.T) {
	t.Run("success decodes response JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Contains(t, payload, "lead_data")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"channel_response":[{"text":"predicted reply"}]}`))
		}))
		defer server.Close()

		client := NewAnalyzerClient(server.URL, 5*time.Second)
		resp, cerr := client.Analyze(context.Background(), map[string]any{"lead_data": map[string]any{}})
		require.Nil(t, cerr)
		assert.Equal(t, "predicted reply", ExtractPredictedText(resp))
	})

	t.Run("non-2xx becomes http_error with status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		client := NewAnalyzerClient(server.URL, 5*time.Second)
		resp, cerr := client.Analyze(context.Background(), map[string]any{})
		assert.Nil(t, resp)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindHTTPError, cerr.Kind)
		assert.Equal(t, http.StatusBadGateway, cerr.StatusCode)
		assert.Equal(t, "upstream exploded", cerr.Body)
	})

	t.Run("slow server becomes timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		client := NewAnalyzerClient(server.URL, 30*time.Millisecond)
		resp, cerr := client.Analyze(context.Background(), map[string]any{})
		assert.Nil(t, resp)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindTimeout, cerr.Kind)
	})

	t.Run("unreachable endpoint becomes unexpected", func(t *testing.T) {
		client := NewAnalyzerClient("http://127.0.0.1:1", 2*time.Second)
		resp, cerr := client.Analyze(context.Background(), map[string]any{})
		assert.Nil(t, resp)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindUnexpected, cerr.Kind)
		assert.NotEmpty(t, cerr.Detail)
	})

	t.Run("non-JSON body becomes unexpected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>definitely not json</html>"))
		}))
		defer server.Close()

		client := NewAnalyzerClient(server.URL, 5*time.Second)
		resp, cerr := client.Analyze(context.Background(), map[string]any{})
		assert.Nil(t, resp)
		require.NotNil(t, cerr)
		assert.Equal(t, ErrKindUnexpected, cerr.Kind)
	})
}

func TestExtractPredictedText(t *testing.T) {
	cases := []struct {
		name string
		resp any
		want string
	}{
		{"channel response entry", map[string]any{"channel_response": []any{map[string]any{"text": "hi"}}}, "hi"},
		{"channel response wins over text", map[string]any{"channel_response": []any{map[string]any{"text": "hi"}}, "text": "other"}, "hi"},
		{"empty channel response falls back to text", map[string]any{"channel_response": []any{}, "text": "fallback"}, "fallback"},
		{"malformed channel entry yields empty", map[string]any{"channel_response": []any{"not an object"}}, ""},
		{"top-level text", map[string]any{"text": "plain text"}, "plain text"},
		{"top-level message", map[string]any{"message": "from message"}, "from message"},
		{"empty text falls through to message", map[string]any{"text": "", "message": "msg"}, "msg"},
		{"plain string response", "just a string", "just a string"},
		{"nil response", nil, ""},
		{"unrelated shape", map[string]any{"status": "ok"}, ""},
		{"numeric response", 42.0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractPredictedText(tc.resp))
		})
	}
}
