package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/domain"
)

func streamingServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", d)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func newTestChatClient(baseURL string) *ChatClient {
	return NewChatClient(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})
}

func TestStreamCompletion(t *testing.T) {
	server := streamingServer(t, []string{"Hello", " there", "!"})
	defer server.Close()

	c := newTestChatClient(server.URL)

	var out strings.Builder
	err := c.StreamCompletion(context.Background(), "system prompt",
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(d string) error {
			out.WriteString(d)
			return nil
		})
	if err != nil {
		t.Fatalf("StreamCompletion failed: %v", err)
	}
	if out.String() != "Hello there!" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestStreamCompletion_DeltaErrorStopsStream(t *testing.T) {
	server := streamingServer(t, []string{"a", "b", "c"})
	defer server.Close()

	c := newTestChatClient(server.URL)

	deltaErr := errors.New("client disconnected")
	calls := 0
	err := c.StreamCompletion(context.Background(), "",
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(string) error {
			calls++
			return deltaErr
		})
	if !errors.Is(err, deltaErr) {
		t.Fatalf("expected delta error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected stream to stop after first delta, calls = %d", calls)
	}
}

func TestStreamCompletion_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	c := newTestChatClient(server.URL)

	err := c.StreamCompletion(context.Background(), "",
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(string) error { return nil })
	if !errors.Is(err, domain.ErrCompletionProvider) {
		t.Fatalf("expected ErrCompletionProvider, got %v", err)
	}
}
