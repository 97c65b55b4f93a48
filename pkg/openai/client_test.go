package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  A calm week.  "}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "gpt-4o-mini", time.Second)

	got, err := client.Complete(context.Background(), "be brief", "summarize my week")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "A calm week." {
		t.Errorf("expected trimmed content, got %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("expected model in request, got %v", gotBody["model"])
	}
	messages, _ := gotBody["messages"].([]interface{})
	if len(messages) != 2 {
		t.Errorf("expected system+user messages, got %v", gotBody["messages"])
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "gpt-4o-mini", time.Second)

	if _, err := client.Complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "gpt-4o-mini", time.Second)

	if _, err := client.Complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestCompleteHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context; otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "gpt-4o-mini", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Complete(ctx, "sys", "user"); err == nil {
		t.Fatal("expected context deadline error")
	}
}
