package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewTelegramNotifierValidation(t *testing.T) {
	if _, err := NewTelegramNotifier("", "42", zap.NewNop()); err == nil {
		t.Error("expected an error for missing bot token")
	}
	if _, err := NewTelegramNotifier("token", "", zap.NewNop()); err == nil {
		t.Error("expected an error for missing chat ID")
	}
}

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n, err := NewTelegramNotifier("test-token", "4242", zap.NewNop())
	if err != nil {
		t.Fatalf("NewTelegramNotifier: %v", err)
	}
	n.apiBase = server.URL + "/bot"

	if err := n.Notify(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotPayload["chat_id"] != "4242" {
		t.Errorf("chat_id = %v", gotPayload["chat_id"])
	}
	if gotPayload["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v", gotPayload["parse_mode"])
	}
	text, _ := gotPayload["text"].(string)
	if !strings.Contains(text, "<b>concert</b>") {
		t.Errorf("message text missing bold title: %q", text)
	}
}

func TestTelegramNotifyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	n, err := NewTelegramNotifier("test-token", "4242", zap.NewNop())
	if err != nil {
		t.Fatalf("NewTelegramNotifier: %v", err)
	}
	n.apiBase = server.URL + "/bot"

	err = n.Notify(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("expected API error with description, got %v", err)
	}
}

func TestTelegramNotifyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	n, err := NewTelegramNotifier("test-token", "4242", zap.NewNop())
	if err != nil {
		t.Fatalf("NewTelegramNotifier: %v", err)
	}
	n.apiBase = server.URL + "/bot"

	err = n.Notify(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "status 429") {
		t.Errorf("expected status error, got %v", err)
	}
}
