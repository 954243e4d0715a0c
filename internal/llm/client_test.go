package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chunklab/internal/service"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080", "test-key", "chat-model")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8080", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "chat-model" {
		t.Errorf("NewClient() Model = %v, want chat-model", client.Model)
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

// writeChatReply responds with a single assistant choice.
func writeChatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := chatResponse{
		ID:     "test-id",
		Object: "chat.completion",
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      Message{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestClient_Chat(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		respond      func(w http.ResponseWriter, r *http.Request)
		wantReply    string
		wantErr      bool
		wantExternal bool
	}{
		{
			name:    "successful chat",
			message: "What does recursive chunking do?",
			respond: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}
				writeChatReply(t, w, "It splits text on separators.")
			},
			wantReply: "It splits text on separators.",
		},
		{
			name:    "no choices returned",
			message: "What does recursive chunking do?",
			respond: func(w http.ResponseWriter, r *http.Request) {
				resp := chatResponse{ID: "test-id", Object: "chat.completion"}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:    "upstream failure",
			message: "What does recursive chunking do?",
			respond: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
			wantErr:      true,
			wantExternal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.respond))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "chat-model")
			reply, err := client.Chat(context.Background(), tt.message)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Chat() expected error, got nil")
				}
				if tt.wantExternal && !errors.Is(err, service.ErrExternalService) {
					t.Errorf("Chat() error = %v, want ErrExternalService", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Chat() unexpected error: %v", err)
			}
			if reply != tt.wantReply {
				t.Errorf("Chat() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestClient_ChatWithMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		if len(req.Messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" {
			t.Errorf("expected first message role system, got %s", req.Messages[0].Role)
		}
		if req.Model != "judge-model" {
			t.Errorf("expected model judge-model, got %s", req.Model)
		}
		if req.MaxTokens != 1000 {
			t.Errorf("expected max_tokens 1000, got %d", req.MaxTokens)
		}
		if req.Temperature != 0.2 {
			t.Errorf("expected temperature 0.2, got %v", req.Temperature)
		}

		writeChatReply(t, w, "Response")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "chat-model")

	messages := []Message{
		{Role: "system", Content: "You compare two answers and pick the better one."},
		{Role: "user", Content: "Answer A or answer B?"},
	}
	params := ChatParams{
		Model:       "judge-model",
		MaxTokens:   1000,
		Temperature: 0.2,
	}

	reply, err := client.ChatWithMessages(context.Background(), messages, params)
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_Defaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		if req.Model != "chat-model" {
			t.Errorf("expected model chat-model, got %s", req.Model)
		}
		if req.Temperature != defaultTemperature {
			t.Errorf("expected default temperature, got %v", req.Temperature)
		}

		writeChatReply(t, w, "Response")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "chat-model")

	reply, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "Hello"}}, ChatParams{})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_NoMessages(t *testing.T) {
	client := NewClient("http://localhost:0", "test-key", "chat-model")
	if _, err := client.ChatWithMessages(context.Background(), nil, ChatParams{}); err == nil {
		t.Error("ChatWithMessages() expected error for empty message list")
	}
}
