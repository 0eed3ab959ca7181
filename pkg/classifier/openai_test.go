// pkg/classifier/openai_test.go
package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/config"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func newTestClassifier(t *testing.T, endpoint string, timeout time.Duration) *OpenAIClassifier {
	t.Helper()
	c, err := NewOpenAIClassifier(&config.FallbackConfig{
		Endpoint: endpoint,
		APIKey:   "test-key",
		Model:    "gpt-4o-mini",
		Timeout:  timeout,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAIClassifier: %v", err)
	}
	return c
}

func TestClassify(t *testing.T) {
	server := chatServer(t, `{"target": "price", "confidence": 0.82}`)
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	got, err := c.Classify(context.Background(), "Prezzo IVA Inclusa", []string{"reference", "price"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Target != "price" || got.Confidence != 0.82 {
		t.Errorf("Classify = %+v, want price at 0.82", got)
	}
}

func TestClassifyRepairsMarkdownFencedJSON(t *testing.T) {
	server := chatServer(t, "```json\n{\"target\": \"reference\", \"confidence\": 0.7,}\n```")
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	got, err := c.Classify(context.Background(), "Art.-Nr.", []string{"reference", "price"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Target != "reference" {
		t.Errorf("Classify = %+v, want reference", got)
	}
}

func TestClassifyDeclines(t *testing.T) {
	server := chatServer(t, `{"target": "", "confidence": 0.0}`)
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	got, err := c.Classify(context.Background(), "???", []string{"reference", "price"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !got.None() {
		t.Errorf("Classify = %+v, want decline", got)
	}
}

func TestClassifyUnknownTargetCountsAsDecline(t *testing.T) {
	server := chatServer(t, `{"target": "warehouse", "confidence": 0.9}`)
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	got, err := c.Classify(context.Background(), "Lager", []string{"reference", "price"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !got.None() {
		t.Errorf("target outside the offered list must be a decline, got %+v", got)
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	server := chatServer(t, `{"target": "price", "confidence": 1.7}`)
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	got, err := c.Classify(context.Background(), "Prix", []string{"price"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", got.Confidence)
	}
}

func TestClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	if _, err := c.Classify(context.Background(), "Prix", []string{"price"}); err == nil {
		t.Error("server error must surface as an error")
	}
}

func TestClassifyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := c.Classify(ctx, "Prix", []string{"price"}); err == nil {
		t.Error("deadline exceeded must surface as an error")
	}
}

func TestClassifyEmptyTargets(t *testing.T) {
	c := newTestClassifier(t, "http://unused.invalid", time.Second)
	got, err := c.Classify(context.Background(), "Prix", nil)
	if err != nil || !got.None() {
		t.Errorf("Classify with no targets = (%+v, %v), want silent decline", got, err)
	}
}

func TestNewOpenAIClassifierRequiresEndpoint(t *testing.T) {
	if _, err := NewOpenAIClassifier(&config.FallbackConfig{}, zap.NewNop()); err == nil {
		t.Error("empty endpoint must be rejected")
	}
}
