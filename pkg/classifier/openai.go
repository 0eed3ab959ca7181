// pkg/classifier/openai.go
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/config"
)

const systemPrompt = `You classify spreadsheet column headers from supplier catalogs. ` +
	`Given a raw header, pick the best matching target column from the provided list, ` +
	`or decline if none applies. Respond with JSON only: ` +
	`{"target": "<column name or empty string>", "confidence": <0.0-1.0>}`

// OpenAIClassifier calls any OpenAI-compatible chat completions
// endpoint. Model responses are repaired before parsing because LLMs
// routinely wrap JSON in prose or fences
type OpenAIClassifier struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	logger   *zap.Logger
}

// NewOpenAIClassifier creates a classifier from the fallback
// configuration. The per-request deadline is whichever is tighter: the
// configured timeout or the caller's context
func NewOpenAIClassifier(cfg *config.FallbackConfig, logger *zap.Logger) (*OpenAIClassifier, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("fallback endpoint is required")
	}

	return &OpenAIClassifier{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type classificationPayload struct {
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the endpoint to pick a target column for one header
func (c *OpenAIClassifier) Classify(ctx context.Context, header string, targets []string) (Classification, error) {
	if len(targets) == 0 {
		return Classification{}, nil
	}

	prompt := fmt.Sprintf("Header: %q\nTarget columns: %s", header, strings.Join(targets, ", "))

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   128,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("classifier request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to read classifier response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("classifier returned status %d: %s", res.StatusCode, string(resBody))
	}

	var response chatResponse
	if err := json.Unmarshal(resBody, &response); err != nil {
		return Classification{}, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if len(response.Choices) == 0 {
		return Classification{}, errors.New("classifier returned no choices")
	}

	return c.parseContent(response.Choices[0].Message.Content, targets)
}

// parseContent extracts the classification from model output, repairs
// malformed JSON, validates the target against the offered list and
// clamps confidence into [0,1]
func (c *OpenAIClassifier) parseContent(content string, targets []string) (Classification, error) {
	repaired, err := jsonrepair.RepairJSON(content)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to repair classifier output: %w", err)
	}

	var payload classificationPayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return Classification{}, fmt.Errorf("failed to parse classifier output: %w", err)
	}

	if payload.Confidence < 0 {
		payload.Confidence = 0
	}
	if payload.Confidence > 1 {
		payload.Confidence = 1
	}

	if strings.TrimSpace(payload.Target) == "" {
		return Classification{}, nil
	}

	// The model must pick from the offered list; anything else counts
	// as a decline
	for _, target := range targets {
		if strings.EqualFold(strings.TrimSpace(payload.Target), target) {
			return Classification{Target: target, Confidence: payload.Confidence}, nil
		}
	}

	c.logger.Debug("Classifier proposed unknown target",
		zap.String("proposed", payload.Target))
	return Classification{}, nil
}
