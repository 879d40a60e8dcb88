// Package openai classifies text sentiment through the OpenAI chat
// completions API, one request per text.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Long articles are truncated before prompting; the opening paragraphs
// carry the sentiment.
const maxPromptChars = 2000

const systemPrompt = "You are a financial analyst expert at rating news and social media sentiment for stocks. Respond ONLY with valid JSON."

type Config struct {
	Model        string
	Endpoint     string
	RequestDelay time.Duration
	Timeout      time.Duration
}

type Classifier struct {
	cfg    Config
	client *http.Client
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
		// If you use a proxy or gateway, set the endpoint via env var
		if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
			cfg.Endpoint = ep
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Classifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Classifier) Name() string {
	return "openai"
}

// Classify rates each text in order. A failed request marks that text
// neutral and the batch continues; only a missing API key or a dead
// context fails the whole call.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}

	out := make([]types.Classification, len(texts))
	for i, text := range texts {
		if i > 0 && c.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RequestDelay):
			}
		}

		cls, err := c.classifyOne(ctx, apiKey, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.ErrorWithErr(ctx, "OpenAI classification failed, marking neutral", err, "index", i)
			cls = types.Classification{Label: "neutral", Confidence: 0.0}
		}
		out[i] = cls
	}
	return out, nil
}

func (c *Classifier) classifyOne(ctx context.Context, apiKey, text string) (types.Classification, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(text)},
		},
		"temperature": 0.1,
		"max_tokens":  60,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint, bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Classification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return types.Classification{}, fmt.Errorf("openai http %d: %s", resp.StatusCode, string(b))
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return types.Classification{}, err
	}
	if len(r.Choices) == 0 {
		return types.Classification{}, errors.New("no choices")
	}

	return parseClassification(r.Choices[0].Message.Content), nil
}

func buildPrompt(text string) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars] + "..."
	}
	return fmt.Sprintf(`Rate the sentiment of the following text toward the company it discusses.

Respond ONLY with compact JSON matching this schema:
{"label": "positive" | "negative" | "neutral", "confidence": <0.0 to 1.0>}

Text:
%s`, text)
}

// parseClassification tolerates prose or code fences around the JSON.
// Unusable output degrades to neutral rather than failing the text.
func parseClassification(out string) types.Classification {
	out = strings.TrimSpace(out)

	var cls types.Classification
	if err := json.Unmarshal([]byte(out), &cls); err != nil {
		start := strings.Index(out, "{")
		end := strings.LastIndex(out, "}")
		if start >= 0 && end > start {
			_ = json.Unmarshal([]byte(out[start:end+1]), &cls)
		}
	}

	cls.Label = strings.ToLower(strings.TrimSpace(cls.Label))
	switch cls.Label {
	case "positive", "negative", "neutral":
	default:
		return types.Classification{Label: "neutral", Confidence: 0.0}
	}
	if cls.Confidence < 0 || cls.Confidence > 1 {
		cls.Confidence = 0.0
	}
	return cls
}
