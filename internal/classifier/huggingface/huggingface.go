// Package huggingface classifies text sentiment through the Hugging
// Face inference API with a finance-tuned model. The whole batch goes
// up in a single request.
package huggingface

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

	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models/"

const defaultModel = "ProsusAI/finbert"

const maxInputChars = 2000

type Config struct {
	Model    string
	Endpoint string
	Timeout  time.Duration
}

type Classifier struct {
	cfg    Config
	client *http.Client
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultBaseURL + cfg.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Classifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Classifier) Name() string {
	return "huggingface"
}

// Classify sends all texts in one inference call and picks the top
// scoring label per text. Labels come back as the model emits them;
// anything outside the expected set is passed through for the
// normalizer to flag.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	if len(texts) == 0 {
		return []types.Classification{}, nil
	}
	token := os.Getenv("HF_API_TOKEN")
	if token == "" {
		return nil, errors.New("HF_API_TOKEN missing")
	}

	ctx, span := trace.StartSpan(ctx, "huggingface-api-call")
	defer span.End()

	inputs := make([]string, len(texts))
	for i, t := range texts {
		if len(t) > maxInputChars {
			t = t[:maxInputChars]
		}
		inputs[i] = t
	}

	body := map[string]any{
		"inputs": inputs,
		// Block on cold models instead of failing with a loading error
		"options": map[string]any{"wait_for_model": true},
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint, bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("huggingface http %d: %s", resp.StatusCode, string(raw))
	}

	// Each text gets a score per candidate label.
	var scored [][]struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(raw, &scored); err != nil {
		var apiErr struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected huggingface payload: %w", err)
	}
	if len(scored) != len(texts) {
		return nil, fmt.Errorf("huggingface returned %d results for %d texts", len(scored), len(texts))
	}

	out := make([]types.Classification, len(texts))
	for i, candidates := range scored {
		if len(candidates) == 0 {
			out[i] = types.Classification{Label: "neutral", Confidence: 0.0}
			continue
		}
		best := candidates[0]
		for _, cand := range candidates[1:] {
			if cand.Score > best.Score {
				best = cand
			}
		}
		out[i] = types.Classification{
			Label:      strings.ToLower(best.Label),
			Confidence: best.Score,
		}
	}
	return out, nil
}
