// Package lexicon scores text against financial sentiment word lists.
// It is the default classifier: fully offline, deterministic, and fast
// enough to run on every request.
package lexicon

import (
	"context"
	"strings"
	"unicode"

	"stock-sentiment/internal/types"
)

// Labels below this net-score magnitude are reported neutral.
const neutralBand = 0.05

type Classifier struct {
	positiveWords    map[string]bool
	negativeWords    map[string]bool
	uncertaintyWords map[string]bool
}

func NewClassifier() *Classifier {
	return &Classifier{
		positiveWords:    loadPositiveWords(),
		negativeWords:    loadNegativeWords(),
		uncertaintyWords: loadUncertaintyWords(),
	}
}

func (c *Classifier) Name() string {
	return "lexicon"
}

// Classify scores each text independently. It never fails; texts with
// no recognizable words come back neutral.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	out := make([]types.Classification, len(texts))
	for i, text := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		out[i] = c.scoreText(text)
	}
	return out, nil
}

// scoreText computes a net word ratio amplified to a usable range, then
// dampened by hedging language: a text full of "may" and "could"
// should not classify as confidently as a plain statement.
func (c *Classifier) scoreText(text string) types.Classification {
	words := tokenize(strings.ToLower(text))
	if len(words) == 0 {
		return types.Classification{Label: "neutral", Confidence: 0.0}
	}

	var positive, negative, uncertain int
	for _, w := range words {
		if c.positiveWords[w] {
			positive++
		}
		if c.negativeWords[w] {
			negative++
		}
		if c.uncertaintyWords[w] {
			uncertain++
		}
	}

	total := float64(len(words))
	net := (float64(positive) - float64(negative)) / total * 10
	uncertainty := min(float64(uncertain)/total*20, 1.0)
	net *= 1.0 - uncertainty*0.5
	net = min(max(net, -1.0), 1.0)

	switch {
	case net > neutralBand:
		return types.Classification{Label: "positive", Confidence: net}
	case net < -neutralBand:
		return types.Classification{Label: "negative", Confidence: -net}
	default:
		return types.Classification{Label: "neutral", Confidence: 1.0 - max(net, -net)}
	}
}

// tokenize splits text into words
func tokenize(text string) []string {
	var words []string
	var currentWord strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			currentWord.WriteRune(r)
		} else if currentWord.Len() > 0 {
			words = append(words, currentWord.String())
			currentWord.Reset()
		}
	}

	if currentWord.Len() > 0 {
		words = append(words, currentWord.String())
	}

	return words
}

// Word lists based on financial sentiment dictionaries
// (Loughran-McDonald financial sentiment word lists)

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "attain", "beat", "benefit", "better", "bullish",
		"competitive", "delight", "enhance", "excellent", "exceptional",
		"extraordinary", "favorable", "gain", "gains", "good", "great",
		"grew", "growth", "improve", "improved", "improvement",
		"increasing", "innovation", "innovative", "leader", "leading",
		"opportunity", "optimal", "optimistic", "outperform", "positive",
		"profitable", "progress", "prosper", "rally", "rallied", "record",
		"remarkable", "robust", "solid", "strength", "strong", "succeed",
		"success", "successful", "superior", "surged", "surpass",
		"tremendous", "upbeat", "upgrade", "upgraded", "valuable",
		"winning",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"abandon", "adverse", "bearish", "challenge", "challenging",
		"concern", "concerns", "crash", "crisis", "damage", "debt",
		"decline", "declined", "decrease", "deficit", "deteriorate",
		"difficult", "difficulty", "disappoint", "disappointing",
		"disadvantage", "downgrade", "downgraded", "downturn", "erode",
		"fail", "failure", "falling", "fear", "fell", "headwind",
		"impair", "impairment", "inability", "inadequate", "ineffective",
		"lawsuit", "loss", "losses", "miss", "missed", "negative",
		"obstacle", "plunge", "plunged", "poor", "problem", "recession",
		"restructuring", "risk", "risks", "slow", "slowdown", "slump",
		"tumble", "tumbled", "uncertain", "uncertainty", "underperform",
		"unfavorable", "unprofitable", "volatile", "volatility", "weak",
		"weakness", "worse", "worsen", "worst",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadUncertaintyWords() map[string]bool {
	words := []string{
		"almost", "anticipate", "anticipates", "appear", "appears",
		"approximately", "assume", "assumes", "believe", "believes",
		"could", "depend", "depending", "estimate", "estimates",
		"expect", "expects", "forecast", "forecasts", "if", "intend",
		"intends", "likely", "may", "maybe", "might", "outlook",
		"pending", "perhaps", "plan", "plans", "possible", "possibly",
		"potential", "predict", "predicts", "project", "projects",
		"should", "somewhat", "suggest", "suggests", "unclear",
		"unlikely", "variable", "would",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}
