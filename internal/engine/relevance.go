package engine

import (
	"regexp"
	"strings"
)

// IsRelevant reports whether text is actually about the target
// security. It fails closed: empty or short text is never relevant.
// Mentions are counted case-insensitively as whole-word ticker
// occurrences, $TICKER cashtags, and whole-word company name
// occurrences (the name only participates when longer than 2
// characters, short names match too much unrelated text). A pattern
// that fails to compile counts zero mentions for that clause.
func IsRelevant(text, ticker, companyName string, minLength, minMentions int) bool {
	if text == "" || len(text) < minLength {
		return false
	}

	lower := strings.ToLower(text)
	patterns := []string{
		`\b` + regexp.QuoteMeta(strings.ToLower(ticker)) + `\b`,
		`\$` + regexp.QuoteMeta(strings.ToLower(ticker)),
	}
	if name := strings.ToLower(strings.TrimSpace(companyName)); len(name) > 2 {
		patterns = append(patterns, `\b`+regexp.QuoteMeta(name)+`\b`)
	}

	mentions := 0
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		mentions += len(re.FindAllStringIndex(lower, -1))
	}
	return mentions >= minMentions
}
