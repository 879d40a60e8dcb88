package engine

import (
	"strings"
	"testing"
)

func TestIsRelevantEmptyText(t *testing.T) {
	if IsRelevant("", "AAPL", "Apple", 100, 1) {
		t.Error("empty text must not be relevant")
	}
}

func TestIsRelevantShortText(t *testing.T) {
	if IsRelevant("AAPL is up today", "AAPL", "Apple", 100, 1) {
		t.Error("text below the minimum length must not be relevant")
	}
}

func TestIsRelevantTickerMention(t *testing.T) {
	text := "Shares of AAPL rallied today after the company reported stronger than expected quarterly results and raised full year guidance."
	if !IsRelevant(text, "AAPL", "", 100, 1) {
		t.Error("whole-word ticker mention should be relevant")
	}
}

func TestIsRelevantCashtag(t *testing.T) {
	text := "$aapl is breaking out again, volume well above average and the options chain is loaded with calls expiring this friday afternoon."
	if !IsRelevant(text, "AAPL", "", 100, 1) {
		t.Error("cashtag mention should be relevant")
	}
}

func TestIsRelevantNoSubstringMatch(t *testing.T) {
	// GOOG must not match inside GOOGLY
	text := "The GOOGLY cricket term has nothing to do with any stock but this sentence needs to be long enough to pass the length floor check."
	if IsRelevant(text, "GOOG", "", 100, 1) {
		t.Error("ticker must match whole words only")
	}
}

func TestIsRelevantCompanyName(t *testing.T) {
	text := "Apple unveiled a new device lineup this morning in Cupertino, drawing the usual mix of praise and skepticism from analysts covering the sector."
	if !IsRelevant(text, "AAPL", "Apple", 100, 1) {
		t.Error("company name mention should be relevant")
	}
}

func TestIsRelevantShortCompanyNameIgnored(t *testing.T) {
	// Two-character names are too ambiguous to count
	text := "An ox pulled the cart through the village square while onlookers discussed the harvest, the weather and everything except equities."
	if IsRelevant(text, "OXSQ", "Ox", 100, 1) {
		t.Error("company names of 2 characters or fewer must not count")
	}
}

func TestIsRelevantRegexMetacharacters(t *testing.T) {
	text := "BRK.B closed higher for the fourth straight session as value investors rotated back into the conglomerate ahead of the annual meeting."
	if !IsRelevant(text, "BRK.B", "", 100, 1) {
		t.Error("tickers containing regex metacharacters must be escaped, not dropped")
	}
	// The dot must be literal, BRKXB must not count
	miss := "BRKXB closed higher for the fourth straight session as value investors rotated back into the conglomerate ahead of the annual meeting."
	if IsRelevant(miss, "BRK.B", "", 100, 1) {
		t.Error("escaped dot must not match arbitrary characters")
	}
}

func TestIsRelevantMinMentions(t *testing.T) {
	text := "TSLA was mentioned once here with plenty of surrounding words to satisfy the minimum article length requirement for the filter."
	if IsRelevant(text, "TSLA", "", 100, 2) {
		t.Error("a single mention must not satisfy min_mentions=2")
	}
	twice := text + " Later in the day TSLA reversed."
	if !IsRelevant(twice, "TSLA", "", 100, 2) {
		t.Error("two mentions should satisfy min_mentions=2")
	}
}

func TestIsRelevantCaseInsensitive(t *testing.T) {
	text := strings.Repeat("filler ", 15) + "tsla beat on deliveries."
	if !IsRelevant(text, "TSLA", "", 100, 1) {
		t.Error("mention matching must be case-insensitive")
	}
}
