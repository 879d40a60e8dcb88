package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClassifyPicksTopLabel(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "test-token")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var body struct {
			Inputs []string `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Inputs) != 2 {
			t.Errorf("got %d inputs, want 2", len(body.Inputs))
		}
		w.Write([]byte(`[
			[{"label":"positive","score":0.91},{"label":"neutral","score":0.06},{"label":"negative","score":0.03}],
			[{"label":"positive","score":0.10},{"label":"negative","score":0.72},{"label":"neutral","score":0.18}]
		]`))
	}))
	defer srv.Close()

	c := NewClassifier(Config{Endpoint: srv.URL})
	got, err := c.Classify(context.Background(), []string{"shares surged", "shares plunged"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Label != "positive" || got[0].Confidence != 0.91 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Label != "negative" || got[1].Confidence != 0.72 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestClassifyPassesThroughUnknownLabel(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "test-token")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"LABEL_1","score":0.8}]]`))
	}))
	defer srv.Close()

	c := NewClassifier(Config{Endpoint: srv.URL})
	got, err := c.Classify(context.Background(), []string{"something"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got[0].Label != "label_1" {
		t.Errorf("label = %q, want lowercased passthrough", got[0].Label)
	}
}

func TestClassifyAPIError(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "test-token")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer srv.Close()

	c := NewClassifier(Config{Endpoint: srv.URL})
	if _, err := c.Classify(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestClassifyCountMismatch(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "test-token")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"neutral","score":1.0}]]`))
	}))
	defer srv.Close()

	c := NewClassifier(Config{Endpoint: srv.URL})
	if _, err := c.Classify(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error when result count differs from input count")
	}
}

func TestClassifyMissingToken(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "")

	c := NewClassifier(Config{})
	if _, err := c.Classify(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error without HF_API_TOKEN")
	}
}

func TestClassifyEmptyBatch(t *testing.T) {
	c := NewClassifier(Config{})
	got, err := c.Classify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
}
