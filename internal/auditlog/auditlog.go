// Package auditlog journals every fresh aggregation result as JSON
// lines in daily files.
package auditlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stock-sentiment/internal/types"
)

var mu sync.Mutex

// customDir is set once at startup, before any writes.
var customDir string

type Entry struct {
	Time, Ticker, DataSource, Suggestion string
	Score                                float64
	AnalyzedCount                        int
	Extra                                map[string]any `json:"extra,omitempty"`
}

// SetDir overrides the journal directory. Call before the first Append.
func SetDir(dir string) {
	customDir = dir
}

func logDir() string {
	if customDir != "" {
		return customDir
	}
	if v := os.Getenv("SENTIMENT_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "sentiment-"+d+".jsonl")
}

func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// AppendResult journals one aggregation outcome.
func AppendResult(res types.AggregateResult) error {
	return Append(Entry{
		Ticker:        res.Ticker,
		DataSource:    res.DataSource,
		Suggestion:    res.Suggestion,
		Score:         res.Score,
		AnalyzedCount: res.AnalyzedCount,
	})
}

// CompressOlder gzips journal files whose modification time falls
// outside the retention window, removing the originals.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if info.ModTime().Before(cutoff) {
			gz := p + ".gz"
			// if already gz exists, remove original
			if _, e2 := os.Stat(gz); e2 == nil {
				_ = os.Remove(p)
				return nil
			}

			in, e3 := os.Open(p)
			if e3 != nil {
				return nil
			}
			defer in.Close()

			out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if e4 != nil {
				return nil
			}
			gw := gzip.NewWriter(out)
			if _, e5 := io.Copy(gw, in); e5 == nil {
				_ = gw.Close()
				_ = out.Close()
				_ = os.Remove(p)
			} else {
				_ = gw.Close()
				_ = out.Close()
			}
		}
		return nil
	})
}
