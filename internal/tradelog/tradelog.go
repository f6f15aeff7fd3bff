// Package tradelog writes the journal audit trail: one JSON line per trade
// mutation or insight request, in daily files under a log directory.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dayLayout  = "2006-01-02"
)

type Entry struct {
	Time    string         `json:"time"`
	Action  string         `json:"action"`
	TradeID int64          `json:"trade_id"`
	Symbol  string         `json:"symbol,omitempty"`
	Side    string         `json:"side,omitempty"`
	Status  string         `json:"status,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

type InsightEntry struct {
	Time      string `json:"time"`
	Kind      string `json:"kind"`
	Trades    int    `json:"trades"`
	Results   int    `json:"results,omitempty"`
	Degraded  bool   `json:"degraded,omitempty"`
	Upstream  string `json:"upstream,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Journal appends entries to <dir>/<day>.txt and <dir>/insights/<day>.txt.
type Journal struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs"
	}
	return &Journal{dir: dir, now: func() time.Time { return time.Now().UTC() }}
}

func (j *Journal) Dir() string {
	return j.dir
}

func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	e.Time = now.Format(timeLayout)
	return appendLine(filepath.Join(j.dir, now.Format(dayLayout)+".txt"), e)
}

func (j *Journal) AppendInsight(e InsightEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	e.Time = now.Format(timeLayout)
	return appendLine(filepath.Join(j.dir, "insights", now.Format(dayLayout)+".txt"), e)
}

func appendLine(p string, v any) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips .txt files last modified more than retentionDays ago
// and removes the originals. Files that cannot be read are skipped.
func (j *Journal) CompressOlder(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	compressed := 0
	err := filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		// an earlier run already compressed it
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := compressFile(p, gz); err == nil {
			_ = os.Remove(p)
			compressed++
		}
		return nil
	})
	return compressed, err
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	_, copyErr := io.Copy(gw, in)
	closeErr := gw.Close()
	if err := out.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dst)
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	}
	return nil
}
