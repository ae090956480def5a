package xquant

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/percy-xu/xquant/date"
)

// Holdings are persisted as JSONL: one holding period per line, in
// chronological order, so the files are human-readable and diff-friendly.

// EncodeHoldings writes the holdings history to w.
func EncodeHoldings(w io.Writer, h *Holdings) error {
	for r, p := range h.Periods() {
		var obj jsonObjectWriter
		obj.Append("from", r.From)
		obj.Append("to", r.To)
		obj.EmbedFrom(p)
		line, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("could not encode holding period %s: %w", r, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// DecodeHoldings reads a holdings history from a JSONL stream.
func DecodeHoldings(r io.Reader) (*Holdings, error) {
	h := NewHoldings()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var temp struct {
			From date.Date `json:"from"`
			To   date.Date `json:"to"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, fmt.Errorf("could not decode holding period %q: %w", string(line), err)
		}
		var p Portfolio
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("could not decode portfolio %q: %w", string(line), err)
		}
		if err := h.Assign(date.Range{From: temp.From, To: temp.To}, &p); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

// ExportHoldings saves the holdings history in dir under a unique name
// "holdings_<id>.jsonl" and returns the full path.
func ExportHoldings(dir string, h *Holdings) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("holdings_%s.jsonl", uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create holdings file: %w", err)
	}
	defer f.Close()
	if err := EncodeHoldings(f, h); err != nil {
		return "", err
	}
	return path, nil
}

// ImportHoldings loads a holdings history saved by ExportHoldings.
func ImportHoldings(path string) (*Holdings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open holdings file: %w", err)
	}
	defer f.Close()
	return DecodeHoldings(f)
}
