package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"

	"tiledeal.ai/internal/protocol"
	"tiledeal.ai/internal/sim/partition"
)

const (
	KindHeader  = "header"
	KindAttempt = "attempt"
	KindFooter  = "footer"
)

type TraceHeader struct {
	Kind          string `json:"kind"`
	DealID        string `json:"deal_id"`
	Players       int    `json:"players"`
	Seed          int64  `json:"seed"`
	CatalogDigest string `json:"catalog_digest"`
	MaxAttempts   int    `json:"max_attempts"`
}

type TraceAttempt struct {
	Kind    string `json:"kind"`
	Attempt int    `json:"attempt"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Cause   string `json:"cause,omitempty"`
	Player  int    `json:"player"` // -1 unless a search failed
}

type TraceFooter struct {
	Kind     string `json:"kind"`
	Attempts int    `json:"attempts"`
	Digest   string `json:"digest,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Trace is a decoded trace file.
type Trace struct {
	Header   TraceHeader
	Attempts []TraceAttempt
	Footer   TraceFooter
}

func TracePath(dir, dealID string) string {
	return filepath.Join(dir, fmt.Sprintf("trace-%s.jsonl.zst", dealID))
}

// TraceWriter records one deal: a header, one line per attempt, a footer.
// Observe has the generator observer signature; write errors are kept and
// returned from Finish.
type TraceWriter struct {
	w        *JSONLZstdWriter
	attempts int
	err      error
}

func NewTraceWriter(dir, dealID string) *TraceWriter {
	return &TraceWriter{w: NewJSONLZstdWriter(TracePath(dir, dealID))}
}

func (t *TraceWriter) Path() string { return t.w.Path() }

func (t *TraceWriter) Begin(h TraceHeader) error {
	h.Kind = KindHeader
	t.keep(t.w.Write(h))
	return t.err
}

func (t *TraceWriter) Observe(ev partition.AttemptEvent) {
	t.attempts = ev.Attempt
	line := TraceAttempt{
		Kind:    KindAttempt,
		Attempt: ev.Attempt,
		OK:      ev.OK(),
		Code:    protocol.CodeFor(ev.Err),
		Player:  ev.Player,
	}
	if ev.Err != nil {
		line.Cause = ev.Err.Error()
	}
	t.keep(t.w.Write(line))
}

// Finish writes the footer for the outcome of the deal and closes the file.
func (t *TraceWriter) Finish(r *partition.Result, dealErr error) error {
	f := TraceFooter{Kind: KindFooter, Attempts: t.attempts}
	if dealErr != nil {
		f.Code = protocol.CodeFor(dealErr)
		f.Message = dealErr.Error()
	} else if r != nil {
		f.Attempts = r.Attempts
		f.Digest = r.Digest()
	}
	t.keep(t.w.Write(f))
	t.keep(t.w.Close())
	return t.err
}

func (t *TraceWriter) keep(err error) {
	if err != nil && t.err == nil {
		t.err = err
	}
}

func ReadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		tr         Trace
		sawHeader  bool
		sawFooter  bool
		lineNumber int
	)
	for sc.Scan() {
		lineNumber++
		line := sc.Bytes()
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("%s:%d: invalid json", filepath.Base(path), lineNumber)
		}
		kind := gjson.GetBytes(line, "kind").String()
		if sawFooter {
			return nil, fmt.Errorf("%s:%d: %s line after footer", filepath.Base(path), lineNumber, kind)
		}
		switch kind {
		case KindHeader:
			if lineNumber != 1 {
				return nil, fmt.Errorf("%s:%d: header not on first line", filepath.Base(path), lineNumber)
			}
			if err := json.Unmarshal(line, &tr.Header); err != nil {
				return nil, fmt.Errorf("%s:%d: header: %w", filepath.Base(path), lineNumber, err)
			}
			sawHeader = true
		case KindAttempt:
			var a TraceAttempt
			if err := json.Unmarshal(line, &a); err != nil {
				return nil, fmt.Errorf("%s:%d: attempt: %w", filepath.Base(path), lineNumber, err)
			}
			tr.Attempts = append(tr.Attempts, a)
		case KindFooter:
			if err := json.Unmarshal(line, &tr.Footer); err != nil {
				return nil, fmt.Errorf("%s:%d: footer: %w", filepath.Base(path), lineNumber, err)
			}
			sawFooter = true
		default:
			return nil, fmt.Errorf("%s:%d: unknown kind %q", filepath.Base(path), lineNumber, kind)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, errors.New(filepath.Base(path) + ": missing header")
	}
	if !sawFooter {
		return nil, errors.New(filepath.Base(path) + ": missing footer (truncated trace)")
	}
	return &tr, nil
}
