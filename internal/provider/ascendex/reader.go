package ascendex

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ascendex-bars/internal/model"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 4 << 20

// LogFunc emits a log line. When set, used instead of slog (fan-in logger).
type LogFunc func(msg string)

// Batch is the decoded content of one captured response file.
type Batch struct {
	Path    string
	Bars    []model.BarHist
	Skipped int // malformed elements dropped under PolicySkip
}

// Reader decodes captured barhist responses from disk.
type Reader struct {
	Policy  Policy
	LogFunc LogFunc
}

// NewReader returns a Reader applying policy to malformed elements.
func NewReader(policy Policy) *Reader {
	return &Reader{Policy: policy}
}

// ReadFile is shorthand for NewReader(policy).ReadFile(path).
func ReadFile(path string, policy Policy) (Batch, error) {
	return NewReader(policy).ReadFile(path)
}

func (r *Reader) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.LogFunc != nil {
		r.LogFunc(msg)
	} else {
		slog.Warn(msg)
	}
}

// ReadFile decodes one file. Files ending in .ndjson or .jsonl hold one record
// per line; anything else is an envelope, a bare array or a single record.
func (r *Reader) ReadFile(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{Path: path}, fmt.Errorf("read %s: %w", path, err)
	}
	var b Batch
	if isNDJSON(path) {
		b, err = r.DecodeLines(data)
	} else {
		b, err = r.Decode(data)
	}
	b.Path = path
	if err != nil {
		return b, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Decode parses an envelope, a bare JSON array of records, or a single record.
func (r *Reader) Decode(data []byte) (Batch, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Batch{}, nil
	}
	switch data[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return Batch{}, &model.MalformedError{Cause: err}
		}
		return r.decodeElements(elems)
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return Batch{}, &model.MalformedError{Cause: err}
		}
		if !isEnvelope(probe) {
			return r.decodeElements([]json.RawMessage{data})
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Batch{}, &model.MalformedError{Key: "data", Cause: err}
		}
		if err := env.Err(); err != nil {
			return Batch{}, err
		}
		return r.decodeElements(env.Data)
	}
	return Batch{}, &model.MalformedError{Cause: fmt.Errorf("unexpected leading byte %q", data[0])}
}

// DecodeLines parses NDJSON: one record per line, blank lines ignored.
// Element indexes are zero-based over non-blank lines.
func (r *Reader) DecodeLines(data []byte) (Batch, error) {
	var elems []json.RawMessage
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		elems = append(elems, json.RawMessage(bytes.Clone(line)))
	}
	if err := sc.Err(); err != nil {
		return Batch{}, fmt.Errorf("scan lines: %w", err)
	}
	return r.decodeElements(elems)
}

func (r *Reader) decodeElements(elems []json.RawMessage) (Batch, error) {
	b := Batch{Bars: make([]model.BarHist, 0, len(elems))}
	for i, raw := range elems {
		bar, err := model.DecodeBarHist(raw)
		if err != nil {
			if r.Policy == PolicyAbort {
				return Batch{}, fmt.Errorf("element %d: %w", i, err)
			}
			b.Skipped++
			r.logf("skip element %d: %v", i, err)
			continue
		}
		b.Bars = append(b.Bars, bar)
	}
	return b, nil
}

// isEnvelope reports whether obj wraps records rather than being one. A
// record may carry stray "code" or "data" keys, so an object with an "s" key
// is an envelope only when its data is an array.
func isEnvelope(obj map[string]json.RawMessage) bool {
	data, hasData := obj["data"]
	if hasData && bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return true
	}
	if _, hasSymbol := obj["s"]; hasSymbol {
		return false
	}
	_, hasCode := obj["code"]
	return hasData || hasCode
}

func isNDJSON(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return true
	}
	return false
}
