package phind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

const dataPrefix = "data:"

const defaultChunkSize = 4096

type streamRecord struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Reassembler accumulates the text deltas of a line-delimited event stream.
// A line split across two chunks is carried over and parsed once complete.
type Reassembler struct {
	pending   []byte
	text      strings.Builder
	parsed    int
	discarded int
	logger    *zap.Logger
}

func NewReassembler(logger *zap.Logger) *Reassembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reassembler{logger: logger}
}

func (r *Reassembler) Ingest(chunk []byte) {
	r.pending = append(r.pending, chunk...)

	rest := r.pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		r.consume(rest[:i])
		rest = rest[i+1:]
	}
	r.pending = append(r.pending[:0], rest...)
}

// Finish parses whatever is left after the last newline and returns the
// accumulated text. Zero parseable lines yield an empty string.
func (r *Reassembler) Finish() string {
	if len(r.pending) > 0 {
		r.consume(r.pending)
		r.pending = r.pending[:0]
	}
	return r.text.String()
}

func (r *Reassembler) Parsed() int { return r.parsed }

func (r *Reassembler) Discarded() int { return r.discarded }

func (r *Reassembler) consume(line []byte) {
	s := strings.TrimSpace(string(line))
	s = strings.TrimSpace(strings.TrimPrefix(s, dataPrefix))
	if s == "" {
		return
	}

	var rec streamRecord
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		r.discarded++
		r.logger.Debug("[Reassembler.consume] skip non-record line", zap.String("line", s), zap.Error(err))
		return
	}

	r.parsed++
	if len(rec.Choices) > 0 {
		r.text.WriteString(rec.Choices[0].Delta.Content)
	}
}

// Reassemble reads body in chunks of chunkSize until EOF. On a read error the
// text gathered so far is returned together with the error.
func Reassemble(body io.Reader, chunkSize int, logger *zap.Logger) (string, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	r := NewReassembler(logger)
	buf := make([]byte, chunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			r.Ingest(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return r.Finish(), nil
		}
		if err != nil {
			return r.Finish(), err
		}
	}
}
