package events

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"time"
)

// Event is one parsed server-sent event.
type Event struct {
	Name string
	Data []byte
}

// Reader parses a text/event-stream body.
type Reader struct {
	reader *bufio.Reader
	retry  time.Duration
}

// NewReader wraps an SSE stream body.
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// RetryHint returns the last retry: delay advertised by the stream, or zero
// if none has been seen.
func (r *Reader) RetryHint() time.Duration {
	return r.retry
}

// ReadEvent reads the next event from the stream. Comment lines and unknown
// fields are ignored; a retry: field updates RetryHint. Returns io.EOF when
// the stream ends.
func (r *Reader) ReadEvent() (Event, error) {
	var name string
	var dataLines [][]byte

	for {
		line, err := r.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(dataLines) > 0 {
				return Event{Name: name, Data: bytes.Join(dataLines, []byte("\n"))}, nil
			}
			return Event{}, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return Event{Name: name, Data: bytes.Join(dataLines, []byte("\n"))}, nil
			}
			name = ""
			continue
		}

		// Comment line.
		if line[0] == ':' {
			continue
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			name = string(bytes.TrimSpace(line[6:]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, trimFieldValue(line[5:]))
		case bytes.HasPrefix(line, []byte("retry:")):
			if ms, err := strconv.Atoi(string(bytes.TrimSpace(line[6:]))); err == nil && ms > 0 {
				r.retry = time.Duration(ms) * time.Millisecond
			}
		}
		// id: and anything else are ignored.
	}
}

// trimFieldValue strips the single optional leading space after the colon,
// preserving any further whitespace that belongs to the payload.
func trimFieldValue(value []byte) []byte {
	if len(value) > 0 && value[0] == ' ' {
		return value[1:]
	}
	return value
}
