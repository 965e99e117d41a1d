package logging

import (
	"fmt"
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// GraylogSink forwards log lines to a GELF endpoint over UDP.
type GraylogSink struct {
	writer *gelf.Writer
}

// NewGraylogSink dials addr (host:port). Records are tagged with facility "nacawing".
func NewGraylogSink(addr string) (*GraylogSink, error) {
	if addr == "" {
		return nil, fmt.Errorf("graylog: empty address")
	}
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, fmt.Errorf("graylog: dial %s: %w", addr, err)
	}
	w.Facility = "nacawing"
	return &GraylogSink{writer: w}, nil
}

// Writer returns the sink as an io.Writer suitable for SlogManager.Setup.
func (s *GraylogSink) Writer() io.Writer {
	return s.writer
}

// Close releases the underlying connection.
func (s *GraylogSink) Close() error {
	if s == nil || s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
