package api

import (
	"net/http"
	"strings"
)

// flushSink forwards each fragment to the response writer and flushes, so
// the first byte reaches the caller before the reply is complete.
type flushSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	wrote   bool
}

func (s *flushSink) Write(chunk string) error {
	if _, err := s.w.Write([]byte(chunk)); err != nil {
		return err
	}
	s.wrote = true
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// bufferSink accumulates the reply for the single-object JSON response.
type bufferSink struct {
	builder strings.Builder
}

func (s *bufferSink) Write(chunk string) error {
	s.builder.WriteString(chunk)
	return nil
}

func (s *bufferSink) String() string {
	return s.builder.String()
}
