package strand

import (
	"context"
	"net/http"
)

// Stream is a per-session push channel that delivers patch frames to one
// client over a held-open HTTP response. Frames sent on a stream are
// delivered in order, and each frame is written whole: a frame is never
// interleaved with another or truncated mid-write.
//
// A Stream has a single logical producer. Route all frames for a session
// through one goroutine; the Stream itself does not serialize concurrent
// Patch calls.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
}

// NewStream prepares w as a push channel for the life of the request. It
// sets the event-stream response headers and returns ErrStreamUnsupported
// when the server's writer cannot flush incrementally.
func NewStream(w http.ResponseWriter, r *http.Request) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	return &Stream{w: w, flusher: flusher, ctx: r.Context()}, nil
}

// Patch encodes and writes frames in order, flushing after each one. Once
// the client has disconnected, Patch stops and returns the request
// context's error; frames already written may or may not have been
// received, which is safe because frames are idempotent.
func (s *Stream) Patch(frames ...Frame) error {
	for _, f := range frames {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if _, err := s.w.Write(f.Encode()); err != nil {
			return err
		}
		s.flusher.Flush()
	}
	return nil
}

// Context returns the request context the stream is bound to. It is
// cancelled when the client disconnects.
func (s *Stream) Context() context.Context { return s.ctx }
