package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Okohedeki/sia/internal/notify"
)

// sseStream formats notifier events as Server-Sent Events frames.
type sseStream struct {
	w http.ResponseWriter
}

func newSSEStream(w http.ResponseWriter) sseStream {
	return sseStream{w: w}
}

// event JSON-encodes one notification and sends it as a data frame:
// a "data: " prefix followed by the payload and a blank line.
func (s sseStream) event(evt notify.Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.w, "data: %s\n\n", b)
	return err
}

// comment sends an SSE comment frame. Comments keep the connection warm
// without reaching the client's event handler.
func (s sseStream) comment(text string) error {
	_, err := fmt.Fprintf(s.w, ": %s\n\n", text)
	return err
}

// flush pushes buffered frames to the client if the writer supports it.
//
// This ensures that SSE events are immediately sent rather than held in
// the response buffer.
func (s sseStream) flush() {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}
