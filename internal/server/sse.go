package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// pingInterval keeps idle event streams alive through proxies.
const pingInterval = 25 * time.Second

// handleEvents streams store mutations as Server-Sent Events until the
// client disconnects. Delivery is best-effort: a client that cannot
// keep up misses events rather than backing up the stores.
func (s *Server) handleEvents(c *gin.Context) {
	setSSEHeaders(c.Writer)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	sub := s.state.Subscribe(c.Request.Context())
	defer sub.Close()

	sseWrite(c.Writer, "ping", "ready")
	flusher.Flush()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			sseWrite(c.Writer, "ping", time.Now().UTC().Format(time.RFC3339Nano))
			flusher.Flush()
		case event, open := <-sub.Events():
			if !open {
				return
			}
			sseWrite(c.Writer, string(event.Type), event)
			flusher.Flush()
		}
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
}

func sseWrite(w http.ResponseWriter, event string, data any) {
	payload := marshalPayload(data)
	if event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event)
	}
	for _, line := range strings.Split(payload, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}

func marshalPayload(data any) string {
	switch payload := data.(type) {
	case string:
		return payload
	case []byte:
		return string(payload)
	default:
		bytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Sprintf("%v", data)
		}
		return string(bytes)
	}
}
