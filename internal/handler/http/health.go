package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StreamCounter is satisfied by *sse.Hub.
type StreamCounter interface {
	TotalSubscribers() int
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Streams int    `json:"streams"`
	Version string `json:"version"`
}

// Health answers /healthz. A nil pinger is always healthy.
func Health(storage string, pinger Pinger, streams StreamCounter, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Storage: storage, Streams: streams.TotalSubscribers(), Version: version}
		if pinger == nil {
			response.Success(w, resp)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			response.BadGateway(w, "storage unreachable")
			return
		}
		response.Success(w, resp)
	}
}
