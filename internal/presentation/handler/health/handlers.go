package health

import (
	"net/http"
	"time"

	"github.com/hilthontt/plugdj/internal/infrastructure/json"
)

var startTime = time.Now()

// Probe reports the state of the session behind the bot.
type Probe interface {
	Authenticated() bool
	Room() string
	LastHeartbeat() time.Time
}

type Handler struct {
	probe Probe
}

func NewHandler(probe Probe) *Handler {
	return &Handler{probe: probe}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Reports whether the bot is connected, with uptime and the joined room
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Socket is authenticated"
// @Failure      503 {object} healthResponse "Socket is not authenticated"
// @Router       /health [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Room:      h.probe.Room(),
	}
	if hb := h.probe.LastHeartbeat(); !hb.IsZero() {
		resp.LastHeartbeat = hb.UTC().Format(time.RFC3339)
	}

	if !h.probe.Authenticated() {
		resp.Status = "unhealthy"
		json.Write(w, http.StatusServiceUnavailable, resp)
		return
	}
	json.Write(w, http.StatusOK, resp)
}
