package feed

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hilthontt/plugdj/internal/infrastructure/json"
	"github.com/hilthontt/plugdj/internal/infrastructure/ws"
	"go.uber.org/zap"
)

type Handler struct {
	room        func() string
	roomManager *ws.RoomManager
	core        *ws.Core
	logger      *zap.Logger
}

func NewHandler(room func() string, roomManager *ws.RoomManager, core *ws.Core, logger *zap.Logger) *Handler {
	return &Handler{
		room:        room,
		roomManager: roomManager,
		core:        core,
		logger:      logger,
	}
}

// FollowRoomHandler upgrades to a websocket that streams the events of the
// joined room, starting with the logged chat.
func (h *Handler) FollowRoomHandler(w http.ResponseWriter, r *http.Request) {
	slug := h.room()
	if slug == "" {
		json.WriteNotFoundError(w, json.ErrNotInRoom.Error())
		return
	}

	conn, err := h.roomManager.Upgrade(w, r)
	if err != nil {
		h.logger.Debug("feed upgrade failed", zap.String("room", slug), zap.Error(err))
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), slug)
	if !h.core.Register(client) {
		_ = conn.Close()
		return
	}

	go client.WriteMessage(h.logger)
	go client.ReadMessage(h.core)
}
