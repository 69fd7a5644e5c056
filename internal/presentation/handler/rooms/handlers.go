package rooms

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hilthontt/plugdj/internal/domain"
	"github.com/hilthontt/plugdj/internal/infrastructure/json"
	"github.com/hilthontt/plugdj/room"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Source is the live view of the joined room.
type Source interface {
	Room() string
	Snapshot() room.Snapshot
}

type Handler struct {
	source         Source
	chatRepository domain.ChatRepository
	playRepository domain.PlayRepository
	logger         *zap.Logger
}

func NewHandler(
	source Source,
	chatRepository domain.ChatRepository,
	playRepository domain.PlayRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		source:         source,
		chatRepository: chatRepository,
		playRepository: playRepository,
		logger:         logger,
	}
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	if h.source.Room() == "" {
		json.WriteNotFoundError(w, json.ErrNotInRoom.Error())
		return
	}

	snap := h.source.Snapshot()
	resp := roomResponse{
		Slug:       snap.Meta.Slug,
		Name:       snap.Meta.Name,
		Welcome:    snap.Meta.Welcome,
		Population: snap.Meta.Population,
		CurrentDJ:  snap.Booth.CurrentDJ,
		WaitingDJs: snap.Booth.WaitingDJs,
		Locked:     snap.Booth.IsLocked,
	}
	if resp.WaitingDJs == nil {
		resp.WaitingDJs = []int64{}
	}
	if t := snap.Track; t != nil {
		woots, mehs := snap.Tally()
		resp.Track = &trackResponse{
			HistoryID: t.HistoryID,
			Author:    t.Media.Author,
			Title:     t.Media.Title,
			Duration:  t.Media.Duration,
			StartTime: t.StartTime,
			Woots:     woots,
			Mehs:      mehs,
		}
	}
	json.Write(w, http.StatusOK, resp)
}

// GetChatHandler returns the newest logged chat lines, oldest first.
func (h *Handler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	slug := h.source.Room()
	if slug == "" {
		json.WriteNotFoundError(w, json.ErrNotInRoom.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		json.WriteBadRequestError(w, err)
		return
	}

	msgs, err := h.chatRepository.GetByRoom(r.Context(), slug)
	if err != nil {
		json.WriteInternalError(w, h.logger, err)
		return
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	json.Write(w, http.StatusOK, lo.Map(msgs, func(m domain.ChatMessage, _ int) chatResponse {
		return chatResponse{
			ID:        m.ID,
			UserID:    m.UserID,
			Username:  m.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}))
}

// GetHistoryHandler returns finished plays, most recent first.
func (h *Handler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	slug := h.source.Room()
	if slug == "" {
		json.WriteNotFoundError(w, json.ErrNotInRoom.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		json.WriteBadRequestError(w, err)
		return
	}

	plays, err := h.playRepository.GetByRoom(r.Context(), slug)
	if err != nil {
		json.WriteInternalError(w, h.logger, err)
		return
	}
	if len(plays) > limit {
		plays = plays[:limit]
	}

	json.Write(w, http.StatusOK, lo.Map(plays, func(p domain.Play, _ int) playResponse {
		return playResponse{
			HistoryID: p.HistoryID,
			DJID:      p.DJID,
			Author:    p.Author,
			Title:     p.Title,
			Woots:     p.Woots,
			Mehs:      p.Mehs,
			Grabs:     p.Grabs,
			EndedAt:   p.EndedAt,
		}
	}))
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxLimit), nil
}
