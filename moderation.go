package plugdj

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hilthontt/plugdj/event"
	"github.com/hilthontt/plugdj/option"
)

// ModerationService needs a staff role in the current room.
type ModerationService struct {
	Options []option.RequestOption
}

func NewModerationService(opts ...option.RequestOption) *ModerationService {
	return &ModerationService{opts}
}

type banParams struct {
	UserID   int64       `json:"userID"`
	Reason   int         `json:"reason"`
	Duration BanDuration `json:"duration"`
}

// Ban bans userID. reason is one of the site's reason codes, 1 to 5.
func (m *ModerationService) Ban(ctx context.Context, userID int64, reason int, duration BanDuration, opts ...option.RequestOption) error {
	body := banParams{UserID: userID, Reason: reason, Duration: duration}
	return exec(ctx, http.MethodPost, "bans/add", body, m.Options, opts)
}

func (m *ModerationService) Unban(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("bans/%d", userID), nil, m.Options, opts)
}

type muteParams struct {
	UserID   int64        `json:"userID"`
	Reason   int          `json:"reason"`
	Duration MuteDuration `json:"duration"`
}

func (m *ModerationService) Mute(ctx context.Context, userID int64, reason int, duration MuteDuration, opts ...option.RequestOption) error {
	body := muteParams{UserID: userID, Reason: reason, Duration: duration}
	return exec(ctx, http.MethodPost, "mutes", body, m.Options, opts)
}

func (m *ModerationService) Unmute(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("mutes/%d", userID), nil, m.Options, opts)
}

type roleParams struct {
	UserID int64 `json:"userID"`
	RoleID int   `json:"roleID"`
}

func (m *ModerationService) SetRole(ctx context.Context, userID int64, role int, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodPost, "staff/update", roleParams{UserID: userID, RoleID: role}, m.Options, opts)
}

func (m *ModerationService) Unmod(ctx context.Context, userID int64, opts ...option.RequestOption) error {
	return exec(ctx, http.MethodDelete, fmt.Sprintf("staff/%d", userID), nil, m.Options, opts)
}

func (m *ModerationService) Staff(ctx context.Context, opts ...option.RequestOption) ([]event.User, error) {
	return call[event.User](ctx, http.MethodGet, "staff", nil, m.Options, opts)
}

func (m *ModerationService) DeleteChat(ctx context.Context, chatID string, opts ...option.RequestOption) error {
	if chatID == "" {
		return ErrMissingIDParameter
	}
	return exec(ctx, http.MethodDelete, "chat/"+chatID, nil, m.Options, opts)
}
