package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hilthontt/plugdj/internal/domain"
	"github.com/hilthontt/plugdj/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
)

func TestChatRepository_EvictsOldest(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := repository.NewChatRepository(2)

	for i := range 3 {
		req.NoError(repo.Create(ctx, &domain.ChatMessage{ID: fmt.Sprint(i), Room: "room1", Content: "hi"}))
	}

	msgs, err := repo.GetByRoom(ctx, "room1")
	req.NoError(err)
	req.Len(msgs, 2)
	req.Equal("1", msgs[0].ID)
	req.Equal("2", msgs[1].ID)
	req.False(msgs[0].CreatedAt.IsZero())
}

func TestChatRepository_DeleteKeepsOrder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := repository.NewChatRepository(10)
	for _, id := range []string{"a", "b", "c"} {
		req.NoError(repo.Create(ctx, &domain.ChatMessage{ID: id, Room: "room1"}))
	}

	req.NoError(repo.Delete(ctx, "room1", "a"))
	req.NoError(repo.Delete(ctx, "room1", "missing"))
	req.NoError(repo.Delete(ctx, "other", "b"))

	msgs, err := repo.GetByRoom(ctx, "room1")
	req.NoError(err)
	req.Equal([]string{"b", "c"}, []string{msgs[0].ID, msgs[1].ID})
}

func TestChatRepository_InvalidInput(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(0)

	require.ErrorIs(t, repo.Create(ctx, nil), domain.ErrInvalidInput)
	require.ErrorIs(t, repo.Create(ctx, &domain.ChatMessage{ID: "x"}), domain.ErrInvalidInput)
	require.ErrorIs(t, repo.Delete(ctx, "room1", ""), domain.ErrInvalidInput)
	_, err := repo.GetByRoom(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatRepository_AssignsID(t *testing.T) {
	repo := repository.NewChatRepository(1)
	msg := &domain.ChatMessage{Room: "room1", Content: "sent by us"}

	require.NoError(t, repo.Create(context.Background(), msg))

	require.NotEmpty(t, msg.ID)
}

func TestChatRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChatRepository(5)
	require.NoError(t, repo.Create(ctx, &domain.ChatMessage{ID: "a", Room: "room1", Content: "hi"}))

	msgs, _ := repo.GetByRoom(ctx, "room1")
	msgs[0].Content = "changed"

	again, _ := repo.GetByRoom(ctx, "room1")
	require.Equal(t, "hi", again[0].Content)
}

func TestPlayRepository_MostRecentFirst(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := repository.NewPlayRepository(2)

	for _, id := range []string{"h-1", "h-2", "h-3"} {
		req.NoError(repo.Record(ctx, &domain.Play{HistoryID: id, Room: "room1"}))
	}
	req.NoError(repo.Record(ctx, &domain.Play{HistoryID: "h-3", Room: "room1", Woots: 4}))

	plays, err := repo.GetByRoom(ctx, "room1")
	req.NoError(err)
	req.Len(plays, 2)
	req.Equal("h-3", plays[0].HistoryID)
	req.Equal(4, plays[0].Woots)
	req.Equal("h-2", plays[1].HistoryID)

	empty, err := repo.GetByRoom(ctx, "room2")
	req.NoError(err)
	req.Empty(empty)
	req.ErrorIs(repo.Record(ctx, &domain.Play{Room: "room1"}), domain.ErrInvalidInput)
}
