package chatrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/dbtest"
	"github.com/maisonbelle/salon-site/internal/utils/idgen"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

func seedSession(t *testing.T, repo chat.Repository, at time.Time, lines ...string) *chat.Session {
	t.Helper()
	ctx := context.Background()
	session := &chat.Session{ID: idgen.NewID(), UserAgent: "test", StartedAt: at, LastActivityAt: at}
	require.NoError(t, repo.CreateSession(ctx, session))
	for i, text := range lines {
		role := chat.RoleUser
		if i%2 == 1 {
			role = chat.RoleBot
		}
		require.NoError(t, repo.AppendMessage(ctx, &chat.Message{
			ID:        idgen.NewID(),
			SessionID: session.ID,
			Role:      role,
			Text:      text,
			CreatedAt: at.Add(time.Duration(i) * time.Millisecond),
		}))
	}
	require.NoError(t, repo.TouchSession(ctx, session.ID, at, len(lines)))
	return session
}

func TestChatRepositoryTranscript(t *testing.T) {
	repo := NewChatGormRepository(dbtest.NewDatabase(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	session := seedSession(t, repo, at, "hi", "Hello!", "prices?", "See our menu.")

	found, err := repo.FindSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.MessageCount)

	messages, err := repo.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "hi", messages[0].Text)
	assert.Equal(t, chat.RoleBot, messages[3].Role)

	_, err = repo.FindSession(ctx, idgen.NewID())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	err = repo.TouchSession(ctx, idgen.NewID(), at, 1)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestChatRepositoryListSessions(t *testing.T) {
	repo := NewChatGormRepository(dbtest.NewDatabase(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := seedSession(t, repo, at, "a")
	recent := seedSession(t, repo, at.Add(time.Hour), "b")

	sessions, err := repo.ListSessions(ctx, &query.Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, recent.ID, sessions[0].ID)
	assert.Equal(t, old.ID, sessions[1].ID)

	count, err := repo.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestChatRepositoryDeleteInactiveBefore(t *testing.T) {
	repo := NewChatGormRepository(dbtest.NewDatabase(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stale := seedSession(t, repo, at.Add(-48*time.Hour), "old", "reply")
	fresh := seedSession(t, repo, at, "new", "reply")

	deleted, err := repo.DeleteInactiveBefore(ctx, at.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindSession(ctx, stale.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	messages, err := repo.ListMessages(ctx, stale.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	messages, err = repo.ListMessages(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestChatRepositoryTranscriptOrderWithSameTimestamp(t *testing.T) {
	repo := NewChatGormRepository(dbtest.NewDatabase(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	session := &chat.Session{ID: idgen.NewID(), StartedAt: at, LastActivityAt: at}
	require.NoError(t, repo.CreateSession(ctx, session))

	lines := []struct {
		role chat.Role
		text string
	}{
		{chat.RoleUser, "What are your opening hours?"},
		{chat.RoleBot, "We're open Tuesday to Saturday."},
		{chat.RoleUser, "zzz"},
		{chat.RoleBot, "Sorry, I didn't catch that."},
	}
	for i, line := range lines {
		message := &chat.Message{ID: idgen.NewID(), SessionID: session.ID, Role: line.role, Text: line.text, CreatedAt: at}
		require.NoError(t, repo.AppendMessage(ctx, message))
		assert.Equal(t, int64(i+1), message.Seq)
	}

	messages, err := repo.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, len(lines))
	for i, line := range lines {
		assert.Equal(t, line.text, messages[i].Text)
		assert.Equal(t, line.role, messages[i].Role)
	}

	other := seedSession(t, repo, at, "hi")
	otherMessages, err := repo.ListMessages(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, otherMessages, 1)
	assert.Equal(t, int64(1), otherMessages[0].Seq)
}
