package test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/northstar/store"
)

func createThread(ctx context.Context, t *testing.T, ts *store.Store, userID int32, uid, session, agentType string, createdTs int64) *store.ConversationThread {
	t.Helper()
	thread, err := ts.CreateConversationThread(ctx, &store.ConversationThread{
		UID:       uid,
		UserID:    userID,
		SessionID: session,
		AgentType: agentType,
		CreatedTs: createdTs,
	})
	require.NoError(t, err)
	return thread
}

func addTurn(ctx context.Context, t *testing.T, ts *store.Store, threadID int32, speaker store.Speaker, text string, createdTs int64) {
	t.Helper()
	_, err := ts.CreateConversationTurn(ctx, &store.ConversationTurn{
		UID:       fmt.Sprintf("turn-%d-%s-%d", threadID, speaker, createdTs),
		ThreadID:  threadID,
		Speaker:   speaker,
		Text:      text,
		CreatedTs: createdTs,
	})
	require.NoError(t, err)
}

func TestConversationStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user, err := createTestingUser(ctx, ts, "talk@example.com")
	require.NoError(t, err)

	first := createThread(ctx, t, ts, user.ID, "thread-a", "session-1", "educational", 100)
	second := createThread(ctx, t, ts, user.ID, "thread-b", "session-1", "discovery", 200)
	other := createThread(ctx, t, ts, user.ID, "thread-c", "session-2", "goal", 300)

	addTurn(ctx, t, ts, first.ID, store.SpeakerUser, "What is a persona?", 101)
	addTurn(ctx, t, ts, first.ID, store.SpeakerAgent, "A persona is a role.", 102)
	addTurn(ctx, t, ts, second.ID, store.SpeakerUser, "I want to create one", 201)
	addTurn(ctx, t, ts, second.ID, store.SpeakerAgent, "Let's explore.", 202)
	addTurn(ctx, t, ts, other.ID, store.SpeakerUser, "Set a goal", 301)

	t.Run("thread_turns_oldest_first", func(t *testing.T) {
		turns, err := ts.ListConversationTurns(ctx, &store.FindConversationTurn{ThreadID: &first.ID})
		require.NoError(t, err)
		require.Len(t, turns, 2)
		require.Equal(t, store.SpeakerUser, turns[0].Speaker)
		require.Equal(t, "A persona is a role.", turns[1].Text)
	})

	t.Run("session_spans_threads", func(t *testing.T) {
		session := "session-1"
		turns, err := ts.ListConversationTurns(ctx, &store.FindConversationTurn{SessionID: &session})
		require.NoError(t, err)
		require.Len(t, turns, 4)
		require.Equal(t, "What is a persona?", turns[0].Text)
		require.Equal(t, "Let's explore.", turns[3].Text)
	})

	t.Run("limit_keeps_most_recent", func(t *testing.T) {
		session, limit := "session-1", 3
		turns, err := ts.ListConversationTurns(ctx, &store.FindConversationTurn{SessionID: &session, Limit: &limit})
		require.NoError(t, err)
		require.Len(t, turns, 3)
		require.Equal(t, "A persona is a role.", turns[0].Text)
		require.Equal(t, "Let's explore.", turns[2].Text)
	})

	t.Run("threads_by_session", func(t *testing.T) {
		session := "session-1"
		threads, err := ts.ListConversationThreads(ctx, &store.FindConversationThread{SessionID: &session})
		require.NoError(t, err)
		require.Len(t, threads, 2)
		require.Equal(t, "thread-a", threads[0].UID)
	})

	t.Run("end_thread", func(t *testing.T) {
		ended := int64(250)
		updated, err := ts.UpdateConversationThread(ctx, &store.UpdateConversationThread{ID: first.ID, EndedTs: &ended})
		require.NoError(t, err)
		require.Equal(t, int64(250), updated.EndedTs)

		uid := "thread-a"
		found, err := ts.GetConversationThread(ctx, &store.FindConversationThread{UID: &uid})
		require.NoError(t, err)
		require.Equal(t, int64(250), found.EndedTs)
	})

	t.Run("delete_thread_cascades", func(t *testing.T) {
		require.NoError(t, ts.DeleteConversationThread(ctx, &store.DeleteConversationThread{ID: other.ID}))
		turns, err := ts.ListConversationTurns(ctx, &store.FindConversationTurn{ThreadID: &other.ID})
		require.NoError(t, err)
		require.Empty(t, turns)
	})

	t.Run("delete_requires_filter", func(t *testing.T) {
		require.Error(t, ts.DeleteConversationTurn(ctx, &store.DeleteConversationTurn{}))
	})
}

func TestRunInTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user, err := createTestingUser(ctx, ts, "tx@example.com")
	require.NoError(t, err)

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := ts.RunInTx(ctx, func(tx *store.Store) error {
			if _, err := tx.CreatePersona(ctx, &store.Persona{UserID: user.ID, Name: "Ghost"}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		count, err := ts.CountPersonas(ctx, user.ID)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("commit", func(t *testing.T) {
		err := ts.RunInTx(ctx, func(tx *store.Store) error {
			thread, err := tx.CreateConversationThread(ctx, &store.ConversationThread{
				UID: "tx-thread", UserID: user.ID, SessionID: "tx-session", AgentType: "educational",
			})
			if err != nil {
				return err
			}
			_, err = tx.CreateConversationTurn(ctx, &store.ConversationTurn{
				UID: "tx-turn", ThreadID: thread.ID, Speaker: store.SpeakerUser, Text: "hi",
			})
			return err
		})
		require.NoError(t, err)

		session := "tx-session"
		turns, err := ts.ListConversationTurns(ctx, &store.FindConversationTurn{SessionID: &session})
		require.NoError(t, err)
		require.Len(t, turns, 1)
	})

	t.Run("nested_reuses_transaction", func(t *testing.T) {
		boom := errors.New("outer failure")
		err := ts.RunInTx(ctx, func(tx *store.Store) error {
			if err := tx.RunInTx(ctx, func(inner *store.Store) error {
				_, err := inner.CreatePersona(ctx, &store.Persona{UserID: user.ID, Name: "Nested"})
				return err
			}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		count, err := ts.CountPersonas(ctx, user.ID)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}
