package store

import (
	"context"
	"time"
)

// ConversationThread is a single-agent-owned sequence of turns.
// Threads of one session share SessionID.
type ConversationThread struct {
	ID        int32
	UID       string
	UserID    int32
	SessionID string
	AgentType string
	CreatedTs int64
	// UpdatedTs is the time of the last turn.
	UpdatedTs int64
	// EndedTs is set when a hand-off supersedes the thread; 0 while open.
	EndedTs int64
}

type FindConversationThread struct {
	ID        *int32
	UID       *string
	UserID    *int32
	SessionID *string
	AgentType *string
}

type UpdateConversationThread struct {
	ID        int32
	UpdatedTs *int64
	EndedTs   *int64
}

type DeleteConversationThread struct {
	ID int32
}

type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// ConversationTurn is one message of a thread.
type ConversationTurn struct {
	ID        int32
	UID       string
	ThreadID  int32
	Speaker   Speaker
	Text      string
	AgentType string
	// Intent and Confidence annotate user turns.
	Intent     string
	Confidence float64
	CreatedTs  int64
}

// FindConversationTurn selects turns by thread, by session or by user.
// Results are ordered oldest first.
type FindConversationTurn struct {
	ThreadID  *int32
	SessionID *string
	UserID    *int32
	// Limit keeps only the most recent turns when set.
	Limit *int
}

type DeleteConversationTurn struct {
	ID       *int32
	ThreadID *int32
}

func (s *Store) CreateConversationThread(ctx context.Context, create *ConversationThread) (*ConversationThread, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	return s.driver.CreateConversationThread(ctx, create)
}

func (s *Store) ListConversationThreads(ctx context.Context, find *FindConversationThread) ([]*ConversationThread, error) {
	return s.driver.ListConversationThreads(ctx, find)
}

// GetConversationThread returns the matching thread or nil when none exists.
func (s *Store) GetConversationThread(ctx context.Context, find *FindConversationThread) (*ConversationThread, error) {
	list, err := s.ListConversationThreads(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateConversationThread(ctx context.Context, update *UpdateConversationThread) (*ConversationThread, error) {
	return s.driver.UpdateConversationThread(ctx, update)
}

func (s *Store) DeleteConversationThread(ctx context.Context, delete *DeleteConversationThread) error {
	return s.driver.DeleteConversationThread(ctx, delete)
}

func (s *Store) CreateConversationTurn(ctx context.Context, create *ConversationTurn) (*ConversationTurn, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateConversationTurn(ctx, create)
}

func (s *Store) ListConversationTurns(ctx context.Context, find *FindConversationTurn) ([]*ConversationTurn, error) {
	return s.driver.ListConversationTurns(ctx, find)
}

func (s *Store) DeleteConversationTurn(ctx context.Context, delete *DeleteConversationTurn) error {
	return s.driver.DeleteConversationTurn(ctx, delete)
}
