package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/hrygo/northstar/store"
)

const threadColumns = "id, uid, user_id, session_id, agent_type, created_ts, updated_ts, ended_ts"

func scanThread(scan func(dest ...any) error) (*store.ConversationThread, error) {
	t := &store.ConversationThread{}
	if err := scan(&t.ID, &t.UID, &t.UserID, &t.SessionID, &t.AgentType, &t.CreatedTs, &t.UpdatedTs, &t.EndedTs); err != nil {
		return nil, err
	}
	return t, nil
}

func (d *DB) CreateConversationThread(ctx context.Context, create *store.ConversationThread) (*store.ConversationThread, error) {
	fields := []string{"uid", "user_id", "session_id", "agent_type", "created_ts", "updated_ts", "ended_ts"}
	args := []any{create.UID, create.UserID, create.SessionID, create.AgentType, create.CreatedTs, create.UpdatedTs, create.EndedTs}

	stmt := `INSERT INTO conversation_thread (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.q.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create conversation thread: %w", err)
	}
	return create, nil
}

func (d *DB) ListConversationThreads(ctx context.Context, find *store.FindConversationThread) ([]*store.ConversationThread, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.SessionID != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *find.SessionID)
	}
	if find.AgentType != nil {
		where, args = append(where, "agent_type = "+placeholder(len(args)+1)), append(args, *find.AgentType)
	}

	query := `SELECT ` + threadColumns + ` FROM conversation_thread WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, id ASC`
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation threads: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ConversationThread, 0)
	for rows.Next() {
		t, err := scanThread(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation thread: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation threads: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateConversationThread(ctx context.Context, update *store.UpdateConversationThread) (*store.ConversationThread, error) {
	set, args := []string{}, []any{}

	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if update.EndedTs != nil {
		set, args = append(set, "ended_ts = "+placeholder(len(args)+1)), append(args, *update.EndedTs)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE conversation_thread SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + threadColumns
	t, err := scanThread(d.q.QueryRowContext(ctx, stmt, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation thread not found")
		}
		return nil, fmt.Errorf("failed to update conversation thread: %w", err)
	}
	return t, nil
}

func (d *DB) DeleteConversationThread(ctx context.Context, delete *store.DeleteConversationThread) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM conversation_thread WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation thread: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("conversation thread not found")
	}
	return nil
}

func (d *DB) CreateConversationTurn(ctx context.Context, create *store.ConversationTurn) (*store.ConversationTurn, error) {
	fields := []string{"uid", "thread_id", "speaker", "text", "agent_type", "intent", "confidence", "created_ts"}
	args := []any{create.UID, create.ThreadID, string(create.Speaker), create.Text, create.AgentType, create.Intent, create.Confidence, create.CreatedTs}

	stmt := `INSERT INTO conversation_turn (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.q.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create conversation turn: %w", err)
	}
	return create, nil
}

// ListConversationTurns returns turns oldest first. With a limit, only the
// most recent turns are kept.
func (d *DB) ListConversationTurns(ctx context.Context, find *store.FindConversationTurn) ([]*store.ConversationTurn, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ThreadID != nil {
		where, args = append(where, "t.thread_id = "+placeholder(len(args)+1)), append(args, *find.ThreadID)
	}
	if find.SessionID != nil {
		where, args = append(where, "th.session_id = "+placeholder(len(args)+1)), append(args, *find.SessionID)
	}
	if find.UserID != nil {
		where, args = append(where, "th.user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	query := `SELECT t.id, t.uid, t.thread_id, t.speaker, t.text, t.agent_type, t.intent, t.confidence, t.created_ts
		FROM conversation_turn t
		JOIN conversation_thread th ON th.id = t.thread_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.created_ts DESC, t.id DESC`
	if find.Limit != nil && *find.Limit > 0 {
		query, args = query+` LIMIT `+placeholder(len(args)+1), append(args, *find.Limit)
	}

	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation turns: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ConversationTurn, 0)
	for rows.Next() {
		turn := &store.ConversationTurn{}
		var speaker string
		if err := rows.Scan(&turn.ID, &turn.UID, &turn.ThreadID, &speaker, &turn.Text, &turn.AgentType, &turn.Intent, &turn.Confidence, &turn.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan conversation turn: %w", err)
		}
		turn.Speaker = store.Speaker(speaker)
		list = append(list, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation turns: %w", err)
	}

	slices.Reverse(list)
	return list, nil
}

func (d *DB) DeleteConversationTurn(ctx context.Context, delete *store.DeleteConversationTurn) error {
	where, args := []string{"1 = 1"}, []any{}
	if delete.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *delete.ID)
	}
	if delete.ThreadID != nil {
		where, args = append(where, "thread_id = "+placeholder(len(args)+1)), append(args, *delete.ThreadID)
	}
	if len(args) == 0 {
		return fmt.Errorf("refusing to delete all conversation turns")
	}

	if _, err := d.q.ExecContext(ctx, `DELETE FROM conversation_turn WHERE `+strings.Join(where, " AND "), args...); err != nil {
		return fmt.Errorf("failed to delete conversation turns: %w", err)
	}
	return nil
}
