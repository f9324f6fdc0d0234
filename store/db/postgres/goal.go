package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hrygo/northstar/store"
)

const goalColumns = "id, user_id, persona_id, name, acceptance_criteria, review_date, planned_hours, actual_hours, status, created_ts, updated_ts"

func scanGoal(scan func(dest ...any) error) (*store.Goal, error) {
	g := &store.Goal{}
	var personaID sql.NullInt32
	var status string
	if err := scan(&g.ID, &g.UserID, &personaID, &g.Name, &g.AcceptanceCriteria, &g.ReviewDate, &g.PlannedHours, &g.ActualHours, &status, &g.CreatedTs, &g.UpdatedTs); err != nil {
		return nil, err
	}
	if personaID.Valid {
		g.PersonaID = personaID.Int32
	}
	g.Status = store.GoalStatus(status)
	return g, nil
}

// nullablePersonaID maps the zero id to NULL.
func nullablePersonaID(id int32) any {
	if id == 0 {
		return nil
	}
	return id
}

func (d *DB) CreateGoal(ctx context.Context, create *store.Goal) (*store.Goal, error) {
	fields := []string{"user_id", "persona_id", "name", "acceptance_criteria", "review_date", "planned_hours", "actual_hours", "status", "created_ts", "updated_ts"}
	args := []any{create.UserID, nullablePersonaID(create.PersonaID), create.Name, create.AcceptanceCriteria, create.ReviewDate, create.PlannedHours, create.ActualHours, string(create.Status), create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO goal (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.q.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return create, nil
}

func (d *DB) ListGoals(ctx context.Context, find *store.FindGoal) ([]*store.Goal, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.PersonaID != nil {
		where, args = append(where, "persona_id = "+placeholder(len(args)+1)), append(args, *find.PersonaID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, string(*find.Status))
	}

	query := `SELECT ` + goalColumns + ` FROM goal WHERE ` + strings.Join(where, " AND ") + ` ORDER BY review_date ASC, id ASC`
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateGoal(ctx context.Context, update *store.UpdateGoal) (*store.Goal, error) {
	set, args := []string{}, []any{}

	if update.Name != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *update.Name)
	}
	if update.AcceptanceCriteria != nil {
		set, args = append(set, "acceptance_criteria = "+placeholder(len(args)+1)), append(args, *update.AcceptanceCriteria)
	}
	if update.ReviewDate != nil {
		set, args = append(set, "review_date = "+placeholder(len(args)+1)), append(args, *update.ReviewDate)
	}
	if update.ActualHours != nil {
		set, args = append(set, "actual_hours = "+placeholder(len(args)+1)), append(args, *update.ActualHours)
	}
	if update.Status != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, string(*update.Status))
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE goal SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + goalColumns
	g, err := scanGoal(d.q.QueryRowContext(ctx, stmt, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("goal not found")
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

func (d *DB) DeleteGoal(ctx context.Context, delete *store.DeleteGoal) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM goal WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("goal not found")
	}
	return nil
}
