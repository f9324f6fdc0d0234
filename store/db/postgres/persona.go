package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hrygo/northstar/store"
)

const personaColumns = "id, user_id, name, north_star, is_calling, importance, created_ts, updated_ts"

func scanPersona(scan func(dest ...any) error) (*store.Persona, error) {
	p := &store.Persona{}
	if err := scan(&p.ID, &p.UserID, &p.Name, &p.NorthStar, &p.IsCalling, &p.Importance, &p.CreatedTs, &p.UpdatedTs); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *DB) CreatePersona(ctx context.Context, create *store.Persona) (*store.Persona, error) {
	fields := []string{"user_id", "name", "north_star", "is_calling", "importance", "created_ts", "updated_ts"}
	args := []any{create.UserID, create.Name, create.NorthStar, create.IsCalling, create.Importance, create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO persona (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.q.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create persona: %w", err)
	}
	return create, nil
}

func (d *DB) ListPersonas(ctx context.Context, find *store.FindPersona) ([]*store.Persona, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	query := `SELECT ` + personaColumns + ` FROM persona WHERE ` + strings.Join(where, " AND ") + ` ORDER BY importance DESC, id ASC`
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Persona, 0)
	for rows.Next() {
		p, err := scanPersona(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personas: %w", err)
	}
	return list, nil
}

func (d *DB) UpdatePersona(ctx context.Context, update *store.UpdatePersona) (*store.Persona, error) {
	set, args := []string{}, []any{}

	if update.Name != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *update.Name)
	}
	if update.NorthStar != nil {
		set, args = append(set, "north_star = "+placeholder(len(args)+1)), append(args, *update.NorthStar)
	}
	if update.IsCalling != nil {
		set, args = append(set, "is_calling = "+placeholder(len(args)+1)), append(args, *update.IsCalling)
	}
	if update.Importance != nil {
		set, args = append(set, "importance = "+placeholder(len(args)+1)), append(args, *update.Importance)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE persona SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + personaColumns
	p, err := scanPersona(d.q.QueryRowContext(ctx, stmt, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("persona not found")
		}
		return nil, fmt.Errorf("failed to update persona: %w", err)
	}
	return p, nil
}

func (d *DB) DeletePersona(ctx context.Context, delete *store.DeletePersona) error {
	result, err := d.q.ExecContext(ctx, `DELETE FROM persona WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("persona not found")
	}
	return nil
}
