package store

import (
	"context"
	"time"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

// Goal is a measurable commitment attached to a persona.
type Goal struct {
	ID     int32
	UserID int32
	// PersonaID is 0 when the goal is not attached to a persona.
	PersonaID          int32
	Name               string
	AcceptanceCriteria string
	ReviewDate         int64
	PlannedHours       float64
	ActualHours        float64
	Status             GoalStatus
	CreatedTs          int64
	UpdatedTs          int64
}

type FindGoal struct {
	ID        *int32
	UserID    *int32
	PersonaID *int32
	Status    *GoalStatus
}

type UpdateGoal struct {
	ID                 int32
	Name               *string
	AcceptanceCriteria *string
	ReviewDate         *int64
	ActualHours        *float64
	Status             *GoalStatus
	UpdatedTs          *int64
}

type DeleteGoal struct {
	ID int32
}

func (s *Store) CreateGoal(ctx context.Context, create *Goal) (*Goal, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	if create.ReviewDate == 0 {
		create.ReviewDate = now
	}
	if create.Status == "" {
		create.Status = GoalStatusActive
	}
	return s.driver.CreateGoal(ctx, create)
}

func (s *Store) ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error) {
	return s.driver.ListGoals(ctx, find)
}

func (s *Store) UpdateGoal(ctx context.Context, update *UpdateGoal) (*Goal, error) {
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	return s.driver.UpdateGoal(ctx, update)
}

func (s *Store) DeleteGoal(ctx context.Context, delete *DeleteGoal) error {
	return s.driver.DeleteGoal(ctx, delete)
}

// CountActiveGoals returns the number of active goals of the user.
func (s *Store) CountActiveGoals(ctx context.Context, userID int32) (int, error) {
	status := GoalStatusActive
	list, err := s.ListGoals(ctx, &FindGoal{UserID: &userID, Status: &status})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
