package store

import (
	"context"
	"time"
)

// DefaultPersonaImportance is assigned to personas created from conversation.
const DefaultPersonaImportance = 3

// Persona is a role the user embodies, guided by its north star.
type Persona struct {
	ID        int32
	UserID    int32
	Name      string
	NorthStar string
	IsCalling bool
	// Importance ranks the persona from 1 (low) to 5 (high).
	Importance int32
	CreatedTs  int64
	UpdatedTs  int64
}

type FindPersona struct {
	ID     *int32
	UserID *int32
}

type UpdatePersona struct {
	ID         int32
	Name       *string
	NorthStar  *string
	IsCalling  *bool
	Importance *int32
	UpdatedTs  *int64
}

type DeletePersona struct {
	ID int32
}

func (s *Store) CreatePersona(ctx context.Context, create *Persona) (*Persona, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	if create.Importance == 0 {
		create.Importance = DefaultPersonaImportance
	}
	return s.driver.CreatePersona(ctx, create)
}

func (s *Store) ListPersonas(ctx context.Context, find *FindPersona) ([]*Persona, error) {
	return s.driver.ListPersonas(ctx, find)
}

// GetPersona returns the matching persona or nil when none exists.
func (s *Store) GetPersona(ctx context.Context, find *FindPersona) (*Persona, error) {
	list, err := s.ListPersonas(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdatePersona(ctx context.Context, update *UpdatePersona) (*Persona, error) {
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	return s.driver.UpdatePersona(ctx, update)
}

func (s *Store) DeletePersona(ctx context.Context, delete *DeletePersona) error {
	return s.driver.DeletePersona(ctx, delete)
}

// CountPersonas returns the number of personas the user has defined.
func (s *Store) CountPersonas(ctx context.Context, userID int32) (int, error) {
	list, err := s.ListPersonas(ctx, &FindPersona{UserID: &userID})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
