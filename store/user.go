package store

import (
	"context"
	"strconv"
	"time"
)

type User struct {
	ID        int32
	Email     string
	Name      string
	CreatedTs int64
	UpdatedTs int64
}

type FindUser struct {
	ID    *int32
	Email *string
}

type UpdateUser struct {
	ID        int32
	Email     *string
	Name      *string
	UpdatedTs *int64
}

type DeleteUser struct {
	ID int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.cacheUser(user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the matching user or nil when none exists.
// Lookups by id alone are served from the user cache when possible.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil && find.Email == nil && s.userCache != nil {
		if user, ok := s.userCache.Get(userCacheKey(*find.ID)); ok {
			return user, nil
		}
	}
	list, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	s.cacheUser(list[0])
	return list[0], nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	s.forgetUser(update.ID)
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.cacheUser(user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	s.forgetUser(delete.ID)
	return s.driver.DeleteUser(ctx, delete)
}

func userCacheKey(id int32) string {
	return strconv.FormatInt(int64(id), 10)
}

func (s *Store) cacheUser(user *User) {
	if s.userCache == nil || user == nil {
		return
	}
	s.userCache.Set(userCacheKey(user.ID), user, 0)
}

func (s *Store) forgetUser(id int32) {
	if s.userCache == nil {
		return
	}
	s.userCache.Delete(userCacheKey(id))
}
