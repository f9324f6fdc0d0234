package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// WithTx runs fn against a driver bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transaction-bound driver reuses the open transaction.
	WithTx(ctx context.Context, fn func(Driver) error) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Persona model related methods.
	CreatePersona(ctx context.Context, create *Persona) (*Persona, error)
	ListPersonas(ctx context.Context, find *FindPersona) ([]*Persona, error)
	UpdatePersona(ctx context.Context, update *UpdatePersona) (*Persona, error)
	DeletePersona(ctx context.Context, delete *DeletePersona) error

	// Goal model related methods.
	CreateGoal(ctx context.Context, create *Goal) (*Goal, error)
	ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error)
	UpdateGoal(ctx context.Context, update *UpdateGoal) (*Goal, error)
	DeleteGoal(ctx context.Context, delete *DeleteGoal) error

	// ConversationThread model related methods.
	CreateConversationThread(ctx context.Context, create *ConversationThread) (*ConversationThread, error)
	ListConversationThreads(ctx context.Context, find *FindConversationThread) ([]*ConversationThread, error)
	UpdateConversationThread(ctx context.Context, update *UpdateConversationThread) (*ConversationThread, error)
	DeleteConversationThread(ctx context.Context, delete *DeleteConversationThread) error

	// ConversationTurn model related methods.
	CreateConversationTurn(ctx context.Context, create *ConversationTurn) (*ConversationTurn, error)
	ListConversationTurns(ctx context.Context, find *FindConversationTurn) ([]*ConversationTurn, error)
	DeleteConversationTurn(ctx context.Context, delete *DeleteConversationTurn) error
}
