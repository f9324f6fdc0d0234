package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	aierrors "github.com/hrygo/northstar/server/internal/errors"
	"github.com/hrygo/northstar/store"
)

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type User struct {
	ID        int32  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"created_ts"`
}

type Persona struct {
	ID         int32  `json:"id"`
	UserID     int32  `json:"user_id"`
	Name       string `json:"name"`
	NorthStar  string `json:"north_star"`
	IsCalling  bool   `json:"is_calling"`
	Importance int32  `json:"importance"`
	CreatedTs  int64  `json:"created_ts"`
	UpdatedTs  int64  `json:"updated_ts"`
}

type Goal struct {
	ID                 int32   `json:"id"`
	UserID             int32   `json:"user_id"`
	PersonaID          int32   `json:"persona_id,omitempty"`
	Name               string  `json:"name"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	ReviewDate         int64   `json:"review_date"`
	PlannedHours       float64 `json:"planned_hours"`
	ActualHours        float64 `json:"actual_hours"`
	Status             string  `json:"status"`
	CreatedTs          int64   `json:"created_ts"`
	UpdatedTs          int64   `json:"updated_ts"`
}

// CreateUser registers a user.
// POST /api/v1/users
func (s *APIV1Service) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, aierrors.InvalidArgument("invalid request body"))
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return writeError(c, aierrors.InvalidArgument("a valid email is required"))
	}

	ctx := c.Request().Context()
	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to look up user", err))
	}
	if existing != nil {
		return c.JSON(http.StatusOK, convertUser(existing))
	}

	user, err := s.Store.CreateUser(ctx, &store.User{Email: email, Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to create user", err))
	}
	return c.JSON(http.StatusCreated, convertUser(user))
}

// ListPersonas lists the personas of a user, most important first.
// GET /api/v1/users/:id/personas
func (s *APIV1Service) ListPersonas(c echo.Context) error {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	list, err := s.Store.ListPersonas(c.Request().Context(), &store.FindPersona{UserID: &userID})
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to list personas", err))
	}
	personas := make([]*Persona, 0, len(list))
	for _, p := range list {
		personas = append(personas, convertPersona(p))
	}
	return c.JSON(http.StatusOK, map[string]any{"personas": personas})
}

// ListGoals lists the goals of a user. The optional status query filters them.
// GET /api/v1/users/:id/goals
func (s *APIV1Service) ListGoals(c echo.Context) error {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	find := &store.FindGoal{UserID: &userID}
	if status := c.QueryParam("status"); status != "" {
		goalStatus := store.GoalStatus(status)
		find.Status = &goalStatus
	}
	list, err := s.Store.ListGoals(c.Request().Context(), find)
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to list goals", err))
	}
	goals := make([]*Goal, 0, len(list))
	for _, g := range list {
		goals = append(goals, convertGoal(g))
	}
	return c.JSON(http.StatusOK, map[string]any{"goals": goals})
}

func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, aierrors.InvalidArgument("invalid id: " + raw)
	}
	return int32(id), nil
}

func convertUser(u *store.User) *User {
	return &User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedTs: u.CreatedTs}
}

func convertPersona(p *store.Persona) *Persona {
	if p == nil {
		return nil
	}
	return &Persona{
		ID:         p.ID,
		UserID:     p.UserID,
		Name:       p.Name,
		NorthStar:  p.NorthStar,
		IsCalling:  p.IsCalling,
		Importance: p.Importance,
		CreatedTs:  p.CreatedTs,
		UpdatedTs:  p.UpdatedTs,
	}
}

func convertGoal(g *store.Goal) *Goal {
	if g == nil {
		return nil
	}
	return &Goal{
		ID:                 g.ID,
		UserID:             g.UserID,
		PersonaID:          g.PersonaID,
		Name:               g.Name,
		AcceptanceCriteria: g.AcceptanceCriteria,
		ReviewDate:         g.ReviewDate,
		PlannedHours:       g.PlannedHours,
		ActualHours:        g.ActualHours,
		Status:             string(g.Status),
		CreatedTs:          g.CreatedTs,
		UpdatedTs:          g.UpdatedTs,
	}
}
