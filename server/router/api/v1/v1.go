package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/server/middleware"
	"github.com/hrygo/northstar/server/service/conversation"
	"github.com/hrygo/northstar/store"
)

// APIV1Service serves the JSON API of the coaching router.
type APIV1Service struct {
	Profile             *profile.Profile
	Store               *store.Store
	ConversationService conversation.Service

	rateLimiter *middleware.RateLimiter
	markdown    goldmark.Markdown
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, conversationService conversation.Service) *APIV1Service {
	return &APIV1Service{
		Profile:             profile,
		Store:               store,
		ConversationService: conversationService,
		rateLimiter:         middleware.NewRateLimiter(profile.RateLimitPerSecond, profile.RateLimitBurst),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// RegisterRoutes registers the v1 routes on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	g := e.Group("/api/v1")
	g.POST("/users", s.CreateUser)
	g.GET("/users/:id/personas", s.ListPersonas)
	g.GET("/users/:id/goals", s.ListGoals)

	g.POST("/conversations/process", s.ProcessConversation)
	g.GET("/conversations/:uid", s.GetConversation)
	g.GET("/sessions/:session/conversations", s.ListSessionConversations)

	g.GET("/agents", s.ListAgents)
	g.POST("/intents/analyze", s.AnalyzeIntent)
	g.GET("/metrics", s.GetMetricsOverview)
}
