// Package server exposes the REST API the mobile client talks to.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akulasagar/aura-backend/internal/config"
	"github.com/akulasagar/aura-backend/internal/service"
)

// Server wires the HTTP routes to the service layer.
type Server struct {
	router    *gin.Engine
	users     *service.UserService
	plans     *service.PlanService
	assistant *service.AssistantService
	jwtSecret string
}

// New builds the router with all routes registered.
func New(cfg config.Config, users *service.UserService, plans *service.PlanService, assistant *service.AssistantService) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		router:    router,
		users:     users,
		plans:     plans,
		assistant: assistant,
		jwtSecret: cfg.JWTSecret,
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "AI Assistant Backend is Alive and Kicking!")
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "Pong!")
	})

	api := router.Group("/api")
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("/register", s.handleRegister)
			userRoutes.POST("/login", s.handleLogin)
			userRoutes.PUT("/pushtoken", s.requireAuth, s.handleSavePushToken)
		}

		planRoutes := api.Group("/plans", s.requireAuth)
		{
			planRoutes.GET("/by-date/:date", s.handlePlansByDate)
			planRoutes.POST("", s.handleCreatePlan)
			planRoutes.PUT("/:id", s.handleUpdatePlan)
			planRoutes.DELETE("/:id", s.handleDeletePlan)
			planRoutes.PATCH("/:id/tasks/:taskId", s.handleToggleTask)
		}

		api.POST("/chat", s.requireAuth, s.handleChat)
	}

	return s
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
