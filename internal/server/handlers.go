package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akulasagar/aura-backend/internal/service"
)

// --- User handlers ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	token, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleSavePushToken(c *gin.Context) {
	var req struct {
		PushToken string `json:"pushToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	if err := s.users.SavePushToken(c.Request.Context(), currentUserID(c), req.PushToken); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Push token saved successfully."})
}

// --- Plan handlers ---

type planRequest struct {
	Title string              `json:"title"`
	Date  string              `json:"date"`
	Tasks []service.TaskInput `json:"tasks"`
}

func (s *Server) handlePlansByDate(c *gin.Context) {
	plans, err := s.plans.ListByDate(c.Request.Context(), currentUserID(c), c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	plan, err := s.plans.Create(c.Request.Context(), currentUserID(c), req.Title, req.Date, req.Tasks)
	if err != nil {
		var conflict *service.ConflictError
		if !errors.Is(err, service.ErrInvalid) && !errors.As(err, &conflict) {
			// Store failures on create answer 400, not 500.
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error creating plan", "error": err.Error()})
			return
		}
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (s *Server) handleUpdatePlan(c *gin.Context) {
	planID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	plan, err := s.plans.Update(c.Request.Context(), currentUserID(c), planID, req.Title, req.Date, req.Tasks, time.Now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(c *gin.Context) {
	planID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.plans.Delete(c.Request.Context(), currentUserID(c), planID, time.Now()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully."})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	planID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	plan, err := s.plans.ToggleTask(c.Request.Context(), currentUserID(c), planID, taskID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Chat handler ---

type chatRequest struct {
	Message   string                   `json:"message"`
	History   []service.HistoryMessage `json:"history"`
	PushToken string                   `json:"pushToken"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required."})
		return
	}

	result, err := s.assistant.Chat(c.Request.Context(), currentUserID(c), req.Message, req.History, req.PushToken, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required."})
			return
		}
		log.Printf("chat endpoint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sorry, I'm having trouble thinking right now."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- Shared helpers ---

// writeError maps service errors onto the API's status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"message": fmt.Sprintf("You already have another task scheduled for %s on this day.", conflict.Time),
		})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid Credentials"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Plan not found."})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
	case errors.Is(err, service.ErrLocked):
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Time limit reached. Plans cannot be modified within 15 minutes of their start time.",
		})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Plan not found."})
		return 0, false
	}
	return uint(id), true
}
