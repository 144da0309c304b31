package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/config"
	"accana-api/models"
	"accana-api/services"
)

type RegisterUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Email    *string `json:"email"`
}

// RegisterUser creates an account on behalf of the current Admin or Lead.
// Role gating (Leads create University ID only) lives in the service.
func RegisterUser(c *gin.Context) {
	requestedBy, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + req.Role})
		return
	}

	svc := services.NewUserService(config.DB)
	user, notice, err := svc.Register(req.Username, req.Password, req.Email, role, requestedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"user":    user,
		"message": "User created successfully",
	}
	if notice != "" {
		response["notice"] = notice
	}
	c.JSON(http.StatusCreated, response)
}

// GetUsers lists every account. Reviewer-only at the route level.
func GetUsers(c *gin.Context) {
	svc := services.NewUserService(config.DB)
	users, err := svc.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}
