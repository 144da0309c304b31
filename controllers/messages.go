package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/config"
	"accana-api/services"
)

type SendMessageRequest struct {
	RecipientType  string `json:"recipient_type" binding:"required"`
	RecipientValue string `json:"recipient_value" binding:"required"`
	Subject        string `json:"subject" binding:"required"`
	Body           string `json:"body" binding:"required"`
}

// SendMessage composes an internal message to a user or to every holder of
// a role.
func SendMessage(c *gin.Context) {
	sender, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewMessageService(config.DB)
	msg, err := svc.Send(sender, req.RecipientType, req.RecipientValue, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": msg,
	})
}

// GetInbox lists messages addressed to the user or the user's role.
func GetInbox(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewMessageService(config.DB)
	inbox, err := svc.InboxFor(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": inbox,
		"total":    len(inbox),
	})
}

// GetSentMessages lists messages the user has sent.
func GetSentMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewMessageService(config.DB)
	sent, err := svc.SentBy(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": sent,
		"total":    len(sent),
	})
}

// MarkMessageRead records the user as a reader of the message. Idempotent.
func MarkMessageRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewMessageService(config.DB)
	if err := svc.MarkRead(c.Param("id"), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteReadMessages hides every inbox item the user has already read.
func DeleteReadMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewMessageService(config.DB)
	hidden, err := svc.DeleteReadInbox(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": hidden,
	})
}
