package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"accana-api/config"
	"accana-api/services"
)

type ReviewRequest struct {
	Decision string `json:"decision" binding:"required"`
	Note     string `json:"note"`
}

// ReviewSubmission applies an approve/reject decision to a pending
// submission. Admin/Lead only (route-gated, re-checked in the service).
func ReviewSubmission(c *gin.Context) {
	reviewer, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewSubmissionService(config.DB)
	submission, err := svc.Review(c.Param("id"), req.Decision, reviewer, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission " + submission.Status,
		"submission": submission,
	})
}

type AddNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddSubmissionNote appends a reviewer note to a pending submission.
func AddSubmissionNote(c *gin.Context) {
	author, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note text is required"})
		return
	}

	svc := services.NewSubmissionService(config.DB)
	submission, err := svc.AddNote(c.Param("id"), author, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}
