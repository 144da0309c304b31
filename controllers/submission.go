package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/config"
	"accana-api/models"
	"accana-api/services"
)

type CreateSubmissionRequest struct {
	ProgramContent         string                        `json:"program_content" binding:"required"`
	ProgramContentLanguage string                        `json:"program_content_language"`
	SelectedBodyKeys       []string                      `json:"selected_body_keys" binding:"required"`
	AnalysisResults        []models.AnalysisResultsGroup `json:"analysis_results" binding:"required"`
	CarriedNotes           []models.SubmissionNote       `json:"carried_notes"`
}

// CreateSubmission stores a new pending submission for review.
func CreateSubmission(c *gin.Context) {
	submitter, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewSubmissionService(config.DB)
	submission, err := svc.Create(services.SubmissionInput{
		ProgramContent:         req.ProgramContent,
		ProgramContentLanguage: req.ProgramContentLanguage,
		SelectedBodyKeys:       req.SelectedBodyKeys,
		AnalysisResults:        req.AnalysisResults,
		CarriedNotes:           req.CarriedNotes,
	}, submitter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
		"message":    "Submission created successfully",
	})
}

// GetSubmissions lists submissions: reviewers see everything, University ID
// users see their own.
func GetSubmissions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewSubmissionService(config.DB)

	var (
		submissions []models.Submission
		err         error
	)
	if user.Role.IsReviewer() {
		submissions, err = svc.ListAll()
	} else {
		submissions, err = svc.ListFor(user.Username)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission with its status history.
func GetSubmission(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewSubmissionService(config.DB)
	submission, err := svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !user.Role.IsReviewer() && submission.SubmittedByUsername != user.Username {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	history, err := svc.History(submission.SubmissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
		"history":    history,
	})
}

// LoadSubmissionForRevision returns a draft built from a rejected
// submission so the user can revise and resubmit.
func LoadSubmissionForRevision(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	svc := services.NewSubmissionService(config.DB)
	draft, err := svc.LoadForRevision(c.Param("id"), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"draft":   draft,
	})
}
