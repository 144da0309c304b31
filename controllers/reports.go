package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/config"
	"accana-api/models"
	"accana-api/services"
)

func loadSubmissionForReport(c *gin.Context) (*models.Submission, []models.SubmissionStatusHistory, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, nil, false
	}

	svc := services.NewSubmissionService(config.DB)
	submission, err := svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	if !user.Role.IsReviewer() && submission.SubmittedByUsername != user.Username {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return nil, nil, false
	}

	history, err := svc.History(submission.SubmissionID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	return submission, history, true
}

// GetSubmissionReportText streams the plain-text summary export.
func GetSubmissionReportText(c *gin.Context) {
	submission, history, ok := loadSubmissionForReport(c)
	if !ok {
		return
	}

	report := services.NewReportService().TextSummary(submission, history)
	c.Header("Content-Disposition", `attachment; filename="submission-`+submission.SubmissionID+`.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// GetSubmissionReportPDF streams the paginated PDF export.
func GetSubmissionReportPDF(c *gin.Context) {
	submission, _, ok := loadSubmissionForReport(c)
	if !ok {
		return
	}

	pdfData, err := services.NewReportService().PDF(c.Request.Context(), submission)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="submission-`+submission.SubmissionID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfData)
}
