package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/services"
)

// Uploads larger than this are rejected before extraction.
const maxUploadBytes = 20 << 20

type AnalyzeRequest struct {
	Content  string   `json:"content" binding:"required"`
	BodyKeys []string `json:"body_keys" binding:"required"`
	Language string   `json:"language"`
}

// AnalyzeContent scores program content against the selected accreditation
// bodies. Partial failures surface as warnings next to the successful
// groups; the call only fails outright when every body fails.
func AnalyzeContent(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewAnalysisService(services.NewAIClientFromEnv())
	groups, warnings, err := svc.Analyze(c.Request.Context(), req.Content, req.BodyKeys, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"results": groups,
	}
	if len(warnings) > 0 {
		response["warnings"] = warnings
	}
	c.JSON(http.StatusOK, response)
}

// GetAccreditationBodies exposes the static standards catalog.
func GetAccreditationBodies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bodies":  services.AllBodies(),
	})
}

// ExtractFile converts an uploaded document (txt, pdf, docx) to plain text.
func ExtractFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file upload is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 20MB upload limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read uploaded file"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	text, err := services.ExtractText(data, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": fileHeader.Filename,
		"content":  text,
	})
}
