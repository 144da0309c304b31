package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"accana-api/middleware"
	"accana-api/models"
	"accana-api/utils"
)

// currentUser returns the user loaded by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// respondError translates a service error into an HTTP response. Internal
// failures are traced to the log and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
