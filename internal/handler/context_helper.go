package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
)

// operatorSubject names the operator behind the request. It is empty when
// operator auth is disabled and no token was checked.
func operatorSubject(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return ""
	}
	if claims, ok := value.(*models.JWTClaims); ok {
		return claims.Subject
	}
	return ""
}
