package api

import (
	"github.com/gin-gonic/gin"
)

// All endpoints answer with the same envelope: exactly one of data and
// error is non-null.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data, "error": nil})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"data": nil, "error": message})
}

func respondValidation(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, gin.H{"data": nil, "error": message, "details": details})
}
