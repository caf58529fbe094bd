package middleware

import (
	"MenuScout/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware handles errors pushed onto the gin context globally
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check whether a handler recorded an error on the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			// CustomError carries its own status code
			if customErr, ok := err.(*utils.CustomError); ok {
				utils.ErrorResponse(c, customErr.StatusCode, customErr.Message)
				return
			}

			// Anything else is an Internal Server Error
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}
