package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabbirahmed/eventhub-backend/internal/apperror"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError renders a typed service error, mapping its kind to the
// HTTP status. Services never pick status codes themselves.
func RespondWithAppError(c *gin.Context, err error) {
	RespondWithError(c, apperror.StatusCode(err), err.Error())
}
