package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse es el cuerpo de error de la API: {"error": {"code": ..., "message": ...}}.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess envuelve el payload en {"data": ...}.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendError aborta la petición con el error en formato estándar. El código
// sale del status: 404 -> "not_found".
func SendError(c *gin.Context, statusCode int, message string) {
	code := strings.ReplaceAll(strings.ToLower(http.StatusText(statusCode)), " ", "_")
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error": ErrorResponse{Code: code, Message: message},
	})
}

// --- Atajos ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendTooManyRequests(c *gin.Context, message string) {
	SendError(c, http.StatusTooManyRequests, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
