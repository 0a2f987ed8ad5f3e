package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// ScanErrorResponse is the flat error shape of the public scan route.
type ScanErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId"`
}

func RespondScanError(c *gin.Context, status int, code, requestID string, err error) {
	msg := "scan failed"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ScanErrorResponse{
		Success:   false,
		Error:     msg,
		Code:      code,
		RequestID: requestID,
	})
}
