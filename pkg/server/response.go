package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidRequest    = "invalid_request"
	CodeConfiguration     = "configuration_error"
	CodeGateway           = "gateway_error"
	CodeMalformedResponse = "malformed_response"
	CodeAnalysisFailed    = "analysis_failed"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// RespondError aborts the request with an ErrorResponse.
func RespondError(c *gin.Context, status int, code string, detail string) {
	if detail == "" {
		detail = "unknown error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail, Code: code})
}

// RespondOK writes payload with status 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
