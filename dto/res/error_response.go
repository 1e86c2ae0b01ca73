package res

import "github.com/gofiber/fiber/v2/utils"

// ErrorResponse is the body of every failed REST request.
type ErrorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
}

// NewErrorResponse fills Status with the reason phrase of code.
func NewErrorResponse(code int, message string) ErrorResponse {
	status := utils.StatusMessage(code)
	if status == "" {
		status = "Error"
	}
	return ErrorResponse{Status: status, StatusCode: code, Error: message}
}
