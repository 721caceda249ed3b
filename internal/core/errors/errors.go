package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidQueryError   = "invalid_query"
	HttpReportNotFoundError = "report_not_found"
	HttpUpstreamError       = "upstream_unavailable"
)

// ErrorResponse is the error response body for report API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// New builds an ErrorResponse without details.
func New(errorType, message string) ErrorResponse {
	return ErrorResponse{ErrorType: errorType, Message: message}
}
