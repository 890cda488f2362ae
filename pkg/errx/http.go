package errx

import "net/http"

// HTTPErrorResponse represents a standard HTTP error response
type HTTPErrorResponse struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Type       string         `json:"type"`
	Details    map[string]any `json:"details,omitempty"`
	StatusCode int            `json:"status_code"`
	RequestID  string         `json:"request_id,omitempty"`
}

// ToHTTPResponse converts an Error to an HTTPErrorResponse
func (e *Error) ToHTTPResponse() HTTPErrorResponse {
	return HTTPErrorResponse{
		Code:       e.Code,
		Message:    e.Message,
		Type:       string(e.Type),
		Details:    e.Details,
		StatusCode: e.HTTPStatus,
	}
}

// Response renders any error as an HTTPErrorResponse. Errors outside errx
// become a generic internal error without leaking their message.
func Response(err error) HTTPErrorResponse {
	if e, ok := As(err); ok {
		return e.ToHTTPResponse()
	}
	return HTTPErrorResponse{
		Code:       string(TypeInternal),
		Message:    "An unexpected error occurred",
		Type:       string(TypeInternal),
		StatusCode: http.StatusInternalServerError,
	}
}
