package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "quota_exceeded")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// error response for rejected metered actions
type QuotaErrorResponse struct {
	ErrorResponse
	Resource string `json:"resource"` // "image" or "video"
	Limit    int    `json:"limit"`
}

type ErrorInfo struct {
	category  string
	sanitized string
}
