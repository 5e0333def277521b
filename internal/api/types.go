package api

// ErrorResponse is the body of every 4xx and 5xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse carries a plain sentence in JSON mode, such as the
// no-data notice.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error codes.
const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeInvalidDate      = "INVALID_DATE"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeFormatError      = "FORMAT_ERROR"
	CodeNotReady         = "NOT_READY"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeTimeout          = "TIMEOUT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Format selects how post rows are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// IndexMessage is served at the root path.
const IndexMessage = "This is the index of the sentiment analysis api. Fire away with your request!"
