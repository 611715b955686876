package response

// Envelope is the uniform success wrapper returned by every API endpoint.
// The embedded StatusCode may differ from the transport status code.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// FailureEnvelope is the uniform error wrapper.
type FailureEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func New(statusCode int, data any, message string) *Envelope {
	return &Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// AppError carries an HTTP-classed status code alongside a user-facing
// message. Handlers return it; the delivery boundary renders it.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message}
}
