package dto

// ErrorResponse is the body of every rejected request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
