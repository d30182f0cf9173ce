package facade

import "net/http"

// Response is the envelope every operation resolves to, success and
// error alike. Values is empty on pure errors; Count mirrors
// len(Values).
type Response struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Count   int           `json:"count"`
	Values  []interface{} `json:"values"`
}

// success builds an OK response carrying zero or more result values
func success(message string, values ...interface{}) *Response {
	if values == nil {
		values = []interface{}{}
	}
	return &Response{
		Status:  http.StatusOK,
		Message: message,
		Count:   len(values),
		Values:  values,
	}
}

// notFound builds a not-found response carrying the error message
func notFound(message string) *Response {
	return &Response{
		Status:  http.StatusNotFound,
		Message: message,
		Values:  []interface{}{},
	}
}

// badRequest builds a validation failure response
func badRequest(message string) *Response {
	return &Response{
		Status:  http.StatusBadRequest,
		Message: message,
		Values:  []interface{}{},
	}
}

// internalError builds a generic error response
func internalError(message string) *Response {
	return &Response{
		Status:  http.StatusInternalServerError,
		Message: message,
		Values:  []interface{}{},
	}
}

// ErrorResponse builds an error envelope for failures detected outside
// the facade (transport-level input problems)
func ErrorResponse(status int, message string) *Response {
	return &Response{
		Status:  status,
		Message: message,
		Values:  []interface{}{},
	}
}
