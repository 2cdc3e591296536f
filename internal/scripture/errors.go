package scripture

import "fmt"

// TransportError means the request did not complete with a usable
// response: the connection failed, or the API answered with a non-2xx
// status and no error payload.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("scripture API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch verse: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError carries the "error" field of an API response.
type APIError struct {
	Message    string
	StatusCode int
}

// Kind is the error code reported for API-side failures.
func (e *APIError) Kind() string {
	return "api_error"
}

func (e *APIError) Error() string {
	return "API Error: " + e.Message
}
