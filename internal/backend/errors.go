package backend

import "fmt"

// StatusError reports a non-200 response from an endpoint.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// ShapeError reports a 200 response whose body is not what the endpoint
// promises.
type ShapeError struct {
	URL string
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.URL, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }
