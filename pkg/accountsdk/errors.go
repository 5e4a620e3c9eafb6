package accountsdk

import "fmt"

// APIError is a non-2xx response decoded into a Go error. Code matches the
// server's machine-readable error field.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Violations  []string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("accountsdk: %s (%d): %s", e.Code, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("accountsdk: %s (%d)", e.Code, e.StatusCode)
}
