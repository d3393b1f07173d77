package main

import (
	"fmt"
	"net/http"
)

// ConfigurationError means the run cannot start: credentials are missing,
// still set to placeholders, or the user declined to create a config file.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// RemoteRequestError is returned for any non-2xx response from the API.
type RemoteRequestError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *RemoteRequestError) Error() string {
	msg := fmt.Sprintf("GET %s failed: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += " body=" + e.Body
	}
	return msg
}
