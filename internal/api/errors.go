package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError represents a rejection from the stocktracker API. Message is the
// server-supplied error text; it is empty when the response body carried no
// recognizable error shape, which callers must map to their own fallback
// wording. Every non-2xx response is classified into this type at the
// client boundary so store logic never inspects raw bodies.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, msg)
}

// IsNotFound returns true if the error is a 404 Not Found.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 Unauthorized.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// errorResponse covers the error bodies the server produces: a plain
// {"error": "..."} object or a bean-validation style {"errors": [...]}
// array with per-field messages.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Errors  []struct {
		Field          string `json:"field"`
		DefaultMessage string `json:"defaultMessage"`
	} `json:"errors"`
}

// CheckResponse checks the API response for errors. If the status code
// indicates an error (>= 400), it parses the error body and returns an
// APIError. Otherwise it returns nil.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		// Body is not JSON, leave the message empty
		return apiErr
	}

	switch {
	case errResp.Error != "":
		apiErr.Message = errResp.Error
	case errResp.Message != "":
		apiErr.Message = errResp.Message
	case len(errResp.Errors) > 0:
		msgs := make([]string, 0, len(errResp.Errors))
		for _, e := range errResp.Errors {
			if e.DefaultMessage != "" {
				msgs = append(msgs, e.DefaultMessage)
			}
		}
		apiErr.Message = strings.Join(msgs, "; ")
	}

	return apiErr
}

// DecodeJSON decodes a JSON response body into the given target.
func DecodeJSON(resp *http.Response, target any) error {
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
