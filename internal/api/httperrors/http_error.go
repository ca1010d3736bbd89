package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Public error types, stable identifiers clients may match on.
const (
	PublicHTTPErrorTypeGeneric       = "generic"
	PublicHTTPErrorTypeEmptyBody     = "NON_EMPTY_BODY"
	PublicHTTPErrorTypeFundingFailed = "FUNDING_FAILED"
)

// HTTPError is the JSON error payload of every non-2xx response.
type HTTPError struct {
	Code     int    `json:"status"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	Internal error  `json:"-"`
}

func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

func NewHTTPErrorWithDetail(code int, errorType string, title string, detail string) *HTTPError {
	return &HTTPError{
		Code:   code,
		Type:   errorType,
		Title:  title,
		Detail: detail,
	}
}

// NewFromEcho converts an echo.HTTPError into the public error format.
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	title := http.StatusText(e.Code)
	if msg, ok := e.Message.(string); ok && msg != "" {
		title = msg
	}

	return &HTTPError{
		Code:     e.Code,
		Type:     strings.ReplaceAll(strings.ToLower(http.StatusText(e.Code)), " ", "_"),
		Title:    title,
		Internal: e.Internal,
	}
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

// WithInternal attaches an error that is logged but never sent to the client.
func (e *HTTPError) WithInternal(err error) *HTTPError {
	cp := *e
	cp.Internal = err

	return &cp
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}
