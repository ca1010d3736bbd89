package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/api/httperrors"
)

type GenericPayload map[string]any

// PerformRequest JSON encodes body (if non-nil) and serves the request through the server's echo instance.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body GenericPayload, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	if body == nil {
		return PerformRequestWithRawBody(t, s, method, path, nil, headers)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to serialize request body: %v", err)
	}

	if headers == nil {
		headers = http.Header{}
	}
	headers.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return PerformRequestWithRawBody(t, s, method, path, bytes.NewReader(raw), headers)
}

func PerformRequestWithRawBody(t *testing.T, s *api.Server, method string, path string, body io.Reader, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header[k] = v
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// RequireHTTPError asserts res carries the JSON payload of httpErr.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, httpErr *httperrors.HTTPError) {
	t.Helper()

	require.Equal(t, httpErr.Code, res.Result().StatusCode)

	var response httperrors.HTTPError
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
	require.Equal(t, httpErr.Code, response.Code)
	require.Equal(t, httpErr.Type, response.Type)
	require.Equal(t, httpErr.Title, response.Title)
}
