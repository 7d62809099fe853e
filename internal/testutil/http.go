package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// HTTPTestHelper provides utilities for HTTP handler testing
type HTTPTestHelper struct {
	t      *testing.T
	router *gin.Engine
}

// NewHTTPTestHelper creates a new HTTP test helper with a bare gin router
func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	gin.SetMode(gin.TestMode)
	return &HTTPTestHelper{
		t:      t,
		router: gin.New(),
	}
}

// Router returns the underlying gin router for route registration
func (h *HTTPTestHelper) Router() *gin.Engine {
	return h.router
}

// PostJSON performs a POST request with a JSON payload
func (h *HTTPTestHelper) PostJSON(url string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(h.t, err, "Failed to marshal JSON payload")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	require.NoError(h.t, err, "Failed to create HTTP request")

	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)

	return recorder
}

// GetJSON performs a GET request expecting a JSON response
func (h *HTTPTestHelper) GetJSON(url string) *httptest.ResponseRecorder {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(h.t, err, "Failed to create HTTP request")

	req.Header.Set("Accept", "application/json")

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)

	return recorder
}

// AssertJSONResponse asserts the status code and unmarshals the JSON body
func (h *HTTPTestHelper) AssertJSONResponse(recorder *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code")

	err := json.Unmarshal(recorder.Body.Bytes(), target)
	require.NoError(h.t, err, "Failed to unmarshal JSON response")
}

// AssertErrorResponse asserts the status code and that the body carries an
// error field containing the given substring
func (h *HTTPTestHelper) AssertErrorResponse(recorder *httptest.ResponseRecorder, expectedStatus int, expectedErrorSubstring string) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code")

	var body map[string]interface{}
	require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), &body))
	message, _ := body["error"].(string)
	require.Contains(h.t, message, expectedErrorSubstring)
}
