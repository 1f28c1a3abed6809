package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/middleware"
)

// performRequest runs one request through handler and returns the recorder
func performRequest(t *testing.T, method, path, route string, body interface{}, cookies []*http.Cookie, handlers ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Handle(method, route, handlers...)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// requireSession guards a test route with the gate's role
func requireSession(gate domain.RoleGate) gin.HandlerFunc {
	return middleware.NewSessionMW(map[domain.Role]domain.RoleGate{gate.Role(): gate}).Require(gate.Role())
}

func sessionCookie(role domain.Role, value string) *http.Cookie {
	return &http.Cookie{Name: middleware.CookieName(role), Value: value}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
