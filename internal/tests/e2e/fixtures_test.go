package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/http/middleware"
	"github.com/you/storefront/internal/infrastructure/auth"
	"github.com/you/storefront/internal/infrastructure/repositories"
)

// Client is a browser-like HTTP client with its own cookie jar
type Client struct {
	t    *testing.T
	base *url.URL
	http *http.Client
}

// Response is a decoded HTTP response
type Response struct {
	Status int
	Header http.Header
	Body   map[string]interface{}
}

// Data returns the "data" object of the body
func (r *Response) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

// NewClient creates a client with an empty cookie jar
func (s *TestSuite) NewClient(t *testing.T) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := url.Parse(s.Server.URL)
	require.NoError(t, err)
	return &Client{t: t, base: base, http: &http.Client{Jar: jar}}
}

// Do sends a JSON request and decodes the JSON reply
func (c *Client) Do(method, path string, body interface{}) *Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base.String()+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	out := &Response{Status: resp.StatusCode, Header: resp.Header}
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

// RequestCode asks for an OTP and returns the echoed code
func (c *Client) RequestCode(role domain.Role, phone string) string {
	c.t.Helper()
	resp := c.Do(http.MethodPost, "/auth/"+string(role)+"/otp/request", map[string]string{"phone": phone})
	require.Equal(c.t, http.StatusOK, resp.Status, resp.Body)
	code, _ := resp.Data()["code"].(string)
	require.Len(c.t, code, 6)
	return code
}

// Verify submits a code
func (c *Client) Verify(role domain.Role, phone, code string) *Response {
	c.t.Helper()
	return c.Do(http.MethodPost, "/auth/"+string(role)+"/otp/verify", map[string]string{"phone": phone, "code": code})
}

// SignIn runs the whole OTP flow and returns the signed-in actor id
func (c *Client) SignIn(role domain.Role, phone string) uint {
	c.t.Helper()
	resp := c.Verify(role, phone, c.RequestCode(role, phone))
	require.Equal(c.t, http.StatusOK, resp.Status, resp.Body)
	actor := resp.Data()["actor"].(map[string]interface{})
	return uint(actor["id"].(float64))
}

// SessionCookie returns the stored session cookie value for role, or ""
func (c *Client) SessionCookie(role domain.Role) string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == middleware.CookieName(role) {
			return ck.Value
		}
	}
	return ""
}

// SetSessionCookie plants a session cookie, as a replaying client would
func (c *Client) SetSessionCookie(role domain.Role, value string) {
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: middleware.CookieName(role), Value: value, Path: "/"}})
}

// CreateAdmin stores an admin with a bcrypt hash
func (s *TestSuite) CreateAdmin(t *testing.T, username, password string) *domain.Admin {
	t.Helper()
	hash, err := auth.NewPasswordServiceWithCost(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	admin := &domain.Admin{Username: username, PasswordHash: hash}
	require.NoError(t, repositories.NewAdminRepository(s.DB).Create(context.Background(), admin))
	return admin
}

// Count returns the number of rows of model
func (s *TestSuite) Count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB.Model(model).Count(&n).Error)
	return n
}
