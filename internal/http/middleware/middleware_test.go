package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/infrastructure/auth"
	"github.com/you/storefront/internal/mocks"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
}

func (r *recordingAudit) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// createTestEnforcer creates an in-memory enforcer with the default route policies
func createTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	m, err := model.NewModelFromString(auth.DefaultModel)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	_, err = e.AddPolicies(auth.DefaultPolicies)
	require.NoError(t, err)
	return e
}

func sessionCookie(role domain.Role, value string) *http.Cookie {
	return &http.Cookie{Name: CookieName(role), Value: value}
}

func TestSessionMW_Require(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		route          domain.Role
		cookie         *http.Cookie
		expectedStatus int
		expectedActor  uint
	}{
		{
			name:           "valid seller session",
			route:          domain.RoleSeller,
			cookie:         sessionCookie(domain.RoleSeller, "7.token"),
			expectedStatus: http.StatusOK,
			expectedActor:  7,
		},
		{
			name:           "missing cookie",
			route:          domain.RoleSeller,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed cookie",
			route:          domain.RoleSeller,
			cookie:         sessionCookie(domain.RoleSeller, "token-without-id"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong token",
			route:          domain.RoleSeller,
			cookie:         sessionCookie(domain.RoleSeller, "7.forged"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "buyer cookie on seller route",
			route:          domain.RoleSeller,
			cookie:         sessionCookie(domain.RoleBuyer, "7.token"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "role without gate",
			route:          domain.RoleAdmin,
			cookie:         sessionCookie(domain.RoleAdmin, "7.token"),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewSessionMW(map[domain.Role]domain.RoleGate{
				domain.RoleBuyer:  mocks.NewMockRoleGate(domain.RoleBuyer),
				domain.RoleSeller: mocks.NewMockRoleGate(domain.RoleSeller),
			})

			router := gin.New()
			router.GET("/private", mw.Require(tt.route), func(c *gin.Context) {
				actor, ok := ActorFrom(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
			})

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(tt.expectedActor), body["id"])
				assert.Equal(t, string(tt.route), body["role"])
			} else {
				// every failure looks the same
				assert.Equal(t, map[string]interface{}{"error": "unauthorized"}, body)
			}
		})
	}
}

func TestSessionMW_PassesDecodedCredential(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *domain.ClientCredential
	gate := mocks.NewMockRoleGate(domain.RoleAdmin)
	gate.ValidateFunc = func(ctx context.Context, cred *domain.ClientCredential) domain.AuthResult {
		seen = cred
		return domain.Unauthenticated
	}

	router := gin.New()
	router.GET("/admin", NewSessionMW(map[domain.Role]domain.RoleGate{domain.RoleAdmin: gate}).Require(domain.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(sessionCookie(domain.RoleAdmin, "3.abc"))
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, domain.RoleAdmin, seen.Role)
	assert.Equal(t, uint(3), seen.ActorID)
	assert.Equal(t, "abc", seen.Token)
}

func TestCasbinMW_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		actor          *domain.Actor
		method         string
		route          string
		target         string
		expectedStatus int
		expectDenied   bool
	}{
		{
			name:           "seller reads own shop",
			actor:          &domain.Actor{ID: 1, Role: domain.RoleSeller},
			method:         http.MethodGet,
			route:          "/seller/shop",
			target:         "/seller/shop",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "buyer cannot touch seller routes",
			actor:          &domain.Actor{ID: 1, Role: domain.RoleBuyer},
			method:         http.MethodDelete,
			route:          "/seller/account",
			target:         "/seller/account",
			expectedStatus: http.StatusForbidden,
			expectDenied:   true,
		},
		{
			name:           "admin route pattern matches parameterised path",
			actor:          &domain.Actor{ID: 1, Role: domain.RoleAdmin},
			method:         http.MethodDelete,
			route:          "/admin/sellers/:id",
			target:         "/admin/sellers/42",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "seller cannot reach admin",
			actor:          &domain.Actor{ID: 1, Role: domain.RoleSeller},
			method:         http.MethodGet,
			route:          "/admin/sellers",
			target:         "/admin/sellers",
			expectedStatus: http.StatusForbidden,
			expectDenied:   true,
		},
		{
			name:           "no actor in context",
			method:         http.MethodGet,
			route:          "/seller/shop",
			target:         "/seller/shop",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &recordingAudit{}
			mw := NewCasbinMW(createTestEnforcer(t), audit)

			router := gin.New()
			router.Handle(tt.method, tt.route, func(c *gin.Context) {
				if tt.actor != nil {
					c.Set(actorKey, tt.actor)
				}
				c.Next()
			}, mw.Enforce(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectDenied {
				require.Len(t, audit.events, 1)
				assert.Equal(t, domain.AccessDeniedEvent, audit.events[0].EventType)
				assert.Equal(t, tt.route, audit.events[0].Metadata["path"])
			} else {
				assert.Empty(t, audit.events)
			}
		})
	}
}

func TestCasbinMW_EnforcerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return false, errors.New("policy table unavailable")
	}

	router := gin.New()
	router.GET("/seller/shop", func(c *gin.Context) {
		c.Set(actorKey, &domain.Actor{ID: 1, Role: domain.RoleSeller})
	}, NewCasbinMW(enforcer, &recordingAudit{}).Enforce(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/seller/shop", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	base := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestLogger(base))
	router.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})

	t.Run("generates an id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		for _, line := range lines {
			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(line, &entry))
			assert.Equal(t, id, entry["request_id"])
		}

		var last map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[1], &last))
		assert.Equal(t, float64(http.StatusNoContent), last["status"])
		assert.Equal(t, "/ping", last["path"])
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces a garbage id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "not-an-id\nforged")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.NotEqual(t, "not-an-id\nforged", w.Header().Get(RequestIDHeader))
	})
}
