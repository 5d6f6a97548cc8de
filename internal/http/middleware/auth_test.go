package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), testSecret)
	r := gin.New()
	r.GET("/predictions/:id", am.RequireAuth(), am.RequireSelf("id"), func(c *gin.Context) {
		if _, ok := ctxutil.ActorUserID(c.Request.Context()); !ok && c.GetString(contextRole) != RoleService {
			t.Errorf("user token must set the request actor")
		}
		c.Status(http.StatusOK)
	})

	self := uuid.New()
	other := uuid.New()
	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing token", "/predictions/" + self.String(), "", http.StatusUnauthorized},
		{"own data", "/predictions/" + self.String(), signToken(t, testSecret, self.String(), "", time.Hour), http.StatusOK},
		{"other user", "/predictions/" + other.String(), signToken(t, testSecret, self.String(), "", time.Hour), http.StatusForbidden},
		{"service role", "/predictions/" + other.String(), signToken(t, testSecret, "scheduler", RoleService, time.Hour), http.StatusOK},
		{"expired", "/predictions/" + self.String(), signToken(t, testSecret, self.String(), "", -time.Minute), http.StatusUnauthorized},
		{"wrong key", "/predictions/" + self.String(), signToken(t, "other-secret", self.String(), "", time.Hour), http.StatusUnauthorized},
		{"non-uuid subject", "/predictions/" + self.String(), signToken(t, testSecret, "ada", "", time.Hour), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: got=%d want=%d body=%s", tc.name, rec.Code, tc.want, rec.Body.String())
		}
	}
}
