package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lipish/corexia/internal/platform/ctxutil"
	"github.com/lipish/corexia/internal/platform/logger"
	"github.com/lipish/corexia/internal/services"
)

func newAuthRouter(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authSvc := services.NewAuthService(logger.Nop(), nil, "mw-secret", time.Hour)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), authSvc).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Email)
	})
	return r, authSvc
}

func TestRequireAuth(t *testing.T) {
	r, authSvc := newAuthRouter(t)
	res, err := authSvc.Login(context.Background(), "ada@example.com", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + res.Token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusOK},
		{"lowercase scheme", "bearer " + res.Token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: want=%d got=%d body=%s", tc.name, tc.want, rec.Code, rec.Body.String())
		}
		if tc.want == http.StatusOK && rec.Body.String() != "ada@example.com" {
			t.Fatalf("%s: unexpected identity %q", tc.name, rec.Body.String())
		}
	}
}
