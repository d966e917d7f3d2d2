package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkovalenko/todohub/internal/auth"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	return f.claims, f.err
}

func gateRouter(v TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(NewAuthMiddleware(v).RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		id, _ := UserIDFromContext(c)
		email, _ := EmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": id, "email": email})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifier   *fakeVerifier
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &fakeVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			verifier:   &fakeVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer with empty token",
			authHeader: "Bearer ",
			verifier:   &fakeVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verification fails",
			authHeader: "Bearer bad-token",
			verifier:   &fakeVerifier{err: errors.New("boom")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifier:   &fakeVerifier{claims: &auth.Claims{UserID: "u1", Email: "a@x.com"}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := gateRouter(tc.verifier)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status: got %d want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus == http.StatusOK {
				body := w.Body.String()
				if !strings.Contains(body, `"userId":"u1"`) {
					t.Fatalf("identity not attached to context: %s", body)
				}
			}
		})
	}
}
