package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heritage_backend/internal/config"
	"heritage_backend/internal/model"
	"heritage_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func testAuthConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "middleware-test-secret"}}
}

func issueToken(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	user := &model.User{Username: "tester", Role: role}
	user.ID = 42
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// echoUser 把注入的身份回写到响应里，便于断言
func echoUser(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, "user:%d", claims.UserID)
}

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg), echoUser)
	router.GET("/optional", TryAuthMiddleware(cfg), echoUser)
	router.GET("/admin", AuthMiddleware(cfg), RoleMiddleware(model.RoleAdmin), echoUser)
	return router
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testAuthConfig()
	router := newAuthRouter(cfg)

	if w := doRequest(router, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}
	if w := doRequest(router, "/protected", "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}

	w := doRequest(router, "/protected", issueToken(t, cfg, model.RoleUser))
	if w.Code != http.StatusOK || w.Body.String() != "user:42" {
		t.Errorf("valid token: status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsForeignSecret(t *testing.T) {
	cfg := testAuthConfig()
	router := newAuthRouter(cfg)

	foreign := &config.Config{JWT: config.JWTConfig{Secret: "some-other-secret"}}
	if w := doRequest(router, "/protected", issueToken(t, foreign, model.RoleUser)); w.Code != http.StatusUnauthorized {
		t.Errorf("foreign token: status = %d, want 401", w.Code)
	}
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := testAuthConfig()
	router := newAuthRouter(cfg)

	// 匿名照常放行
	w := doRequest(router, "/optional", "")
	if w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("anonymous: status = %d, body = %q", w.Code, w.Body.String())
	}

	// 无效令牌不挡请求，也不注入身份
	w = doRequest(router, "/optional", "garbage")
	if w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("bad token: status = %d, body = %q", w.Code, w.Body.String())
	}

	w = doRequest(router, "/optional", issueToken(t, cfg, model.RoleUser))
	if w.Code != http.StatusOK || w.Body.String() != "user:42" {
		t.Errorf("valid token: status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testAuthConfig()
	router := newAuthRouter(cfg)

	if w := doRequest(router, "/admin", issueToken(t, cfg, model.RoleUser)); w.Code != http.StatusForbidden {
		t.Errorf("user role: status = %d, want 403", w.Code)
	}
	if w := doRequest(router, "/admin", issueToken(t, cfg, model.RoleAdmin)); w.Code != http.StatusOK {
		t.Errorf("admin role: status = %d, want 200", w.Code)
	}
}
