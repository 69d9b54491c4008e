package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appAuth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	appControllers "github.com/zakiByline/remui-kids-sub019/internal/app/controllers"
	"github.com/zakiByline/remui-kids-sub019/internal/config"
	appMiddleware "github.com/zakiByline/remui-kids-sub019/internal/middleware"
	pkgAuth "github.com/zakiByline/remui-kids-sub019/internal/pkg/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/metrics"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

// routerOnlyDeps wires the HTTP layer without services; only unauthenticated paths are exercised
func routerOnlyDeps() *Dependencies {
	lgr := zerolog.Nop()
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "remui-kids"})
	hub := websocket.NewHub(lgr)
	return &Dependencies{
		AuthController:            appControllers.NewAuthController(nil, lgr),
		CompanyController:         appControllers.NewCompanyController(nil),
		AnalyticsController:       appControllers.NewAnalyticsController(nil),
		LicenseController:         appControllers.NewLicenseController(nil, lgr),
		EnrollmentController:      appControllers.NewEnrollmentController(nil, lgr),
		DashboardAccessController: appControllers.NewDashboardAccessController(nil),
		TrainingRuleController:    appControllers.NewTrainingRuleController(nil, lgr),
		AuthMiddleware:            appMiddleware.NewAuthMiddleware(jwtService, appAuth.NewAuthorizationService(nil)),
		JWTService:                jwtService,
		Hub:                       hub,
		WSHandler:                 websocket.NewHandler(hub, nil, lgr),
		Metrics:                   metrics.New(),
		Logger:                    lgr,
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Server.AllowedOrigins = "https://school.example"
	return cfg
}

func TestSetupRouter(t *testing.T) {
	router := SetupRouter(testConfig(), routerOnlyDeps(), zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(appMiddleware.RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/licenses", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `remui_kids_http_requests_total{method="GET",route="/api/v1/licenses",status="401"} 1`)
}

func TestSetupRouter_CORS(t *testing.T) {
	router := SetupRouter(testConfig(), routerOnlyDeps(), zerolog.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/licenses", nil)
	req.Header.Set("Origin", "https://school.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://school.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsConfig_Wildcard(t *testing.T) {
	c := corsConfig([]string{"https://a.example", "*"})
	assert.True(t, c.AllowAllOrigins)
	assert.False(t, c.AllowCredentials)
	assert.Empty(t, c.AllowOrigins)

	c = corsConfig([]string{"https://a.example"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example"}, c.AllowOrigins)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("REMUI_CONFIG", "/etc/remui/config.yaml")
	assert.Equal(t, "/etc/remui/config.yaml", ConfigPath())
}
