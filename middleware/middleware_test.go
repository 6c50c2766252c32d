package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescast/models"
	"salescast/utils"
)

var testSecret = []byte("test-secret")

// Helper to create an app with a pre-local middleware that sets userRole
func makeAppWithRole(role string, check fiber.Handler) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userRole", role)
		return c.Next()
	})

	app.Use(check)

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(200).SendString("ok")
	})

	return app
}

func signToken(t *testing.T, secret []byte, role string, expires time.Time) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: "u-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func authApp() *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userRole").(string))
	})
	return app
}

func TestAdminRequired_AllowsAdmin(t *testing.T) {
	app := makeAppWithRole(utils.RoleAdmin, AdminRequired)
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAdminRequired_DeniesAnalyst(t *testing.T) {
	app := makeAppWithRole(utils.RoleAnalyst, AdminRequired)
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestCheckRole_AnyOf(t *testing.T) {
	app := makeAppWithRole(utils.RoleAnalyst, CheckRole(utils.RoleAdmin, utils.RoleAnalyst))
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, utils.RoleAnalyst, time.Now().Add(time.Hour)))

	resp, err := authApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, utils.RoleAnalyst, string(body))
}

func TestAuthenticate_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"no bearer":      signToken(t, testSecret, utils.RoleAdmin, time.Now().Add(time.Hour)),
		"wrong secret":   "Bearer " + signToken(t, []byte("other"), utils.RoleAdmin, time.Now().Add(time.Hour)),
		"expired":        "Bearer " + signToken(t, testSecret, utils.RoleAdmin, time.Now().Add(-time.Hour)),
		"garbage":        "Bearer not-a-jwt",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := authApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, 401, resp.StatusCode)
		})
	}
}

func TestMetricsRecordsRequests(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/metrics", m.Exposition())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	_, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	m.ObservePipeline("forecast", 20*time.Millisecond)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/ping",status="200"} 1`)
	assert.Contains(t, string(body), `forecast_pipeline_duration_seconds_count{operation="forecast"} 1`)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/teapot", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
