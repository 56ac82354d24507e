package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupRouter_RegistersSurfaces(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registered := make(map[string]bool)
	for _, route := range SetupRouter().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /auth/login",
		"GET /api/availability",
		"GET /api/bookings",
		"GET /api/bookings/minimum",
		"POST /api/bookings",
		"GET /api/bookings/status",
		"GET /api/bookings/:id/cancellation-fee",
		"POST /api/bookings/:id/cancel",
		"POST /api/bookings/:id/withdraw",
		"GET /api/referrals/check",
		"POST /api/admin/availability",
		"POST /api/admin/bookings/:id/accept",
		"POST /api/admin/bookings/:id/decline",
		"POST /api/admin/bookings/:id/cancel",
		"GET /api/admin/dashboard",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestAllowedOrigins_Default(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "")
	assert.Equal(t, []string{"http://localhost:3000"}, allowedOrigins())

	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, allowedOrigins())
}
