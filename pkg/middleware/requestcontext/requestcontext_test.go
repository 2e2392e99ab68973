package requestcontext

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name     string
		config   Config
		headers  map[string]string
		expected string
	}{
		{
			name: "direct",
		},
		{
			name:     "first forwarded ip",
			headers:  map[string]string{fiber.HeaderXForwardedFor: "1.1.1.1, 10.0.0.1"},
			expected: "1.1.1.1",
		},
		{
			name:     "skip trusted proxies",
			config:   Config{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			headers:  map[string]string{fiber.HeaderXForwardedFor: "6.6.6.6, 1.1.1.1, 10.0.0.2, 10.0.0.1"},
			expected: "1.1.1.1",
		},
		{
			name:     "trusted header",
			config:   Config{TrustedHeader: "CF-Connecting-IP"},
			headers:  map[string]string{"CF-Connecting-IP": "2.2.2.2", fiber.HeaderXForwardedFor: "1.1.1.1"},
			expected: "2.2.2.2",
		},
		{
			name:     "invalid trusted header",
			config:   Config{TrustedHeader: "CF-Connecting-IP"},
			headers:  map[string]string{"CF-Connecting-IP": "spoofed", fiber.HeaderXForwardedFor: "1.1.1.1"},
			expected: "1.1.1.1",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler, err := New(tc.config)
			require.NoError(t, err)

			var clientIP, requestId string
			app := fiber.New()
			app.Use(handler)
			app.Get("/", func(c *fiber.Ctx) error {
				clientIP = GetClientIP(c.UserContext())
				requestId = GetRequestId(c.UserContext())
				return nil
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			if tc.expected == "" {
				assert.NotEmpty(t, clientIP)
			} else {
				assert.Equal(t, tc.expected, clientIP)
			}
			assert.NotEmpty(t, requestId)
			assert.Equal(t, requestId, resp.Header.Get(fiber.HeaderXRequestID))
		})
	}
}

func TestNewInvalidProxy(t *testing.T) {
	_, err := New(Config{TrustedProxiesIP: []string{"not-a-cidr"}})
	assert.Error(t, err)
}
