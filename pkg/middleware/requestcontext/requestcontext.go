// Package requestcontext attaches the request id and the client IP to the user context of
// every request, and tags the context logger with them.
package requestcontext

import (
	"context"
	"net/netip"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/samber/lo"
)

type Config struct {
	// TrustedHeader is a header holding the client IP set by a trusted proxy (e.g. CF-Connecting-IP).
	// It takes priority over X-Forwarded-For when it holds a valid IP.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// TrustedProxiesIP are the CIDRs of the proxies in front of the server. The client IP is the
	// last X-Forwarded-For entry outside of them.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`
}

type (
	requestIdKey struct{}
	clientIPKey  struct{}
)

func New(config Config) (fiber.Handler, error) {
	trustedProxies := make([]netip.Prefix, 0, len(config.TrustedProxiesIP))
	for _, cidr := range config.TrustedProxiesIP {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy range %q", cidr)
		}
		trustedProxies = append(trustedProxies, prefix)
	}

	return func(c *fiber.Ctx) error {
		requestId := requestID(c)
		clientIP := clientIP(c, config.TrustedHeader, trustedProxies)

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, requestIdKey{}, requestId)
		ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
		ctx = logger.WithContext(ctx, slogx.String("requestId", requestId))
		c.SetUserContext(ctx)
		return c.Next()
	}, nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
		return id
	}
	id := c.Get(requestid.ConfigDefault.Header, fiberutils.UUID())
	c.Set(requestid.ConfigDefault.Header, id)
	c.Locals(requestid.ConfigDefault.ContextKey, id)
	return id
}

func clientIP(c *fiber.Ctx, trustedHeader string, trustedProxies []netip.Prefix) string {
	if trustedHeader != "" {
		if addr, err := netip.ParseAddr(c.Get(trustedHeader)); err == nil {
			return addr.String()
		}
	}

	forwarded := c.IPs()
	if len(forwarded) == 0 {
		return c.IP()
	}
	if len(trustedProxies) > 0 {
		for i := len(forwarded) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(forwarded[i])
			if err != nil {
				break
			}
			if !lo.ContainsBy(trustedProxies, func(p netip.Prefix) bool { return p.Contains(addr) }) {
				return addr.String()
			}
		}
	}
	return forwarded[0]
}

// GetRequestId returns the request id, or "" outside of a request context.
func GetRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// GetClientIP returns the client IP, or "" outside of a request context.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
