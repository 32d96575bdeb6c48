package app

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ceanlio/kuzamo/internal/modules/consent"
	"github.com/Ceanlio/kuzamo/internal/modules/health"
	"github.com/Ceanlio/kuzamo/internal/modules/subscription"
	"github.com/Ceanlio/kuzamo/internal/pkg/mail"
	"github.com/Ceanlio/kuzamo/internal/pkg/mxlookup"
	"github.com/Ceanlio/kuzamo/internal/pkg/ratelimit"
	"github.com/Ceanlio/kuzamo/internal/pkg/response"
	"github.com/Ceanlio/kuzamo/internal/pkg/token"
)

const (
	subscribeRateLimit  = 10
	subscribeRateWindow = 15 * time.Minute
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg

	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
	r.NoRoute(a.serveStatic)

	api := r.Group("/api")

	health.RegisterRoutes(api, a.kv)

	codec := token.NewCodec(cfg.JWTSecret)
	mailer := mail.New(mail.Config{
		ResendKey: cfg.Mail.ResendKey,
		FromName:  cfg.Mail.FromName,
		FromEmail: cfg.Mail.FromEmail,
		ReplyTo:   cfg.Mail.ReplyTo,
	})
	mx := mxlookup.New(cfg.DoHEndpoint)

	// Redis enforces the shared limit; the memory limiter covers windows
	// where Redis is unreachable.
	limiter := ratelimit.NewRedis(a.kv.Raw(), "kuzamo:rate:subscribe",
		subscribeRateLimit, subscribeRateWindow,
		ratelimit.NewMemory(subscribeRateLimit, subscribeRateWindow))

	subSvc := subscription.NewService(subscription.ServiceOptions{
		Store:         subscription.NewRedisStore(a.kv),
		Codec:         codec,
		Mailer:        mailer,
		MX:            mx,
		Limiter:       limiter,
		BaseURL:       cfg.BaseURL,
		ConfirmWindow: time.Duration(cfg.ExpiryHours) * time.Hour,
		Logger:        a.logger,
	})
	subscription.NewHandler(subSvc, a.logger).RegisterRoutes(api)

	consent.NewHandler(consent.NewRedisStore(a.kv), a.logger).RegisterRoutes(api)
}

// serveStatic serves the marketing pages from the configured static dir;
// unknown /api paths stay JSON 404s.
func (a *App) serveStatic(c *gin.Context) {
	p := c.Request.URL.Path
	if strings.HasPrefix(p, "/api/") || a.cfg.StaticDir == "" {
		response.NotFound(c)
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		response.NotFound(c)
		return
	}

	p = path.Clean("/" + p)
	if p == "/" {
		p = "/index.html"
	}
	full := filepath.Join(a.cfg.StaticDir, filepath.FromSlash(p))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		c.File(full)
		return
	}
	response.NotFound(c)
}
