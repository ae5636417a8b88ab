package search

import (
	apphttp "delivery_admin_backend/internal/http"
	"delivery_admin_backend/internal/search/cache"
	"delivery_admin_backend/internal/search/handler"
	"delivery_admin_backend/internal/search/service"
	"delivery_admin_backend/platform/config"
	"delivery_admin_backend/platform/httpkit"
	"delivery_admin_backend/platform/logger"

	"golang.org/x/time/rate"
)

const adminRole = "admin"

type Module struct {
	handler *handler.Handler
	service *service.Service
	limiter *httpkit.IPRateLimiter
	log     *logger.Logger
}

func NewModule(snapshots service.Snapshots, c cache.Cache, cfg config.SearchConfig, log *logger.Logger) *Module {
	svc := service.New(snapshots, c, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		limiter: httpkit.NewIPRateLimiter(rate.Limit(cfg.GetSearchRateLimitRPS()), cfg.GetSearchRateLimitBurst(), log),
		log:     log,
	}
}

// Service exposes the module service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	group.Use(m.limiter.RateLimit())
	m.handler.RegisterRoutes(group)

	// Reload and publish need an admin identity, so they stay unmounted
	// while auth is disabled.
	if ctx.Config.IsAuthEnabled() {
		admin := group.Group("")
		admin.Use(httpkit.RequireRole(ctx.Config, adminRole))
		m.handler.RegisterAdminRoutes(admin)
	} else {
		m.log.Warn("search admin routes disabled", "reason", "JWT_ACCESS_SECRET not set")
	}

	// Unversioned alias of the read endpoint.
	alias := ctx.Engine.Group("/search", ctx.AuthMiddleware, m.limiter.RateLimit())
	m.handler.RegisterRoutes(alias)
}

var _ apphttp.Module = (*Module)(nil)
