// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"
	"errors"

	"delivery_admin_backend/platform/config"
	"delivery_admin_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks is ready only when every check passes.
type HealthChecks []HealthChecker

// Ping runs every check and joins the failures.
func (hs HealthChecks) Ping(ctx context.Context) error {
	var errs []error
	for _, h := range hs {
		if h == nil {
			continue
		}
		if err := h.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (corpus loaded, DB ping).
	Health HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
