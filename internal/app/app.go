// Package app wires repositories, services, handlers and the router.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/email"
	adminhandler "github.com/bloodlink/bloodlink-api/internal/handler/admin"
	authhandler "github.com/bloodlink/bloodlink-api/internal/handler/auth"
	donorhandler "github.com/bloodlink/bloodlink-api/internal/handler/donor"
	"github.com/bloodlink/bloodlink-api/internal/handler/health"
	notificationhandler "github.com/bloodlink/bloodlink-api/internal/handler/notification"
	organizerhandler "github.com/bloodlink/bloodlink-api/internal/handler/organizer"
	promhandler "github.com/bloodlink/bloodlink-api/internal/handler/prometheus"
	staffhandler "github.com/bloodlink/bloodlink-api/internal/handler/staff"
	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/router"
	"github.com/bloodlink/bloodlink-api/internal/service/account"
	authservice "github.com/bloodlink/bloodlink-api/internal/service/auth"
	donorservice "github.com/bloodlink/bloodlink-api/internal/service/donor"
	eventservice "github.com/bloodlink/bloodlink-api/internal/service/event"
	"github.com/bloodlink/bloodlink-api/internal/service/inventory"
	"github.com/bloodlink/bloodlink-api/internal/service/matching"
	"github.com/bloodlink/bloodlink-api/internal/service/notification"
	"github.com/bloodlink/bloodlink-api/internal/service/report"
	"github.com/bloodlink/bloodlink-api/internal/service/request"
	"github.com/bloodlink/bloodlink-api/internal/service/summary"
	"github.com/bloodlink/bloodlink-api/internal/service/user"
	"github.com/bloodlink/bloodlink-api/pkg/auth"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
	"github.com/bloodlink/bloodlink-api/pkg/security"
	"github.com/bloodlink/bloodlink-api/pkg/validator"
)

type Services struct {
	Accounts      *account.Service
	Auth          *authservice.Service
	Users         *user.Service
	Donors        *donorservice.Service
	Inventory     *inventory.Service
	Matching      *matching.Service
	Notifications *notification.Service
	Requests      *request.Service
	Summary       *summary.Service
	Events        *eventservice.Service
	Reports       *report.Service
}

// Deps are the external resources the services run on.
type Deps struct {
	Repos     *repository.Store
	Publisher messaging.Publisher
	Mailer    email.Service
	Metrics   *metrics.Metrics
}

// NewServices builds every domain service from cfg and deps.
func NewServices(cfg *config.Config, deps Deps) (*Services, error) {
	cipher, err := security.NewFieldCipher(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build field cipher: %w", err)
	}
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())

	mailer := deps.Mailer
	if mailer == nil {
		mailer = email.NewService(cfg.SMTP)
	}

	r := deps.Repos
	accounts := account.NewService(r.Users, hasher, cipher)
	notifications := notification.NewService(r.Notifications, r.Users, deps.Publisher, cfg.Notification.Channel, deps.Metrics)
	matcher := matching.NewService(r.Donors, notifications, deps.Metrics)
	stock := inventory.NewService(r.Inventory, inventory.Options{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		Publisher:         deps.Publisher,
		LowStockChannel:   cfg.Notification.LowStockChannel,
		Metrics:           deps.Metrics,
	})
	events := eventservice.NewService(r.Events, r.Registrations, r.Donors)

	return &Services{
		Accounts:      accounts,
		Auth:          authservice.NewService(r.Users, accounts, hasher, tokens),
		Users:         user.NewService(r.Users, accounts, mailer),
		Donors:        donorservice.NewService(donorservice.Repositories{Donors: r.Donors, Events: r.Events, Registrations: r.Registrations, Notifications: r.Notifications}, accounts, mailer, cipher),
		Inventory:     stock,
		Matching:      matcher,
		Notifications: notifications,
		Requests:      request.NewService(r.Requests, r.Staff, r.Users, matcher, deps.Metrics),
		Summary:       summary.NewService(r.Users, r.Donors, r.Staff, r.Requests, r.Inventory, stock),
		Events:        events,
		Reports:       report.NewService(r.Reports, r.Registrations, events),
	}, nil
}

// NewRouter mounts every handler over svcs. registry may be nil, in which
// case no HTTP metrics are recorded or exposed.
func NewRouter(cfg *config.Config, svcs *Services, registry *prometheus.Registry, checks map[string]health.Check) (*router.Router, error) {
	if err := validator.RegisterWithGin(); err != nil {
		return nil, err
	}

	var metricsHandler *promhandler.Handler
	var metricsEndpoint gin.HandlerFunc
	if registry != nil {
		metricsHandler = promhandler.New(registry, cfg.Server.MetricsPrefix)
		metricsEndpoint = metricsHandler.Handler()
	}
	healthHandler := health.NewHandler(checks, metricsEndpoint)

	cors := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(
		middleware.NewAuthMiddleware(svcs.Auth),
		router.Handlers{
			Auth:         authhandler.NewHandler(svcs.Auth),
			Admin:        adminhandler.NewHandler(svcs.Summary, svcs.Users, svcs.Inventory, svcs.Requests),
			Staff:        staffhandler.NewHandler(svcs.Summary, svcs.Inventory, svcs.Donors, svcs.Requests),
			Donor:        donorhandler.NewHandler(svcs.Donors),
			Organizer:    organizerhandler.NewHandler(svcs.Events, svcs.Reports),
			Notification: notificationhandler.NewHandler(svcs.Notifications),
			Health:       healthHandler,
		},
		metricsHandler,
		router.RouterConfig{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       cors,
			RequestTimeout:   cfg.Server.RequestTimeout,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
		},
	)
	r.Setup()
	return r, nil
}
