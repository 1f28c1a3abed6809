package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/storefront/domain"
	"github.com/you/storefront/internal/config"
	httpx "github.com/you/storefront/internal/http"
	"github.com/you/storefront/internal/http/handlers"
	"github.com/you/storefront/internal/http/middleware"
	"github.com/you/storefront/internal/infrastructure/auth"
	"github.com/you/storefront/internal/infrastructure/database"
	"github.com/you/storefront/internal/infrastructure/logging"
	"github.com/you/storefront/internal/infrastructure/notifications"
	"github.com/you/storefront/internal/infrastructure/repositories"
	"github.com/you/storefront/internal/services"
)

// Services holds the wired domain services
type Services struct {
	Audit    domain.AuditLogger
	Gates    services.GateSet
	OTP      domain.OTPService
	Admin    domain.AdminAuthService
	Accounts domain.AccountService
	Shops    domain.ShopService
	Policies domain.PolicyService
	Enforcer domain.CasbinEnforcer
}

// Container holds all dependencies. Each resource is built on first use.
type Container struct {
	Config *config.Config
	Logger zerolog.Logger

	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	redisOnce sync.Once
	redis     *redis.Client
	redisErr  error

	casbinOnce sync.Once
	casbin     *auth.CasbinService
	casbinErr  error

	senderOnce sync.Once
	sender     domain.NotificationSender

	servicesOnce sync.Once
	services     *Services
	servicesErr  error
}

// Option overrides a resource before it is first built
type Option func(*Container)

// WithDatabase uses db instead of opening cfg.DSN. It is still migrated.
func WithDatabase(db *gorm.DB) Option {
	return func(c *Container) { c.db = db }
}

// WithRedis uses client instead of dialing cfg.RedisAddr
func WithRedis(client *redis.Client) Option {
	return func(c *Container) { c.redis = client }
}

// WithSender replaces the Twilio sender
func WithSender(sender domain.NotificationSender) Option {
	return func(c *Container) { c.sender = sender }
}

// NewContainer creates a container; nothing is connected until asked for
func NewContainer(cfg *config.Config, logger zerolog.Logger, opts ...Option) *Container {
	c := &Container{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DB returns the migrated database
func (c *Container) DB() (*gorm.DB, error) {
	c.dbOnce.Do(func() {
		if c.db == nil {
			level := logger.Warn
			if c.Config.Mode == config.ModeDevelopment {
				level = logger.Info
			}
			c.db, c.dbErr = database.Open(c.Config.DSN, level)
			if c.dbErr != nil {
				return
			}
		}
		c.dbErr = database.AutoMigrate(c.db)
	})
	return c.db, c.dbErr
}

// Redis returns a client that answered a ping
func (c *Container) Redis() (*redis.Client, error) {
	c.redisOnce.Do(func() {
		if c.redis == nil {
			c.redis = database.NewRedis(database.RedisOptions{
				Addr:     c.Config.RedisAddr,
				Password: c.Config.RedisPassword,
				DB:       c.Config.RedisDB,
				Timeout:  c.Config.RedisTimeout,
			})
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.redisErr = database.Ping(ctx, c.redis)
	})
	return c.redis, c.redisErr
}

// Casbin returns the enforcer, seeding default policies into an empty table
func (c *Container) Casbin() (*auth.CasbinService, error) {
	c.casbinOnce.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.casbinErr = err
			return
		}
		c.casbin, c.casbinErr = auth.NewCasbinService(db, c.Config.CasbinModelPath)
		if c.casbinErr != nil {
			return
		}
		seeded, err := c.casbin.SeedDefaults()
		if err != nil {
			c.casbinErr = err
			return
		}
		if seeded {
			c.Logger.Info().Int("count", len(auth.DefaultPolicies)).Msg("casbin: seeded default policies")
		}
	})
	return c.casbin, c.casbinErr
}

// Sender returns the notification sender
func (c *Container) Sender() domain.NotificationSender {
	c.senderOnce.Do(func() {
		if c.sender != nil {
			return
		}
		c.sender = notifications.NewTwilioSender(notifications.TwilioConfig{
			AccountSID:  c.Config.TwilioSID,
			AuthToken:   c.Config.TwilioToken,
			FromNumber:  c.Config.TwilioFrom,
			ChatFrom:    c.Config.TwilioChatFrom,
			CountryCode: c.Config.CountryCode,
			Timeout:     c.Config.TwilioTimeout,
		}, c.Logger)
	})
	return c.sender
}

// Services wires the domain services
func (c *Container) Services() (*Services, error) {
	c.servicesOnce.Do(func() {
		c.services, c.servicesErr = c.buildServices()
	})
	return c.services, c.servicesErr
}

func (c *Container) buildServices() (*Services, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	rdb, err := c.Redis()
	if err != nil {
		return nil, err
	}
	cas, err := c.Casbin()
	if err != nil {
		return nil, err
	}

	audit := logging.NewAuditLogger(c.Logger)

	buyers := repositories.NewBuyerRepository(db)
	sellers := repositories.NewSellerRepository(db)
	admins := repositories.NewAdminRepository(db)
	otps := repositories.NewOTPStore(rdb, c.Config.OTP_Retention)

	stores := make([]domain.SessionStore, 0, len(domain.Roles))
	for _, role := range domain.Roles {
		store, err := repositories.NewSessionStore(db, role)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	gates, err := services.NewGateSet(auth.NewTokenGenerator(), audit, map[domain.Role]time.Duration{
		domain.RoleBuyer:  c.Config.BuyerSessionTTL,
		domain.RoleSeller: c.Config.SellerSessionTTL,
		domain.RoleAdmin:  c.Config.AdminSessionTTL,
	}, stores...)
	if err != nil {
		return nil, err
	}
	adminGate, ok := gates.Gate(domain.RoleAdmin)
	if !ok {
		return nil, errors.New("admin session gate missing")
	}

	if c.Config.EchoOTP() {
		c.Logger.Warn().Msg("development mode: OTP codes are returned to callers")
	}

	sender := c.Sender()
	return &Services{
		Audit: audit,
		Gates: gates,
		OTP: services.NewOTPService(otps, sender, map[domain.Role]domain.ActorProvisioner{
			domain.RoleBuyer:  buyers,
			domain.RoleSeller: sellers,
		}, audit, services.OTPConfig{
			TTL:          c.Config.OTP_TTL,
			ResendWindow: c.Config.OTP_ResendWindow,
			EchoCode:     c.Config.EchoOTP(),
		}),
		Admin:    services.NewAdminAuthService(admins, auth.NewPasswordService(), adminGate, audit),
		Accounts: services.NewAccountService(sellers, otps, audit),
		Shops:    services.NewShopService(sellers, sender),
		Policies: services.NewPolicyService(cas.E),
		Enforcer: services.NewCasbinEnforcerWrapper(cas.E),
	}, nil
}

// Router builds the HTTP handler
func (c *Container) Router() (*gin.Engine, error) {
	svc, err := c.Services()
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}

	cookies := handlers.CookieConfig{Domain: c.Config.CookieDomain, Secure: c.Config.CookieSecure}
	return httpx.BuildRouter(httpx.Routes{
		Auth:     handlers.NewAuthHandlers(svc.OTP, svc.Gates, svc.Admin, svc.Shops, cookies),
		Accounts: handlers.NewAccountHandlers(svc.Accounts, svc.Shops, cookies),
		Shops:    handlers.NewShopHandlers(svc.Shops),
		Policies: handlers.NewPolicyHandlers(svc.Policies),
		Sessions: middleware.NewSessionMW(svc.Gates),
		Casbin:   middleware.NewCasbinMW(svc.Enforcer, svc.Audit),
		Logger:   c.Logger,
	}), nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
