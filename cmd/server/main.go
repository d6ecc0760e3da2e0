package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/config"
	"github.com/Skotchmaster/ecommerce_api/internal/db"
	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/notify"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/repo/mongostore"
	"github.com/Skotchmaster/ecommerce_api/internal/search"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	httpserver "github.com/Skotchmaster/ecommerce_api/internal/transport/http"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply schema migrations and exit")
	pflag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg := config.Load()
	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	if err := cfg.Validate(); err != nil {
		l.Error("config_error", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, l, *migrateOnly); err != nil {
		l.Error("server_error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, l *slog.Logger, migrateOnly bool) error {
	initCtx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), l), 15*time.Second)
	defer cancel()

	store, err := openStore(initCtx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			l.Warn("store_close_error", "error", err)
		}
	}()
	if migrateOnly {
		l.Info("migrations_applied", "driver", cfg.StoreDriver)
		return nil
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
	}
	defer pub.Close()

	var searcher service.Searcher
	if cfg.ESURL != "" {
		client, err := search.NewClient(initCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		ix := search.New(client, cfg.ESIndex)
		if err := ix.EnsureIndex(initCtx); err != nil {
			return fmt.Errorf("elasticsearch index: %w", err)
		}
		searcher = ix
	} else {
		l.Info("search_disabled", "reason", "ES_URL not set")
	}

	var mailer notify.Mailer = notify.LogMailer{Logger: l}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	}
	var sms notify.SMSSender
	if cfg.BrevoAPIKey != "" {
		sms = notify.NewBrevoSMS(cfg.BrevoAPIKey, cfg.SMSFrom)
	}

	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	authSvc := &service.AuthService{
		Users: store, Tokens: store, Issuer: issuer,
		Mailer: mailer, SMS: sms, Events: pub, AppURL: cfg.AppURL,
	}
	catalogSvc := &service.CatalogService{Products: store, Search: searcher, Events: pub}
	categorySvc := &service.CategoryService{Categories: store}
	cartSvc := &service.CartService{Carts: store, Products: store, Events: pub}
	orderSvc := &service.OrderService{
		Orders: store, Products: store, Carts: store, Addresses: store, Events: pub,
	}
	paymentSvc := &service.PaymentService{Orders: store, Secret: string(cfg.PaymentSecret), Events: pub}
	reviewSvc := &service.ReviewService{Reviews: store, Products: store, Events: pub}
	accountSvc := &service.AccountService{
		Users: store, Products: store, Orders: store, Addresses: store, Returns: store,
		Mailer: mailer, Events: pub,
	}
	addressSvc := &service.AddressService{Addresses: store}
	returnSvc := &service.ReturnService{Returns: store, Orders: store, Products: store, Events: pub}
	adminSvc := &service.AdminService{Users: store, Orders: store, Products: store, Events: pub}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure())
	e.Use(loggingmw.RequestLogger(l))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("10M"))
	if cfg.CSRFProtect {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.SessionCookie = authmw.CookieName
		csrfCfg.Secure = strings.HasPrefix(cfg.AppURL, "https://")
		e.Use(csrf.Middleware(csrfCfg))
	}

	httpserver.Register(e, &httpserver.Deps{
		Store:          store,
		Auth:           authmw.NewAuthMiddleware(issuer, store),
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: strings.HasPrefix(cfg.AppURL, "https://")},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc, Categories: categorySvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		AccountHandler: &httpserver.AccountHTTP{Svc: accountSvc, Addresses: addressSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc, Payments: paymentSvc, Returns: returnSvc},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: reviewSvc},
		AdminHandler:   &httpserver.AdminHTTP{Svc: adminSvc},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server_start", "addr", srv.Addr, "driver", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("server_shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("server_stopped")
	return nil
}

// openStore connects the configured backend and brings its schema up to date.
func openStore(ctx context.Context, cfg config.Config) (repo.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		s, err := mongostore.Open(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return s, nil
	case config.DriverSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "ecommerce.db"
		}
		gdb, err := db.OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return migrated(gdb)
	default:
		gdb, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return migrated(gdb)
	}
}

func migrated(gdb *gorm.DB) (repo.Store, error) {
	if err := db.Migrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	return &repo.GormRepo{DB: gdb}, nil
}
