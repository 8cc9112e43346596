package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/config"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/handler"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/mail"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/pos"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/service"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	mailer := mail.NewClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	resetRepo := repository.PasswordResetRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	categoryRepo := repository.CategoryRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	supplierRepo := repository.SupplierRepository{DB: pg}
	saleRepo := repository.SaleRepository{DB: pg}
	procurementRepo := repository.ProcurementRepository{DB: pg}
	shiftRepo := repository.ShiftRepository{DB: pg}
	ledgerRepo := repository.LedgerRepository{DB: pg}
	calendarRepo := repository.CalendarRepository{DB: pg}
	closingRepo := repository.ClosingRepository{DB: pg}
	activityRepo := repository.ActivityLogRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	// services
	authSvc := service.AuthService{
		Config:       cfg,
		Users:        userRepo,
		Resets:       resetRepo,
		Categories:   categoryRepo,
		Mailer:       mailer,
		Logger:       logger,
		FirebaseAuth: firebaseAuth,
	}
	checkoutSvc := &service.CheckoutService{
		Carts:        pos.NewStore(),
		Products:     productRepo,
		Customers:    customerRepo,
		Sales:        saleRepo,
		Procurements: procurementRepo,
		Ledger:       ledgerRepo,
		Activity:     activityRepo,
		Logger:       logger,
	}
	performanceSvc := service.PerformanceService{
		Users:  userRepo,
		Sales:  saleRepo,
		Shifts: shiftRepo,
	}

	router := server.NewRouter(cfg, logger, server.Handlers{
		Health:      handler.HealthHandler{DB: pg},
		Auth:        handler.AuthHandler{Service: &authSvc},
		Home:        handler.HomeHandler{},
		Docs:        handler.DocsHandler{OpenAPIPath: "openapi.yaml"},
		Products:    handler.ProductHandler{Repo: productRepo},
		Categories:  handler.CategoryHandler{Repo: categoryRepo},
		Customers:   handler.CustomerHandler{Repo: customerRepo},
		Suppliers:   handler.SupplierHandler{Repo: supplierRepo},
		Cart:        handler.CartHandler{Service: checkoutSvc},
		Sales:       handler.SaleHandler{Repo: saleRepo},
		Procurement: handler.ProcurementHandler{Repo: procurementRepo},
		Shifts:      handler.ShiftHandler{Repo: shiftRepo},
		Calendar:    handler.CalendarHandler{Repo: calendarRepo},
		Closings:    handler.ClosingHandler{Repo: closingRepo, Sales: saleRepo},
		Ledger:      handler.LedgerHandler{Repo: ledgerRepo},
		Performance: handler.PerformanceHandler{Service: performanceSvc},
		Team:        handler.TeamHandler{Repo: userRepo, Auth: &authSvc},
		Activity:    handler.ActivityLogHandler{Repo: activityRepo},
		Settings:    handler.SettingsHandler{Repo: settingsRepo, DefaultCurrency: cfg.DefaultCurrency},
		Dashboard:   handler.DashboardHandler{Repo: dashboardRepo, Products: productRepo},
		Mail:        handler.MailHandler{Client: mailer},
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
