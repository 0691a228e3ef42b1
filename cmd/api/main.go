package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
	"github.com/dcastellanos/gymcore-backend/internal/metrics"
	"github.com/dcastellanos/gymcore-backend/internal/modules/auth"
	"github.com/dcastellanos/gymcore-backend/internal/modules/cashsession"
	"github.com/dcastellanos/gymcore-backend/internal/modules/catalog"
	"github.com/dcastellanos/gymcore-backend/internal/modules/ledger"
	"github.com/dcastellanos/gymcore-backend/internal/modules/membership"
	"github.com/dcastellanos/gymcore-backend/internal/modules/sale"
	"github.com/dcastellanos/gymcore-backend/internal/modules/user"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	metrics.Register()
	router.Use(metrics.Middleware)
	router.Handle("/metrics", promhttp.Handler())

	adminGate := auth.RequireRole(domain.RoleAdmin)
	staffGate := auth.RequireRole(domain.RoleAdmin, domain.RoleStaff)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router, staffGate)

	authService := auth.NewService(userRepo)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog ─────────────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router, adminGate, staffGate)

	// ── Register & Sales ────────────────────────────────────
	sessionRepo := cashsession.NewPostgresRepository(db)
	sessionService := cashsession.NewService(sessionRepo, logger)
	cashsession.NewHandler(sessionService).RegisterRoutes(router, staffGate)

	issuer := membership.NewIssuer(logger)
	saleRepo := sale.NewPostgresRepository(db)
	saleService := sale.NewService(saleRepo, sessionService, catalogRepo, userRepo, issuer, logger)
	sale.NewHandler(saleService).RegisterRoutes(router, staffGate)

	// ── Memberships & Ledger ────────────────────────────────
	membershipRepo := membership.NewPostgresRepository(db)
	membershipService := membership.NewService(membershipRepo, logger)
	membership.NewHandler(membershipService).RegisterRoutes(router, staffGate)

	ledgerRepo := ledger.NewPostgresRepository(db)
	ledgerService := ledger.NewService(ledgerRepo, logger)
	ledger.NewHandler(ledgerService).RegisterRoutes(router, adminGate)

	// ── Expiry sweep ────────────────────────────────────────
	scheduler := gocron.NewScheduler(time.Local)
	_, err = scheduler.Every(1).Day().At("03:00").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := membershipService.ExpireOverdue(ctx); err != nil {
			logger.Error("expiry sweep run failed", zap.Error(err))
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	scheduler.StartAsync()

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Gymcore API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
