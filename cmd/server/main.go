package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/app"
	"github.com/clinixnote/backend/internal/config"
	"github.com/clinixnote/backend/internal/controller"
	"github.com/clinixnote/backend/internal/gateway"
	"github.com/clinixnote/backend/internal/mailer"
	"github.com/clinixnote/backend/internal/repository"
	"github.com/clinixnote/backend/internal/repository/reportstore"
	"github.com/clinixnote/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("failed to close migrator", zap.Error(err))
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("failed to disconnect mongo", zap.Error(err))
		}
	}()
	mongoDB := mongoClient.Database(cfg.MongoDB)

	// Repositories.
	users := repository.NewUserRepository(pool)
	schedules := repository.NewScheduleRepository(pool)
	slots := repository.NewSlotRepository(pool)
	appointments := repository.NewAppointmentRepository(pool)
	payments := repository.NewPaymentRepository(pool)
	prescriptions := repository.NewPrescriptionRepository(pool)
	reports := reportstore.NewReportRepository(mongoDB)
	patients := reportstore.NewPatientRepository(mongoDB)

	// Services.
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, logger)
	payGateway := gateway.NewSSLCommerz(cfg.PaymentStoreID, cfg.PaymentStorePass, cfg.PaymentLive, logger)
	locks := service.NewDoctorLocks()

	authService := service.NewAuthService(users, mail, cfg.JWTSecret, cfg.FrontendURL, logger)
	scheduleService := service.NewScheduleService(schedules, slots, appointments, mail, locks, logger)
	bookingService := service.NewBookingService(slots, appointments, users, mail, locks, logger)
	appointmentService := service.NewAppointmentService(appointments, payments, mail, logger)
	paymentService := service.NewPaymentService(payments, payGateway, cfg.BackendURL, logger)
	reportService := service.NewReportService(reports, prescriptions, logger)
	patientService := service.NewPatientService(patients, appointments, users, reports, logger)

	if err := authService.SeedSuperAdmin(ctx, "admin@clinixnote.com", "admin"); err != nil {
		logger.Fatal("failed to seed super admin", zap.Error(err))
	}

	janitor := app.NewJanitor(scheduleService, logger)
	janitor.Start(ctx)
	defer janitor.Stop()

	e := echo.New()
	e.HideBanner = true
	ct := controller.New(
		authService,
		scheduleService,
		bookingService,
		appointmentService,
		paymentService,
		reportService,
		patientService,
		cfg.JWTSecret,
		cfg.FrontendURL,
		cfg.UploadDir,
		logger,
	)
	ct.RegisterRoutes(e)

	go func() {
		logger.Info("starting http server", zap.String("port", cfg.HTTPPort))
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down http server", zap.Error(err))
	}
}
