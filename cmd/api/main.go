package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/pickleball_coach/configs"
	"github.com/anjiri1684/pickleball_coach/database"
	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/handlers"
	"github.com/anjiri1684/pickleball_coach/jobs"
	"github.com/anjiri1684/pickleball_coach/metrics"
	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/notifications"
	"github.com/anjiri1684/pickleball_coach/payments"
	"github.com/anjiri1684/pickleball_coach/repository"
	"github.com/anjiri1684/pickleball_coach/routes"
	"github.com/anjiri1684/pickleball_coach/services"
	"github.com/anjiri1684/pickleball_coach/storage"
	"github.com/anjiri1684/pickleball_coach/utils"
	"github.com/anjiri1684/pickleball_coach/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := utils.NewLogger(settings.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.ConnectDB(settings.DatabaseURL)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(db, database.AdminSeed{
		Email:    settings.AdminEmail,
		Password: settings.AdminPassword,
		FullName: settings.AdminFullName,
	}, log); err != nil {
		log.Fatal("admin seed failed", zap.Error(err))
	}
	if err := database.SeedTheme(db); err != nil {
		log.Fatal("theme seed failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	themeRepo := repository.NewThemeRepository(db)

	gateway, err := newGateway(settings, log)
	if err != nil {
		log.Fatal("payment gateway unavailable", zap.Error(err))
	}
	assets, signer, err := newAssetStore(settings)
	if err != nil {
		log.Fatal("asset store unavailable", zap.Error(err))
	}

	var mailer notifications.Mailer = notifications.NopMailer{Logger: log}
	if brevo := notifications.NewBrevoService(settings.BrevoAPIKey, settings.EmailSender, settings.EmailSenderName, log); brevo != nil {
		mailer = brevo
	}

	bus := events.NewBus(log)
	hub := websocket.NewHub(log)
	recorder := metrics.NewRecorder()
	eventMailer := notifications.NewEventMailer(mailer, users, log)
	receipts := services.NewReceiptService(purchaseRepo, users, assets, services.ChromePDF, log)
	bus.Subscribe(recorder.Handle)
	bus.Subscribe(hub.Handle)
	bus.Subscribe(eventMailer.Handle)
	bus.Subscribe(receipts.Handle)
	go hub.Run(ctx)

	reviewService := services.NewReviewRequestService(reviewRepo, users, bus, log)
	sessionService := services.NewTrainingSessionService(sessionRepo, users, bus, log)
	purchaseService := services.NewPurchaseService(purchaseRepo, catalogRepo, gateway,
		services.FeeSplit{PlatformRate: settings.PlatformCommissionRate}, bus, log)
	catalogService := services.NewCatalogService(catalogRepo, log)
	authService := services.NewAuthService(users, settings.JWTSecret, log)
	adminService := services.NewAdminService(users, log)
	themeService := services.NewThemeService(themeRepo, log)
	uploadService := services.NewUploadService(assets, log)
	profileService := services.NewProfileService(users)

	reminders := jobs.NewSessionReminder(sessionRepo, mailer, log)
	expiry := jobs.NewPendingExpiry(sessionRepo, bus, log)
	c := cron.New()
	if err := scheduleJobs(ctx, c, jobSchedule,
		cronJob{name: "session reminders", run: reminders.Run},
		cronJob{name: "pending session expiry", run: expiry.Run},
	); err != nil {
		log.Fatal("cron setup failed", zap.Error(err))
	}
	c.Start()
	log.Info("cron jobs scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "Pickleball Coach",
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     550 * 1024 * 1024,
		ReadTimeout:   60 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if settings.CloudinaryURL == "" {
		app.Static("/uploads", settings.UploadDir)
	}

	protected := middleware.Protected(settings.JWTSecret)
	optional := middleware.OptionalAuth(settings.JWTSecret)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)

	routes.AuthRoutes(app, handlers.NewAuthHandler(authService))
	routes.ProfileRoutes(app, handlers.NewProfileHandler(profileService), protected)
	routes.ReviewRoutes(app, handlers.NewReviewRequestHandler(reviewService), protected)
	routes.SessionRoutes(app, handlers.NewSessionHandler(sessionService), protected)
	routes.CatalogRoutes(app, handlers.NewCatalogHandler(catalogService), purchaseHandler, protected, optional)
	routes.PurchaseRoutes(app, purchaseHandler, protected)
	routes.UploadRoutes(app, handlers.NewUploadHandler(uploadService, signer), protected)
	routes.AdminRoutes(app, handlers.NewAdminHandler(adminService, themeService), protected)
	routes.RealtimeRoutes(app, handlers.NewWSHandler(hub, settings.JWTSecret, log), recorder.Handler())

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		c.Stop()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info("server is running", zap.String("port", settings.Port))
	if err := app.Listen(":" + settings.Port); err != nil {
		log.Fatal("server failed to start", zap.Error(err))
	}
	receipts.Wait()
	eventMailer.Wait()
}

func newGateway(settings *config.Settings, log *zap.Logger) (payments.Gateway, error) {
	switch settings.PaymentProvider {
	case "midtrans":
		return payments.NewMidtransGateway(settings.MidtransServerKey, settings.MidtransProduction), nil
	case "paypal":
		return payments.NewPayPalGateway(settings.PayPalAPIBaseURL, settings.PayPalClientID, settings.PayPalClientSecret, settings.PayPalCurrency, log), nil
	}
	return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", settings.PaymentProvider)
}

// newAssetStore prefers Cloudinary and falls back to local disk served under /uploads.
func newAssetStore(settings *config.Settings) (storage.AssetStore, uploadSigner, error) {
	if settings.CloudinaryURL == "" {
		return storage.NewLocalStore(settings.UploadDir, settings.BaseURL+"/uploads"), nil, nil
	}
	store, err := storage.NewCloudinaryStore(settings.CloudinaryURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

const jobSchedule = "*/5 * * * *"

type cronJob struct {
	name string
	run  func(ctx context.Context) int
}

func scheduleJobs(ctx context.Context, c *cron.Cron, spec string, jobs ...cronJob) error {
	for _, job := range jobs {
		run := job.run
		if _, err := c.AddFunc(spec, func() { run(ctx) }); err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}
	}
	return nil
}

type uploadSigner interface {
	SignUpload(category storage.Category, ownerID uint) (*storage.SignedUpload, error)
}
