package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"guesthouse-backend/config"
	"guesthouse-backend/controllers"
	"guesthouse-backend/pkg/rabbitmq"
	"guesthouse-backend/repository"
	"guesthouse-backend/routes"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type repositories struct {
	rooms        repository.RoomRepository
	reservations repository.ReservationRepository
	logs         repository.ActivityLogRepository
	users        repository.UserRepository
}

func openRepositories() repositories {
	if strings.EqualFold(utils.EnvOrDefault("DB_DRIVER", "mysql"), "memory") {
		log.Println("⚠️  DB_DRIVER=memory: data lives in process memory and is lost on restart")
		store := repository.NewMemoryStore()
		return repositories{
			rooms:        store.Rooms(),
			reservations: store.Reservations(),
			logs:         store.Logs(),
			users:        store.Users(),
		}
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	return repositories{
		rooms:        repository.NewRoomRepository(db),
		reservations: repository.NewReservationRepository(db),
		logs:         repository.NewActivityLogRepository(db),
		users:        repository.NewUserRepository(db),
	}
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	jwtSecret := utils.EnvOrDefault("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set.")
	}

	repos := openRepositories()

	dataDir := utils.EnvOrDefault("DATA_DIR", "./data")
	settingsStore := config.NewFileSettingsStore(filepath.Join(dataDir, "settings.json"))
	presetStore := config.NewFilePresetStore(filepath.Join(dataDir, "presets.json"))

	scheduler, err := services.NewGocronScheduler()
	if err != nil {
		log.Fatalf("❌ Scheduler init failed: %v", err)
	}

	var events services.EventPublisher
	if url := utils.EnvOrDefault("RABBITMQ_URL", ""); url != "" {
		publisher, err := rabbitmq.NewPublisher(url)
		if err != nil {
			log.Printf("⚠️  RabbitMQ unavailable, domain events disabled: %v", err)
		} else {
			defer publisher.Close()
			events = publisher
			log.Println("✅ RabbitMQ publisher connected.")
		}
	}

	// Initialize services
	activityLogger := services.NewActivityLogger(repos.logs)
	whatsapp := utils.NewWhatsAppClient(utils.EnvOrDefault("WHATSAPP_WEBHOOK_URL", ""), utils.EnvOrDefault("WHATSAPP_API_KEY", ""))
	mailer := utils.NewMailer(utils.MailConfigFromEnv())
	if !mailer.Configured() {
		log.Println("⚠️  SMTP credentials missing; email notifications will be skipped")
	}
	notifications := services.NewNotificationService(
		whatsapp,
		mailer,
		scheduler,
		activityLogger,
		utils.EnvSecondsOrDefault("NOTIFY_DEFER_SECONDS", services.DefaultNotifyDelay),
	)

	authService := services.NewAuthService(repos.users, activityLogger, jwtSecret)
	reservationService := services.NewReservationService(repos.reservations, activityLogger, notifications, events)
	availabilityService := services.NewAvailabilityService(repos.reservations, settingsStore)
	roomService := services.NewRoomService(repos.rooms, activityLogger)
	occupancyService := services.NewOccupancyService(repos.rooms, repos.reservations)
	logService := services.NewLogService(repos.logs)
	settingsService := services.NewSettingsService(settingsStore, activityLogger)
	presetService := services.NewPresetService(presetStore, activityLogger)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(seedCtx,
		utils.EnvOrDefault("ADMIN_USERNAME", "admin"),
		utils.EnvOrDefault("ADMIN_PASSWORD", "admin123"),
	); err != nil {
		log.Printf("⚠️  Admin seed failed: %v", err)
	}
	seedCancel()

	// Build router
	router := routes.SetupRouter(routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Reservations: controllers.NewReservationController(reservationService, availabilityService),
		Rooms:        controllers.NewRoomController(roomService, occupancyService),
		Logs:         controllers.NewLogController(logService),
		Settings:     controllers.NewSettingsController(settingsService, presetService),
	}, authService)

	port := utils.EnvOrDefault("PORT", "5000")
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	// pending group-leader messages are dropped on shutdown
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("⚠️  Scheduler shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
