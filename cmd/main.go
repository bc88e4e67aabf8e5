package main

import (
	"context"
	"fmt"
	"log"
	"lookbook-service/internal/api/handlers"
	"lookbook-service/internal/config"
	"lookbook-service/internal/database/minio"
	"lookbook-service/internal/database/mongo"
	"lookbook-service/internal/database/redis"
	"lookbook-service/internal/events"
	"lookbook-service/internal/repository"
	"lookbook-service/internal/service"
	"lookbook-service/pkg/discovery"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
)

func setupLogging(logDir string) (*os.File, error) {
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

// ServiceContainer holds all service dependencies
type ServiceContainer struct {
	LookRepository      *repository.LookRepository
	LookImageRepository *repository.LookImageRepository
	UserRepository      *repository.UserRepository
	LookService         *service.LookService
	ExportService       *service.ExportService
	UserService         *service.UserService
	JWTService          *service.JWTService
	EventPublisher      events.Publisher
	EventConsumer       events.Consumer
	ServiceDiscovery    *discovery.ServiceRegistry
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	logFile, err := setupLogging(cfg.Server.LogDir)
	if err != nil {
		log.Printf("Warning: Failed to set up logging: %v", err)
	} else {
		defer logFile.Close()
	}

	// Initialize MongoDB
	if err := mongo.InitMongoDB(&cfg.MongoDB); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer mongo.CloseDB()

	// Initialize MinIO client
	if err := minio.InitMinioClient(&cfg.MinIO); err != nil {
		log.Fatalf("Failed to initialize MinIO client: %v", err)
	}

	// Initialize Redis
	if err := redis.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redis.Close()

	// Initialize repositories
	lookRepository := repository.NewLookRepository()
	lookImageRepository := repository.NewLookImageRepository()
	userRepository := repository.NewUserRepository()
	redisRepo := repository.NewRedisRepo()

	// Initialize event publisher
	var eventPublisher events.Publisher
	publisher, err := events.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
	} else {
		eventPublisher = publisher
		defer publisher.Close()
	}

	lookService := service.NewLookService(
		lookRepository,
		lookImageRepository,
		minio.NewStore(cfg.MinIO.LookbookBucket),
		redisRepo,
		eventPublisher,
		cfg.MinIO.SignedURLTTL,
	)
	jwtService := service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize service container
	container := &ServiceContainer{
		LookRepository:      lookRepository,
		LookImageRepository: lookImageRepository,
		UserRepository:      userRepository,
		LookService:         lookService,
		ExportService:       service.NewExportService(lookService, redisRepo, eventPublisher),
		UserService:         service.NewUserService(userRepository),
		JWTService:          jwtService,
		EventPublisher:      eventPublisher,
	}

	// Initialize event consumer
	eventConsumer, err := events.NewEventConsumer(cfg.RabbitMQ.URI, cfg.MinIO.LookbookBucket)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		// Start the consumer
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			container.EventConsumer = eventConsumer
			// Ensure consumer is closed when application exits
			defer eventConsumer.Close()
		}
	}

	// Initialize service discovery
	serviceRegistry, err := discovery.NewServiceRegistry(
		cfg.Consul.Address,
		cfg.Server.ServiceName,
		cfg.Server.ServiceID,
		cfg.Server.Port,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize service discovery: %v", err)
	} else {
		container.ServiceDiscovery = serviceRegistry
		// Register with Consul
		if err := serviceRegistry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
		} else {
			log.Println("Successfully registered with Consul")
			// Ensure service is deregistered when application exits
			defer serviceRegistry.Deregister()
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Set up routes
	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Lookbook Service is healthy")
	})

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(container.UserService, container.JWTService)
	lookHandler := handlers.NewLookHandler(container.LookService, container.JWTService)
	exportHandler := handlers.NewExportHandler(container.ExportService, container.JWTService)

	// Register routes
	authHandler.RegisterRoutes(app)
	lookHandler.RegisterRoutes(app)
	exportHandler.RegisterRoutes(app)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	// Create a deadline context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	<-doneChan
	log.Println("Server exited, goodbye!")
}
