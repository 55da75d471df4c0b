package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"agro-order-service/internal/cache"
	"agro-order-service/internal/config"
	"agro-order-service/internal/controller"
	"agro-order-service/internal/logger"
	"agro-order-service/internal/rabbit"
	"agro-order-service/internal/repository"
	"agro-order-service/internal/router"
	"agro-order-service/internal/service"
	"agro-order-service/internal/telemetry"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.AppEnv); err != nil {
		log.Fatalf("no se pudo iniciar el logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("telemetría", zap.Error(err))
	}

	// Órdenes: MongoDB o memoria
	orderRepo := openOrderRepository(ctx, cfg)

	// Cotizaciones, publicaciones, mensajes, perfiles y suscriptores
	db, err := repository.OpenSQL(cfg)
	if err != nil {
		logger.Fatal("base SQL", zap.Error(err))
	}
	quotationRepo := repository.NewGORMQuotationRepository(db)
	listingRepo := repository.NewGORMListingRepository(db)
	messageRepo := repository.NewGORMMessageRepository(db)
	profileRepo := repository.NewGORMProfileRepository(db)
	subscriberRepo := repository.NewGORMSubscriberRepository(db)

	// Caché de contadores (opcional)
	var unread service.UnreadCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis no disponible, contadores sin caché", zap.Error(err))
		} else {
			defer client.Close()
			unread = cache.NewRedisUnreadCache(client, cfg.UnreadCacheTTL)
		}
	}

	// RabbitMQ: eventos, boletines y consumer de checkout
	var publisher service.EventPublisher
	var mailer service.Mailer = logMailer{}
	var ch *amqp091.Channel
	if cfg.RabbitEnabled {
		conn, err := amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatal("error conectando a RabbitMQ", zap.Error(err))
		}
		defer conn.Close()
		ch, err = conn.Channel()
		if err != nil {
			logger.Fatal("error creando canal en RabbitMQ", zap.Error(err))
		}
		p, err := rabbit.NewPublisher(ch)
		if err != nil {
			logger.Fatal("exchange de eventos", zap.Error(err))
		}
		publisher = p
		m, err := rabbit.NewQueueMailer(ch)
		if err != nil {
			logger.Fatal("cola de correos", zap.Error(err))
		}
		mailer = m
	}

	// Servicios
	orderService := service.NewOrderService(orderRepo, listingRepo,
		service.WithPublisher(publisher),
		service.WithUnreadCache(unread),
	)
	quotationService := service.NewQuotationService(quotationRepo, listingRepo, unread)
	listingService := service.NewListingService(listingRepo, unread)
	messageService := service.NewMessageService(messageRepo, orderRepo, unread)
	profileService := service.NewProfileService(profileRepo, unread)
	notificationService := service.NewNotificationService(orderRepo, quotationRepo, listingRepo, messageRepo, profileRepo, unread)
	dashboardService := service.NewDashboardService(orderRepo, quotationRepo, listingRepo)
	newsletterService := service.NewNewsletterService(subscriberRepo, mailer)

	authService, err := newTokenValidator(cfg)
	if err != nil {
		logger.Fatal("auth", zap.Error(err))
	}

	if ch != nil {
		if err := rabbit.SetupConsumers(ctx, ch, orderService); err != nil {
			logger.Error("no se pudo suscribir a order_placed", zap.Error(err))
		}
	}

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.New(router.Deps{
		Auth:           authService,
		Orders:         controller.NewOrderController(orderService),
		Quotations:     controller.NewQuotationController(quotationService),
		Listings:       controller.NewListingController(listingService),
		Account:        controller.NewAccountController(messageService, profileService, notificationService, dashboardService),
		Newsletter:     controller.NewNewsletterController(newsletterService),
		PollRatePerMin: cfg.PollRatePerMin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("agro-order-service ejecutándose", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("servidor", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown del servidor", zap.Error(err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("shutdown de telemetría", zap.Error(err))
	}
}

func openOrderRepository(ctx context.Context, cfg *config.Config) service.OrderRepository {
	if cfg.OrderStore == "memory" {
		logger.Warn("órdenes en memoria: se pierden al reiniciar")
		return repository.NewMemoryOrderRepository()
	}

	// Conexión a MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("mongo", zap.Error(err))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		logger.Fatal("mongo ping", zap.Error(err))
	}

	repo := repository.NewMongoOrderRepository(client.Database(cfg.MongoDBName))
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("no se pudieron crear los índices de órdenes", zap.Error(err))
	}
	return repo
}

func newTokenValidator(cfg *config.Config) (service.TokenValidator, error) {
	if cfg.AuthMode == "jwt" {
		return service.NewJWTAuthService(cfg.JWTSecret)
	}
	return service.NewAuthService(cfg.AuthURL), nil
}

// logMailer se usa cuando RabbitMQ está deshabilitado: solo registra el envío.
type logMailer struct{}

func (logMailer) Send(_ context.Context, to, subject, _ string) error {
	logger.Info("correo (sin rabbit)", zap.String("to", to), zap.String("subject", subject))
	return nil
}
