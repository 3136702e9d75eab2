package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookingcore/config"
	"bookingcore/cron"
	"bookingcore/database"
	bookingRepo "bookingcore/database/repository/booking"
	"bookingcore/database/repository/memory"
	providerRepo "bookingcore/database/repository/provider"
	timeslotRepo "bookingcore/database/repository/timeslot"
	userRepo "bookingcore/database/repository/user"
	"bookingcore/handlers"
	"bookingcore/metrics"
	"bookingcore/middleware"
	"bookingcore/models"
	"bookingcore/routes"
	"bookingcore/services/booking"
	"bookingcore/services/events"
	"bookingcore/services/notification"
	"bookingcore/services/payment"
	"bookingcore/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs the provider cache and the notification queue.
	redisClients := []*redis.Client{utils.NewQueueHealthClient()}
	if err := utils.InitCache(); err != nil {
		logger.Warn("Provider cache disabled", zap.Error(err))
	} else {
		redisClients = append(redisClients, utils.CacheClient)
	}

	deps := buildStores(logger)

	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()
	deps.Notifier = notification.NewAsynqNotifier(queue, logger)

	if config.AppConfig.StripeKey != "" {
		stripe.Key = config.AppConfig.StripeKey
		deps.Deposits = payment.NewStripeDepositLinker(
			config.AppConfig.StripeSuccessURL,
			config.AppConfig.StripeCancelURL,
			config.AppConfig.StripeCurrency,
			logger,
		)
	} else {
		logger.Warn("STRIPE_KEY not set, deposit links disabled")
	}

	if config.AppConfig.RabbitMQURL != "" {
		publisher, err := events.NewPublisher(config.AppConfig.RabbitMQURL, config.AppConfig.RabbitMQExchange)
		if err != nil {
			logger.Warn("Booking events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			deps.Events = publisher
		}
	}

	bookingService := booking.NewService(deps, config.Booking(), logger)

	// Background workers.
	worker := cron.InitNotificationWorker(
		utils.QueueRedisOpt(),
		config.AppConfig.WorkerConcurrency,
		notification.NewDeliverer(buildSenders(ctx, deps, logger), logger),
		logger,
	)
	cron.StartExpirySweep(ctx, bookingService, config.AppConfig.ExpirySweepInterval, logger)
	utils.StartHealthMonitor(ctx, 60*time.Second, redisClients, database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	handlerBundle := handlers.NewHandlerBundle(handlers.NewBookingHandler(bookingService), handlers.NewProviderHandler(bookingService))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", config.AppConfig.StoreDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

// buildStores selects the storage driver.
func buildStores(logger *zap.Logger) booking.Deps {
	if config.AppConfig.StoreDriver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return booking.Deps{
			Bookings:  store,
			Providers: store,
			Registry:  store,
			Clients:   store,
			Stats:     store,
			Slots:     store,
		}
	}

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}

	bookings := bookingRepo.NewMongoBookingRepo()
	slots := timeslotRepo.NewMongoSlotRepo()
	clients := userRepo.NewMongoUserRepo()
	live := providerRepo.NewMongoProviderRepo()
	providers := live

	for name, ensure := range map[string]func() error{
		"bookings":  bookings.EnsureIndexes,
		"slots":     slots.EnsureIndexes,
		"users":     clients.EnsureIndexes,
		"providers": live.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Warn("failed to create indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	if utils.CacheClient != nil {
		providers = providerRepo.NewCachedRepo(providers, utils.CacheClient, config.AppConfig.ProviderCacheTTL, logger)
	}

	// creation reads providers uncached so deactivation applies immediately
	return booking.Deps{
		Bookings:      bookings,
		Providers:     providers,
		LiveProviders: live,
		Registry:      providers,
		Clients:       clients,
		Stats:         providers,
		Slots:         slots,
	}
}

// buildSenders maps delivery channels to senders. Push goes through FCM when
// credentials are configured; the remaining channels are logged.
func buildSenders(ctx context.Context, deps booking.Deps, logger *zap.Logger) map[string]notification.Sender {
	fallback := notification.NewLogSender(logger)
	senders := map[string]notification.Sender{
		models.ChannelPush:  fallback,
		models.ChannelSMS:   fallback,
		models.ChannelEmail: fallback,
	}

	if config.AppConfig.FirebaseCredentialsFile == "" {
		logger.Warn("FIREBASE_CREDENTIALS_FILE not set, push notifications are logged only")
		return senders
	}
	fcm, err := utils.FirebaseInit(ctx)
	if err != nil {
		logger.Warn("Push notifications disabled", zap.Error(err))
		return senders
	}
	tokens := notification.DirectoryTokens(deps.Clients, deps.Providers)
	senders[models.ChannelPush] = notification.NewFCMSender(fcm, tokens, logger)
	return senders
}
