package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	addOwnerHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/add_owner"
	calendarFeedHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/calendar_feed"
	changeBookingStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/change_booking_status"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	createCalendarHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_calendar"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_calendar"
	getCalendarBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_calendar_bookings"
	manageBlocksHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/manage_blocks"
	replaceAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/replace_availability"
	saveServiceTypeHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/save_service_type"
	updateBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotsCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/realtime"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/calendar"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
	"github.com/m04kA/SMC-SchedulingService/internal/service/allocator"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	calendarsService "github.com/m04kA/SMC-SchedulingService/internal/service/calendars"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflict"
	"github.com/m04kA/SMC-SchedulingService/internal/service/notifier"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории и менеджер транзакций работают через обёртку с метриками или напрямую
	var (
		executor dbmetrics.DBExecutor
		beginner dbmetrics.TxBeginner
	)
	if cfg.Metrics.Enabled {
		wrapped := dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		executor, beginner = wrapped, wrapped
		log.Info("Database metrics collection started")
	} else {
		executor, beginner = db, dbmetrics.Plain(db)
	}

	calendarRepository := calendarRepo.NewRepository(executor)
	availabilityRepository := availabilityRepo.NewRepository(executor)
	serviceTypeRepository := serviceTypeRepo.NewRepository(executor)
	blockRepository := blockRepo.NewRepository(executor)
	bookingRepository := bookingRepo.NewRepository(executor)
	txMgr := txmanager.NewTransactionManager(beginner)

	// Кэш слотов в Redis (если включен)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis is unavailable at %s, slot cache disabled: %v", cfg.Redis.Addr, err)
			redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("Slot cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Cache.SlotsTTL())
		}
	}
	cache := slotsCache.NewCache(redisClient, cfg.Cache.SlotsTTL())

	// Рассылка изменений доступности подписчикам календаря
	hub := realtime.NewHub(log, cfg.Public.CORSOrigins)
	defer hub.Close()
	availabilityNotifier := notifier.NewNotifier(cache, hub, log)

	// Сервисы движка
	conflictValidator := conflict.NewValidator(bookingRepository, blockRepository, log)
	ownerAllocator := allocator.NewAllocator(calendarRepository, bookingRepository, log)

	staffPolicy := domain.FairnessPolicyFromStrings(cfg.Booking.StaffFairness.ScopeDays, cfg.Booking.StaffFairness.Statuses)
	publicPolicy := domain.FairnessPolicyFromStrings(cfg.Booking.PublicFairness.ScopeDays, cfg.Booking.PublicFairness.Statuses)
	log.Info("Fairness policies: staff=%d days %v, public=%d days %v",
		staffPolicy.ScopeDays, staffPolicy.Statuses, publicPolicy.ScopeDays, publicPolicy.Statuses)

	bookingSvc := bookingsService.NewService(bookingRepository, calendarRepository, txMgr, availabilityNotifier, log)
	calendarSvc := calendarsService.NewService(
		calendarRepository,
		availabilityRepository,
		serviceTypeRepository,
		blockRepository,
		txMgr,
		availabilityNotifier,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		calendarRepository,
		serviceTypeRepository,
		availabilityRepository,
		bookingRepository,
		blockRepository,
		cache,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		calendarRepository,
		serviceTypeRepository,
		availabilityRepository,
		bookingRepository,
		conflictValidator,
		ownerAllocator,
		availabilityNotifier,
		txMgr,
		staffPolicy,
		publicPolicy,
		metricsCollector,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		calendarRepository,
		serviceTypeRepository,
		conflictValidator,
		availabilityNotifier,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	changeBookingStatus := changeBookingStatusHandler.NewHandler(bookingSvc, log)
	getCalendarBookings := getCalendarBookingsHandler.NewHandler(bookingSvc, log)
	createCalendar := createCalendarHandler.NewHandler(calendarSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	addOwner := addOwnerHandler.NewHandler(calendarSvc, log)
	replaceAvailability := replaceAvailabilityHandler.NewHandler(calendarSvc, log)
	saveServiceType := saveServiceTypeHandler.NewHandler(calendarSvc, log)
	manageBlocks := manageBlocksHandler.NewHandler(calendarSvc, log)
	calendarFeed := calendarFeedHandler.NewHandler(calendarSvc, hub, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	limiter := middleware.NewRateLimiter(cfg.Public.RateLimitRPS, cfg.Public.RateLimitBurst)
	go limiter.RunCleanup(stopCh)

	public := api.PathPrefix("/public").Subrouter()
	public.Use(limiter.Limit)

	public.HandleFunc("/calendars/{slug}/slots", getAvailableSlots.HandlePublic).Methods(http.MethodGet)
	public.HandleFunc("/calendars/{slug}/bookings", createBooking.HandlePublic).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT: sub = пользователь, tenant_id)
	// ============================================================

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	// --- Календари ---
	protected.HandleFunc("/calendars", createCalendar.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/calendars", getCalendar.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/calendars/{calendarId}", getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendars/{calendarId}/owners", addOwner.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/calendars/{calendarId}/availability", replaceAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/calendars/{calendarId}/service-types", saveServiceType.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/calendars/{calendarId}/service-types/{serviceTypeId}", saveServiceType.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/calendars/{calendarId}/blocks", manageBlocks.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/calendars/{calendarId}/blocks/{blockId}", manageBlocks.HandleDelete).Methods(http.MethodDelete)

	// --- Слоты и бронирования календаря ---
	protected.HandleFunc("/calendars/{calendarId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendars/{calendarId}/bookings", getCalendarBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendars/{calendarId}/feed", calendarFeed.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/{action}", changeBookingStatus.Handle).Methods(http.MethodPost)

	// CORS для виджета публичной записи
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Public.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopCh)
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
