package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	cancelBookingHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/get_booking"
	getSlotAssignmentsHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/get_slot_assignments"
	getUserBookingsHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/list_bookings"
	listRoomTypesHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/list_room_types"
	paymentNotificationHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/payment_notification"
	paymentSuccessHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/payment_success"
	updateBookingStatusHandler "github.com/m04kA/SMC-HotelBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-HotelBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HotelBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/booking"
	roomTypeRepo "github.com/m04kA/SMC-HotelBookingService/internal/infra/storage/roomtype"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HotelBookingService/internal/integrations/paymentgateway"
	bookingsService "github.com/m04kA/SMC-HotelBookingService/internal/service/bookings"
	checkAvailabilityUC "github.com/m04kA/SMC-HotelBookingService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-HotelBookingService/internal/usecase/create_booking"
	getSlotAssignmentsUC "github.com/m04kA/SMC-HotelBookingService/internal/usecase/get_slot_assignments"
	reconcilePaymentUC "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
	"github.com/m04kA/SMC-HotelBookingService/internal/worker/expiry"
	"github.com/m04kA/SMC-HotelBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HotelBookingService/pkg/logger"
	"github.com/m04kA/SMC-HotelBookingService/pkg/metrics"
	"github.com/m04kA/SMC-HotelBookingService/pkg/txmanager"
)

// bookingPublisher публикатор событий с закрытием соединения
type bookingPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-HotelBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Оборачиваем соединение: без метрик recorder не передаётся
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	roomTypeRepository := roomTypeRepo.NewRepository(wrappedDB)
	cachedRoomTypes := roomTypeRepo.NewCachedRepository(
		roomTypeRepository,
		time.Duration(cfg.Cache.RoomTypeTTL)*time.Second,
		time.Duration(cfg.Cache.CleanupInterval)*time.Second,
	)

	// Инициализируем интеграционных клиентов
	gatewayClient := paymentgateway.NewClient(
		cfg.Gateway.SnapURL,
		cfg.Gateway.APIURL,
		cfg.Gateway.ServerKey,
		time.Duration(cfg.Gateway.Timeout)*time.Second,
		log.With("component", "payment_gateway"),
	)
	log.Info("Payment gateway client initialized (snap=%s, api=%s, timeout=%ds)",
		cfg.Gateway.SnapURL, cfg.Gateway.APIURL, cfg.Gateway.Timeout)

	var publisher bookingPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		rabbit, err := events.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		publisher = rabbit
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	} else {
		log.Warn("Booking events are disabled")
	}
	defer publisher.Close()

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		bookingRepository,
		cachedRoomTypes,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		cachedRoomTypes,
		checkAvailabilityUseCase,
		gatewayClient,
		publisher,
		txMgr,
		metricsCollector,
		log,
		cfg.Gateway.OrderPrefix,
	)

	reconcilePaymentUseCase := reconcilePaymentUC.NewUseCase(
		bookingRepository,
		cachedRoomTypes,
		checkAvailabilityUseCase,
		gatewayClient,
		publisher,
		txMgr,
		metricsCollector,
		log,
	)

	getSlotAssignmentsUseCase := getSlotAssignmentsUC.NewUseCase(
		bookingRepository,
		cachedRoomTypes,
		metricsCollector,
		log,
		cfg.Slots.Count,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	listRoomTypes := listRoomTypesHandler.NewHandler(roomTypeRepository, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	paymentSuccess := paymentSuccessHandler.NewHandler(reconcilePaymentUseCase, log)
	paymentNotification := paymentNotificationHandler.NewHandler(reconcilePaymentUseCase, log)
	getSlotAssignments := getSlotAssignmentsHandler.NewHandler(getSlotAssignmentsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Ограничение частоты для платёжных эндпоинтов
	paymentLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	limited := middleware.RateLimit(paymentLimiter)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог типов номеров
	api.HandleFunc("/room-types", listRoomTypes.Handle).Methods(http.MethodGet)

	// Доступность типа номера на период
	api.HandleFunc("/room-types/{roomTypeId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// Уведомление платежного шлюза (проверяется подписью)
	api.Handle("/payments/notification", limited(http.HandlerFunc(paymentNotification.Handle))).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (X-User-ID + X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth, middleware.AdminOnly)

	// Список бронирований с фильтрами
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Смена статуса бронирования
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Раскладка бронирований по слотам
	admin.HandleFunc("/room-types/{roomTypeId}/slots", getSlotAssignments.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования гостем
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Подтверждение оплаты со стороны клиента
	protected.Handle("/payments/success", limited(http.HandlerFunc(paymentSuccess.Handle))).Methods(http.MethodPost)

	// Запускаем воркер истечения pending-бронирований
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerDone <-chan struct{}
	if cfg.Expiry.Enabled {
		worker := expiry.NewWorker(
			bookingRepository,
			publisher,
			metricsCollector,
			log.With("component", "expiry_worker"),
			time.Duration(cfg.Expiry.PendingTTLMinutes)*time.Minute,
			time.Duration(cfg.Expiry.IntervalSeconds)*time.Second,
		)
		workerDone = worker.Start(workerCtx)
		log.Info("Expiry worker started (ttl=%dm, interval=%ds)", cfg.Expiry.PendingTTLMinutes, cfg.Expiry.IntervalSeconds)
	} else {
		done := make(chan struct{})
		close(done)
		workerDone = done
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем воркер
	stopWorker()
	<-workerDone

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
