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

	cancelReservationHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/get_reservation"
	getStatsHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/get_stats"
	listReservationsHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/list_reservations"
	updatePaymentStatusHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/update_payment_status"
	updateStatusHandler "github.com/vkarpenko/shine-booking/internal/api/handlers/update_status"
	"github.com/vkarpenko/shine-booking/internal/api/middleware"
	"github.com/vkarpenko/shine-booking/internal/config"
	customerRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/customer"
	reservationRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/reservation"
	pricingClient "github.com/vkarpenko/shine-booking/internal/integrations/pricing"
	"github.com/vkarpenko/shine-booking/internal/service/events"
	reservationsService "github.com/vkarpenko/shine-booking/internal/service/reservations"
	createReservationUC "github.com/vkarpenko/shine-booking/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/vkarpenko/shine-booking/internal/usecase/get_available_slots"
	getStatsUC "github.com/vkarpenko/shine-booking/internal/usecase/get_stats"
	"github.com/vkarpenko/shine-booking/pkg/dbmetrics"
	"github.com/vkarpenko/shine-booking/pkg/logger"
	"github.com/vkarpenko/shine-booking/pkg/metrics"
	"github.com/vkarpenko/shine-booking/pkg/simpletxmanager"
	"github.com/vkarpenko/shine-booking/pkg/txmanager"
	"github.com/vkarpenko/shine-booking/pkg/types"
)

// EventPublisher общий интерфейс реального паблишера и заглушки
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
}

// TxManager общий интерфейс обоих transaction manager'ов
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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

	log.Info("Starting shine-booking...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиент каталога услуг и прайсинга
	pricing := pricingClient.NewClient(
		cfg.Pricing.URL,
		time.Duration(cfg.Pricing.Timeout)*time.Second,
		log,
	)
	log.Info("Pricing client initialized (url=%s timeout=%ds)", cfg.Pricing.URL, cfg.Pricing.Timeout)

	// Инициализируем публикацию событий (если включена)
	var publisher EventPublisher = events.Disabled{}
	var amqpPublisher *events.Publisher

	if cfg.Events.Enabled {
		amqpPublisher, err = events.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Event publisher connected (queue=%s)", cfg.Events.Queue)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		customerRepository    *customerRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Бизнес-параметры бронирования из конфигурации
	bookingSettings := createReservationUC.Settings{
		OpenTime:           types.TimeString(cfg.Booking.OpenTime),
		CloseTime:          types.TimeString(cfg.Booking.CloseTime),
		GranularityMinutes: cfg.Booking.SlotGranularityMinutes,
		ReferencePrefix:    cfg.Booking.ReferencePrefix,
		LegacyExactMatch:   cfg.Booking.LegacyExactMatchConflicts,
	}
	slotsSettings := getAvailableSlotsUC.Settings{
		OpenTime:           types.TimeString(cfg.Booking.OpenTime),
		CloseTime:          types.TimeString(cfg.Booking.CloseTime),
		GranularityMinutes: cfg.Booking.SlotGranularityMinutes,
		LegacyExactMatch:   cfg.Booking.LegacyExactMatchConflicts,
	}
	if cfg.Booking.LegacyExactMatchConflicts {
		log.Warn("Legacy exact-match conflict detection enabled, intervals will not be checked for overlap")
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		customerRepository,
		txMgr,
		publisher,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		customerRepository,
		pricing,
		txMgr,
		publisher,
		bookingSettings,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		pricing,
		slotsSettings,
		log,
	)

	getStatsUseCase := getStatsUC.NewUseCase(reservationRepository, log)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	updateStatus := updateStatusHandler.NewHandler(reservationSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(reservationSvc, log)
	getStats := getStatsHandler.NewHandler(getStatsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка доступных слотов на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по референсу (для клиента по письму-подтверждению)
	api.HandleFunc("/reservations/reference/{reference}", getReservation.HandleByReference).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Список бронирований с фильтрацией
	protected.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.HandleByID).Methods(http.MethodGet)

	// Смена статуса бронирования
	protected.HandleFunc("/reservations/{reservationId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// Обновление оплаты
	protected.HandleFunc("/reservations/{reservationId}/payment", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Статистика ---
	protected.HandleFunc("/stats", getStats.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
