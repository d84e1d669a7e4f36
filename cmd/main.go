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

	cancelBookingHandler "github.com/slotmind/booking-engine/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/slotmind/booking-engine/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/slotmind/booking-engine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/slotmind/booking-engine/internal/api/handlers/get_booking"
	getTenantBookingsHandler "github.com/slotmind/booking-engine/internal/api/handlers/get_tenant_bookings"
	joinWaitlistHandler "github.com/slotmind/booking-engine/internal/api/handlers/join_waitlist"
	rescheduleBookingHandler "github.com/slotmind/booking-engine/internal/api/handlers/reschedule_booking"
	"github.com/slotmind/booking-engine/internal/api/middleware"
	"github.com/slotmind/booking-engine/internal/config"
	auditRepo "github.com/slotmind/booking-engine/internal/infra/storage/audit"
	bookingRepo "github.com/slotmind/booking-engine/internal/infra/storage/booking"
	exceptionRepo "github.com/slotmind/booking-engine/internal/infra/storage/exception"
	ruleRepo "github.com/slotmind/booking-engine/internal/infra/storage/rule"
	tenantRepo "github.com/slotmind/booking-engine/internal/infra/storage/tenant"
	waitlistRepo "github.com/slotmind/booking-engine/internal/infra/storage/waitlist"
	directoryServiceClient "github.com/slotmind/booking-engine/internal/integrations/directoryservice"
	notifyServiceClient "github.com/slotmind/booking-engine/internal/integrations/notifyservice"
	"github.com/slotmind/booking-engine/internal/quota"
	bookingsService "github.com/slotmind/booking-engine/internal/service/bookings"
	waitlistService "github.com/slotmind/booking-engine/internal/service/waitlist"
	cancelBookingUC "github.com/slotmind/booking-engine/internal/usecase/cancel_booking"
	createBookingUC "github.com/slotmind/booking-engine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/slotmind/booking-engine/internal/usecase/get_available_slots"
	joinWaitlistUC "github.com/slotmind/booking-engine/internal/usecase/join_waitlist"
	rescheduleBookingUC "github.com/slotmind/booking-engine/internal/usecase/reschedule_booking"
	"github.com/slotmind/booking-engine/internal/worker"
	"github.com/slotmind/booking-engine/pkg/dbmetrics"
	"github.com/slotmind/booking-engine/pkg/logger"
	"github.com/slotmind/booking-engine/pkg/metrics"
	"github.com/slotmind/booking-engine/pkg/txmanager"
)

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

	log.Info("Starting booking-engine...")
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

	// Оборачиваем пул: при выключенных метриках обёртка прозрачна
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	// Инициализируем интеграционных клиентов
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
	)
	log.Info("Integration clients initialized (DirectoryService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	exceptionRepository := exceptionRepo.NewRepository(wrappedDB)
	waitlistRepository := waitlistRepo.NewRepository(wrappedDB)
	auditRepository := auditRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем доменные компоненты
	quotaEnforcer := quota.NewEnforcer(bookingRepository)
	waitlistCoordinator := waitlistService.NewCoordinator(
		waitlistRepository,
		notifyClient,
		waitlistService.RealTimeProvider{},
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		ruleRepository,
		exceptionRepository,
		quotaEnforcer,
		waitlistCoordinator,
		directoryClient,
		notifyClient,
		auditRepository,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		waitlistCoordinator,
		auditRepository,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		ruleRepository,
		exceptionRepository,
		quotaEnforcer,
		auditRepository,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		ruleRepository,
		exceptionRepository,
		quotaEnforcer,
		directoryClient,
		log,
	)
	joinWaitlistUseCase := joinWaitlistUC.NewUseCase(
		tenantRepository,
		waitlistCoordinator,
		directoryClient,
		auditRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(joinWaitlistUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозной идентификатор запроса
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Ограничение частоты запросов (если включено)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
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

	// Получение доступных слотов сотрудника на дату
	api.HandleFunc("/tenants/{tenantId}/staff/{staffId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Список бронирований тенанта
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	// Добавление в лист ожидания
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)

	// Фоновый воркер напоминаний (если включён)
	var reminderDispatcher *worker.Dispatcher
	if cfg.Reminder.Enabled {
		reminderDispatcher = worker.NewDispatcher(
			worker.Config{
				Interval: time.Duration(cfg.Reminder.IntervalSeconds) * time.Second,
				Lead:     time.Duration(cfg.Reminder.LeadMinutes) * time.Minute,
			},
			bookingRepository,
			notifyClient,
			log,
		)
		reminderDispatcher.Start(context.Background())
		log.Info("Reminder dispatcher started (interval=%ds, lead=%dm)",
			cfg.Reminder.IntervalSeconds, cfg.Reminder.LeadMinutes)
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

	// Останавливаем воркер напоминаний
	if reminderDispatcher != nil {
		reminderDispatcher.Stop()
		log.Info("Reminder dispatcher stopped")
	}

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
