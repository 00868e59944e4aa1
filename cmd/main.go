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
	"github.com/redis/go-redis/v9"

	bookAppointmentHandler "github.com/trimtime/booking-service/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/trimtime/booking-service/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/trimtime/booking-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/trimtime/booking-service/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/trimtime/booking-service/internal/api/handlers/get_business_appointments"
	getCustomerAppointmentsHandler "github.com/trimtime/booking-service/internal/api/handlers/get_customer_appointments"
	getScheduleHandler "github.com/trimtime/booking-service/internal/api/handlers/get_schedule"
	updateScheduleHandler "github.com/trimtime/booking-service/internal/api/handlers/update_schedule"
	"github.com/trimtime/booking-service/internal/api/middleware"
	"github.com/trimtime/booking-service/internal/config"
	"github.com/trimtime/booking-service/internal/infra/cache"
	appointmentRepo "github.com/trimtime/booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/trimtime/booking-service/internal/infra/storage/schedule"
	businessServiceClient "github.com/trimtime/booking-service/internal/integrations/businessservice"
	loyaltyServiceClient "github.com/trimtime/booking-service/internal/integrations/loyaltyservice"
	appointmentsService "github.com/trimtime/booking-service/internal/service/appointments"
	scheduleService "github.com/trimtime/booking-service/internal/service/schedule"
	bookAppointmentUC "github.com/trimtime/booking-service/internal/usecase/book_appointment"
	getAvailableSlotsUC "github.com/trimtime/booking-service/internal/usecase/get_available_slots"
	"github.com/trimtime/booking-service/pkg/dbmetrics"
	"github.com/trimtime/booking-service/pkg/logger"
	"github.com/trimtime/booking-service/pkg/metrics"
	"github.com/trimtime/booking-service/pkg/simpletxmanager"
	"github.com/trimtime/booking-service/pkg/txmanager"
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

	log.Info("Starting TrimTime BookingService...")
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

	// Подключаемся к Redis (если включен). Без кеша сервис работает,
	// просто считает сетку слотов на каждый запрос.
	var (
		redisClient      *redis.Client
		slotCacheReader  getAvailableSlotsUC.SlotCache
		slotCacheBooking bookAppointmentUC.SlotCacheInvalidator
		slotCacheAppts   appointmentsService.SlotCacheInvalidator
	)
	if cfg.Redis.Enabled {
		redisClient = cache.NewRedisClient(cfg.Redis)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Ping(pingCtx, redisClient); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancelPing()
		defer redisClient.Close()

		slotCache := cache.NewSlotCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		slotCacheReader = slotCache
		slotCacheBooking = slotCache
		slotCacheAppts = slotCache
		log.Info("Slot cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.TTLSeconds)
	} else {
		log.Info("Slot cache disabled")
	}

	// Инициализируем интеграционных клиентов
	businessClient := businessServiceClient.NewClient(
		cfg.BusinessService.URL,
		time.Duration(cfg.BusinessService.Timeout)*time.Second,
		log,
	)
	loyaltyClient := loyaltyServiceClient.NewClient(
		cfg.LoyaltyService.URL,
		time.Duration(cfg.LoyaltyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (BusinessService=%s timeout=%ds, LoyaltyService=%s timeout=%ds)",
		cfg.BusinessService.URL, cfg.BusinessService.Timeout, cfg.LoyaltyService.URL, cfg.LoyaltyService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		businessClient,
		slotCacheAppts,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		businessClient,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		businessClient,
		loyaltyClient,
		slotCacheReader,
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		businessClient,
		loyaltyClient,
		slotCacheBooking,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
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

	// Сетка доступных слотов салона
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Публичное создание записи
	api.HandleFunc("/appointments/public/book",
		bookAppointment.Handle).Methods(http.MethodPost)

	// Действующее расписание салона
	api.HandleFunc("/businesses/{businessId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Записи ---
	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для менеджеров) ---
	// Список записей салона
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

	// Обновление расписания салона
	protected.HandleFunc("/businesses/{businessId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

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
