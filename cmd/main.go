package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	acceptBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/accept_booking"
	cancelBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/create_booking"
	decideRescheduleHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/decide_reschedule"
	estimateCostHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/estimate_cost"
	getAvailabilityHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_calendar"
	getStudentSessionsHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_student_sessions"
	getTutorBookingsHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_tutor_bookings"
	getTutorSessionsHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_tutor_sessions"
	getUserBookingsHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_user_bookings"
	requestRescheduleHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/request_reschedule"
	updateAvailabilityHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/update_availability"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/config"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	calendarCache "github.com/m04kA/SMC-TutoringService/internal/infra/cache/calendar"
	"github.com/m04kA/SMC-TutoringService/internal/infra/messaging/publisher"
	availabilityRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
	profileServiceClient "github.com/m04kA/SMC-TutoringService/internal/integrations/profileservice"
	availabilityService "github.com/m04kA/SMC-TutoringService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-TutoringService/internal/service/bookings"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
	createBookingUC "github.com/m04kA/SMC-TutoringService/internal/usecase/create_booking"
	getCalendarUC "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
	requestRescheduleUC "github.com/m04kA/SMC-TutoringService/internal/usecase/request_reschedule"
	"github.com/m04kA/SMC-TutoringService/migrations"
	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
	"github.com/m04kA/SMC-TutoringService/pkg/metrics"
	"github.com/m04kA/SMC-TutoringService/pkg/migrator"
	"github.com/m04kA/SMC-TutoringService/pkg/tracing"
	"github.com/m04kA/SMC-TutoringService/pkg/txmanager"
)

// Хранилище подменяется конфигурацией (postgres или memory),
// поэтому репозитории описаны объединёнными интерфейсами
type (
	bookingStore interface {
		Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
		GetByID(ctx context.Context, id int64) (*domain.Booking, error)
		GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
		GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
		CountByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) (int, error)
		GetByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) ([]*domain.Booking, error)
		CountByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) (int, error)
		UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
		LockTutor(ctx context.Context, tutorID int64) error
	}

	availabilityStore interface {
		GetByTutorID(ctx context.Context, tutorID int64) (*domain.AvailabilityTemplate, error)
		Upsert(ctx context.Context, template *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error)
	}

	outboxStore interface {
		Insert(ctx context.Context, evt outbox.Event) error
		FetchUnpublished(ctx context.Context, limit int) ([]outbox.Record, error)
		MarkPublished(ctx context.Context, ids []int64) error
	}

	txManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	projectionCache interface {
		getCalendarUC.CalendarCache
		lifecycle.CalendarCache
	}
)

type storage struct {
	bookings     bookingStore
	availability availabilityStore
	outbox       outboxStore
	tx           txManager
	close        func()
}

func main() {
	// Загружаем конфигурацию (файл + переменные окружения TUTORING_*)
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

	log.Info("Starting SMC-TutoringService...")
	log.Info("Configuration loaded (storage=%s)", cfg.Storage.Driver)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Трассировка (OTLP gRPC)
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled (endpoint=%s, ratio=%.2f)", cfg.Tracing.OTLPEndpoint, cfg.Tracing.SampleRatio)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var store *storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store = openMemory()
		log.Warn("Using in-memory storage, data is lost on restart")
	default:
		store, err = openPostgres(ctx, cfg, metricsCollector, stopMetricsCh, log)
		if err != nil {
			log.Fatal("Failed to open postgres storage: %v", err)
		}
	}
	defer store.close()

	// Кэш календаря
	var cache projectionCache = calendarCache.Nop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// кэш не обязателен: календарь считается по хранилищу
			log.Warn("Redis is unavailable (addr=%s): %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache = calendarCache.NewCache(rdb, time.Duration(cfg.Redis.TTL)*time.Second)
		log.Info("Calendar cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Движок жизненного цикла: блокировка репетитора + транзакция + outbox
	engine := lifecycle.NewEngine(
		store.tx,
		store.bookings,
		store.outbox,
		cache,
		metricsCollector,
		time.Duration(cfg.Booking.LockTimeoutMs)*time.Millisecond,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(store.bookings, engine, log)
	availabilitySvc := availabilityService.NewService(store.availability, engine, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.availability,
		profileClient,
		engine,
		log,
	)
	requestRescheduleUseCase := requestRescheduleUC.NewUseCase(
		store.bookings,
		store.availability,
		profileClient,
		engine,
		log,
	)
	getCalendarUseCase := getCalendarUC.NewUseCase(
		store.bookings,
		store.availability,
		cache,
		metricsCollector,
		log,
	)

	// Публикация событий outbox
	var writer publisher.MessageWriter
	if cfg.Outbox.Enabled {
		kafkaWriter := publisher.NewKafkaWriter(cfg.Outbox.BrokerList())
		defer kafkaWriter.Close()
		writer = kafkaWriter
		log.Info("Outbox publisher writes to Kafka (brokers=%s)", cfg.Outbox.Brokers)
	} else {
		writer = publisher.NewLogSink(log)
		log.Info("Outbox publisher writes to log")
	}

	outboxPublisher := publisher.NewPublisher(store.tx, store.outbox, writer, metricsCollector, log, publisher.Config{
		PollEvery: time.Duration(cfg.Outbox.PollIntervalMs) * time.Millisecond,
		BatchSize: cfg.Outbox.BatchSize,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outboxPublisher.Run(ctx)
	}()

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	acceptBooking := acceptBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	requestReschedule := requestRescheduleHandler.NewHandler(requestRescheduleUseCase, log)
	decideReschedule := decideRescheduleHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getTutorBookings := getTutorBookingsHandler.NewHandler(bookingSvc, log)
	getTutorSessions := getTutorSessionsHandler.NewHandler(bookingSvc, log)
	getStudentSessions := getStudentSessionsHandler.NewHandler(bookingSvc, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	estimateCost := estimateCostHandler.NewHandler(log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь репетитора на месяц
	api.HandleFunc("/tutors/{tutorId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Шаблон доступности репетитора
	api.HandleFunc("/tutors/{tutorId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Оценка стоимости занятия
	api.HandleFunc("/estimate", estimateCost.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (студент)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение бронирования (репетитор)
	protected.HandleFunc("/bookings/{bookingId}/accept", acceptBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования (любой участник)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Перенос ---
	protected.HandleFunc("/bookings/{bookingId}/reschedule", requestReschedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reschedule/approve", decideReschedule.Approve).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule/reject", decideReschedule.Reject).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет репетитора ---
	protected.HandleFunc("/tutors/{tutorId}/bookings", getTutorBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tutors/{tutorId}/sessions", getTutorSessions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tutors/{tutorId}/availability", updateAvailability.Handle).Methods(http.MethodPut)

	// --- Кабинет студента ---
	protected.HandleFunc("/students/{studentId}/sessions", getStudentSessions.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// Останавливаем публикацию outbox после HTTP, чтобы не потерять последние события
	stop()
	wg.Wait()
	log.Info("Outbox publisher stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func openMemory() *storage {
	mem := memory.NewStore()
	return &storage{
		bookings:     mem.Bookings(),
		availability: mem.Availability(),
		outbox:       mem.Outbox(),
		tx:           memory.NewTxManager(mem),
		close:        func() {},
	}
}

func openPostgres(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
	stopMetricsCh <-chan struct{},
	log *logger.Logger,
) (*storage, error) {
	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		mig, err := migrator.New(db, migrations.FS, ".")
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := mig.Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("Database migrations applied")
	}

	// При m == nil обёртка прозрачна
	wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopMetricsCh)

	return &storage{
		bookings:     bookingRepo.NewRepository(wrappedDB),
		availability: availabilityRepo.NewRepository(wrappedDB),
		outbox:       outbox.NewRepository(wrappedDB),
		tx:           txmanager.NewTransactionManager(wrappedDB),
		close:        func() { _ = db.Close() },
	}, nil
}
