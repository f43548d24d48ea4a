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

	addUnavailableDateHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/add_unavailable_date"
	bookAppointmentHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/get_availability"
	getDoctorAppointmentsHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/get_doctor_appointments"
	getFreeSlotsHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/get_free_slots"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/get_patient_appointments"
	removeUnavailableDateHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/remove_unavailable_date"
	saveAvailabilityHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/save_availability"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-DoctorScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-DoctorScheduling/internal/config"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/availability"
	"github.com/m04kA/SMC-DoctorScheduling/internal/integrations/doctorservice"
	appointmentsService "github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-DoctorScheduling/internal/service/availability"
	bookAppointmentUC "github.com/m04kA/SMC-DoctorScheduling/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/logger"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/metrics"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/txmanager"
)

// Хранилища, общие для сервисов и use case
type appointmentStore interface {
	bookAppointmentUC.AppointmentRepository
	appointmentsService.AppointmentRepository
	availabilityService.AppointmentRepository
}

type availabilityStore interface {
	availabilityService.AvailabilityRepository
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type metricsRecorder interface {
	bookAppointmentUC.MetricsRecorder
	availabilityService.MetricsRecorder
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-DoctorScheduling...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var recorder metricsRecorder = metrics.Nop{}
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилища
	var (
		appointments appointmentStore
		availability availabilityStore
		txMgr        txManager
	)

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		tm := txmanager.NewTransactionManager(db)
		appointments = appointmentRepo.NewRepository(db)
		availability = availabilityRepo.NewRepository(db, tm)
		txMgr = tm

	case config.BackendMemory:
		appointments = appointmentRepo.NewMemoryStore()
		availability = availabilityRepo.NewMemoryStore()
		txMgr = txmanager.Nop{}
		log.Warn("Using in-memory storage, data will be lost on restart")
	}

	// Инициализируем блокировку врача
	var locker lock.Locker
	switch cfg.Lock.Backend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		redisLocker := lock.NewRedisLocker(client, lock.RedisOptions{
			TTL:           cfg.Lock.TTL(),
			WaitTimeout:   cfg.Lock.WaitTimeout(),
			RetryInterval: cfg.Lock.RetryInterval(),
		})
		defer redisLocker.Close()
		locker = redisLocker
		log.Info("Redis doctor lock initialized (addr=%s)", cfg.Redis.Addr)

	case config.BackendMemory:
		locker = lock.NewMemoryLocker(cfg.Lock.WaitTimeout())
		log.Info("In-process doctor lock initialized")
	}

	// Справочник врачей
	var doctors bookAppointmentUC.DoctorDirectory = doctorservice.AllowAll{}
	if cfg.DoctorService.URL != "" {
		doctors = doctorservice.NewClient(
			cfg.DoctorService.URL,
			time.Duration(cfg.DoctorService.Timeout)*time.Second,
			log,
		)
		log.Info("Doctor directory client initialized (url=%s timeout=%ds)",
			cfg.DoctorService.URL, cfg.DoctorService.Timeout)
	} else {
		log.Warn("Doctor directory URL is empty, every doctor id is accepted")
	}

	// Инициализируем сервисы
	hours := cfg.Scheduling.BusinessHours()

	resolver := availabilityService.NewResolver(
		availability,
		appointments,
		recorder,
		availabilityService.ResolverOptions{
			SlotDurationMinutes: cfg.Scheduling.SlotDurationMinutes,
			Hours:               hours,
			HonorCustomRanges:   cfg.Scheduling.HonorCustomRanges,
			MinNoticeMinutes:    cfg.Scheduling.MinBookingNoticeMinutes,
		},
		log,
	)
	availabilitySvc := availabilityService.NewService(availability, locker, hours, log)
	appointmentsSvc := appointmentsService.NewService(appointments, locker, log)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointments,
		resolver,
		doctors,
		locker,
		txMgr,
		recorder,
		cfg.Scheduling.BookingHorizonMonths,
		log,
	)

	// Инициализируем handlers
	getFreeSlots := getFreeSlotsHandler.NewHandler(resolver, doctors, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	saveAvailability := saveAvailabilityHandler.NewHandler(availabilitySvc, log)
	addUnavailableDate := addUnavailableDateHandler.NewHandler(availabilitySvc, log)
	removeUnavailableDate := removeUnavailableDateHandler.NewHandler(availabilitySvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Метрики снаружи recovery, чтобы учитывать ответы 500 после panic
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	r.Use(middleware.Recovery(log))

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Расписание врача ---
	api.HandleFunc("/doctors/{doctorId}/free-slots", getFreeSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/availability", saveAvailability.Handle).Methods(http.MethodPut)
	api.HandleFunc("/doctors/{doctorId}/unavailable-dates", addUnavailableDate.Handle).Methods(http.MethodPost)
	api.HandleFunc("/doctors/{doctorId}/unavailable-dates/{date}", removeUnavailableDate.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

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

	log.Info("Server stopped gracefully")
}
