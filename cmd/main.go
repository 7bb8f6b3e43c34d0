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

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	cancelBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_booking"
	changePriceHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/change_price"
	concentratorSignalHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/concentrator_signal"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	createParkinglotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_parkinglot"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getDriverBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_driver_bookings"
	getOwnerParkinglotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_owner_parkinglots"
	getParkinglotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_parkinglot"
	getParkinglotSpacesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_parkinglot_spaces"
	getPublicParkinglotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_public_parkinglot"
	registerConcentratorHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/register_concentrator"
	registerSpacesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/register_spaces"
	searchParkinglotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/search_parkinglots"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/events"
	"github.com/m04kA/SMC-ParkingService/internal/infra/eventbus"
	"github.com/m04kA/SMC-ParkingService/internal/infra/geo"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	parkinglotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/parkinglot"
	searchRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/search"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/searchindex"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	parkinglotsService "github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	searchParkinglotsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/search_parkinglots"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

type bookingStore interface {
	bookingsService.BookingRepository
	createBookingUC.BookingRepository
}

type parkinglotStore interface {
	parkinglotsService.ParkinglotRepository
	createBookingUC.ParkinglotRepository
}

// storage хранилища и шина, собранные под окружение
type storage struct {
	bookings    bookingStore
	parkinglots parkinglotStore
	search      searchParkinglotsUC.SearchIndex
	bus         bookingsService.EventBus
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

	log.Info("Starting SMC-ParkingService API (env=%s)...", cfg.Env)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	pricing, err := domain.NewPricingPolicy(cfg.Booking.PricingPolicy)
	if err != nil {
		log.Fatal("Invalid pricing policy: %v", err)
	}
	grid := geo.NewH3Grid()

	var (
		st       storage
		localBus *eventbus.MemoryBus
		index    events.SearchIndex
	)

	if cfg.Env == config.EnvLocal {
		// Все в памяти процесса: обработчики событий подписаны прямо на шину
		localBus = eventbus.NewMemoryBus(metricsCollector, log)
		memoryIndex := memory.NewSearchIndex()
		st = storage{
			bookings:    memory.NewBookingRepository(),
			parkinglots: memory.NewParkinglotRepository(),
			search:      memoryIndex,
			bus:         localBus,
		}
		index = memoryIndex
		log.Info("Using in-memory repositories and event bus")
	} else {
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

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		txMgr := txmanager.NewTransactionManager(wrappedDB)

		// Продюсер событий
		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Kafka.Brokers...),
			kgo.ClientID(cfg.Metrics.ServiceName+"-api"),
		)
		if err != nil {
			log.Fatal("Failed to create Kafka client: %v", err)
		}
		defer kafkaClient.Close()
		log.Info("Kafka producer ready (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)

		st = storage{
			bookings:    bookingRepo.NewRepository(wrappedDB),
			parkinglots: parkinglotRepo.NewRepository(wrappedDB, txMgr),
			search:      searchRepo.NewRepository(wrappedDB),
			bus:         eventbus.NewKafkaBus(kafkaClient, cfg.Kafka.Topic, metricsCollector, log),
		}

		// Индекс в Redis наполняет воркер по ParkinglotCreated
		if cfg.Redis.Enabled {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer redisClient.Close()
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				log.Fatal("Failed to ping Redis: %v", err)
			}
			st.search = searchindex.NewIndex(redisClient)
			log.Info("Search served from Redis index at %s", cfg.Redis.Addr)
		} else {
			log.Info("Search served from PostgreSQL")
		}
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(st.bookings, st.bus, log)
	parkinglotSvc := parkinglotsService.NewService(st.parkinglots, st.bus, grid, pricing, metricsCollector, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(st.bookings, st.parkinglots, st.bus, log)
	searchUseCase := searchParkinglotsUC.NewUseCase(st.search, grid, cfg.Search.MaxEndDistance, log)

	if localBus != nil {
		dispatcher := events.NewDispatcher(cfg.Events.ConflictRetries, metricsCollector, log)
		events.RegisterHandlers(dispatcher, bookingSvc, parkinglotSvc, index)
		localBus.Subscribe(dispatcher)
		log.Info("Event handlers subscribed to in-memory bus")
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getDriverBookings := getDriverBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	createParkinglot := createParkinglotHandler.NewHandler(parkinglotSvc, log)
	getOwnerParkinglots := getOwnerParkinglotsHandler.NewHandler(parkinglotSvc, log)
	getParkinglot := getParkinglotHandler.NewHandler(parkinglotSvc, log)
	changePrice := changePriceHandler.NewHandler(parkinglotSvc, log)
	registerSpaces := registerSpacesHandler.NewHandler(parkinglotSvc, log)
	registerConcentrator := registerConcentratorHandler.NewHandler(parkinglotSvc, log)

	getPublicParkinglot := getPublicParkinglotHandler.NewHandler(parkinglotSvc, log)
	getParkinglotSpaces := getParkinglotSpacesHandler.NewHandler(parkinglotSvc, log)
	searchParkinglots := searchParkinglotsHandler.NewHandler(searchUseCase, searchParkinglotsHandler.Defaults{
		StartDistance: cfg.Search.DefaultStartDistance,
		EndDistance:   cfg.Search.DefaultEndDistance,
		Limit:         cfg.Search.DefaultLimit,
	}, log)

	takeSpace := concentratorSignalHandler.NewTakeHandler(parkinglotSvc, log)
	releaseSpace := concentratorSignalHandler.NewReleaseHandler(parkinglotSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/public/parkinglots/{parkinglotId}", getPublicParkinglot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/public/parkinglots/{parkinglotId}/spaces", getParkinglotSpaces.Handle).Methods(http.MethodGet)
	api.HandleFunc("/search", searchParkinglots.Handle).Methods(http.MethodGet)

	// ============================================================
	// CONCENTRATOR ROUTES (X-Concentrator-ID, проверяется сервисом)
	// ============================================================

	api.HandleFunc("/concentrators/parkinglots/{parkinglotId}/spaces/{spaceId}/take", takeSpace.Handle).Methods(http.MethodPost)
	api.HandleFunc("/concentrators/parkinglots/{parkinglotId}/spaces/{spaceId}/release", releaseSpace.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT или X-User-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, cfg.Auth.AllowHeaderIdentity))

	// --- Бронирования водителя ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings", getDriverBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Парковки владельца ---
	protected.HandleFunc("/parkinglots", createParkinglot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/parkinglots", getOwnerParkinglots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/parkinglots/{parkinglotId}", getParkinglot.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/parkinglots/{parkinglotId}/price", changePrice.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/parkinglots/{parkinglotId}/spaces", registerSpaces.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/parkinglots/{parkinglotId}/concentrator", registerConcentrator.Handle).Methods(http.MethodPut)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.HeaderUserID, concentratorSignalHandler.HeaderConcentratorID}),
	)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      cors(r),
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

	close(stopMetricsCh)

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
