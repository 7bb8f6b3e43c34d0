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

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/events"
	"github.com/m04kA/SMC-ParkingService/internal/infra/eventbus"
	"github.com/m04kA/SMC-ParkingService/internal/infra/geo"
	"github.com/m04kA/SMC-ParkingService/internal/infra/iot"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	parkinglotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/parkinglot"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/searchindex"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	parkinglotsService "github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

// Воркер обрабатывает доменные события из Kafka и сигналы концентраторов из SQS.
// В окружении local события обрабатываются в процессе API, воркер не нужен.
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfg.Env != config.EnvProduction {
		log.Fatal("Worker requires env=%s, got %s", config.EnvProduction, cfg.Env)
	}
	log.Info("Starting SMC-ParkingService worker...")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
	}

	pricing, err := domain.NewPricingPolicy(cfg.Booking.PricingPolicy)
	if err != nil {
		log.Fatal("Invalid pricing policy: %v", err)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Клиент Kafka читает группой и публикует события обработчиков в тот же топик
	kafkaClient, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Kafka.Brokers...),
		kgo.ClientID(cfg.Metrics.ServiceName+"-worker"),
		kgo.ConsumerGroup(cfg.Kafka.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Kafka.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		log.Fatal("Failed to create Kafka client: %v", err)
	}
	defer kafkaClient.Close()
	log.Info("Kafka consumer ready (brokers=%v, topic=%s, group=%s)",
		cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup)

	bus := eventbus.NewKafkaBus(kafkaClient, cfg.Kafka.Topic, metricsCollector, log)

	bookingSvc := bookingsService.NewService(bookingRepo.NewRepository(wrappedDB), bus, log)
	parkinglotSvc := parkinglotsService.NewService(
		parkinglotRepo.NewRepository(wrappedDB, txMgr),
		bus,
		geo.NewH3Grid(),
		pricing,
		metricsCollector,
		log,
	)

	// Проекция ParkinglotCreated в Redis нужна, только если поиск читает Redis
	var index events.SearchIndex
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
		index = searchindex.NewIndex(redisClient)
		log.Info("Projecting parkinglots into Redis at %s", cfg.Redis.Addr)
	}

	dispatcher := events.NewDispatcher(cfg.Events.ConflictRetries, metricsCollector, log)
	events.RegisterHandlers(dispatcher, bookingSvc, parkinglotSvc, index)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := events.NewWorker(kafkaClient, dispatcher, log).Run(ctx); err != nil {
			log.Error("Event worker stopped with error: %v", err)
		}
	}()

	if cfg.SQS.Enabled {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.SQS.Region))
		if err != nil {
			log.Fatal("Failed to load AWS config: %v", err)
		}
		consumer := iot.NewSQSConsumer(sqs.NewFromConfig(awsCfg), iot.Options{
			QueueURL:          cfg.SQS.QueueURL,
			WaitTimeSeconds:   cfg.SQS.WaitTimeSeconds,
			MaxMessages:       cfg.SQS.MaxMessages,
			VisibilityTimeout: cfg.SQS.VisibilityTimeout,
		}, parkinglotSvc, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil {
				log.Error("SQS consumer stopped with error: %v", err)
			}
		}()
	}

	// Метрики воркера отдаются отдельным сервером
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:           mux,
			ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		}
		go func() {
			log.Info("Worker metrics exposed at %s%s", metricsSrv.Addr, cfg.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	cancel()
	wg.Wait()
	close(stopMetricsCh)

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Metrics server forced to shutdown: %v", err)
		}
	}

	log.Info("Worker stopped gracefully")
}
