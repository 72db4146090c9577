package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"binapp/internal/commons"
	"binapp/internal/config"
	"binapp/internal/customer"
	"binapp/internal/gateway"
	"binapp/internal/infrastructure/logger"
	"binapp/internal/infrastructure/mysql"
	"binapp/internal/infrastructure/redis"
	"binapp/internal/kafka"
	"binapp/internal/order"
	"binapp/internal/priority"
	"binapp/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	rdb := redis.New(cfg.Redis.Addr)
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	priorityModule := priority.NewModule(db, rdb, cfg.Sync, zapLogger)

	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, zapLogger)
		producer.Start(ctx)

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, zapLogger)
		consumer.Start(ctx, func(ctx context.Context, event kafka.OrderCreatedEvent) {
			priorityModule.Scheduler.Trigger()
		})
		zapLogger.Info("kafka order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	var publisher priority.OrderEventPublisher
	if producer != nil {
		publisher = producer
	}
	notifier := priority.NewOrderCreatedFanout(priorityModule.Scheduler, publisher)

	customerCtrl := customer.NewModule(db, zapLogger)
	orderCtrl := order.NewModule(db, notifier, zapLogger)

	gatewayCtrl, err := gateway.NewModule(cfg.Twilio, zapLogger)
	if err != nil {
		zapLogger.Fatal("configuring outbound gateway", zap.Error(err))
	}

	router := server.NewRouter(cfg.Server.AllowedOrigin,
		customerCtrl, orderCtrl, priorityModule.Controller, gatewayCtrl)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	go priorityModule.Scheduler.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	// Stop the scheduler and event plumbing first; in-flight writes finish
	// under the shutdown budget.
	cancel()
	if producer != nil {
		producer.Wait()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig prefers a YAML file when CONFIG_FILE points at one and falls
// back to environment variables.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfigFile(path)
	}
	return config.Load()
}
