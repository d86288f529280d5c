package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"mental-health-agent-be/internal/bootstrap"
	"mental-health-agent-be/internal/config"
	"mental-health-agent-be/internal/model"
	"mental-health-agent-be/internal/server"
	"mental-health-agent-be/internal/tracer"
	"mental-health-agent-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, tracer.ServiceName)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if cfg.Database.AutoMigrate {
		if err := gormDB.AutoMigrate(model.Models()...); err != nil {
			log.Panicf("AutoMigrate failed: %v", err)
		}
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	// outlives ctx so records queued by in-flight requests still reach the store
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if err := container.ConsumerService.Consume(consumerCtx); err != nil {
		log.Panicf("Unable to start persistence consumer: %v", err)
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	select {
	case err := <-serverErr:
		log.Printf("Server stopped: %v", err)
	case <-ctx.Done():
		log.Println("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.Persistence.WriteTimeout+time.Second)
	container.DrainPersistence(drainCtx)
	cancelDrain()
	stopConsumer()
	container.Close()

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
