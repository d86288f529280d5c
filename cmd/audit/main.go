package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"mental-health-agent-be/internal/config"
	"mental-health-agent-be/internal/pkg/logger"
	"mental-health-agent-be/pkg/events"

	pktNats "mental-health-agent-be/pkg/nats"
)

// audit tails CHAT_REJECTED events from JetStream into the audit log.
func main() {
	durable := flag.String("durable", "chat-rejected-audit", "JetStream durable consumer name")
	logPath := flag.String("log", "logs/audit.log", "audit log file")
	flag.Parse()

	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	auditLogger := logger.NewZapLogger(*logPath, cfg.App.Environment == "production")
	defer func() { _ = auditLogger.Sync() }()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, events.EventChatRejected, *durable, func(ctx context.Context, event events.Event) error {
		auditLogger.Warn("AUDIT", "Chat message rejected", event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Printf("Tailing %s events (durable %s)", events.EventChatRejected, *durable)
	<-ctx.Done()
}
