package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"legal-research-be/internal/config"
	"legal-research-be/pkg/events"
	pkgNats "legal-research-be/pkg/nats"
)

// Tails research events off the NATS bus. Handy for checking that the
// pipeline announces completions in a deployed environment:
//
//	go run ./cmd/events_tail
func main() {
	cfg := config.Load()

	sub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	subject := pkgNats.SubjectFor(events.ResearchCompletedType)
	err = sub.Subscribe(subject, "events-tail", func(ctx context.Context, event events.Event) error {
		color.Yellow("[%s] %s", event.Timestamp().Format("15:04:05"), event.EventType())
		pretty, _ := json.MarshalIndent(event.Payload(), "", "  ")
		fmt.Println(string(pretty))
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Failed to subscribe to %s: %v", subject, err)
	}

	color.Cyan("Tailing %s (Ctrl+C to stop)...", subject)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
}
