package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kb-agent-lambda/internal/config"
	"kb-agent-lambda/pkg/events"
	pktNats "kb-agent-lambda/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var durableName string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail turn events from NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.App.NatsURL == "" {
			return fmt.Errorf("NATS_URL is not set")
		}

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		consumer, err := sub.Subscribe(ctx, events.SubjectFor(events.TypeTurnCompleted), durableName, printEvent)
		if err != nil {
			return err
		}
		defer consumer.Stop()

		color.Cyan("Listening on %s", events.SubjectFor(events.TypeTurnCompleted))
		<-ctx.Done()
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&durableName, "durable", "", "Durable consumer name")
}

func printEvent(ctx context.Context, e events.Event) error {
	b, err := json.MarshalIndent(e.Payload(), "", "  ")
	if err != nil {
		return err
	}
	color.Green("%s at %s", e.EventType(), e.Timestamp().Format("15:04:05"))
	fmt.Println(string(b))
	return nil
}
