package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"order-pipeline/internal/aws"
	"order-pipeline/internal/config"
	"order-pipeline/internal/lifecycle"
	"order-pipeline/internal/orders"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()

	orderStore := orders.NewStore(clients.DynamoDB, cfg.OrdersTable)
	engine := lifecycle.NewEngine(orderStore, log)
	p := NewProcessor(engine, log)

	// If RUN_LOCAL=true, simulate a single promotion event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Error("local handler error", "error", err)
			os.Exit(1)
		}
		return
	}

	lambda.Start(p.Handle)
}
