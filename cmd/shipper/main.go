package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"order-pipeline/internal/aws"
	"order-pipeline/internal/config"
	"order-pipeline/internal/documents"
	"order-pipeline/internal/intake"
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
	docStore := documents.NewStore(clients.S3, nil, cfg.DocumentsBucket, cfg.PresignTTL)
	engine := lifecycle.NewEngine(orderStore, log)

	router := intake.NewRouter(docStore, engine, log)

	lambda.Start(router.HandleS3Event)
}
