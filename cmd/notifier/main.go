package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"order-pipeline/internal/aws"
	"order-pipeline/internal/config"
	"order-pipeline/internal/notify"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()

	mailer := notify.NewMailer(clients.SES, cfg.SenderAddress)
	detector := notify.NewDetector(mailer, log)

	lambda.Start(detector.HandleStream)
}
