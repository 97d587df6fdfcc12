package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/robfig/cron/v3"

	"order-pipeline/internal/aws"
	"order-pipeline/internal/config"
	"order-pipeline/internal/lifecycle"
	"order-pipeline/internal/orders"
	"order-pipeline/internal/sweep"
)

const metricsNamespace = "OrderPipeline/Sweep"

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

	var promoter sweep.Promoter
	if cfg.SweepMode == config.SweepModeEnqueue && cfg.PromotionsQueue != "" {
		publisher := aws.NewPromotionPublisher(clients.SQS, cfg.PromotionsQueue)
		promoter = sweep.PromoteFunc(publisher.Publish)
	} else {
		promoter = sweep.PromoteFunc(func(ctx context.Context, orderID string) error {
			_, err := engine.AdvanceToPreparation(ctx, orderID)
			return err
		})
	}

	reporter := sweep.NewCloudWatchReporter(clients.CloudWatch, metricsNamespace, log)
	sweeper := sweep.NewSweeper(orderStore, promoter, reporter, cfg.SweepThreshold, log)

	// if environment variable RUN_LOCAL is set to "true", run on a local cron
	// schedule instead of waiting for the scheduled trigger.
	if os.Getenv("RUN_LOCAL") == "true" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.SweepSchedule, func() {
			if _, err := sweeper.Run(context.Background()); err != nil {
				log.Error("sweep failed", "error", err)
			}
		}); err != nil {
			log.Error("invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
			os.Exit(1)
		}
		log.Info("running local sweep schedule", "schedule", cfg.SweepSchedule)
		c.Run()
		return
	}

	lambda.Start(func(ctx context.Context, _ events.CloudWatchEvent) (sweep.Summary, error) {
		return sweeper.Run(ctx)
	})
}
