package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"order-pipeline/internal/aws"
	"order-pipeline/internal/config"
	"order-pipeline/internal/documents"
	"order-pipeline/internal/handlers"
	"order-pipeline/internal/lifecycle"
	"order-pipeline/internal/orders"
)

func setupRouter(api *handlers.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// liveness
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.Register(r)

	return r
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()

	orderStore := orders.NewStore(clients.DynamoDB, cfg.OrdersTable)
	docStore := documents.NewStore(clients.S3, clients.S3Presign, cfg.DocumentsBucket, cfg.PresignTTL)
	engine := lifecycle.NewEngine(orderStore, log)

	api := handlers.NewAPI(engine, orderStore, docStore, log)
	r := setupRouter(api)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Info("running local server", "addr", addr)
		if err := r.Run(addr); err != nil {
			log.Error("failed to run local server", "error", err)
			os.Exit(1)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
