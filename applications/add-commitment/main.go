// Lambda function that validates a payment commitment and stores it in DynamoDB.
// With ENV=LOCAL it runs as a plain HTTP server instead.

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/k-kazuya0926/payment-commitments/internal/commitment"
	"github.com/k-kazuya0926/payment-commitments/internal/handler"
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/config"
	"github.com/k-kazuya0926/payment-commitments/internal/pkg/logger"
	"github.com/k-kazuya0926/payment-commitments/internal/store/boltstore"
	"github.com/k-kazuya0926/payment-commitments/internal/store/dynamo"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config, %v", err)
	}

	appLogger := logger.NewLogger(cfg.Log.Level)

	// Built once per process and shared by every invocation.
	store, closeStore, err := newStore(context.Background(), cfg, appLogger)
	if err != nil {
		log.Fatalf("unable to initialise store, %v", err)
	}

	h := handler.New(
		commitment.NewWriter(store, appLogger),
		appLogger,
		handler.WithErrorStack(cfg.ExposeErrorStack),
	)

	if cfg.IsLocal() {
		appLogger.Info("starting local server", "addr", cfg.Local.Addr, "store", cfg.Store.Backend)
		http.Handle("/", h.HTTPHandler())
		err := http.ListenAndServe(cfg.Local.Addr, nil)
		closeStore()
		log.Fatal(err)
	}

	lambda.Start(h.Handle)
}

func newStore(ctx context.Context, cfg config.Config, appLogger *slog.Logger) (commitment.Store, func(), error) {
	if cfg.Store.Backend == config.StoreBackendBolt {
		s, err := boltstore.Open(cfg.Store.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	client := dynamo.NewClient(awsCfg, cfg.Store.DynamoDBEndpoint)
	return dynamo.NewStore(client, cfg.Store.TableName, appLogger), func() {}, nil
}
