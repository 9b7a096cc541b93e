// Command sync runs the scheduled catalog sync as a Lambda function.
package main

import (
	"context"
	"log"
	"time"

	catalogsync "github.com/gabeliss/tickX/application/sync"
	"github.com/gabeliss/tickX/infrastructure/config"
	"github.com/gabeliss/tickX/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var container *di.Container

func init() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, _, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// Handler runs one sync for a scheduled EventBridge invocation.
func Handler(ctx context.Context, event events.CloudWatchEvent) (*catalogsync.Report, error) {
	container.Logger.Info("Sync invoked",
		zap.String("source", event.Source),
		zap.String("detail_type", event.DetailType),
	)

	report := container.SyncService.Run(ctx)

	failed := 0
	for _, r := range report.Results {
		if r.Error != "" {
			failed++
		}
	}
	container.Logger.Info("Sync finished",
		zap.String("run_id", report.RunID),
		zap.Int("cities_failed", failed),
		zap.Int("events_saved", report.Totals.Events),
		zap.Int("venues_saved", report.Totals.Venues),
	)

	return report, nil
}

func main() {
	lambda.Start(Handler)
}
