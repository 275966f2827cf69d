// Command budget-events consumes budget-fetched events from AMQP and logs
// them, one line per dashboard query.
package main

import (
	"context"
	"errors"
	"os"

	"budgetdash/internal/amqp"
	"budgetdash/internal/cli"
	"budgetdash/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentAMQP)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentAMQP)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required", log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("Consuming budget events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeBudgetFetched(ctx, func(ctx context.Context, msg *amqp.BudgetFetchedMessage) error {
		fields := log.NewFields().WithQuery(msg.Department, msg.Ward).WithOperation(log.OpConsume)
		fields[log.FieldItemCount] = msg.ItemCount
		fields[log.FieldTotal] = msg.TotalBudget
		fields["fetched_at"] = msg.FetchedAt
		logger.InfoContext(ctx, "Budget fetched", fields.ToSlice()...)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Consumer stopped")
}
