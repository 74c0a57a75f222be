// Package main is the entry point for the translation platform Lambda
// function.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lexiflow/translation-platform/internal/backend"
	"github.com/lexiflow/translation-platform/internal/config"
	"github.com/lexiflow/translation-platform/internal/handler"
	"github.com/lexiflow/translation-platform/internal/logging"
	"github.com/lexiflow/translation-platform/internal/orchestrator"
	"github.com/lexiflow/translation-platform/internal/persist"
	"github.com/lexiflow/translation-platform/internal/storage"
)

func main() {
	h, err := buildHandler(context.Background())
	if err != nil {
		panic(fmt.Sprintf("failed to initialize translation platform: %v", err))
	}

	lambda.Start(func(ctx context.Context, event json.RawMessage) (interface{}, error) {
		// Warmup detection (MUST be first - before any other processing)
		if warmup, ok := IsWarmupEvent(event); ok {
			return HandleWarmup(ctx, warmup)
		}

		return h.Handle(ctx, event)
	})
}

// buildHandler wires the server-side pipeline once per cold start.
func buildHandler(ctx context.Context) (*handler.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	provider, err := backend.New(ctx, cfg.Provider, backend.Options{
		OpenAIKey:   cfg.OpenAIKey,
		OpenAIModel: cfg.OpenAIModel,
		Breaker: backend.BreakerSettings{
			ConsecutiveFailures: cfg.BreakerFailures,
			Cooldown:            cfg.BreakerCooldown,
		},
	}, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewS3(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	persister := persist.New(store, cfg.InputBucket, cfg.OutputBucket, cfg.Environment, log)
	orch := orchestrator.New(provider, log)

	return handler.New(orch, persister, log), nil
}
