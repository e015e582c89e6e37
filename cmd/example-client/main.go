package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"rpc-gateway/client"
	"rpc-gateway/gateway/application"
	"rpc-gateway/gateway/domain"
	"rpc-gateway/gateway/infra"
)

func main() {
	// Exemplo: com GATEWAY_URL definido, o cliente usa o fallback HTTP;
	// sem ele, monta um gateway em processo e usa o binding direto.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	envID := os.Getenv("GATEWAY_URL")

	var binding *application.Dispatcher
	if envID == "" {
		envID = "local-env"

		handlers := application.HandlerSet{
			Store:  infra.NewMemoryDocumentStore(),
			Files:  infra.NewDiskFileStore("data/files"),
			Logger: logger,
		}
		binding = &application.Dispatcher{
			Guard:    application.Guard{Counters: infra.NewCounterStore(), Logger: logger},
			Registry: handlers.Registry(),
			Logger:   logger,
		}
	}

	cl, err := client.New(client.Options{EnvID: envID, Logger: logger}, binding)
	if err != nil {
		logger.Fatal().Err(err).Msg("client init failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := cl.Call(ctx, domain.EventAddTodos, map[string]any{
		"id":        "a1",
		"text":      "buy milk",
		"completed": false,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("ADD_TODOS failed")
	}
	logger.Info().Int("code", int(res.Code)).Interface("data", res.Data).Msg("ADD_TODOS")

	res, err = cl.Call(ctx, domain.EventGetTodos, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("GET_TODOS failed")
	}
	logger.Info().Int("code", int(res.Code)).Interface("data", res.Data).Msg("GET_TODOS")

	res, err = cl.Call(ctx, domain.EventRemoveCompleted, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("REMOVE_COMPLETED failed")
	}
	logger.Info().Int("code", int(res.Code)).Interface("data", res.Data).Msg("REMOVE_COMPLETED")
}
