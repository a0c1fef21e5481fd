package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/spendbook/backend/internal/auth"
	"github.com/spendbook/backend/internal/config"
	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/server"
	"github.com/spendbook/backend/internal/service"
	"github.com/spendbook/backend/internal/session"
	"github.com/spendbook/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := log.New(log.ParseLevel(cfg.LogLevel), "main")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var st store.Store
	var firebaseAuth *auth.FirebaseAuth

	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Info("using in-memory store")
		st = store.NewMemoryStore()
	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.GoogleCloudProject)
		if err != nil {
			logger.Error("firestore client init failed", "project", cfg.GoogleCloudProject, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		st = store.NewFirestoreStore(client)

		if !cfg.SkipAuth {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx)
			if err != nil {
				logger.Error("firebase auth init failed", "error", err)
				os.Exit(1)
			}
		}
	}
	if cfg.SkipAuth {
		logger.Warn("SKIP_AUTH enabled, requests use mock identities")
	}

	profiles := service.NewProfileService(st, logger)
	expenses := service.NewExpenseService(st, logger)
	sessions := session.NewManager(profiles, expenses, logger)
	srv := server.New(sessions, logger)

	// With real auth the token middleware runs alone. Without it the debug
	// middleware honors impersonation headers and the local-dev middleware
	// fills in a fixed user for anything left unauthenticated.
	var middlewares []func(http.Handler) http.Handler
	if firebaseAuth != nil {
		middlewares = append(middlewares, auth.Middleware(firebaseAuth))
	} else {
		middlewares = append(middlewares, auth.DebugMiddleware(true), auth.LocalDevMiddleware())
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-Debug-User-ID",
			"X-Debug-User-Email",
			"X-Debug-User-Name",
		},
		AllowCredentials: true,
	})

	handler := c.Handler(srv.Router(middlewares...))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	logger.Info("starting server", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := httpSrv.ListenAndServe(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
