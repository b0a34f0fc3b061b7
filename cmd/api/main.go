package main

import (
	"net/http"
	"os"
	"time"

	"shelter-status/internal/adapters/auth/directory"
	"shelter-status/internal/platform/logger"
	"shelter-status/internal/ports/auth"
	"shelter-status/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Verifier contra el Identity Directory (si no hay env => modo dev,
	// identidad via headers X-Debug-*).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("DIRECTORY_URL"); baseURL != "" {
		client, err := directory.NewClient(directory.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("DIRECTORY_API_KEY"),
		})
		if err != nil {
			log.Error("invalid directory config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = directory.NewVerifier(client)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr, "dev_auth": verifier == nil})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
