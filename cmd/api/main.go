package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"med-tracker/internal/platform/logger"
	"med-tracker/internal/router"
)

// @title Med Tracker API
// @version 0.1
// @description Stock y agenda de medicación: tomas, log inmutable y recordatorios.
// @BasePath /
func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	lg := logger.NewFromEnv()

	r, sched := router.New(router.Options{
		AuthVerifier: nil, // sin verifier para modo dev
		Logger:       lg,
	})

	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler error: %v", err)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
