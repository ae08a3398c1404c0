package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inspecciones/webapp/internal/config"
	"inspecciones/webapp/internal/formstore"
	"inspecciones/webapp/internal/inspection"
	"inspecciones/webapp/internal/logger"
	"inspecciones/webapp/internal/server"
)

func main() {
	cfg := config.Get()

	logger.Init()
	logger.Banner(cfg.Host, cfg.Port)

	drafts := formstore.Options{
		Prefix:    cfg.FormCookiePrefix,
		Retention: cfg.FormRetention(),
		Insecure:  !cfg.FormCookieSecure,
	}
	handler := inspection.NewHandler(inspection.NewClient(cfg), drafts, cfg.FormSizeWarnBytes)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	logger.Info("Server listening on %s", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}
	logger.Info("Server stopped")
}
