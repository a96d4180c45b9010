package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"taskhub/internal/auth"
	"taskhub/internal/server"
	"taskhub/internal/service"
	"taskhub/internal/storage/sqlite"
	"taskhub/internal/util"
)

func main() {
	_ = godotenv.Load()

	addrFlag := flag.String("addr", util.EnvOrDefault("TASKHUB_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKHUB_DB_PATH", "data/taskhub.db"), "Path to sqlite database file")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKHUB_STATIC_DIR", "web/dist"), "Directory with built frontend")
	secretFlag := flag.String("secret", util.EnvOrDefault("TASKHUB_JWT_SECRET", ""), "HMAC secret for session tokens")
	adminEmail := flag.String("admin-email", util.EnvOrDefault("TASKHUB_ADMIN_EMAIL", "admin@taskhub.local"), "Email for the seeded administrator")
	adminPassword := flag.String("admin-password", util.EnvOrDefault("TASKHUB_ADMIN_PASSWORD", ""), "Password for the seeded administrator")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *secretFlag == "" {
		logger.Error("TASKHUB_JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.Open(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	services := service.New(store, logger)

	if *adminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := services.Users.EnsureAdmin(ctx, "Administrator", *adminEmail, *adminPassword); err != nil {
			cancel()
			logger.Error("unable to seed administrator", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cancel()
	}

	sessions := auth.NewProvider(*secretFlag, 24*time.Hour)
	srv := server.New(services, sessions, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
