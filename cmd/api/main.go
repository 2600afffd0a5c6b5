package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/migrations"
	"github.com/Tomlord1122/todoapp/internal/repository"
	"github.com/Tomlord1122/todoapp/internal/server"
	"github.com/Tomlord1122/todoapp/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if err := dbService.Close(); err != nil {
		logger.Error("closing database connection pool", "error", err)
	}

	logger.Info("server exiting")

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	dbService, err := database.New(cfg)
	if err != nil {
		logger.Fatal("open database", "driver", cfg.DBDriver, "error", err)
	}

	// Versioned migrations; production deployments may set AUTO_MIGRATE=false
	// and run cmd/migrate instead.
	if cfg.AutoMigrate {
		if err := migrations.Up(dbService.GetDB()); err != nil {
			logger.Fatal("apply migrations", "error", err)
		}
		logger.Info("database migrations applied")
	}

	gormDB := dbService.GetDB()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	todoService := service.NewTodoService(repository.NewGormTodoRepository(gormDB))
	authService := service.NewAuthService(repository.NewGormUserRepository(gormDB), tokens)

	apiServer := server.NewServer(cfg, server.Dependencies{
		TodoService: todoService,
		AuthService: authService,
		Resolver:    tokens,
		DB:          dbService,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	logger.Info("starting server", "addr", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server ListenAndServe", "error", err)
	}

	<-done
	logger.Info("graceful shutdown complete")
}
