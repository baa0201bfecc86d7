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

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/templegold/server/internal/api"
	"github.com/templegold/server/internal/game"
	"github.com/templegold/server/internal/notify"
	"github.com/templegold/server/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"templegold-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Seed     int64  `long:"seed" help:"Deterministic RNG seed (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Seed != 0 {
		cfg.Game.Seed = CLI.Seed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting Temple Gold Server",
		"addr", cfg.ListenAddress(),
		"revealDelayMs", cfg.Game.RevealDelayMs,
		"transitionDelayMs", cfg.Game.TransitionDelayMs,
		"nats", cfg.Nats.Enabled)

	hub := server.NewHub(logger)

	notifiers := []game.Notifier{hub}
	var natsPub *notify.NatsPublisher
	if cfg.Nats.Enabled {
		natsPub, err = notify.NewNatsPublisher(cfg.Nats.URL, cfg.Nats.SubjectPrefix, logger)
		if err != nil {
			logger.Error("nats connection failed, continuing without it", "error", err)
		} else {
			notifiers = append(notifiers, natsPub)
		}
	}

	registry := game.NewRegistry(cfg.GameConfig(), notify.NewMulti(notifiers...), logger, nil)
	hub.SetSnapshotSource(registry)

	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewHandler(registry, logger).Register(router)
	router.GET("/ws", gin.WrapF(hub.HandleWebSocket))

	httpServer := &http.Server{
		Addr:    cfg.ListenAddress(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		hub.Run()
		return nil
	})

	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)

		hub.Stop()
		if natsPub != nil {
			natsPub.Close()
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		kctx.Exit(1)
	}
	logger.Info("Server stopped")
}
