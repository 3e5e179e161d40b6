// Package main provides the dungeon server: a Telnet frontend that gives
// every connection its own procedurally generated dungeon.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/bootstrap"
	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/frontend/handlers"
	"github.com/cory-johannsen/dungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/dungeon/internal/game/command"
	"github.com/cory-johannsen/dungeon/internal/game/session"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, observability.WithFields(zap.String("service", "dungeonserver")))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	factory, closeContent, err := bootstrap.NewFactory(cfg.Dungeon, logger)
	if err != nil {
		logger.Fatal("loading dungeon content", zap.Error(err))
	}
	defer closeContent()

	sessions := session.NewManager()
	gameHandler := handlers.NewGameHandler(factory, sessions, command.DefaultRegistry(), logger)
	telnetAcceptor := telnet.NewAcceptor(cfg.Telnet, gameHandler, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: telnetAcceptor.ListenAndServe,
		StopFn:  telnetAcceptor.Stop,
	})

	logger.Info("dungeon server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Int64("seed", cfg.Dungeon.Seed),
		zap.String("tables_file", cfg.Dungeon.TablesFile),
		zap.String("level_script", cfg.Dungeon.LevelScript),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("server error", zap.Error(err))
		closeContent()
		_ = logger.Sync()
		log.Fatalf("server error: %v", err)
	}
}
