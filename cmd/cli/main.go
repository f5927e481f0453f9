package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/auth"
	"github.com/dmitrijs2005/txviewer/internal/biometric"
	"github.com/dmitrijs2005/txviewer/internal/buildinfo"
	"github.com/dmitrijs2005/txviewer/internal/cli"
	"github.com/dmitrijs2005/txviewer/internal/config"
	"github.com/dmitrijs2005/txviewer/internal/database"
	"github.com/dmitrijs2005/txviewer/internal/filex"
	"github.com/dmitrijs2005/txviewer/internal/logging"
	"github.com/dmitrijs2005/txviewer/internal/repositories/metadata"
	txrepo "github.com/dmitrijs2005/txviewer/internal/repositories/transactions"
	"github.com/dmitrijs2005/txviewer/internal/session"
	"github.com/dmitrijs2005/txviewer/internal/transactions"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		log.Fatalf("%v", err)
	}

	db, err := database.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	n, err := transactions.Seed(ctx, db, cfg.SeedCount, time.Now())
	if err != nil {
		log.Fatalf("%v", err)
	}
	if n > 0 {
		logger.Info(ctx, "seeded mock transactions", "count", n)
	}

	meta := metadata.NewSQLiteRepository(db)
	sensor := biometric.NewPasscodeAuthenticator(meta, logger.With("component", "biometric"),
		biometric.WithLockout(cfg.MaxAttempts, cfg.LockoutDuration))
	coord := auth.NewCoordinator(
		session.NewStore(meta, logger.With("component", "session")),
		sensor,
		logger.With("component", "auth"),
		auth.WithExpiryWindow(cfg.SessionTimeout),
	)
	provider := transactions.NewSQLProvider(txrepo.NewSQLiteRepository(db), logger, cfg.PageSize)

	app := cli.NewApp(cfg, coord, provider, sensor, meta, logger)
	app.Run(ctx)

}
