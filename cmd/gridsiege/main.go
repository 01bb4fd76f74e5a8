package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericogr/gridsiege/internal/api"
	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/service"
	"github.com/ericogr/gridsiege/internal/version"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if lvl := os.Getenv(constants.EnvLogLevel); lvl != "" {
		logging.SetLevel(lvl)
	}
	gin.SetMode(gin.ReleaseMode)

	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg := loadConfigOrExit(configPath)

	addr := cfg.ServerAddress
	if v := os.Getenv(constants.EnvListenAddr); v != "" {
		addr = v
	}
	dbPath := cfg.DatabasePath
	if v := os.Getenv(constants.EnvDBPath); v != "" {
		dbPath = v
	}
	repo := createRepositoryOrExit(dbPath)

	mgr := service.NewManager(repo, service.Options{
		Settings:       cfg.Battle,
		RealtimePacing: cfg.RealtimePacing,
		IdleTTL:        cfg.IdleTTL,
	})
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(api.NewBattleHandler(mgr)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr, "version": version.Version, "db": dbPath})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		mgr.RunExpiry(constants.ExpirySweepInterval, gctx.Done())
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		logging.Info("Server shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Fatal("Server stopped with error", err, nil)
	}
}
